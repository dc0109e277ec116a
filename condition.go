package jsonschema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ValueType is the JSON type named by the "type" keyword. A value may have
// more than one type: 4 is both TypeInteger and TypeNumber.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeBoolean
	TypeNumber
	TypeInteger
	TypeString
	TypeArray
	TypeObject
)

var typeNames = map[string]ValueType{
	"null":    TypeNull,
	"boolean": TypeBoolean,
	"number":  TypeNumber,
	"integer": TypeInteger,
	"string":  TypeString,
	"array":   TypeArray,
	"object":  TypeObject,
}

// typeFromString maps a "type" keyword token to a ValueType.
func typeFromString(s string) (ValueType, bool) {
	t, ok := typeNames[s]
	return t, ok
}

// String returns the type's keyword token.
func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeInteger:
		return "integer"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// Matches reports whether the value is a member of the type.
func (t ValueType) Matches(v any) bool {
	switch t {
	case TypeNull:
		return v == nil
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeNumber:
		_, ok := numberValue(v)
		return ok
	case TypeInteger:
		d, ok := numberValue(v)
		return ok && d.IsInteger()
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeArray:
		_, ok := v.([]any)
		return ok
	case TypeObject:
		_, ok := v.(map[string]any)
		return ok
	default:
		return false
	}
}

// Condition is a single constraint a schema puts on a value. The set of
// conditions is closed: every implementation lives in this file, and each
// must supply its evaluation priority and its check, so a new keyword cannot
// be added without deciding both.
//
// Conditions reference child schemas by registry URI, never by node, which
// is what makes reference cycles representable.
type Condition interface {
	fmt.Stringer

	// Keyword returns the validation keyword (family) the condition was
	// compiled from.
	Keyword() string

	// priority orders evaluation so cheap, highly discriminating checks
	// run first; lower runs earlier.
	priority() int

	// check evaluates the condition against a value. Conditions are
	// type-orthogonal: a value of a non-applicable type passes vacuously.
	check(s *scope, v any) error
}

// Evaluation priorities. Type dominates everything, direct scalar checks
// come next, then object-shape checks, then conditions that recurse into
// whole subschemas.
const (
	priorityType       = 0
	priorityScalar     = 10
	priorityProperties = 20
	priorityApplicator = 100
	priorityDefault    = 1000
)

// Type constrains the value to one of a set of JSON types.
type Type struct {
	Types []ValueType
}

func (c *Type) Keyword() string { return "type" }
func (c *Type) priority() int   { return priorityType }
func (c *Type) String() string {
	names := make([]string, len(c.Types))
	for i, t := range c.Types {
		names[i] = t.String()
	}
	return "type: " + strings.Join(names, " | ")
}

func (c *Type) check(s *scope, v any) error {
	for _, t := range c.Types {
		if t.Matches(v) {
			return nil
		}
	}
	return conditionFailed(c)
}

// MultipleOf requires a numeric value to be an integer multiple of Factor.
type MultipleOf struct {
	Factor decimal.Decimal
}

func (c *MultipleOf) Keyword() string { return "multipleOf" }
func (c *MultipleOf) priority() int   { return priorityScalar }
func (c *MultipleOf) String() string  { return "multipleOf: " + c.Factor.String() }

func (c *MultipleOf) check(s *scope, v any) error {
	d, ok := numberValue(v)
	if !ok {
		return nil
	}
	if !d.Mod(c.Factor).IsZero() {
		return conditionFailed(c)
	}
	return nil
}

// Maximum requires a numeric value to be at most Bound.
type Maximum struct {
	Bound decimal.Decimal
}

func (c *Maximum) Keyword() string { return "maximum" }
func (c *Maximum) priority() int   { return priorityScalar }
func (c *Maximum) String() string  { return "maximum: " + c.Bound.String() }

func (c *Maximum) check(s *scope, v any) error {
	if d, ok := numberValue(v); ok && d.Cmp(c.Bound) > 0 {
		return conditionFailed(c)
	}
	return nil
}

// ExclusiveMaximum requires a numeric value to be strictly less than Bound.
type ExclusiveMaximum struct {
	Bound decimal.Decimal
}

func (c *ExclusiveMaximum) Keyword() string { return "exclusiveMaximum" }
func (c *ExclusiveMaximum) priority() int   { return priorityScalar }
func (c *ExclusiveMaximum) String() string  { return "exclusiveMaximum: " + c.Bound.String() }

func (c *ExclusiveMaximum) check(s *scope, v any) error {
	if d, ok := numberValue(v); ok && d.Cmp(c.Bound) >= 0 {
		return conditionFailed(c)
	}
	return nil
}

// Minimum requires a numeric value to be at least Bound.
type Minimum struct {
	Bound decimal.Decimal
}

func (c *Minimum) Keyword() string { return "minimum" }
func (c *Minimum) priority() int   { return priorityScalar }
func (c *Minimum) String() string  { return "minimum: " + c.Bound.String() }

func (c *Minimum) check(s *scope, v any) error {
	if d, ok := numberValue(v); ok && d.Cmp(c.Bound) < 0 {
		return conditionFailed(c)
	}
	return nil
}

// ExclusiveMinimum requires a numeric value to be strictly greater than Bound.
type ExclusiveMinimum struct {
	Bound decimal.Decimal
}

func (c *ExclusiveMinimum) Keyword() string { return "exclusiveMinimum" }
func (c *ExclusiveMinimum) priority() int   { return priorityScalar }
func (c *ExclusiveMinimum) String() string  { return "exclusiveMinimum: " + c.Bound.String() }

func (c *ExclusiveMinimum) check(s *scope, v any) error {
	if d, ok := numberValue(v); ok && d.Cmp(c.Bound) <= 0 {
		return conditionFailed(c)
	}
	return nil
}

// MaxLength limits the length of a string value, counted in characters.
type MaxLength struct {
	Limit uint64
}

func (c *MaxLength) Keyword() string { return "maxLength" }
func (c *MaxLength) priority() int   { return priorityScalar }
func (c *MaxLength) String() string  { return fmt.Sprintf("maxLength: %d", c.Limit) }

func (c *MaxLength) check(s *scope, v any) error {
	if str, ok := v.(string); ok && uint64(utf8.RuneCountInString(str)) > c.Limit {
		return conditionFailed(c)
	}
	return nil
}

// MinLength requires a minimum string length, counted in characters.
type MinLength struct {
	Limit uint64
}

func (c *MinLength) Keyword() string { return "minLength" }
func (c *MinLength) priority() int   { return priorityScalar }
func (c *MinLength) String() string  { return fmt.Sprintf("minLength: %d", c.Limit) }

func (c *MinLength) check(s *scope, v any) error {
	if str, ok := v.(string); ok && uint64(utf8.RuneCountInString(str)) < c.Limit {
		return conditionFailed(c)
	}
	return nil
}

// Pattern requires a string value to match a regular expression. Identity
// (for structural comparison) is the Source string, not the compiled engine
// state.
type Pattern struct {
	Source string
	Regexp *regexp.Regexp
}

func (c *Pattern) Keyword() string { return "pattern" }
func (c *Pattern) priority() int   { return priorityScalar }
func (c *Pattern) String() string  { return "pattern: " + c.Source }

func (c *Pattern) check(s *scope, v any) error {
	if str, ok := v.(string); ok && !c.Regexp.MatchString(str) {
		return conditionFailed(c)
	}
	return nil
}

// Items checks array elements: element i against Positional[i] when it
// exists, otherwise against Trailing when present, otherwise unconstrained.
// An empty Trailing means no trailing schema.
type Items struct {
	Positional []string
	Trailing   string
}

func (c *Items) Keyword() string { return "items" }
func (c *Items) priority() int   { return priorityDefault }
func (c *Items) String() string {
	return fmt.Sprintf("items: %d positional", len(c.Positional))
}

func (c *Items) check(s *scope, v any) error {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	for i, elem := range arr {
		uri := c.Trailing
		if i < len(c.Positional) {
			uri = c.Positional[i]
		}
		if uri == "" {
			continue
		}
		if err := s.validate(uri, elem); err != nil {
			return err
		}
	}
	return nil
}

// MaxItems limits the number of elements in an array value.
type MaxItems struct {
	Limit uint64
}

func (c *MaxItems) Keyword() string { return "maxItems" }
func (c *MaxItems) priority() int   { return priorityDefault }
func (c *MaxItems) String() string  { return fmt.Sprintf("maxItems: %d", c.Limit) }

func (c *MaxItems) check(s *scope, v any) error {
	if arr, ok := v.([]any); ok && uint64(len(arr)) > c.Limit {
		return conditionFailed(c)
	}
	return nil
}

// MinItems requires a minimum number of elements in an array value.
type MinItems struct {
	Limit uint64
}

func (c *MinItems) Keyword() string { return "minItems" }
func (c *MinItems) priority() int   { return priorityDefault }
func (c *MinItems) String() string  { return fmt.Sprintf("minItems: %d", c.Limit) }

func (c *MinItems) check(s *scope, v any) error {
	if arr, ok := v.([]any); ok && uint64(len(arr)) < c.Limit {
		return conditionFailed(c)
	}
	return nil
}

// UniqueItems forbids duplicate elements in an array value when Enabled.
type UniqueItems struct {
	Enabled bool
}

func (c *UniqueItems) Keyword() string { return "uniqueItems" }
func (c *UniqueItems) priority() int   { return priorityDefault }
func (c *UniqueItems) String() string  { return fmt.Sprintf("uniqueItems: %v", c.Enabled) }

func (c *UniqueItems) check(s *scope, v any) error {
	arr, ok := v.([]any)
	if !ok || !c.Enabled {
		return nil
	}
	for i := range arr {
		for j := i + 1; j < len(arr); j++ {
			if jsonEqual(arr[i], arr[j]) {
				return conditionFailed(c)
			}
		}
	}
	return nil
}

// Contains requires at least one array element to validate against Schema.
type Contains struct {
	Schema string
}

func (c *Contains) Keyword() string { return "contains" }
func (c *Contains) priority() int   { return priorityDefault }
func (c *Contains) String() string  { return "contains: " + c.Schema }

func (c *Contains) check(s *scope, v any) error {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	for _, elem := range arr {
		ok, err := s.passes(c.Schema, elem)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return conditionFailed(c)
}

// MaxProperties limits the number of members of an object value.
type MaxProperties struct {
	Limit uint64
}

func (c *MaxProperties) Keyword() string { return "maxProperties" }
func (c *MaxProperties) priority() int   { return priorityDefault }
func (c *MaxProperties) String() string  { return fmt.Sprintf("maxProperties: %d", c.Limit) }

func (c *MaxProperties) check(s *scope, v any) error {
	if obj, ok := v.(map[string]any); ok && uint64(len(obj)) > c.Limit {
		return conditionFailed(c)
	}
	return nil
}

// MinProperties requires a minimum number of members of an object value.
type MinProperties struct {
	Limit uint64
}

func (c *MinProperties) Keyword() string { return "minProperties" }
func (c *MinProperties) priority() int   { return priorityDefault }
func (c *MinProperties) String() string  { return fmt.Sprintf("minProperties: %d", c.Limit) }

func (c *MinProperties) check(s *scope, v any) error {
	if obj, ok := v.(map[string]any); ok && uint64(len(obj)) < c.Limit {
		return conditionFailed(c)
	}
	return nil
}

// Required lists member names an object value must have.
type Required struct {
	Names []string
}

func (c *Required) Keyword() string { return "required" }
func (c *Required) priority() int   { return priorityScalar }
func (c *Required) String() string  { return "required: " + strings.Join(c.Names, ", ") }

func (c *Required) check(s *scope, v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, name := range c.Names {
		if _, ok := obj[name]; !ok {
			return conditionFailed(c)
		}
	}
	return nil
}

// PatternProperty pairs a compiled member-name pattern with the schema that
// applies to matching members.
type PatternProperty struct {
	Source string
	Regexp *regexp.Regexp
	Schema string
}

// Properties merges the properties, patternProperties and
// additionalProperties keywords into one condition so the exemption rule can
// be applied: a member matched by name or by any pattern is exempt from the
// additional-properties schema.
type Properties struct {
	// Named maps exact member names to schema URIs.
	Named map[string]string
	// Patterns are applied to every member whose name matches; several may
	// apply to the same member. Ordered by pattern source for determinism.
	Patterns []PatternProperty
	// Additional is the schema for members matched by neither; empty means
	// unconstrained.
	Additional string
}

func (c *Properties) Keyword() string { return "properties" }
func (c *Properties) priority() int   { return priorityProperties }
func (c *Properties) String() string {
	return fmt.Sprintf("properties: %d named, %d patterns", len(c.Named), len(c.Patterns))
}

func (c *Properties) check(s *scope, v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for name, member := range obj {
		matched := false
		if uri, ok := c.Named[name]; ok {
			matched = true
			if err := s.validate(uri, member); err != nil {
				return err
			}
		}
		for _, p := range c.Patterns {
			if !p.Regexp.MatchString(name) {
				continue
			}
			matched = true
			if err := s.validate(p.Schema, member); err != nil {
				return err
			}
		}
		if !matched && c.Additional != "" {
			if err := s.validate(c.Additional, member); err != nil {
				return err
			}
		}
	}
	return nil
}

// Dependency is one entry of a dependencies keyword: when Name is present
// in an object, either all Names must also be present (property form) or
// the whole object must validate against Schema (schema form, Names nil).
type Dependency struct {
	Name   string
	Names  []string
	Schema string
}

// Dependencies holds the entries of a dependencies keyword, ordered by
// triggering member name.
type Dependencies struct {
	Deps []Dependency
}

func (c *Dependencies) Keyword() string { return "dependencies" }
func (c *Dependencies) priority() int   { return priorityDefault }
func (c *Dependencies) String() string  { return fmt.Sprintf("dependencies: %d entries", len(c.Deps)) }

func (c *Dependencies) check(s *scope, v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, dep := range c.Deps {
		if _, ok := obj[dep.Name]; !ok {
			continue
		}
		if dep.Schema != "" {
			if err := s.validate(dep.Schema, v); err != nil {
				return err
			}
			continue
		}
		for _, name := range dep.Names {
			if _, ok := obj[name]; !ok {
				return conditionFailed(c)
			}
		}
	}
	return nil
}

// PropertyNames validates every member name of an object value, as a
// string, against Schema.
type PropertyNames struct {
	Schema string
}

func (c *PropertyNames) Keyword() string { return "propertyNames" }
func (c *PropertyNames) priority() int   { return priorityDefault }
func (c *PropertyNames) String() string  { return "propertyNames: " + c.Schema }

func (c *PropertyNames) check(s *scope, v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for name := range obj {
		ok, err := s.passes(c.Schema, name)
		if err != nil {
			return err
		}
		if !ok {
			return conditionFailed(c)
		}
	}
	return nil
}

// Enum requires the value to equal one of Values.
type Enum struct {
	Values []any
}

func (c *Enum) Keyword() string { return "enum" }
func (c *Enum) priority() int   { return priorityDefault }
func (c *Enum) String() string  { return fmt.Sprintf("enum: %d values", len(c.Values)) }

func (c *Enum) check(s *scope, v any) error {
	for _, want := range c.Values {
		if jsonEqual(v, want) {
			return nil
		}
	}
	return conditionFailed(c)
}

// Const requires the value to equal Value.
type Const struct {
	Value any
}

func (c *Const) Keyword() string { return "const" }
func (c *Const) priority() int   { return priorityDefault }
func (c *Const) String() string  { return "const" }

func (c *Const) check(s *scope, v any) error {
	if !jsonEqual(v, c.Value) {
		return conditionFailed(c)
	}
	return nil
}

// AllOf requires the value to validate against every listed schema.
type AllOf struct {
	Schemas []string
}

func (c *AllOf) Keyword() string { return "allOf" }
func (c *AllOf) priority() int   { return priorityApplicator }
func (c *AllOf) String() string  { return fmt.Sprintf("allOf: %d schemas", len(c.Schemas)) }

func (c *AllOf) check(s *scope, v any) error {
	for _, uri := range c.Schemas {
		if err := s.validate(uri, v); err != nil {
			return err
		}
	}
	return nil
}

// AnyOf requires the value to validate against at least one listed schema.
type AnyOf struct {
	Schemas []string
}

func (c *AnyOf) Keyword() string { return "anyOf" }
func (c *AnyOf) priority() int   { return priorityApplicator }
func (c *AnyOf) String() string  { return fmt.Sprintf("anyOf: %d schemas", len(c.Schemas)) }

func (c *AnyOf) check(s *scope, v any) error {
	for _, uri := range c.Schemas {
		ok, err := s.passes(uri, v)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return conditionFailed(c)
}

// OneOf requires the value to validate against exactly one listed schema.
type OneOf struct {
	Schemas []string
}

func (c *OneOf) Keyword() string { return "oneOf" }
func (c *OneOf) priority() int   { return priorityDefault }
func (c *OneOf) String() string  { return fmt.Sprintf("oneOf: %d schemas", len(c.Schemas)) }

func (c *OneOf) check(s *scope, v any) error {
	matches := 0
	for _, uri := range c.Schemas {
		ok, err := s.passes(uri, v)
		if err != nil {
			return err
		}
		if ok {
			matches++
			if matches > 1 {
				return conditionFailed(c)
			}
		}
	}
	if matches != 1 {
		return conditionFailed(c)
	}
	return nil
}

// Not requires the value to fail validation against Schema.
type Not struct {
	Schema string
}

func (c *Not) Keyword() string { return "not" }
func (c *Not) priority() int   { return priorityDefault }
func (c *Not) String() string  { return "not: " + c.Schema }

func (c *Not) check(s *scope, v any) error {
	ok, err := s.passes(c.Schema, v)
	if err != nil {
		return err
	}
	if ok {
		return conditionFailed(c)
	}
	return nil
}
