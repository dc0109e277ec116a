package jsonschema

import "fmt"

// CompileErrorKind classifies the ways a schema document can fail to compile.
type CompileErrorKind int

const (
	// InvalidSchemaType indicates a schema node that is neither an object
	// nor a boolean.
	InvalidSchemaType CompileErrorKind = iota
	// InvalidKeywordType indicates a known keyword whose value has the
	// wrong JSON type (e.g. a numeric "pattern").
	InvalidKeywordType
	// InvalidKeywordValue indicates a keyword value of the right JSON type
	// but with invalid content (e.g. an unknown "type" token or a negative
	// "maxLength").
	InvalidKeywordValue
	// InvalidId indicates a "$id" that does not parse as a URI.
	InvalidId
	// BadPattern indicates a regular expression that failed to compile.
	BadPattern
	// SubschemaUsesSchemaKeyword indicates "$schema" on a non-root node.
	SubschemaUsesSchemaKeyword
	// UnknownSchemaVersion indicates a "$schema" other than the draft-06
	// dialect identifier.
	UnknownSchemaVersion
	// MetaschemaFailedToValidate indicates the document was rejected by the
	// metaschema before compilation was attempted. Only reported by
	// registries configured with WithMetaschemaCheck.
	MetaschemaFailedToValidate
)

// String returns the kind's name.
func (k CompileErrorKind) String() string {
	switch k {
	case InvalidSchemaType:
		return "invalid schema type"
	case InvalidKeywordType:
		return "invalid keyword type"
	case InvalidKeywordValue:
		return "invalid keyword value"
	case InvalidId:
		return "invalid $id"
	case BadPattern:
		return "bad pattern"
	case SubschemaUsesSchemaKeyword:
		return "subschema uses $schema keyword"
	case UnknownSchemaVersion:
		return "unknown schema version"
	case MetaschemaFailedToValidate:
		return "metaschema failed to validate"
	default:
		return fmt.Sprintf("CompileErrorKind(%d)", int(k))
	}
}

// CompileError is returned by Compile when a schema document is rejected.
// A compile error leaves the registry exactly as it was before the call.
type CompileError struct {
	Kind CompileErrorKind

	// Keyword is the schema keyword being processed, when applicable.
	Keyword string

	// Detail is the offending value or token, when applicable.
	Detail string

	// Err is the underlying cause (URL parse error, regexp error, or the
	// ValidationError from the metaschema check).
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := "jsonschema: " + e.Kind.String()
	if e.Keyword != "" {
		msg += fmt.Sprintf(" for %q", e.Keyword)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *CompileError) Unwrap() error { return e.Err }

// ValidationErrorKind classifies the ways a value can fail validation.
type ValidationErrorKind int

const (
	// ConditionFailed indicates a specific condition rejected the value.
	ConditionFailed ValidationErrorKind = iota
	// NoValuesPass indicates the value was checked against the "false"
	// schema, which admits nothing.
	NoValuesPass
	// BadReference indicates a $ref pointed at a URI missing from the
	// registry. This is a caller or configuration error, not a data error.
	BadReference
	// RefDepthExceeded indicates the reference chain exceeded the limit set
	// with WithRefDepthLimit.
	RefDepthExceeded
)

// String returns the kind's name.
func (k ValidationErrorKind) String() string {
	switch k {
	case ConditionFailed:
		return "condition failed"
	case NoValuesPass:
		return "no values pass"
	case BadReference:
		return "bad reference"
	case RefDepthExceeded:
		return "reference depth exceeded"
	default:
		return fmt.Sprintf("ValidationErrorKind(%d)", int(k))
	}
}

// ValidationError is returned by Validate when a value does not conform.
type ValidationError struct {
	Kind ValidationErrorKind

	// Condition identifies the constraint that rejected the value when
	// Kind is ConditionFailed.
	Condition Condition

	// URI is the unresolvable reference when Kind is BadReference.
	URI string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch e.Kind {
	case ConditionFailed:
		return fmt.Sprintf("jsonschema: condition failed: %s", e.Condition)
	case BadReference:
		return fmt.Sprintf("jsonschema: bad reference: %s", e.URI)
	default:
		return "jsonschema: " + e.Kind.String()
	}
}

// conditionFailed wraps a condition in its failure error.
func conditionFailed(c Condition) error {
	return &ValidationError{Kind: ConditionFailed, Condition: c}
}
