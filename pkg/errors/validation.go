package errors

import "unicode"

// maxNameLength bounds type, field and node identifiers.
const maxNameLength = 256

// ValidateTypeName validates a schema type name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Must start with a letter or underscore
//   - Only letters, digits, underscores, dots and dashes afterwards
//   - Maximum length of 256 characters
func ValidateTypeName(name string) error {
	if err := validateIdent(name, "type name"); err != nil {
		return New(ErrCodeInvalidSchema, "%s", err.Message)
	}
	return nil
}

// ValidateFieldName validates a field name in a type descriptor.
// It applies the same character rules as ValidateTypeName.
func ValidateFieldName(name string) error {
	if err := validateIdent(name, "field name"); err != nil {
		return New(ErrCodeInvalidSchema, "%s", err.Message)
	}
	return nil
}

// ValidateNodeID validates a caller-supplied node identifier.
// Identifiers are opaque but must be non-empty, printable and free of
// whitespace so they can be used as table keys and file-safe cache keys.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxNameLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxNameLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "node id %q contains whitespace or control characters", id)
		}
	}
	return nil
}

func validateIdent(name, what string) *Error {
	if name == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", what)
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", what, maxNameLength)
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '.' || r == '-'):
		default:
			return New(ErrCodeInvalidInput, "%s %q contains invalid character %q", what, name, r)
		}
	}
	return nil
}
