package validation

// Validator checks a struct and returns field errors keyed by json field name.
// A nil or empty map means the value is valid.
type Validator interface {
	ValidateStruct(s any) map[string]string
}
