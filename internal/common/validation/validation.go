package validation

// ValidationResult aggregates field-level failures.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (r *ValidationResult) add(field, message, code string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message, Code: code})
}

func (r *ValidationResult) finish() *ValidationResult {
	r.Valid = len(r.Errors) == 0
	return r
}
