package document

// ProcessingResult is the shared outcome type for validation and
// correction. Data holds the typed Document after a successful
// validation, or the best-effort corrected text after a correction
// pass. A failed result is still usable: Errors explains what remains
// wrong and Data carries whatever was salvaged.
type ProcessingResult struct {
	Success     bool           `json:"success"`
	Data        any            `json:"data,omitempty"`
	Errors      []string       `json:"errors,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
	Corrections []string       `json:"corrections,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// IsValid reports whether the result succeeded with no errors.
func (r *ProcessingResult) IsValid() bool {
	return r.Success && len(r.Errors) == 0
}

// Document returns the typed document carried by a validation result,
// or nil if the result holds no document.
func (r *ProcessingResult) Document() Document {
	doc, ok := r.Data.(Document)
	if !ok {
		return nil
	}
	return doc
}

// Text returns the corrected text carried by a correction result, or
// an empty string if the result holds no text.
func (r *ProcessingResult) Text() string {
	s, ok := r.Data.(string)
	if !ok {
		return ""
	}
	return s
}
