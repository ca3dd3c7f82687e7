package validators

// ValidationResult is the outcome of business-rule validation. Data is nil
// when extraction failed.
type ValidationResult struct {
	IsValid  bool        `json:"isValid"`
	Errors   []string    `json:"errors"`
	Warnings []string    `json:"warnings"`
	Data     interface{} `json:"data"`
}

func failedExtraction(message string) *ValidationResult {
	return &ValidationResult{
		IsValid:  false,
		Errors:   []string{message},
		Warnings: []string{},
		Data:     nil,
	}
}
