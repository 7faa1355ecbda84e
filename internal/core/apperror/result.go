package apperror

// ErrorDetails is the sanitized pair a caller may see besides the message.
type ErrorDetails struct {
	Code string `json:"code,omitempty"`
	Hint string `json:"hint,omitempty"`
}

// Result is the failure envelope returned across the API boundary.
type Result struct {
	Success      bool          `json:"success"`
	Error        string        `json:"error"`
	ErrorType    Category      `json:"errorType"`
	ErrorDetails *ErrorDetails `json:"errorDetails,omitempty"`
}

// ToResult classifies err and builds its failure envelope. Causes, stack
// traces and internal details never leave the server.
func ToResult(err error) Result {
	appErr := Classify(err)
	if appErr == nil {
		return Result{Success: true}
	}

	res := Result{
		Success:   false,
		Error:     appErr.Message,
		ErrorType: appErr.Category,
	}

	code := appErr.SQLState()
	if code == "" && appErr.Category != CategoryUnknown {
		code = appErr.Code
	}
	if code != "" || appErr.Hint != "" {
		res.ErrorDetails = &ErrorDetails{Code: code, Hint: appErr.Hint}
	}
	return res
}
