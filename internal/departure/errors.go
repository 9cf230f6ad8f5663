package departure

import "fmt"

// APIError represents a failed call to the FGC open-data API
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("FGC API error: %s: %v", e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("FGC API error: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("FGC API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func NewAPIError(message string, err error) *APIError {
	return &APIError{
		Message: message,
		Err:     err,
	}
}
