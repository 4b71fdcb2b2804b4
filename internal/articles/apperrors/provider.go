package apperrors

import "fmt"

// ProviderFailure normalizes an error returned by a generative model SDK.
// StatusCode and Code are zero values when the SDK does not expose them.
type ProviderFailure struct {
	Provider   string
	Model      string
	StatusCode int
	Code       string
	Err        error
}

func (f *ProviderFailure) Error() string {
	switch {
	case f.StatusCode != 0 && f.Code != "":
		return fmt.Sprintf("%s %s: status %d (%s): %v", f.Provider, f.Model, f.StatusCode, f.Code, f.Err)
	case f.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d: %v", f.Provider, f.Model, f.StatusCode, f.Err)
	default:
		return fmt.Sprintf("%s %s: %v", f.Provider, f.Model, f.Err)
	}
}

func (f *ProviderFailure) Unwrap() error {
	return f.Err
}
