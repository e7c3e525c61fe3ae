package mock

import "github.com/fwojciec/sdkdoc"

var _ sdkdoc.Context7Validator = (*Context7Validator)(nil)

// Context7Validator is a mock implementation of sdkdoc.Context7Validator.
type Context7Validator struct {
	ValidateFn func(file string, data []byte) ([]sdkdoc.Issue, error)
}

func (v *Context7Validator) Validate(file string, data []byte) ([]sdkdoc.Issue, error) {
	return v.ValidateFn(file, data)
}
