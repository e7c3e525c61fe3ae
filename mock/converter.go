package mock

import "github.com/fwojciec/sdkdoc"

var _ sdkdoc.Converter = (*Converter)(nil)

// Converter is a mock implementation of sdkdoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ sdkdoc.Transformer = (*Transformer)(nil)

// Transformer is a mock implementation of sdkdoc.Transformer.
type Transformer struct {
	TransformFn func(url, html string) (*sdkdoc.Page, error)
}

func (t *Transformer) Transform(url, html string) (*sdkdoc.Page, error) {
	return t.TransformFn(url, html)
}
