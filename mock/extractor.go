package mock

import "github.com/fwojciec/sdkdoc"

var _ sdkdoc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sdkdoc.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*sdkdoc.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*sdkdoc.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ sdkdoc.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of sdkdoc.Analyzer.
type Analyzer struct {
	AnalyzeFn func(contentHTML string) (*sdkdoc.Analysis, error)
}

func (a *Analyzer) Analyze(contentHTML string) (*sdkdoc.Analysis, error) {
	return a.AnalyzeFn(contentHTML)
}
