package crawl

import (
	"github.com/fwojciec/sdkdoc"
)

// Ensure Transformer implements sdkdoc.Transformer at compile time.
var _ sdkdoc.Transformer = (*Transformer)(nil)

// Transformer turns a fetched page into a processed sdkdoc.Page:
// extraction, Markdown conversion, API analysis, categorization and
// cross references. Fingerprinting is left to the pipeline.
type Transformer struct {
	Extractor sdkdoc.Extractor
	Converter sdkdoc.Converter
	// Analyzer is optional; without it pages carry no signatures or examples.
	Analyzer sdkdoc.Analyzer
}

// Transform processes html fetched from url. Every failure is reported
// as ETRANSFORM.
func (t *Transformer) Transform(url, html string) (*sdkdoc.Page, error) {
	extracted, err := t.Extractor.Extract(html)
	if err != nil {
		return nil, transformError("extract", url, err)
	}

	markdown, err := t.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, transformError("convert", url, err)
	}
	if markdown == "" {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "convert %s: empty markdown", url)
	}

	page := &sdkdoc.Page{
		URL:         url,
		Title:       extracted.Title,
		Description: extracted.Description,
		Category:    sdkdoc.Categorize(url),
		Markdown:    markdown,
	}

	if t.Analyzer != nil {
		analysis, err := t.Analyzer.Analyze(extracted.ContentHTML)
		if err != nil {
			return nil, transformError("analyze", url, err)
		}
		page.Signatures = analysis.Signatures
		page.Examples = analysis.Examples
	}

	own := make([]string, 0, len(page.Signatures))
	for _, s := range page.Signatures {
		own = append(own, s.Name)
	}
	page.CrossReferences = sdkdoc.CrossReferences(url, markdown, own, nil)

	return page, nil
}

func transformError(stage, url string, err error) error {
	msg := sdkdoc.ErrorMessage(err)
	if sdkdoc.ErrorCode(err) == sdkdoc.EINTERNAL {
		msg = err.Error()
	}
	return sdkdoc.Errorf(sdkdoc.ETRANSFORM, "%s %s: %s", stage, url, msg)
}
