package crawl_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/crawl"
	"github.com/fwojciec/sdkdoc/goquery"
	"github.com/fwojciec/sdkdoc/htmltomarkdown"
	"github.com/fwojciec/sdkdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cameraHTML = `<html><head><title>XPLMCamera</title>
<meta name="description" content="Camera control"></head>
<body><nav><a href="/sdk/">SDK</a></nav>
<article class="page">
<h1>XPLMCamera</h1>
<p>Use XPLMControlCamera to drive the view. See XPLMDisplay for drawing.</p>
<div class="function">
<h3 class="sdk-api-function">XPLMControlCamera</h3>
<pre>XPLM_API void XPLMControlCamera(int inHowLong, XPLMCameraControl_f inControlFunc, void * inRefcon);</pre>
<p>Takes control of the camera.</p>
</div>
</article></body></html>`

func TestTransformer_Transform(t *testing.T) {
	t.Parallel()

	t.Run("builds a page from SDK HTML", func(t *testing.T) {
		t.Parallel()

		tr := &crawl.Transformer{
			Extractor: goquery.NewExtractor(),
			Converter: htmltomarkdown.NewConverter(),
			Analyzer:  goquery.NewAnalyzer(),
		}
		url := "https://developer.x-plane.com/sdk/XPLMCamera/"

		page, err := tr.Transform(url, cameraHTML)

		require.NoError(t, err)
		assert.Equal(t, url, page.URL)
		assert.Equal(t, "XPLMCamera", page.Title)
		assert.Equal(t, "Camera control", page.Description)
		assert.Equal(t, "XPLM_Camera", page.Category)
		assert.Contains(t, page.Markdown, "# XPLMCamera")
		assert.Contains(t, page.Markdown, "```cpp")
		assert.NotContains(t, page.Markdown, "[SDK]")
		assert.False(t, page.Fingerprint.Known())
		require.NotEmpty(t, page.Signatures)
		assert.Equal(t, "XPLMControlCamera", page.Signatures[0].Name)
		assert.Equal(t, []string{"XPLMDisplay"}, page.CrossReferences)
	})

	t.Run("works without an analyzer", func(t *testing.T) {
		t.Parallel()

		tr := &crawl.Transformer{
			Extractor: goquery.NewExtractor(),
			Converter: htmltomarkdown.NewConverter(),
		}

		page, err := tr.Transform("https://developer.x-plane.com/sdk/XPLMCamera/", cameraHTML)

		require.NoError(t, err)
		assert.Empty(t, page.Signatures)
		assert.Empty(t, page.Examples)
	})

	t.Run("reports extraction failures as transform errors", func(t *testing.T) {
		t.Parallel()

		tr := &crawl.Transformer{
			Extractor: &mock.Extractor{
				ExtractFn: func(_ string) (*sdkdoc.ExtractResult, error) {
					return nil, errors.New("parser crashed")
				},
			},
			Converter: htmltomarkdown.NewConverter(),
		}

		_, err := tr.Transform("https://developer.x-plane.com/sdk/XPLMCamera/", "<html>")

		require.Error(t, err)
		assert.Equal(t, sdkdoc.ETRANSFORM, sdkdoc.ErrorCode(err))
		assert.Contains(t, sdkdoc.ErrorMessage(err), "parser crashed")
	})

	t.Run("reports conversion failures as transform errors", func(t *testing.T) {
		t.Parallel()

		tr := &crawl.Transformer{
			Extractor: &mock.Extractor{
				ExtractFn: func(_ string) (*sdkdoc.ExtractResult, error) {
					return &sdkdoc.ExtractResult{ContentHTML: " "}, nil
				},
			},
			Converter: htmltomarkdown.NewConverter(),
		}

		_, err := tr.Transform("https://developer.x-plane.com/sdk/XPLMCamera/", "<html>")

		require.Error(t, err)
		assert.Equal(t, sdkdoc.ETRANSFORM, sdkdoc.ErrorCode(err))
	})

	t.Run("reports empty markdown", func(t *testing.T) {
		t.Parallel()

		tr := &crawl.Transformer{
			Extractor: &mock.Extractor{
				ExtractFn: func(_ string) (*sdkdoc.ExtractResult, error) {
					return &sdkdoc.ExtractResult{ContentHTML: "<p>x</p>"}, nil
				},
			},
			Converter: &mock.Converter{
				ConvertFn: func(_ string) (string, error) { return "", nil },
			},
		}

		_, err := tr.Transform("https://developer.x-plane.com/sdk/XPLMCamera/", "<html>")

		require.Error(t, err)
		assert.Equal(t, sdkdoc.ETRANSFORM, sdkdoc.ErrorCode(err))
	})

	t.Run("attaches analyzer results", func(t *testing.T) {
		t.Parallel()

		tr := &crawl.Transformer{
			Extractor: goquery.NewExtractor(),
			Converter: htmltomarkdown.NewConverter(),
			Analyzer: &mock.Analyzer{
				AnalyzeFn: func(_ string) (*sdkdoc.Analysis, error) {
					return &sdkdoc.Analysis{
						Signatures: []sdkdoc.APISignature{{Name: "XPLMControlCamera"}},
						Examples:   []sdkdoc.CodeExample{{Code: "XPLMControlCamera(1, cb, NULL);"}},
					}, nil
				},
			},
		}

		page, err := tr.Transform("https://developer.x-plane.com/sdk/XPLMCamera/", cameraHTML)

		require.NoError(t, err)
		require.Len(t, page.Signatures, 1)
		assert.Equal(t, "XPLMControlCamera", page.Signatures[0].Name)
		require.Len(t, page.Examples, 1)
		assert.Equal(t, []string{"XPLMDisplay"}, page.CrossReferences)
	})

	t.Run("reports analyzer failures as transform errors", func(t *testing.T) {
		t.Parallel()

		tr := &crawl.Transformer{
			Extractor: goquery.NewExtractor(),
			Converter: htmltomarkdown.NewConverter(),
			Analyzer: &mock.Analyzer{
				AnalyzeFn: func(_ string) (*sdkdoc.Analysis, error) {
					return nil, errors.New("bad signature block")
				},
			},
		}

		_, err := tr.Transform("https://developer.x-plane.com/sdk/XPLMCamera/", cameraHTML)

		require.Error(t, err)
		assert.Equal(t, sdkdoc.ETRANSFORM, sdkdoc.ErrorCode(err))
		assert.Contains(t, sdkdoc.ErrorMessage(err), "analyze")
		assert.Contains(t, sdkdoc.ErrorMessage(err), "bad signature block")
	})
}
