package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and description from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>XPLMCamera - X-Plane Developer</title>
<meta property="og:title" content="XPLMCamera">
<meta name="description" content="Camera control APIs for X-Plane plugins.">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>XPLMCamera</h1>
<p>The XPLMCamera APIs allow plugins to control the camera angle in X-Plane.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Equal(t, "Camera control APIs for X-Plane plugins.", result.Description)
	})

	t.Run("extracts main content without boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>XPLMDisplay</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/sdk/">SDK Home</a></li>
<li><a href="/sdk/XPLMCamera/">XPLMCamera</a></li>
</ul>
</nav>
<article>
<h1>XPLMDisplay</h1>
<p>This API provides the basic hooks to draw in X-Plane and create user interface.</p>
<pre><code>XPLM_API int XPLMRegisterDrawCallback(XPLMDrawCallback_f inCallback, XPLMDrawingPhase inPhase, int inWantsBefore, void *inRefcon);</code></pre>
</article>
<footer>
<p>Copyright Laminar Research</p>
</footer>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "basic hooks to draw")
		assert.Contains(t, result.ContentHTML, "XPLMRegisterDrawCallback")
		assert.NotContains(t, result.ContentHTML, "main-nav")
		assert.NotContains(t, result.ContentHTML, "Copyright Laminar Research")
	})

	t.Run("preserves code blocks", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Plugin Example</title></head>
<body>
<article>
<h1>Hello World Plugin</h1>
<p>Every plugin exports the start and stop callbacks:</p>
<pre><code class="language-c">#include "XPLMPlugin.h"

PLUGIN_API int XPluginStart(char *outName, char *outSig, char *outDesc)
{
    return 1;
}
</code></pre>
<p>The callback returns one to signal success.</p>
</article>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "XPluginStart")
	})

	t.Run("returns invalid for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("  ")

		require.Error(t, err)
		assert.Equal(t, sdkdoc.EINVALID, sdkdoc.ErrorCode(err))
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Simple content</p></body></html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Simple content")
	})
}
