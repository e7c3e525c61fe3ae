package readability_test

import (
	"testing"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readability.NewExtractor().Extract("")

	require.Error(t, err)
	assert.Equal(t, sdkdoc.EINVALID, sdkdoc.ErrorCode(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>XPLMMenus</title></head>
<body><article><p>The XPLMMenus API lets plugins add menus to the X-Plane menu bar.</p></article></body>
</html>`

	result, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Equal(t, "XPLMMenus", result.Title)
}

func TestExtractor_RemovesChrome(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>XPLMDataAccess</title></head>
<body>
<header><p>X-Plane Developer site header</p></header>
<nav><a href="/sdk/">SDK Nav Link</a><a href="/sdk/XPLMCamera/">Camera Nav Link</a></nav>
<aside class="sidebar"><p>Sidebar navigation content</p></aside>
<article><p>The data access API gives plugins access to datarefs shared between plugins and the sim.</p></article>
<footer><p>Footer copyright text 2024</p></footer>
</body>
</html>`

	result, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "access to datarefs")
	assert.NotContains(t, result.ContentHTML, "SDK Nav Link")
	assert.NotContains(t, result.ContentHTML, "site header")
	assert.NotContains(t, result.ContentHTML, "Sidebar navigation content")
	assert.NotContains(t, result.ContentHTML, "Footer copyright text")
}

func TestExtractor_PreservesStructure(t *testing.T) {
	t.Parallel()

	// go-readability may demote h1 to h2, but heading text is preserved
	html := `<!DOCTYPE html>
<html>
<head><title>XPLMProcessing</title></head>
<body>
<article>
<h1>XPLMProcessing</h1>
<p>Flight loop callbacks run on the main thread between simulator frames.</p>
<h2>XPLMFlightLoopPhaseType</h2>
<p>Use the <code>inFlightLoop</code> argument to choose the phase.</p>
<table>
<tr><th>Name</th><th>Value</th></tr>
<tr><td>xplm_FlightLoop_Phase_BeforeFlightModel</td><td>0</td></tr>
</table>
<ul>
<li>Before the flight model</li>
<li>After the flight model</li>
</ul>
</article>
</body>
</html>`

	result, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "XPLMFlightLoopPhaseType")
	assert.Contains(t, result.ContentHTML, "<h2")
	assert.Contains(t, result.ContentHTML, "<code")
	assert.Contains(t, result.ContentHTML, "<table")
	assert.Contains(t, result.ContentHTML, "<li")
}

func TestExtractor_PreservesCodeBlocks(t *testing.T) {
	t.Parallel()

	// Syntax highlighters wrap code in span elements
	html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<p>Register the callback at startup:</p>
<pre><code class="language-cpp"><span class="token">XPLMRegisterFlightLoopCallback</span>(<span class="token">MyCallback</span>, 1.0, NULL);</code></pre>
<p>The interval is in seconds.</p>
</article>
</body>
</html>`

	result, err := readability.NewExtractor().Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "<pre")
	assert.Contains(t, result.ContentHTML, "XPLMRegisterFlightLoopCallback")
	assert.Contains(t, result.ContentHTML, "language-cpp")
}
