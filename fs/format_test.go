package fs_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/fs"
	"github.com/stretchr/testify/assert"
)

var fixedDate = time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)

func TestFormatFrontmatter(t *testing.T) {
	t.Parallel()

	got := fs.FormatFrontmatter("Camera APIs", "X-Plane SDK Camera APIs documentation", "XPLM_Camera", fixedDate)

	want := "---\n" +
		"title: \"Camera APIs\"\n" +
		"description: \"X-Plane SDK Camera APIs documentation\"\n" +
		"category: \"XPLM_Camera\"\n" +
		"date: \"2026-05-04T03:02:01Z\"\n" +
		"---\n\n"
	assert.Equal(t, want, got)
}

func TestNormalizeHeadings(t *testing.T) {
	t.Parallel()

	t.Run("shifts shallowest heading to base", func(t *testing.T) {
		t.Parallel()

		got := fs.NormalizeHeadings("# A\n\ntext\n\n## B\n", 2)

		assert.Equal(t, "## A\n\ntext\n\n### B\n", got)
	})

	t.Run("leaves code blocks alone", func(t *testing.T) {
		t.Parallel()

		got := fs.NormalizeHeadings("# A\n\n```sh\n# comment\n```\n", 2)

		assert.Equal(t, "## A\n\n```sh\n# comment\n```\n", got)
	})

	t.Run("clamps at level six", func(t *testing.T) {
		t.Parallel()

		got := fs.NormalizeHeadings("## A\n\n###### B\n", 3)

		assert.Equal(t, "### A\n\n###### B\n", got)
	})

	t.Run("returns text without headings unchanged", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "plain", fs.NormalizeHeadings("plain", 2))
	})
}

func TestFormatSignature(t *testing.T) {
	t.Parallel()

	t.Run("renders function with parameters", func(t *testing.T) {
		t.Parallel()

		got := fs.FormatSignature(sdkdoc.APISignature{
			Kind:        sdkdoc.SignatureFunction,
			Name:        "XPLMGetDatai",
			Signature:   "int XPLMGetDatai(XPLMDataRef inDataRef)",
			Description: "Reads an integer dataref.",
			Parameters:  []sdkdoc.Parameter{{Type: "XPLMDataRef", Name: "inDataRef"}},
		})

		assert.Contains(t, got, "### XPLMGetDatai\n")
		assert.Contains(t, got, "```cpp\nint XPLMGetDatai(XPLMDataRef inDataRef)\n```")
		assert.Contains(t, got, "- `inDataRef` (XPLMDataRef)")
	})

	t.Run("renders enum values as table", func(t *testing.T) {
		t.Parallel()

		got := fs.FormatSignature(sdkdoc.APISignature{
			Kind:   sdkdoc.SignatureEnum,
			Name:   "XPLMMouseStatus",
			Values: []sdkdoc.EnumValue{{Name: "xplm_MouseDown", Description: "Pressed"}, {Name: "xplm_MouseUp"}},
		})

		assert.Contains(t, got, "### XPLMMouseStatus (Enum)")
		assert.Contains(t, got, "| xplm_MouseDown | Pressed |")
		assert.Contains(t, got, "| xplm_MouseUp | No description available |")
		assert.NotContains(t, got, "```")
	})
}

func TestFormatCategory(t *testing.T) {
	t.Parallel()

	camera, _ := sdkdoc.LookupCategory("XPLM_Camera")

	t.Run("lists catalog urls when no page was processed", func(t *testing.T) {
		t.Parallel()

		var urls []string
		for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
			urls = append(urls, "https://developer.x-plane.com/sdk/Camera"+name+"/")
		}

		got := fs.FormatCategory(camera, nil, urls, fixedDate)

		assert.Contains(t, got, "# Camera APIs\n")
		assert.Contains(t, got, "This section contains 12 API pages.")
		assert.Contains(t, got, "- [Cameraa](https://developer.x-plane.com/sdk/Cameraa/)")
		assert.NotContains(t, got, "Camerak")
		assert.Contains(t, got, "... and 2 more APIs.")
		assert.Equal(t, 10, strings.Count(got, "\n- ["))
	})

	t.Run("nests page headings under document title", func(t *testing.T) {
		t.Parallel()

		pages := []*sdkdoc.Page{{
			URL:             "https://developer.x-plane.com/sdk/XPLMCamera/",
			Title:           "XPLMCamera",
			Markdown:        "# XPLMCamera\n\n## XPLMControlCamera\n\nTakes control.",
			CrossReferences: []string{"XPLMDisplay"},
		}}

		got := fs.FormatCategory(camera, pages, nil, fixedDate)

		assert.Contains(t, got, "## XPLMCamera\n")
		assert.Contains(t, got, "### XPLMControlCamera\n")
		assert.Contains(t, got, "**Related:** `XPLMDisplay`")
		assert.Contains(t, got, "Source: <https://developer.x-plane.com/sdk/XPLMCamera/>")
	})

	t.Run("renders signatures when page has no markdown", func(t *testing.T) {
		t.Parallel()

		pages := []*sdkdoc.Page{{
			URL: "https://developer.x-plane.com/sdk/XPLMReadCameraPosition/",
			Signatures: []sdkdoc.APISignature{{
				Kind:      sdkdoc.SignatureFunction,
				Name:      "XPLMReadCameraPosition",
				Signature: "void XPLMReadCameraPosition(XPLMCameraPosition_t *outCameraPosition)",
			}},
		}}

		got := fs.FormatCategory(camera, pages, nil, fixedDate)

		assert.Contains(t, got, "## XPLMReadCameraPosition\n")
		assert.Contains(t, got, "### XPLMReadCameraPosition\n")
	})
}

func TestFormatIndex(t *testing.T) {
	t.Parallel()

	got := fs.FormatIndex("API Reference", "index", "api", "", []fs.IndexEntry{
		{Title: "Camera APIs", Path: "xplm-camera.md"},
	}, fixedDate)

	assert.Contains(t, got, "# API Reference\n")
	assert.Contains(t, got, "- [Camera APIs](./xplm-camera.md)\n")
}
