package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/sdkdoc"
)

// Ensure Converter implements sdkdoc.Converter at compile time.
var _ sdkdoc.Converter = (*Converter)(nil)

// DefaultLanguage labels fenced code blocks that carry no language hint.
const DefaultLanguage = "cpp"

var (
	blankRunRe = regexp.MustCompile(`\n{3,}`)
	fenceRe    = regexp.MustCompile("^(\\s*)(```+|~~~+)\\s*(\\S*)\\s*$")
)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv     *converter.Converter
	language string
}

// Option configures a Converter.
type Option func(*Converter)

// WithDefaultLanguage sets the language applied to unlabeled code fences.
// An empty language leaves them unlabeled.
func WithDefaultLanguage(lang string) Option {
	return func(c *Converter) {
		c.language = lang
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	c := &Converter{conv: conv, language: DefaultLanguage}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML content into Markdown, labels bare code fences
// with the default language and collapses runs of blank lines.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", sdkdoc.Errorf(sdkdoc.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", sdkdoc.Errorf(sdkdoc.ETRANSFORM, "failed to convert HTML: %v", err)
	}

	return c.postProcess(result), nil
}

func (c *Converter) postProcess(md string) string {
	lines := strings.Split(md, "\n")
	var fence string
	for i, line := range lines {
		m := fenceRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if fence != "" {
			// Only a bare fence of the same kind closes the block.
			if m[3] == "" && strings.HasPrefix(m[2], fence[:1]) && len(m[2]) >= len(fence) {
				fence = ""
			}
			continue
		}
		fence = m[2]
		lang := strings.TrimPrefix(m[3], "language-")
		if lang == "" {
			lang = c.language
		}
		lines[i] = m[1] + m[2] + lang
	}
	md = strings.Join(lines, "\n")
	md = blankRunRe.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md) + "\n"
}
