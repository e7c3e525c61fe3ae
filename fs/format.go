package fs

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/sdkdoc"
	"gopkg.in/yaml.v3"
)

// FormatFrontmatter renders the YAML frontmatter block of a document.
// Values are always double quoted.
func FormatFrontmatter(title, description, category string, date time.Time) string {
	fields := [][2]string{
		{"title", title},
		{"description", description},
		{"category", category},
		{"date", date.UTC().Format(time.RFC3339)},
	}
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f[0]},
			&yaml.Node{Kind: yaml.ScalarNode, Value: f[1], Style: yaml.DoubleQuotedStyle},
		)
	}

	var b strings.Builder
	b.WriteString("---\n")
	enc := yaml.NewEncoder(&b)
	_ = enc.Encode(doc)
	_ = enc.Close()
	b.WriteString("---\n\n")
	return b.String()
}

// NormalizeHeadings shifts the ATX headings of markdown outside code
// blocks so the shallowest one sits at level base. Levels are clamped
// to 1..6.
func NormalizeHeadings(markdown string, base int) string {
	sections := sdkdoc.ExtractSections(markdown)
	if len(sections) == 0 {
		return markdown
	}
	minLevel := 6
	for _, s := range sections {
		minLevel = min(minLevel, s.Level)
	}
	shift := base - minLevel
	if shift == 0 {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	for _, s := range sections {
		line := lines[s.Line-1]
		rest := strings.TrimLeft(line, "#")
		level := min(max(s.Level+shift, 1), 6)
		lines[s.Line-1] = strings.Repeat("#", level) + rest
	}
	return strings.Join(lines, "\n")
}

// FormatSignature renders an API signature as a markdown section.
func FormatSignature(sig sdkdoc.APISignature) string {
	var b strings.Builder

	switch {
	case sig.Kind == sdkdoc.SignatureEnum:
		fmt.Fprintf(&b, "### %s (Enum)\n\n", sig.Name)
	default:
		fmt.Fprintf(&b, "### %s\n\n", sig.Name)
	}
	if sig.Signature != "" && sig.Kind != sdkdoc.SignatureEnum {
		fmt.Fprintf(&b, "```cpp\n%s\n```\n\n", sig.Signature)
	}
	if sig.Description != "" {
		b.WriteString(sig.Description + "\n\n")
	}
	if len(sig.Parameters) > 0 {
		b.WriteString("**Parameters:**\n\n")
		for _, p := range sig.Parameters {
			fmt.Fprintf(&b, "- `%s` (%s)\n", p.Name, p.Type)
		}
		b.WriteString("\n")
	}
	if len(sig.Values) > 0 {
		b.WriteString("**Values:**\n\n")
		b.WriteString("| Name | Description |\n")
		b.WriteString("|------|-------------|\n")
		for _, v := range sig.Values {
			desc := v.Description
			if desc == "" {
				desc = "No description available"
			}
			fmt.Fprintf(&b, "| %s | %s |\n", v.Name, desc)
		}
		b.WriteString("\n")
	}
	if sig.Deprecated {
		b.WriteString("**Deprecated:** do not use in new code.\n\n")
	}
	return b.String()
}

// maxPlaceholderURLs caps the URL list of a category without content.
const maxPlaceholderURLs = 10

// FormatCategory renders the document for one category. Pages with
// content are embedded with their headings nested under the document
// title; without any pages the document lists the catalog URLs instead.
func FormatCategory(cat sdkdoc.Category, pages []*sdkdoc.Page, urls []string, date time.Time) string {
	var b strings.Builder
	b.WriteString(FormatFrontmatter(cat.Title, "X-Plane SDK "+cat.Title+" documentation", cat.Name, date))
	fmt.Fprintf(&b, "# %s\n\n", cat.Title)

	if len(pages) == 0 {
		fmt.Fprintf(&b, "This section contains %d API pages.\n\n", len(urls))
		if len(urls) > 0 {
			b.WriteString("## Available APIs\n\n")
			for i, u := range urls {
				if i == maxPlaceholderURLs {
					fmt.Fprintf(&b, "\n... and %d more APIs.\n", len(urls)-maxPlaceholderURLs)
					break
				}
				fmt.Fprintf(&b, "- [%s](%s)\n", sdkdoc.PageName(u), u)
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	for _, p := range pages {
		body := strings.TrimSpace(p.Markdown)
		if body == "" {
			fmt.Fprintf(&b, "## %s\n\n", pageTitle(p))
			for _, sig := range p.Signatures {
				b.WriteString(FormatSignature(sig))
			}
			continue
		}
		if len(sdkdoc.ExtractSections(body)) == 0 {
			fmt.Fprintf(&b, "## %s\n\n", pageTitle(p))
			b.WriteString(body)
		} else {
			b.WriteString(NormalizeHeadings(body, 2))
		}
		b.WriteString("\n\n")
		if len(p.CrossReferences) > 0 {
			fmt.Fprintf(&b, "**Related:** `%s`\n\n", strings.Join(p.CrossReferences, "`, `"))
		}
		fmt.Fprintf(&b, "Source: <%s>\n\n", p.URL)
	}
	return b.String()
}

func pageTitle(p *sdkdoc.Page) string {
	if p.Title != "" {
		return p.Title
	}
	return sdkdoc.PageName(p.URL)
}

// IndexEntry is a link listed in an index document.
type IndexEntry struct {
	Title string
	Path  string
}

// FormatIndex renders a README index document.
func FormatIndex(title, description, category, intro string, entries []IndexEntry, date time.Time) string {
	var b strings.Builder
	b.WriteString(FormatFrontmatter(title, description, category, date))
	fmt.Fprintf(&b, "# %s\n\n", title)
	if intro != "" {
		b.WriteString(intro + "\n\n")
	}
	b.WriteString("## Available Documentation\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- [%s](./%s)\n", e.Title, e.Path)
	}
	return b.String()
}
