package sdkdoc

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Section represents a heading in a markdown document.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
	Line   int    `json:"line"`
}

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+?)(?:\s+#+)?\s*$`)

// ExtractSections parses markdown and returns all ATX headings (H1-H6)
// outside fenced code blocks, with 1-based line numbers. Anchors are
// URL-safe and duplicates get numeric suffixes.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	var sections []Section
	anchorCounts := make(map[string]int)

	inFence := false
	for i, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		match := headingRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		title := strings.TrimSpace(match[2])
		baseAnchor := generateAnchor(title)
		anchor := baseAnchor
		if count, exists := anchorCounts[baseAnchor]; exists {
			anchor = baseAnchor + "-" + strconv.Itoa(count)
			anchorCounts[baseAnchor]++
		} else {
			anchorCounts[baseAnchor] = 1
		}

		sections = append(sections, Section{
			Level:  len(match[1]),
			Title:  title,
			Anchor: anchor,
			Line:   i + 1,
		})
	}

	return sections
}

// generateAnchor creates a URL-safe anchor from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func generateAnchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}

// CodeBlock is a fenced code block.
type CodeBlock struct {
	Language string
	Code     string
	Line     int
}

// ExtractCodeBlocks returns the fenced code blocks of markdown.
// An unterminated fence runs to the end of the document.
func ExtractCodeBlocks(markdown string) []CodeBlock {
	var (
		blocks  []CodeBlock
		current *CodeBlock
		body    []string
	)
	for i, line := range strings.Split(markdown, "\n") {
		if !strings.HasPrefix(line, "```") {
			if current != nil {
				body = append(body, line)
			}
			continue
		}
		if current == nil {
			current = &CodeBlock{
				Language: strings.TrimSpace(strings.TrimPrefix(line, "```")),
				Line:     i + 1,
			}
			body = body[:0]
			continue
		}
		current.Code = strings.Join(body, "\n")
		blocks = append(blocks, *current)
		current = nil
	}
	if current != nil {
		current.Code = strings.Join(body, "\n")
		blocks = append(blocks, *current)
	}
	return blocks
}

// Frontmatter returns the lines between a leading "---" fence pair.
// ok is false when the document has no frontmatter; closed is false when
// the opening fence is never closed.
func Frontmatter(markdown string) (lines []string, ok, closed bool) {
	all := strings.Split(markdown, "\n")
	if len(all) == 0 || strings.TrimSpace(all[0]) != "---" {
		return nil, false, false
	}
	for i := 1; i < len(all); i++ {
		if strings.TrimSpace(all[i]) == "---" {
			return all[1:i], true, true
		}
	}
	return all[1:], true, false
}

// Link is an inline markdown link.
type Link struct {
	Text   string
	Target string
}

var linkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)

// ExtractLinks returns the inline links of markdown outside code blocks.
func ExtractLinks(markdown string) []Link {
	var links []Link
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, m := range linkRe.FindAllStringSubmatch(line, -1) {
			links = append(links, Link{Text: m[1], Target: m[2]})
		}
	}
	return links
}
