package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sdkdoc"
)

// Ensure Analyzer implements sdkdoc.Analyzer at compile time.
var _ sdkdoc.Analyzer = (*Analyzer)(nil)

var (
	xplmAPIRe    = regexp.MustCompile(`XPLM_API\s+([\w\s\*]+?)\s*\b(\w+)\s*\([^)]*\)`)
	cFunctionRe  = regexp.MustCompile(`(?m)^\s*([A-Za-z_][\w\s\*]*?)\s*\b(\w+)\s*\([^)]*\)\s*;`)
	fnTypedefRe  = regexp.MustCompile(`typedef\s+[^;]*?\(\s*\*\s*(\w+)\s*\)\s*\([^)]*\)\s*;`)
	typedefRe    = regexp.MustCompile(`typedef\s+[^;({]*?\b(\w+)\s*;`)
	defineRe     = regexp.MustCompile(`(?m)^\s*#define\s+(\w+)\s+(.+)$`)
	declHeadRe   = regexp.MustCompile(`^(?:XPLM_API\s+)?([\w\s\*]+?)\s*\b(\w+)\s*\(`)
	paramListRe  = regexp.MustCompile(`(?s)\((.*)\)\s*;?\s*$`)
	blockCommRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	languageRe   = regexp.MustCompile(`(?:^|\s)(?:language|lang)-([\w+#-]+)`)
	cHeuristicRe = regexp.MustCompile(`\b(int|char|float|double|void|struct|typedef)\b|\bXP[A-Z][a-zA-Z]*\b|#include\s*[<"]`)
	pythonRe     = regexp.MustCompile(`(?m)^\s*(def |import |from \w+ import )`)
	jsRe         = regexp.MustCompile(`(?m)^\s*(function\s+\w+\s*\(|const |let |var )`)
)

// notReturnTypes are statement keywords the plain C declaration pattern
// would otherwise mistake for a return type.
var notReturnTypes = map[string]bool{
	"return": true, "if": true, "while": true, "for": true, "switch": true,
	"else": true, "sizeof": true, "case": true, "new": true, "delete": true,
	"do": true, "goto": true,
}

// minExampleChars is the size below which a single-line block is treated
// as a bare declaration rather than an example.
const minExampleChars = 50

// Analyzer extracts API declarations and code examples from SDK content.
type Analyzer struct{}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze parses contentHTML. Structured function and enum blocks are read
// first; declarations found only inside code blocks are appended after
// them. Names are unique across the result.
func (a *Analyzer) Analyze(contentHTML string) (*sdkdoc.Analysis, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "failed to parse HTML: %v", err)
	}

	var sigs []sdkdoc.APISignature
	seen := make(map[string]bool)
	add := func(s sdkdoc.APISignature) {
		if s.Name == "" || seen[s.Name] {
			return
		}
		seen[s.Name] = true
		sigs = append(sigs, s)
	}

	doc.Find("div.function, section.function").Each(func(_ int, s *goquery.Selection) {
		name := collapse(s.Find("h2.sdk-api-function, h3.sdk-api-function").First().Text())
		if name == "" {
			return
		}
		sig := sdkdoc.APISignature{
			Kind:        sdkdoc.SignatureFunction,
			Name:        name,
			Description: collapse(s.Find("p").First().Text()),
			Deprecated:  s.HasClass("XPLM_DEPRECATED") || s.Find(".XPLM_DEPRECATED, .deprecated").Length() > 0,
		}
		if pre := s.Find("pre").First(); pre.Length() > 0 {
			sig.Signature = strings.TrimSpace(pre.Text())
			sig.ReturnType = parseReturnType(sig.Signature)
			sig.Parameters = ParseParameters(sig.Signature)
		}
		add(sig)
	})

	doc.Find("div.enum, section.enum").Each(func(_ int, s *goquery.Selection) {
		name := collapse(s.Find("h2.sdk-api-enum, h3.sdk-api-enum").First().Text())
		if name == "" {
			return
		}
		sig := sdkdoc.APISignature{Kind: sdkdoc.SignatureEnum, Name: name}
		s.Find("table tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("td")
			if i == 0 && cells.Length() == 0 || cells.Length() < 2 {
				return
			}
			v := sdkdoc.EnumValue{Name: collapse(cells.First().Text())}
			if cells.Length() >= 3 {
				v.Description = collapse(cells.Last().Text())
			}
			sig.Values = append(sig.Values, v)
		})
		add(sig)
	})

	doc.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		for _, s := range declarationsIn(pre.Text()) {
			add(s)
		}
	})

	return &sdkdoc.Analysis{Signatures: sigs, Examples: extractExamples(doc)}, nil
}

// declarationsIn finds declarations in raw code text.
func declarationsIn(code string) []sdkdoc.APISignature {
	var out []sdkdoc.APISignature
	for _, m := range xplmAPIRe.FindAllStringSubmatch(code, -1) {
		out = append(out, sdkdoc.APISignature{
			Kind:       sdkdoc.SignatureFunction,
			Name:       m[2],
			Signature:  collapse(m[0]),
			ReturnType: collapse(m[1]),
			Parameters: ParseParameters(m[0]),
		})
	}
	for _, m := range cFunctionRe.FindAllStringSubmatch(code, -1) {
		ret := collapse(m[1])
		if ret == "" || notReturnTypes[strings.Fields(ret)[0]] || strings.HasPrefix(ret, "typedef") {
			continue
		}
		decl := collapse(strings.TrimSpace(m[0]))
		out = append(out, sdkdoc.APISignature{
			Kind:       sdkdoc.SignatureFunction,
			Name:       m[2],
			Signature:  decl,
			ReturnType: ret,
			Parameters: ParseParameters(decl),
		})
	}
	for _, m := range fnTypedefRe.FindAllStringSubmatch(code, -1) {
		out = append(out, sdkdoc.APISignature{Kind: sdkdoc.SignatureTypedef, Name: m[1], Signature: collapse(m[0])})
	}
	for _, m := range typedefRe.FindAllStringSubmatch(code, -1) {
		out = append(out, sdkdoc.APISignature{Kind: sdkdoc.SignatureTypedef, Name: m[1], Signature: collapse(m[0])})
	}
	for _, m := range defineRe.FindAllStringSubmatch(code, -1) {
		out = append(out, sdkdoc.APISignature{Kind: sdkdoc.SignatureDefine, Name: m[1], Signature: strings.TrimSpace(m[0])})
	}
	return out
}

func parseReturnType(signature string) string {
	m := declHeadRe.FindStringSubmatch(strings.TrimSpace(signature))
	if m == nil {
		return ""
	}
	return collapse(m[1])
}

// ParseParameters splits the parameter list of a C declaration, honouring
// nested parentheses and brackets. A pointer marker written on the name
// moves to the type. A "void" list yields no parameters.
func ParseParameters(signature string) []sdkdoc.Parameter {
	m := paramListRe.FindStringSubmatch(strings.TrimSpace(signature))
	if m == nil {
		return nil
	}
	list := strings.TrimSpace(m[1])
	if list == "" || list == "void" {
		return nil
	}

	var (
		parts   []string
		depth   int
		current strings.Builder
	)
	for _, r := range list {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, current.String())
				current.Reset()
				continue
			}
		}
		current.WriteRune(r)
	}
	parts = append(parts, current.String())

	var params []sdkdoc.Parameter
	for _, p := range parts {
		p = collapse(blockCommRe.ReplaceAllString(p, ""))
		fields := strings.Fields(p)
		if len(fields) < 2 {
			continue
		}
		name := fields[len(fields)-1]
		typ := strings.Join(fields[:len(fields)-1], " ")
		if stars := len(name) - len(strings.TrimLeft(name, "*&")); stars > 0 {
			typ += " " + name[:stars]
		}
		params = append(params, sdkdoc.Parameter{Type: typ, Name: strings.Trim(name, "*&")})
	}
	return params
}

// extractExamples collects code blocks, skipping one-line declarations
// and duplicates.
func extractExamples(doc *goquery.Document) []sdkdoc.CodeExample {
	var examples []sdkdoc.CodeExample
	seen := make(map[uint64]bool)
	doc.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		code := strings.TrimSpace(pre.Text())
		lines := strings.Count(code, "\n") + 1
		if lines < 2 && len(code) < minExampleChars {
			return
		}
		h := xxhash.Sum64String(code)
		if seen[h] {
			return
		}
		seen[h] = true

		examples = append(examples, sdkdoc.CodeExample{
			Language: DetectLanguage(pre, code),
			Kind:     classifyExample(code, lines),
			Code:     code,
			Context:  exampleContext(pre),
		})
	})
	return examples
}

// DetectLanguage reads a language-* class on the block, its code child or
// its parent, then falls back to content heuristics. SDK code defaults to
// cpp.
func DetectLanguage(pre *goquery.Selection, code string) string {
	for _, s := range []*goquery.Selection{pre, pre.Find("code").First(), pre.Parent()} {
		if m := languageRe.FindStringSubmatch(s.AttrOr("class", "")); m != nil {
			return normalizeLanguage(m[1])
		}
	}
	switch {
	case pythonRe.MatchString(code):
		return "python"
	case jsRe.MatchString(code) && !cHeuristicRe.MatchString(code):
		return "javascript"
	}
	return "cpp"
}

func normalizeLanguage(lang string) string {
	switch lang = strings.ToLower(lang); lang {
	case "c++", "cxx", "cc":
		return "cpp"
	case "js":
		return "javascript"
	case "py":
		return "python"
	}
	return lang
}

func classifyExample(code string, lines int) sdkdoc.ExampleKind {
	switch {
	case strings.Contains(code, "main("):
		return sdkdoc.ExampleProgram
	case lines > 10, strings.Contains(code, "#include") && lines > 5:
		return sdkdoc.ExampleExample
	}
	return sdkdoc.ExampleSnippet
}

const maxContextChars = 200

// exampleContext returns the text of the closest preceding heading or
// paragraph, walking up through ancestors.
func exampleContext(pre *goquery.Selection) string {
	for s := pre; s.Length() > 0 && !s.Is("body"); s = s.Parent() {
		prev := s.PrevAllFiltered("h1, h2, h3, h4, h5, h6, p").First()
		if prev.Length() > 0 {
			text := collapse(prev.Text())
			if r := []rune(text); len(r) > maxContextChars {
				text = string(r[:maxContextChars])
			}
			return text
		}
	}
	return ""
}
