package sdkdoc

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

// Severity ranks validation issues.
type Severity string

// Issue severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single validation finding.
type Issue struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	Severity Severity `json:"severity"`
}

func (i Issue) String() string {
	loc := ""
	if i.File != "" {
		loc = " (" + i.File
		if i.Line > 0 {
			loc += fmt.Sprintf(":%d", i.Line)
		}
		loc += ")"
	}
	return fmt.Sprintf("[%s] %s: %s%s", strings.ToUpper(string(i.Severity)), i.Type, i.Message, loc)
}

// MinimalContentLength is the shortest page content not flagged as minimal.
const MinimalContentLength = 100

// maxListedMissing caps per-URL issues for missing pages.
const maxListedMissing = 10

// CheckCompleteness compares the catalog against the processed pages.
func CheckCompleteness(catalog []string, pages []*Page) []Issue {
	var issues []Issue

	byURL := make(map[string]*Page, len(pages))
	for _, p := range pages {
		byURL[p.URL] = p
	}
	inCatalog := make(map[string]bool, len(catalog))
	var missing []string
	for _, u := range catalog {
		inCatalog[u] = true
		if _, ok := byURL[u]; !ok {
			missing = append(missing, u)
		}
	}

	if len(missing) > 0 {
		issues = append(issues, Issue{
			Type:     "MISSING_URLS",
			Message:  fmt.Sprintf("Found %d URLs that were not processed", len(missing)),
			Severity: SeverityError,
		})
		for i, u := range missing {
			if i == maxListedMissing {
				issues = append(issues, Issue{
					Type:     "URL_NOT_PROCESSED",
					Message:  fmt.Sprintf("... and %d more URLs", len(missing)-maxListedMissing),
					Severity: SeverityWarning,
				})
				break
			}
			issues = append(issues, Issue{
				Type:     "URL_NOT_PROCESSED",
				Message:  "URL not processed: " + u,
				Severity: SeverityWarning,
			})
		}
	}

	extra := 0
	for _, p := range pages {
		if !inCatalog[p.URL] {
			extra++
		}
	}
	if extra > 0 {
		issues = append(issues, Issue{
			Type:     "EXTRA_URLS",
			Message:  fmt.Sprintf("Found %d URLs that were processed but are not in the catalog", extra),
			Severity: SeverityWarning,
		})
	}

	for _, p := range pages {
		content := strings.TrimSpace(p.Markdown)
		switch {
		case content == "":
			issues = append(issues, Issue{Type: "EMPTY_CONTENT", Message: "Empty content for URL: " + p.URL, Severity: SeverityError})
		case len(content) < MinimalContentLength:
			issues = append(issues, Issue{Type: "MINIMAL_CONTENT", Message: "Very short content for URL: " + p.URL, Severity: SeverityWarning})
		}
	}

	return issues
}

var xplmCallRe = regexp.MustCompile(`XPLM\w+\s*\(`)

// CheckMarkdown validates one generated document. file is the document
// path relative to the docs root, using forward slashes. exists reports
// whether a docs-root relative path exists.
func CheckMarkdown(file, content string, exists func(rel string) bool) []Issue {
	var issues []Issue
	add := func(typ, msg string, line int, sev Severity) {
		issues = append(issues, Issue{Type: typ, Message: msg, File: file, Line: line, Severity: sev})
	}

	front, ok, closed := Frontmatter(content)
	switch {
	case !ok:
		add("MISSING_FRONTMATTER", "File missing frontmatter", 0, SeverityError)
	case !closed:
		add("INVALID_FRONTMATTER", "Frontmatter not properly closed", 0, SeverityError)
	default:
		hasTitle := false
		for _, l := range front {
			if strings.HasPrefix(strings.TrimSpace(l), "title:") {
				hasTitle = true
			}
		}
		if !hasTitle {
			add("MISSING_TITLE", "Frontmatter missing title field", 0, SeverityError)
		}
	}

	sections := ExtractSections(content)
	for i := 1; i < len(sections); i++ {
		prev, curr := sections[i-1], sections[i]
		if curr.Level > prev.Level+1 {
			add("HEADING_HIERARCHY", fmt.Sprintf("Heading level jumps from %d to %d", prev.Level, curr.Level), curr.Line, SeverityWarning)
		}
	}

	for _, block := range ExtractCodeBlocks(content) {
		lang := strings.ToLower(block.Language)
		switch {
		case lang == "":
			add("MISSING_LANGUAGE", "Code block missing language specification", block.Line, SeverityWarning)
		case (lang == "c" || lang == "cpp" || lang == "c++") && strings.Contains(block.Code, "XPLM") && !xplmCallRe.MatchString(block.Code):
			add("INVALID_API_SYNTAX", "Possible malformed XPLM API call", block.Line, SeverityWarning)
		}
	}

	anchors := make(map[string]bool, len(sections))
	for _, s := range sections {
		anchors[s.Anchor] = true
	}
	dir := path.Dir(file)
	for _, link := range ExtractLinks(content) {
		target := link.Target
		switch {
		case strings.HasPrefix(target, "#"):
			if !anchors[strings.TrimPrefix(target, "#")] {
				add("BROKEN_ANCHOR", "Broken anchor link: "+target, 0, SeverityWarning)
			}
		case strings.HasPrefix(target, "./"), strings.HasPrefix(target, "../"):
			rel := target
			if i := strings.IndexByte(rel, '#'); i >= 0 {
				rel = rel[:i]
			}
			if !exists(path.Join(dir, rel)) {
				add("BROKEN_LINK", "Broken internal link: "+target, 0, SeverityError)
			}
		}
	}

	return issues
}

// Content quality thresholds for a complete SDK corpus.
const (
	MinAPIFunctions = 50
	MinCodeExamples = 20
)

// CheckContentQuality inspects extracted API metadata across pages.
func CheckContentQuality(pages []*Page) []Issue {
	var issues []Issue
	functions, examples := 0, 0

	for _, p := range pages {
		for _, s := range p.Signatures {
			if s.Kind != SignatureFunction {
				continue
			}
			functions++
			switch {
			case s.Name == "":
				issues = append(issues, Issue{Type: "MISSING_API_NAME", Message: "API signature missing name for URL: " + p.URL, Severity: SeverityError})
			case !strings.HasPrefix(s.Name, "XPLM") && !strings.HasPrefix(s.Name, "XP"):
				issues = append(issues, Issue{Type: "INVALID_API_NAME", Message: "API function name should start with XPLM: " + s.Name, Severity: SeverityWarning})
			}
			if s.Description == "" {
				issues = append(issues, Issue{Type: "MISSING_DESCRIPTION", Message: "API signature missing description for: " + s.Name, Severity: SeverityInfo})
			}
		}
		for _, e := range p.Examples {
			examples++
			code := strings.TrimSpace(e.Code)
			switch {
			case code == "":
				issues = append(issues, Issue{Type: "EMPTY_CODE_EXAMPLE", Message: "Empty code example found for URL: " + p.URL, Severity: SeverityError})
			case len(code) < 20:
				issues = append(issues, Issue{Type: "MINIMAL_CODE_EXAMPLE", Message: "Very short code example for URL: " + p.URL, Severity: SeverityWarning})
			}
		}
		if p.Category == "" {
			issues = append(issues, Issue{Type: "MISSING_CATEGORY", Message: "Content missing category for URL: " + p.URL, Severity: SeverityWarning})
		} else if _, ok := LookupCategory(p.Category); !ok {
			issues = append(issues, Issue{Type: "INVALID_CATEGORY", Message: "Unknown category: " + p.Category, Severity: SeverityWarning})
		}
	}

	if functions < MinAPIFunctions {
		issues = append(issues, Issue{Type: "LOW_API_COUNT", Message: fmt.Sprintf("Low number of API functions found: %d", functions), Severity: SeverityWarning})
	}
	if examples < MinCodeExamples {
		issues = append(issues, Issue{Type: "LOW_EXAMPLE_COUNT", Message: fmt.Sprintf("Low number of code examples found: %d", examples), Severity: SeverityWarning})
	}

	return issues
}

// Context7Config is the context7.json manifest describing the docs tree.
type Context7Config struct {
	ProjectTitle    string           `json:"projectTitle"`
	Description     string           `json:"description"`
	Version         string           `json:"version"`
	Folders         []string         `json:"folders"`
	ExcludeFolders  []string         `json:"excludeFolders,omitempty"`
	ExcludeFiles    []string         `json:"excludeFiles,omitempty"`
	IncludePatterns []string         `json:"includePatterns"`
	Metadata        Context7Metadata `json:"metadata"`
}

// Context7Metadata describes the SDK the docs cover.
type Context7Metadata struct {
	SDKVersion    string   `json:"sdkVersion"`
	XPlaneVersion string   `json:"xplaneVersion"`
	Language      string   `json:"language"`
	Platform      string   `json:"platform"`
	LastUpdated   string   `json:"lastUpdated"`
	ModuleCount   int      `json:"moduleCount"`
	APICategories []string `json:"apiCategories"`
}

// CheckContext7 validates manifest semantics that a schema cannot express.
// exists reports whether a folder relative to the project root exists.
func CheckContext7(file string, cfg *Context7Config, exists func(rel string) bool) []Issue {
	var issues []Issue
	for _, folder := range cfg.Folders {
		if !exists(folder) {
			issues = append(issues, Issue{Type: "MISSING_FOLDER", Message: "Specified folder does not exist: " + folder, File: file, Severity: SeverityError})
		}
	}
	hasMD := false
	for _, p := range cfg.IncludePatterns {
		if p == "*.md" {
			hasMD = true
		}
	}
	if !hasMD {
		issues = append(issues, Issue{Type: "MISSING_PATTERN", Message: "Context7 config should include '*.md' pattern", File: file, Severity: SeverityWarning})
	}
	return issues
}

// Context7Validator checks a raw manifest against its schema.
type Context7Validator interface {
	// Validate returns one issue per schema violation.
	// Returns EINVALID if data is not JSON.
	Validate(file string, data []byte) ([]Issue, error)
}

// ValidationStats are the corpus counts a report is scored on.
type ValidationStats struct {
	TotalURLs       int `json:"total_urls"`
	ProcessedURLs   int `json:"processed_urls"`
	FailedURLs      int `json:"failed_urls"`
	MarkdownFiles   int `json:"markdown_files"`
	APIFunctions    int `json:"api_functions"`
	CodeExamples    int `json:"code_examples"`
	CrossReferences int `json:"cross_references"`
}

// CollectStats counts API functions, examples and cross references.
func CollectStats(catalog []string, pages []*Page, markdownFiles int) ValidationStats {
	s := ValidationStats{
		TotalURLs:     len(catalog),
		ProcessedURLs: len(pages),
		MarkdownFiles: markdownFiles,
	}
	processed := make(map[string]bool, len(pages))
	for _, p := range pages {
		processed[p.URL] = true
		for _, sig := range p.Signatures {
			if sig.Kind == SignatureFunction {
				s.APIFunctions++
			}
		}
		s.CodeExamples += len(p.Examples)
		s.CrossReferences += len(p.CrossReferences)
	}
	for _, u := range catalog {
		if !processed[u] {
			s.FailedURLs++
		}
	}
	return s
}

// ExpectedDocFiles is the number of files a complete docs tree holds: one
// per category plus the root and three directory indexes.
func ExpectedDocFiles() int {
	return len(Categories) + 4
}

// ValidationReport is the persisted outcome of a validation pass.
type ValidationReport struct {
	Summary         ValidationSummary  `json:"validation_summary"`
	Statistics      ValidationStats    `json:"statistics"`
	QualityMetrics  map[string]float64 `json:"quality_metrics"`
	Errors          []Issue            `json:"errors"`
	Warnings        []Issue            `json:"warnings"`
	Info            []Issue            `json:"info"`
	Recommendations []string           `json:"recommendations"`
}

// ValidationSummary holds the headline counts of a report.
type ValidationSummary struct {
	Timestamp     time.Time `json:"timestamp"`
	TotalErrors   int       `json:"total_errors"`
	TotalWarnings int       `json:"total_warnings"`
	Passed        bool      `json:"validation_passed"`
	QualityScore  float64   `json:"quality_score"`
}

// NewValidationReport groups issues by severity, computes quality metrics
// and derives recommendations.
func NewValidationReport(issues []Issue, stats ValidationStats, now time.Time) *ValidationReport {
	r := &ValidationReport{
		Statistics: stats,
		Errors:     []Issue{},
		Warnings:   []Issue{},
		Info:       []Issue{},
	}
	for _, i := range issues {
		switch i.Severity {
		case SeverityError:
			r.Errors = append(r.Errors, i)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, i)
		default:
			r.Info = append(r.Info, i)
		}
	}

	per := func(n int) float64 { return float64(n) / float64(max(stats.ProcessedURLs, 1)) }
	rate := 0.0
	if stats.TotalURLs > 0 {
		rate = float64(stats.ProcessedURLs) / float64(stats.TotalURLs) * 100
	}
	completeness := min(float64(stats.MarkdownFiles)/float64(ExpectedDocFiles())*100, 100)
	r.QualityMetrics = map[string]float64{
		"url_processing_rate":        rate,
		"api_function_density":       per(stats.APIFunctions),
		"code_example_density":       per(stats.CodeExamples),
		"documentation_completeness": completeness,
		"cross_reference_coverage":   per(stats.CrossReferences),
	}

	score := (rate + completeness) / 2
	score -= float64(len(r.Errors)) * 5
	score -= float64(len(r.Warnings)) * 0.5
	score = max(score, 0)

	r.Summary = ValidationSummary{
		Timestamp:     now.UTC(),
		TotalErrors:   len(r.Errors),
		TotalWarnings: len(r.Warnings),
		Passed:        len(r.Errors) == 0,
		QualityScore:  score,
	}
	r.Recommendations = recommendations(r)
	return r
}

func recommendations(r *ValidationReport) []string {
	var recs []string
	s := r.Statistics
	if s.FailedURLs > 0 {
		recs = append(recs, fmt.Sprintf("Re-run processing for %d failed URLs", s.FailedURLs))
	}
	if len(r.Errors) > 0 {
		recs = append(recs, "Fix validation errors before publishing the documentation")
	}
	if s.APIFunctions < 100 {
		recs = append(recs, "Review content processing to ensure all API functions are extracted")
	}
	if s.CodeExamples < 50 {
		recs = append(recs, "Add more code examples to improve documentation quality")
	}
	if s.MarkdownFiles < ExpectedDocFiles() {
		recs = append(recs, "Ensure all expected documentation files are generated")
	}
	if len(r.Warnings) > 10 {
		recs = append(recs, "Review and address validation warnings to improve documentation quality")
	}
	if len(recs) == 0 {
		recs = append(recs, "Documentation validation passed")
	}
	return recs
}
