package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/sdkdoc"
)

// DocsTree reads a generated documentation tree.
type DocsTree struct {
	root string
}

// NewDocsTree returns a reader for the tree rooted at root.
func NewDocsTree(root string) *DocsTree {
	return &DocsTree{root: root}
}

// Root returns the tree root.
func (t *DocsTree) Root() string {
	return t.root
}

// Files returns the Markdown files of the tree as sorted slash-separated
// paths relative to the root. Returns ENOTFOUND if the root is missing.
func (t *DocsTree) Files() ([]string, error) {
	if _, err := os.Stat(t.root); errors.Is(err, os.ErrNotExist) {
		return nil, sdkdoc.Errorf(sdkdoc.ENOTFOUND, "docs directory %s not found", t.root)
	}
	var files []string
	err := filepath.WalkDir(t.root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(t.root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// Exists reports whether a root relative path exists.
func (t *DocsTree) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(t.root, filepath.FromSlash(rel)))
	return err == nil
}

// Check runs the Markdown checks over every file of the tree and returns
// the issues together with the number of files checked.
func (t *DocsTree) Check(ctx context.Context) ([]sdkdoc.Issue, int, error) {
	files, err := t.Files()
	if err != nil {
		return nil, 0, err
	}
	var issues []sdkdoc.Issue
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		data, err := os.ReadFile(filepath.Join(t.root, filepath.FromSlash(f)))
		if err != nil {
			return nil, 0, err
		}
		issues = append(issues, sdkdoc.CheckMarkdown(f, string(data), t.Exists)...)
	}
	return issues, len(files), nil
}

// CheckContext7 validates the manifest at path against the schema
// validator and the folders it names, resolved relative to the
// manifest's directory.
func CheckContext7(path string, v sdkdoc.Context7Validator) ([]sdkdoc.Issue, error) {
	file := filepath.Base(path)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []sdkdoc.Issue{{
			Type:     "MISSING_CONFIG",
			Message:  "context7.json configuration file not found",
			File:     file,
			Severity: sdkdoc.SeverityError,
		}}, nil
	} else if err != nil {
		return nil, err
	}

	issues, err := v.Validate(file, data)
	if sdkdoc.ErrorCode(err) == sdkdoc.EINVALID {
		return []sdkdoc.Issue{{
			Type:     "INVALID_JSON",
			Message:  sdkdoc.ErrorMessage(err),
			File:     file,
			Severity: sdkdoc.SeverityError,
		}}, nil
	} else if err != nil {
		return nil, err
	}

	var cfg sdkdoc.Context7Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		// Shape mismatches are already reported by the schema.
		return issues, nil
	}
	base := NewDocsTree(filepath.Dir(path))
	return append(issues, sdkdoc.CheckContext7(file, &cfg, base.Exists)...), nil
}

// WriteReport persists a validation report as indented JSON.
func WriteReport(path string, report *sdkdoc.ValidationReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return sdkdoc.Errorf(sdkdoc.EINTERNAL, "encode report: %v", err)
	}
	return WriteFileAtomic(path, append(data, '\n'), 0644)
}

// FileStats describes one document of the tree.
type FileStats struct {
	Path       string
	Bytes      int
	Sections   int
	CodeBlocks int
	Tokens     int
}

// TreeStats aggregates FileStats over a tree.
type TreeStats struct {
	Files      []FileStats
	Bytes      int
	Sections   int
	CodeBlocks int
	Tokens     int
}

// Stats counts bytes, API sections (level three headings) and C++ code
// blocks per document. Tokens are counted only when counter is non-nil.
func (t *DocsTree) Stats(ctx context.Context, counter sdkdoc.TokenCounter) (*TreeStats, error) {
	files, err := t.Files()
	if err != nil {
		return nil, err
	}
	stats := &TreeStats{}
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(t.root, filepath.FromSlash(f)))
		if err != nil {
			return nil, err
		}
		content := string(data)
		fst := FileStats{Path: f, Bytes: len(data)}
		for _, s := range sdkdoc.ExtractSections(content) {
			if s.Level == 3 {
				fst.Sections++
			}
		}
		for _, b := range sdkdoc.ExtractCodeBlocks(content) {
			if b.Language == "cpp" {
				fst.CodeBlocks++
			}
		}
		if counter != nil {
			n, err := counter.CountTokens(ctx, content)
			if err != nil {
				return nil, err
			}
			fst.Tokens = n
		}
		stats.Files = append(stats.Files, fst)
		stats.Bytes += fst.Bytes
		stats.Sections += fst.Sections
		stats.CodeBlocks += fst.CodeBlocks
		stats.Tokens += fst.Tokens
	}
	return stats, nil
}
