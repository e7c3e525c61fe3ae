package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/sdkdoc"
)

// Context7File is the manifest file name written next to the docs tree.
const Context7File = "context7.json"

// indexDirs lists the docs subdirectories with their index titles in the
// order the root README presents them.
var indexDirs = []struct {
	Dir   string
	Title string
	Intro string
}{
	{"api", "API Reference", "Core XPLM APIs for X-Plane plugin development."},
	{"widgets", "Widgets", "The X-Plane widget system and its standard widget definitions."},
	{"modules", "Other Modules", "APIs that do not belong to a core XPLM module."},
}

// Organizer writes the documentation tree with atomic update semantics.
// Files are written to baseDir/name.tmp and moved to baseDir/name on
// Commit.
type Organizer struct {
	baseDir string
	name    string

	// Now returns the date stamped into frontmatter. Defaults to time.Now.
	Now func() time.Time
}

// NewOrganizer creates a new Organizer.
func NewOrganizer(baseDir, name string) *Organizer {
	return &Organizer{
		baseDir: baseDir,
		name:    name,
		Now:     time.Now,
	}
}

func (o *Organizer) tempDir() string {
	return filepath.Join(o.baseDir, o.name+".tmp")
}

// Dir returns the final docs directory.
func (o *Organizer) Dir() string {
	return filepath.Join(o.baseDir, o.name)
}

// Organize renders pages into one document per category plus README
// indexes. Categories without processed pages list their catalog URLs.
// Nothing is visible in the final directory until Commit.
func (o *Organizer) Organize(ctx context.Context, pages []*sdkdoc.Page, catalog []string) error {
	if err := os.RemoveAll(o.tempDir()); err != nil {
		return sdkdoc.Errorf(sdkdoc.EPERSIST, "clear staging directory: %v", err)
	}

	now := o.Now().UTC()
	sdkdoc.LinkCrossReferences(pages)
	grouped := groupPages(pages, catalog)
	urls := sdkdoc.CategorizeAll(catalog)

	for _, cat := range sdkdoc.Categories {
		if err := ctx.Err(); err != nil {
			return err
		}
		content := FormatCategory(cat, grouped[cat.Name], urls[cat.Name], now)
		if err := o.write(cat.Path, content); err != nil {
			return err
		}
	}

	rootEntries := make([]IndexEntry, 0, len(indexDirs))
	for _, d := range indexDirs {
		var entries []IndexEntry
		for _, cat := range sdkdoc.Categories {
			if path.Dir(cat.Path) == d.Dir {
				entries = append(entries, IndexEntry{Title: cat.Title, Path: path.Base(cat.Path)})
			}
		}
		content := FormatIndex(d.Title, "X-Plane SDK "+d.Title+" index", d.Dir, d.Intro, entries, now)
		if err := o.write(path.Join(d.Dir, "README.md"), content); err != nil {
			return err
		}
		rootEntries = append(rootEntries, IndexEntry{Title: d.Title, Path: d.Dir + "/README.md"})
	}

	intro := "Reference documentation for the X-Plane plugin SDK, generated from " +
		"the developer site. Each module is one document."
	root := FormatIndex("X-Plane SDK Documentation", "X-Plane SDK documentation index", "index", intro, rootEntries, now)
	return o.write("README.md", root)
}

func (o *Organizer) write(rel, content string) error {
	full := filepath.Join(o.tempDir(), filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return sdkdoc.Errorf(sdkdoc.EPERSIST, "create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return sdkdoc.Errorf(sdkdoc.EPERSIST, "write %s: %v", rel, err)
	}
	return nil
}

// Commit swaps the staged tree into place. The previous tree is renamed
// to name.old first and only removed once the staged tree is in place, so
// a failed swap leaves the previous tree where it was.
func (o *Organizer) Commit() error {
	final, old := o.Dir(), o.Dir()+".old"
	if _, err := os.Stat(o.tempDir()); err != nil {
		return sdkdoc.Errorf(sdkdoc.EPERSIST, "nothing staged: %v", err)
	}
	if err := os.RemoveAll(old); err != nil {
		return sdkdoc.Errorf(sdkdoc.EPERSIST, "clear previous tree: %v", err)
	}

	hadPrevious := true
	if err := os.Rename(final, old); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return sdkdoc.Errorf(sdkdoc.EPERSIST, "move previous tree aside: %v", err)
		}
		hadPrevious = false
	}
	if err := os.Rename(o.tempDir(), final); err != nil {
		if hadPrevious {
			_ = os.Rename(old, final)
		}
		return sdkdoc.Errorf(sdkdoc.EPERSIST, "swap in staged tree: %v", err)
	}
	if hadPrevious {
		if err := os.RemoveAll(old); err != nil {
			return sdkdoc.Errorf(sdkdoc.EPERSIST, "remove previous tree: %v", err)
		}
	}
	return nil
}

// Abort discards the staged tree.
func (o *Organizer) Abort() error {
	return os.RemoveAll(o.tempDir())
}

// Context7Config returns the manifest describing the committed tree.
func (o *Organizer) Context7Config() *sdkdoc.Context7Config {
	names := make([]string, 0, len(sdkdoc.Categories))
	for _, c := range sdkdoc.Categories {
		names = append(names, c.Name)
	}
	return &sdkdoc.Context7Config{
		ProjectTitle:    "X-Plane SDK",
		Description:     "Official X-Plane plugin SDK documentation for plugin developers",
		Version:         "4.1.1",
		Folders:         []string{o.name},
		ExcludeFolders:  []string{"raw_data", "scripts"},
		IncludePatterns: []string{"*.md"},
		Metadata: sdkdoc.Context7Metadata{
			SDKVersion:    "4.1.1",
			XPlaneVersion: "12.1.0",
			Language:      "C/C++",
			Platform:      "Windows, macOS, Linux",
			LastUpdated:   o.Now().UTC().Format("2006-01-02"),
			ModuleCount:   len(sdkdoc.Categories),
			APICategories: names,
		},
	}
}

// WriteContext7 writes the manifest to baseDir/context7.json.
func (o *Organizer) WriteContext7() error {
	data, err := json.MarshalIndent(o.Context7Config(), "", "  ")
	if err != nil {
		return sdkdoc.Errorf(sdkdoc.EINTERNAL, "encode manifest: %v", err)
	}
	return WriteFileAtomic(filepath.Join(o.baseDir, Context7File), append(data, '\n'), 0644)
}

// groupPages assigns pages to categories, ordered by catalog position;
// pages missing from the catalog follow in URL order.
func groupPages(pages []*sdkdoc.Page, catalog []string) map[string][]*sdkdoc.Page {
	pos := make(map[string]int, len(catalog))
	for i, u := range catalog {
		if _, ok := pos[u]; !ok {
			pos[u] = i
		}
	}
	sorted := slices.Clone(pages)
	slices.SortStableFunc(sorted, func(a, b *sdkdoc.Page) int {
		ia, oka := pos[a.URL]
		ib, okb := pos[b.URL]
		switch {
		case oka && okb:
			return ia - ib
		case oka:
			return -1
		case okb:
			return 1
		}
		return strings.Compare(a.URL, b.URL)
	})

	out := make(map[string][]*sdkdoc.Page)
	for _, p := range sorted {
		name := p.Category
		if _, ok := sdkdoc.LookupCategory(name); !ok {
			name = sdkdoc.Categorize(p.URL)
		}
		out[name] = append(out[name], p)
	}
	return out
}
