package sdkdoc

import (
	"regexp"
	"slices"
	"strings"
)

// Category groups pages of one SDK module into one output document.
type Category struct {
	// Name is the stable key, e.g. "XPLM_Camera".
	Name string
	// Title is the heading used in the output document.
	Title string
	// Path is the output document path relative to the docs root.
	Path string

	patterns []*regexp.Regexp
}

// CategoryOther collects pages no other category claims.
const CategoryOther = "Other_APIs"

func newCategory(name, title, path string, patterns ...string) Category {
	c := Category{Name: name, Title: title, Path: path}
	for _, p := range patterns {
		c.patterns = append(c.patterns, regexp.MustCompile(`(?i)`+p))
	}
	return c
}

// Categories lists SDK module categories in matching order. The first
// category with a pattern matching the page name wins, so the order
// matters: broad words like "object" or "model" resolve to the earlier
// module.
var Categories = []Category{
	newCategory("XPLM_Camera", "Camera APIs", "api/xplm-camera.md",
		`XPLMCamera`, `camera`, `view`, `perspective`),
	newCategory("XPLM_DataAccess", "Data Access APIs", "api/xplm-dataaccess.md",
		`XPLMDataAccess`, `XPLMData`, `dataref`, `GetData`, `SetData`),
	newCategory("XPLM_Display", "Display APIs", "api/xplm-display.md",
		`XPLMDisplay`, `window`, `screen`, `draw`, `render`, `texture`,
		`XPLMGetScreen`, `XPLMGetWindow`, `XPLMSetWindow`, `XPLMCreateWindow`),
	newCategory("XPLM_Graphics", "Graphics APIs", "api/xplm-graphics.md",
		`XPLMGraphics`, `graphics`, `OpenGL`, `GL`, `vertex`, `shader`),
	newCategory("XPLM_Navigation", "Navigation APIs", "api/xplm-navigation.md",
		`XPLMNavigation`, `nav`, `GPS`, `FMS`, `waypoint`, `airport`,
		`METAR`, `weather`, `magnetic`),
	newCategory("XPLM_Sound", "Sound APIs", "api/xplm-sound.md",
		`XPLMSound`, `audio`, `FMOD`, `sound`, `speaker`),
	newCategory("XPLM_Utilities", "Utilities APIs", "api/xplm-utilities.md",
		`XPLMUtilities`, `GetSystem`, `GetPrefs`, `GetLanguage`, `GetVersions`,
		`GetMyID`, `keyboard`, `mouse`, `hotkey`),
	newCategory("XPLM_Instance", "Instance APIs", "api/xplm-instance.md",
		`XPLMInstance`, `instance`, `object`, `model`),
	newCategory("XPLM_Map", "Map APIs", "api/xplm-map.md",
		`XPLMMap`, `map`, `layer`, `projection`),
	newCategory("XPLM_Menus", "Menus APIs", "api/xplm-menus.md",
		`XPLMMenus`, `menu`, `item`, `check`),
	newCategory("XPLM_Planes", "Planes APIs", "api/xplm-planes.md",
		`XPLMPlanes`, `aircraft`, `plane`, `model`),
	newCategory("XPLM_Plugin", "Plugin APIs", "api/xplm-plugin.md",
		`XPLMPlugin`, `plugin`, `enable`, `disable`, `message`),
	newCategory("XPLM_Processing", "Processing APIs", "api/xplm-processing.md",
		`XPLMProcessing`, `flight`, `loop`, `callback`, `timer`),
	newCategory("XPLM_Scenery", "Scenery APIs", "api/xplm-scenery.md",
		`XPLMScenery`, `scenery`, `terrain`, `probe`, `object`),
	newCategory("Widget_System", "Widget System", "widgets/widget-system.md",
		`XP.*Widget`, `widget`, `button`, `text.*field`, `scroll.*bar`,
		`progress`, `caption`, `window.*type`),
	newCategory("Widget_Defs", "Widget Definitions", "widgets/widget-defs.md",
		`Widget.*Properties`, `Widget.*Messages`, `Widget.*Types`, `Widget.*Values`,
		`Button.*`, `Caption.*`, `Main.*Window`, `Sub.*Window`, `Text.*Field`,
		`Scroll.*Bar`, `Progress.*Indicator`),
	newCategory(CategoryOther, "Other/Miscellaneous APIs", "modules/other-apis.md"),
}

// LookupCategory returns the category with the given name.
func LookupCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Categorize returns the category name for a page URL.
func Categorize(rawURL string) string {
	name := PageName(rawURL)
	for _, c := range Categories {
		for _, re := range c.patterns {
			if re.MatchString(name) {
				return c.Name
			}
		}
	}
	return CategoryOther
}

// CategorizeAll groups urls by category, keeping input order within
// each group. Every category is present in the result, possibly empty.
func CategorizeAll(urls []string) map[string][]string {
	out := make(map[string][]string, len(Categories))
	for _, c := range Categories {
		out[c.Name] = []string{}
	}
	for _, u := range urls {
		name := Categorize(u)
		out[name] = append(out[name], u)
	}
	return out
}

// ModuleTitle renders a category name for display, e.g. "XPLM Camera".
func ModuleTitle(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// xplmModules are the module headers a page may refer to.
var xplmModules = []string{
	"XPLMCamera", "XPLMDataAccess", "XPLMDisplay", "XPLMGraphics",
	"XPLMNavigation", "XPLMSound", "XPLMUtilities", "XPLMInstance",
	"XPLMMap", "XPLMMenus", "XPLMPlanes", "XPLMPlugin",
	"XPLMProcessing", "XPLMScenery",
}

// CrossReferences returns the names from known plus the XPLM module names
// that appear in markdown, excluding the page's own declarations and its
// own module. The result is sorted and free of duplicates.
func CrossReferences(pageURL, markdown string, own, known []string) []string {
	skip := make(map[string]bool, len(own))
	for _, name := range own {
		skip[name] = true
	}
	found := make(map[string]bool)
	for _, name := range known {
		if name != "" && !skip[name] && strings.Contains(markdown, name) {
			found[name] = true
		}
	}
	for _, module := range xplmModules {
		if strings.Contains(markdown, module) && !strings.Contains(pageURL, module) {
			found[module] = true
		}
	}
	refs := make([]string, 0, len(found))
	for name := range found {
		refs = append(refs, name)
	}
	slices.Sort(refs)
	return refs
}

// LinkCrossReferences recomputes cross references for pages against every
// declaration name found across all of them.
func LinkCrossReferences(pages []*Page) {
	var known []string
	for _, p := range pages {
		for _, s := range p.Signatures {
			known = append(known, s.Name)
		}
	}
	for _, p := range pages {
		own := make([]string, 0, len(p.Signatures))
		for _, s := range p.Signatures {
			own = append(own, s.Name)
		}
		p.CrossReferences = CrossReferences(p.URL, p.Markdown, own, known)
	}
}
