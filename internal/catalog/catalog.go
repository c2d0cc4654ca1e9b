// Package catalog provides read-only access to the Java defect catalog:
// two category trees (compile-time defects and style defects) loaded from
// JSON, with category listing and difficulty-adjusted random sampling.
package catalog

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"sort"
)

const (
	compileTimeFile = "compile_time.json"
	styleFile       = "style.json"
)

// Catalog is the loaded defect catalog. Read-only after Load; safe for
// concurrent readers.
type Catalog struct {
	compileTime map[string][]entry
	style       map[string][]entry
}

// Load reads both category trees through the locator. A tree whose file
// is missing or unparseable is logged and treated as empty — an
// under-populated catalog yields fewer defects, never an error.
func Load(loc *Locator, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{
		compileTime: loadTree(loc, compileTimeFile, logger),
		style:       loadTree(loc, styleFile, logger),
	}
	return c
}

func loadTree(loc *Locator, name string, logger *slog.Logger) map[string][]entry {
	data, ok := loc.Read(name)
	if !ok {
		logger.Warn("catalog file not found in any source", "file", name)
		return map[string][]entry{}
	}

	var tree map[string][]entry
	if err := json.Unmarshal(data, &tree); err != nil {
		logger.Warn("catalog file is not valid JSON", "file", name, "error", err)
		return map[string][]entry{}
	}
	return tree
}

// ListCategories returns the category names of both trees, sorted.
func (c *Catalog) ListCategories() Categories {
	return Categories{
		CompileTime: sortedKeys(c.compileTime),
		Style:       sortedKeys(c.style),
	}
}

// CategoryDefects returns every defect in one category of the given tree.
func (c *Catalog) CategoryDefects(kind Kind, category string) []DefectSpec {
	tree := c.compileTime
	if kind == KindStyle {
		tree = c.style
	}
	entries, ok := tree[category]
	if !ok {
		return nil
	}
	out := make([]DefectSpec, len(entries))
	for i, e := range entries {
		out[i] = toSpec(kind, category, e)
	}
	return out
}

// SampleDefects draws 1–2 defects per selected category at random without
// replacement, then trims the union against the difficulty-adjusted target
// count. If the union exceeds the target, it is downsampled uniformly; if
// short, it is returned as-is. Returns an empty slice when nothing is
// selected or the catalog is empty — never an error.
func (c *Catalog) SampleDefects(sel Selection, base int, difficulty Difficulty) []DefectSpec {
	if sel.Empty() {
		return nil
	}
	if base <= 0 {
		base = DefaultBaseCount
	}
	target := AdjustedCount(base, difficulty)

	var pool []DefectSpec
	for _, category := range sel.CompileTime {
		pool = append(pool, drawFromCategory(c.compileTime, KindCompileTime, category)...)
	}
	for _, category := range sel.Style {
		pool = append(pool, drawFromCategory(c.style, KindStyle, category)...)
	}

	if len(pool) > target {
		rand.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		pool = pool[:target]
	}
	return pool
}

// drawFromCategory picks 1–2 entries without replacement from one category.
func drawFromCategory(tree map[string][]entry, kind Kind, category string) []DefectSpec {
	entries, ok := tree[category]
	if !ok || len(entries) == 0 {
		return nil
	}

	n := min(len(entries), 1+rand.IntN(2))
	perm := rand.Perm(len(entries))

	out := make([]DefectSpec, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, toSpec(kind, category, entries[idx]))
	}
	return out
}

func toSpec(kind Kind, category string, e entry) DefectSpec {
	return DefectSpec{
		Kind:                kind,
		Category:            category,
		Name:                e.Name,
		Description:         e.Description,
		ImplementationGuide: e.ImplementationGuide,
	}
}

func sortedKeys(tree map[string][]entry) []string {
	keys := make([]string, 0, len(tree))
	for k := range tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
