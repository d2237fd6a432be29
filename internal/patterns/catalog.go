package patterns

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPatternNotFound is returned when a lookup matches nothing.
var ErrPatternNotFound = errors.New("pattern not found")

// Catalog maps category names to their patterns, in load order.
type Catalog struct {
	categories []*Category
}

// NewCatalog builds a catalog from categories. Categories sharing a name are
// merged; a pattern name repeated within a category is an error.
func NewCatalog(categories ...*Category) (*Catalog, error) {
	c := &Catalog{}
	for _, cat := range categories {
		if err := c.add(cat, false); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(cat *Category, skipExisting bool) error {
	if cat == nil {
		return nil
	}
	existing := c.Category(cat.Name)
	if existing == nil {
		existing = &Category{
			Name:        cat.Name,
			Description: cat.Description,
			Source:      cat.Source,
		}
		c.categories = append(c.categories, existing)
	}
	if existing.Description == "" {
		existing.Description = cat.Description
	}

	for _, p := range cat.Patterns {
		if existing.Pattern(p.Name) != nil {
			if skipExisting {
				continue
			}
			return fmt.Errorf("duplicate pattern %q in category %q", p.Name, existing.Name)
		}
		p.Category = existing.Name
		existing.Patterns = append(existing.Patterns, p)
	}
	return nil
}

// Merge adds patterns from other that this catalog does not define yet.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	for _, cat := range other.categories {
		_ = c.add(cat, true)
	}
}

// Categories returns the categories in load order.
func (c *Catalog) Categories() []*Category {
	if c == nil {
		return nil
	}
	out := make([]*Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category returns a category by name (case-insensitive), or nil.
func (c *Catalog) Category(name string) *Category {
	if c == nil {
		return nil
	}
	for _, cat := range c.categories {
		if equalName(cat.Name, name) {
			return cat
		}
	}
	return nil
}

// Patterns returns the patterns of one category.
func (c *Catalog) Patterns(category string) []*Pattern {
	cat := c.Category(category)
	if cat == nil {
		return nil
	}
	out := make([]*Pattern, len(cat.Patterns))
	copy(out, cat.Patterns)
	return out
}

// All returns every pattern, grouped by category in load order.
func (c *Catalog) All() []*Pattern {
	if c == nil {
		return nil
	}
	out := make([]*Pattern, 0, c.Len())
	for _, cat := range c.categories {
		out = append(out, cat.Patterns...)
	}
	return out
}

// Len returns the number of patterns.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, cat := range c.categories {
		n += len(cat.Patterns)
	}
	return n
}

// Lookup returns the pattern registered under category and name.
func (c *Catalog) Lookup(category, name string) (*Pattern, error) {
	cat := c.Category(category)
	if cat == nil {
		return nil, fmt.Errorf("%w: unknown category %q", ErrPatternNotFound, category)
	}
	p := cat.Pattern(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q in category %q", ErrPatternNotFound, name, cat.Name)
	}
	return p, nil
}

// Resolve finds a pattern by "category/name", "category_name" or a bare
// name that is unique across categories.
func (c *Catalog) Resolve(ref string) (*Pattern, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("pattern reference is required")
	}

	if category, name, ok := strings.Cut(ref, "/"); ok {
		return c.Lookup(category, name)
	}

	if category, name, ok := strings.Cut(ref, "_"); ok {
		if p, err := c.Lookup(category, name); err == nil {
			return p, nil
		}
	}

	var matches []*Pattern
	for _, p := range c.All() {
		if equalName(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrPatternNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		refs := make([]string, 0, len(matches))
		for _, p := range matches {
			refs = append(refs, p.Ref())
		}
		return nil, fmt.Errorf("pattern %q is ambiguous: %s", ref, strings.Join(refs, ", "))
	}
}

// Filter returns patterns carrying any of the tags. No tags returns all.
func (c *Catalog) Filter(tags []string) []*Pattern {
	all := c.All()
	if len(tags) == 0 {
		return all
	}

	out := make([]*Pattern, 0, len(all))
	for _, p := range all {
		if hasAnyTag(p, tags) {
			out = append(out, p)
		}
	}
	return out
}

func hasAnyTag(p *Pattern, tags []string) bool {
	for _, want := range tags {
		for _, have := range p.Tags {
			if equalName(have, want) {
				return true
			}
		}
	}
	return false
}

func equalName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
