package patterns

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opencode-ai/haptic/internal/haptic"
)

const defaultRepeat = 1

type categoryFile struct {
	Category    string       `yaml:"category"`
	Description string       `yaml:"description"`
	Patterns    []rawPattern `yaml:"patterns"`
}

type rawPattern struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Sequence    []Step   `yaml:"sequence"`
	Repeat      *int     `yaml:"repeat"`
}

// LoadFile reads the categories defined in a single catalog file.
func LoadFile(path string) ([]*Category, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	categories, err := Parse(data, path)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return categories, nil
}

// LoadDir loads every .yaml, .yml and .json catalog file in dir, sorted by
// file name. A missing directory yields no categories.
func LoadDir(dir string) ([]*Category, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Category{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Category{}, nil
		}
		return nil, fmt.Errorf("read catalog dir %s: %w", dir, err)
	}

	categories := make([]*Category, 0)
	for _, entry := range entries {
		if entry.IsDir() || !isCatalogFile(entry.Name()) {
			continue
		}
		loaded, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		categories = append(categories, loaded...)
	}
	return categories, nil
}

func isCatalogFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// Parse decodes catalog data. Two layouts are accepted: a category document
// with "category" and a "patterns" list, or a nested mapping of category
// name to pattern name to pattern (the hapticPatterns.json layout). Mapping
// order is preserved.
func Parse(data []byte, source string) ([]*Category, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: catalog must be a mapping", root.Line)
	}

	if mappingHasKey(root, "category") {
		cat, err := parseCategoryDocument(root, source)
		if err != nil {
			return nil, err
		}
		return []*Category{cat}, nil
	}
	return parseNested(root, source)
}

func parseCategoryDocument(root *yaml.Node, source string) (*Category, error) {
	var file categoryFile
	if err := root.Decode(&file); err != nil {
		return nil, err
	}

	cat := &Category{
		Name:        strings.TrimSpace(file.Category),
		Description: strings.TrimSpace(file.Description),
		Source:      source,
	}
	if cat.Name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	for i, raw := range file.Patterns {
		p, err := buildPattern(cat.Name, raw, source)
		if err != nil {
			return nil, fmt.Errorf("category %q pattern %d: %w", cat.Name, i+1, err)
		}
		if cat.Pattern(p.Name) != nil {
			return nil, fmt.Errorf("category %q: duplicate pattern %q", cat.Name, p.Name)
		}
		cat.Patterns = append(cat.Patterns, p)
	}
	return cat, nil
}

func parseNested(root *yaml.Node, source string) ([]*Category, error) {
	categories := make([]*Category, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := strings.TrimSpace(root.Content[i].Value)
		body := root.Content[i+1]
		if name == "" {
			return nil, fmt.Errorf("line %d: category name is required", root.Content[i].Line)
		}
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: category %q must map pattern names to patterns", body.Line, name)
		}

		cat := &Category{Name: name, Source: source}
		for j := 0; j+1 < len(body.Content); j += 2 {
			var raw rawPattern
			if err := body.Content[j+1].Decode(&raw); err != nil {
				return nil, fmt.Errorf("category %q: %w", name, err)
			}
			if raw.Name == "" {
				raw.Name = body.Content[j].Value
			}
			p, err := buildPattern(name, raw, source)
			if err != nil {
				return nil, fmt.Errorf("category %q pattern %q: %w", name, body.Content[j].Value, err)
			}
			if cat.Pattern(p.Name) != nil {
				return nil, fmt.Errorf("category %q: duplicate pattern %q", name, p.Name)
			}
			cat.Patterns = append(cat.Patterns, p)
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

func mappingHasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func buildPattern(category string, raw rawPattern, source string) (*Pattern, error) {
	p := &Pattern{
		Name:        strings.TrimSpace(raw.Name),
		Category:    category,
		Description: strings.TrimSpace(raw.Description),
		Sequence:    raw.Sequence,
		Repeat:      defaultRepeat,
		Source:      source,
	}
	for _, tag := range raw.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			p.Tags = append(p.Tags, tag)
		}
	}
	if raw.Repeat != nil {
		p.Repeat = *raw.Repeat
	}
	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks a pattern against the player's preconditions and
// normalizes step kinds in place. Call it before a pattern is shared.
func Validate(p *Pattern) error {
	if err := checkHeader(p); err != nil {
		return err
	}
	for i := range p.Sequence {
		kind, err := checkStep(p.Sequence[i])
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		p.Sequence[i].Type = kind
	}
	return nil
}

// Check is Validate without normalization; it never writes to p.
func Check(p *Pattern) error {
	if err := checkHeader(p); err != nil {
		return err
	}
	for i, step := range p.Sequence {
		kind, err := checkStep(step)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if kind != step.Type {
			return fmt.Errorf("step %d: kind %q is not normalized", i+1, step.Type)
		}
	}
	return nil
}

func checkHeader(p *Pattern) error {
	if p == nil {
		return fmt.Errorf("pattern is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("pattern name is required")
	}
	if strings.Contains(p.Name, "/") {
		return fmt.Errorf("pattern name %q must not contain '/'", p.Name)
	}
	if p.Repeat < 0 {
		return fmt.Errorf("repeat must be >= 0, got %d", p.Repeat)
	}
	return nil
}

func checkStep(step Step) (haptic.Kind, error) {
	kind, err := haptic.ParseKind(string(step.Type))
	if err != nil {
		return "", err
	}

	switch {
	case kind.IsSelection():
		return "", fmt.Errorf("%w: selection is only available as an immediate trigger", haptic.ErrInvalidKind)
	case step.Notification && !kind.IsNotification() && !kind.IsNone():
		return "", fmt.Errorf("%w: %q is not a notification outcome", haptic.ErrInvalidKind, kind)
	case !step.Notification && kind.IsNotification():
		return "", fmt.Errorf("%w: %q requires isNotification", haptic.ErrInvalidKind, kind)
	}

	if step.Delay.Millis < 0 {
		return "", fmt.Errorf("delay must be >= 0, got %d", step.Delay.Millis)
	}
	return kind, nil
}
