package patterns

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// BuiltinSource labels patterns bundled with the binary.
const BuiltinSource = "builtin"

// LoadBuiltin returns the catalog bundled with the binary. Files are read in
// name order, which fixes the category order.
func LoadBuiltin() (*Catalog, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin catalog: %w", err)
	}

	categories := make([]*Category, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin catalog %s: %w", entry.Name(), err)
		}
		parsed, err := Parse(data, BuiltinSource)
		if err != nil {
			return nil, fmt.Errorf("parse builtin catalog %s: %w", entry.Name(), err)
		}
		categories = append(categories, parsed...)
	}

	return NewCatalog(categories...)
}
