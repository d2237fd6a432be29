package patterns

import (
	"os"
	"path/filepath"
)

// SearchPaths returns catalog directories in precedence order.
func SearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".haptic", "patterns"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "haptic", "patterns"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "haptic", "patterns"))
	return paths
}

// LoadOptions controls which sources make up a catalog.
type LoadOptions struct {
	// ProjectDir adds <ProjectDir>/.haptic/patterns to the search paths.
	ProjectDir string
	// Dirs are searched before the default search paths.
	Dirs []string
	// Files are loaded before any directory.
	Files []string
	// SkipSearchPaths limits loading to Files, Dirs and the builtins.
	SkipSearchPaths bool
	// SkipBuiltin leaves out the bundled catalog.
	SkipBuiltin bool
}

// Load assembles a catalog from files, directories, search paths and the
// builtins. The first definition of a category/name pair wins.
func Load(opts LoadOptions) (*Catalog, error) {
	catalog := &Catalog{}

	for _, path := range opts.Files {
		categories, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		layer, err := NewCatalog(categories...)
		if err != nil {
			return nil, err
		}
		catalog.Merge(layer)
	}

	dirs := append([]string{}, opts.Dirs...)
	if !opts.SkipSearchPaths {
		dirs = append(dirs, SearchPaths(opts.ProjectDir)...)
	}
	for _, dir := range dirs {
		categories, err := LoadDir(dir)
		if err != nil {
			return nil, err
		}
		layer, err := NewCatalog(categories...)
		if err != nil {
			return nil, err
		}
		catalog.Merge(layer)
	}

	if !opts.SkipBuiltin {
		builtin, err := LoadBuiltin()
		if err != nil {
			return nil, err
		}
		catalog.Merge(builtin)
	}

	return catalog, nil
}
