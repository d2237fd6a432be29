package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/haptic/internal/patterns"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate pattern files",
	Long: `Validate pattern files without playing them.

With no arguments the whole configured catalog is loaded and checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			step := startProgress("Loading catalog")
			catalog, err := loadCatalog()
			if err != nil {
				step.Fail(err)
				return err
			}
			step.Done(fmt.Sprintf("%d patterns", catalog.Len()))
			if IsJSONOutput() || IsJSONLOutput() {
				return WriteOutput(os.Stdout, ValidateResult{File: "catalog", Patterns: catalog.Len(), Valid: true})
			}
			return nil
		}

		results := make([]ValidateResult, 0, len(args))
		invalid := 0
		for _, path := range args {
			result := validateFile(path)
			if !result.Valid {
				invalid++
			}
			results = append(results, result)
		}

		if IsJSONOutput() || IsJSONLOutput() {
			if err := WriteOutput(os.Stdout, results); err != nil {
				return err
			}
		} else {
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.Valid {
					status = r.Error
				}
				rows = append(rows, []string{r.File, strconv.Itoa(r.Categories), strconv.Itoa(r.Patterns), status})
			}
			if err := writeTable(os.Stdout, []string{"FILE", "CATEGORIES", "PATTERNS", "STATUS"}, rows); err != nil {
				return err
			}
		}

		if invalid > 0 {
			return fmt.Errorf("%d of %d file(s) invalid", invalid, len(results))
		}
		return nil
	},
}

// ValidateResult reports one validated file.
type ValidateResult struct {
	File       string `json:"file"`
	Categories int    `json:"categories"`
	Patterns   int    `json:"patterns"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
}

func validateFile(path string) ValidateResult {
	result := ValidateResult{File: path}

	categories, err := patterns.LoadFile(path)
	if err == nil {
		var catalog *patterns.Catalog
		catalog, err = patterns.NewCatalog(categories...)
		if err == nil {
			result.Categories = len(catalog.Categories())
			result.Patterns = catalog.Len()
		}
	}
	if err == nil && result.Patterns == 0 {
		err = errors.New("no patterns defined")
	}

	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Valid = true
	return result
}
