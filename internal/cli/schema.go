package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/NikitaCOEUR/bft/internal/config"
)

// Schema prints the JSON Schema of the configuration file, or writes it to
// outputPath.
func Schema(outputPath string, w io.Writer) error {
	out := writer(w)

	schemaJSON, err := config.GetSchemaJSON()
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, append(schemaJSON, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write schema to %s: %w", outputPath, err)
		}
		_, _ = fmt.Fprintf(out, "JSON Schema written to: %s\n", outputPath)
		return nil
	}

	_, err = fmt.Fprintln(out, string(schemaJSON))
	return err
}
