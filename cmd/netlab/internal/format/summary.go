package format

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// PrintTotalFailureSummary prints a failed operation with its error code and
// suggestions.
// Example output:
//
//	✗ Failed to scan: 10.0.0.5: target is on the deny list
//
//	Suggestions:
//	  → Choose a public host you are authorized to scan
func (f *formatter) PrintTotalFailureSummary(operation string, err error, errorCode string, suggestions []string) error {
	if err == nil {
		return nil
	}

	if f.IsStructured() {
		return f.PrintData(map[string]any{
			"success":    false,
			"operation":  operation,
			"error":      err.Error(),
			"error_code": errorCode,
		})
	}

	var sb strings.Builder

	errorMsg := fmt.Sprintf("✗ Failed to %s: %v", operation, err)
	if f.color {
		sb.WriteString(color.RedString("%s\n", errorMsg))
	} else {
		sb.WriteString(errorMsg + "\n")
	}

	if len(suggestions) > 0 && !f.quiet {
		sb.WriteString("\nSuggestions:\n")
		for _, s := range suggestions {
			sb.WriteString(fmt.Sprintf("  → %s\n", s))
		}
	}

	_, writeErr := f.stderr.Write([]byte(sb.String()))
	return writeErr
}
