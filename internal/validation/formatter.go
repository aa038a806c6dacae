package validation

import (
	"fmt"
	"strings"
)

// maxProblemsDisplay caps the problems printed per file.
const maxProblemsDisplay = 20

// FormatReport formats a Report for human-readable display.
func FormatReport(report *Report) string {
	var sb strings.Builder

	for _, f := range report.Files {
		if f.Valid {
			sb.WriteString(fmt.Sprintf("✓ %s\n", f.Path))
			continue
		}
		sb.WriteString(formatFailedFile(f))
	}

	failed := len(report.Failed())
	if failed == 0 {
		sb.WriteString(fmt.Sprintf("\nAll %d file(s) valid (%dms)\n", len(report.Files), report.DurationMs))
	} else {
		sb.WriteString(fmt.Sprintf("\n%d of %d file(s) invalid\n", failed, len(report.Files)))
	}

	return sb.String()
}

func formatFailedFile(f FileResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("✗ %s\n", f.Path))
	if f.Error != "" {
		sb.WriteString(fmt.Sprintf("    %s\n", f.Error))
		return sb.String()
	}

	for i, p := range f.Problems {
		if i == maxProblemsDisplay {
			sb.WriteString(fmt.Sprintf("    ...and %d more\n", len(f.Problems)-maxProblemsDisplay))
			break
		}
		location := p.Location
		if location == "" {
			location = "(root)"
		}
		sb.WriteString(fmt.Sprintf("    %s: %s\n", location, p.Message))
	}

	return sb.String()
}
