package render

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/revio/internal/findings"
	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
)

// Format is an output representation of a review report.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatSARIF    Format = "sarif"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatMarkdown, FormatJSON, FormatSARIF}

// ParseFormat converts a case-insensitive name into a Format. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md", "":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", reviewerrors.NewValidationError("format", fmt.Sprintf("unsupported format %q, expected one of: %s", s, strings.Join(names, ", ")))
}

// Render produces the report in the requested format.
func Render(report *findings.ReviewReport, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return []byte(Markdown(report)), nil
	case FormatJSON:
		return JSON(report)
	case FormatSARIF:
		return SARIF(report)
	default:
		return nil, reviewerrors.NewValidationError("format", fmt.Sprintf("unsupported format %q", format))
	}
}

// Extension returns the file extension conventionally used for the format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatSARIF:
		return ".sarif"
	default:
		return ".md"
	}
}

// ContentType returns the MIME type used when the rendered report is uploaded.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON, FormatSARIF:
		return "application/json"
	default:
		return "text/markdown; charset=utf-8"
	}
}
