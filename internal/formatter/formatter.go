// package formatter renders batch resolution results as CSV, Markdown, plain text, or a URI list
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
)

// Format names an output format for search results.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatURIs     Format = "uris"
)

// ParseFormat accepts a format name or its common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "uris", "uri":
		return FormatURIs, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Render converts a result to the given format.
func Render(result *tasks.BatchResult, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return ToText(result), nil
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return append(data, '\n'), nil
	case FormatCSV:
		return ToCSV(result)
	case FormatMarkdown:
		return ToMarkdown(result), nil
	case FormatURIs:
		return ToURIs(result), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ToCSV writes one row per query with columns: Query, Matched, Track, Artists, Album, Duration, URI
func ToCSV(result *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Query", "Matched", "Track", "Artists", "Album", "Duration", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, res := range result.Resolutions {
		record := []string{res.Query, "false", "", "", "", "", ""}
		if t := res.Track; t != nil {
			record = []string{
				res.Query,
				"true",
				t.Name,
				strings.Join(t.Artists, "; "),
				t.Album,
				FormatDuration(t.DurationMS),
				t.URI,
			}
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown lists matches and misses under separate headings.
func ToMarkdown(result *tasks.BatchResult) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Search results\n\n")
	buf.WriteString(fmt.Sprintf("**Found**: %d of %d\n\n", result.Found, result.Total))

	buf.WriteString("## Matches\n\n")
	for i, t := range result.Tracks {
		albumPart := ""
		if t.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", t.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, strings.Join(t.Artists, ", "), t.Name, albumPart, FormatDuration(t.DurationMS)))
	}

	if len(result.Unmatched) > 0 {
		buf.WriteString("\n## Not found\n\n")
		for _, q := range result.Unmatched {
			buf.WriteString(fmt.Sprintf("- %s\n", q))
		}
	}

	return buf.Bytes()
}

// ToText is the terminal summary printed by the search command.
func ToText(result *tasks.BatchResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Found %d of %d tracks\n\n", result.Found, result.Total))
	for i, t := range result.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, strings.Join(t.Artists, ", "), t.Name))
	}

	if len(result.Unmatched) > 0 {
		buf.WriteString("\nNo match:\n")
		for _, q := range result.Unmatched {
			buf.WriteString(fmt.Sprintf("  %s\n", q))
		}
	}

	return buf.Bytes()
}

// ToURIs writes one track URI per line, ready for `playlist create --uris-file`.
func ToURIs(result *tasks.BatchResult) []byte {
	var buf bytes.Buffer
	for _, t := range result.Tracks {
		buf.WriteString(t.URI)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int) string {
	if ms <= 0 {
		return "0:00"
	}
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// WriteExport renders the result and writes it to path.
func WriteExport(result *tasks.BatchResult, format Format, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path is required", shared.ErrMissingArgument)
	}

	data, err := Render(result, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
