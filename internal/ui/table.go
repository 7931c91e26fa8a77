package ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderTable renders a JSON array of flat objects as an aligned table.
// ok is false when the payload is not tabular (not an array, empty, or
// rows with nested values), in which case the caller should fall back
// to showing the raw text.
func RenderTable(raw []byte, styles Styles) (string, bool) {
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil || len(rows) == 0 {
		return "", false
	}

	headers := tableHeaders(rows)
	if headers == nil {
		return "", false
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(headers))
		for i, h := range headers {
			line[i] = formatCell(row[h])
			if w := lipgloss.Width(line[i]); w > widths[i] {
				widths[i] = w
			}
		}
		cells = append(cells, line)
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sepStyle := styles.Muted

	var sb strings.Builder
	total := 0
	for i, h := range headers {
		sb.WriteString(headerStyle.Width(widths[i] + 2).Render(h))
		total += widths[i] + 2
		if i < len(headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
			total++
		}
	}
	sb.WriteString("\n")
	sb.WriteString(sepStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, line := range cells {
		for i, cell := range line {
			sb.WriteString(rowStyle.Width(widths[i] + 2).Render(cell))
			if i < len(line)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), true
}

// tableHeaders returns the sorted column names shared by every row, or
// nil when any row carries a nested value or a column set mismatch.
func tableHeaders(rows []map[string]any) []string {
	headers := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	for _, row := range rows {
		if len(row) != len(headers) {
			return nil
		}
		for _, h := range headers {
			v, found := row[h]
			if !found {
				return nil
			}
			switch v.(type) {
			case map[string]any, []any:
				return nil
			}
		}
	}
	return headers
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
