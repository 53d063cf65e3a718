package postgres

import (
	"regexp"
	"strconv"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespace = regexp.MustCompile(`\s+`)
	// a VALUES list of two or more placeholder rows
	valuesRows = regexp.MustCompile(`(?i)VALUES\s*(\([^()]*\))(?:\s*,\s*\([^()]*\))+`)
	rowGroup   = regexp.MustCompile(`\([^()]*\)`)
)

// TraceQuery is the otelsql query formatter. Whitespace is collapsed,
// multi-row inserts from an advancement batch keep only their first row plus
// a row count, and long statements are cut. A leading advancement tag
// survives truncation.
func TraceQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespace.ReplaceAllString(query, " ")
	normalized = valuesRows.ReplaceAllStringFunc(normalized, func(match string) string {
		rows := rowGroup.FindAllString(match, -1)
		return "VALUES " + rows[0] + " /* " + strconv.Itoa(len(rows)) + " rows */"
	})
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}

// tagStatement prefixes a statement with the advancement that issued it, so
// the id shows up in query traces and pg_stat_activity.
func tagStatement(advancementID, query string) string {
	advancementID = strings.TrimSpace(advancementID)
	if advancementID == "" || strings.Contains(advancementID, "*/") {
		return query
	}
	return "/* advancement=" + advancementID + " */ " + query
}
