package app

import (
	"strings"
	"unicode/utf8"
)

const maxTracedQueryLength = 512

// formatDBQueryForTrace flattens a slot query onto one line for the
// db.statement span attribute. Line comments are dropped and long statements
// are cut on a rune boundary.
func formatDBQueryForTrace(query string) string {
	lines := strings.Split(query, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		kept = append(kept, line)
	}

	flat := strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
	if len(flat) <= maxTracedQueryLength {
		return flat
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(flat[cut]) {
		cut--
	}
	return flat[:cut] + "..."
}
