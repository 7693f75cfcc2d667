package postgres

import (
	"net/url"
	"strings"
)

// pgbouncerParam makes lib/pq send parameters inline instead of preparing an
// unnamed statement first, which transaction-mode poolers cannot route.
const pgbouncerParam = "binary_parameters"

// NormalizeURL turns on pgbouncerParam when pgbouncer is set and the DSN does
// not already choose a value. Both URL and key=value forms are accepted.
func NormalizeURL(raw string, pgbouncer bool) string {
	raw = strings.TrimSpace(raw)
	if !pgbouncer || raw == "" {
		return raw
	}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		query := parsed.Query()
		if query.Has(pgbouncerParam) {
			return raw
		}
		query.Set(pgbouncerParam, "yes")
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	if _, ok := keywordValue(raw, pgbouncerParam); ok {
		return raw
	}
	return raw + " " + pgbouncerParam + "=yes"
}

// DatabaseName extracts the database name for span attributes and logs.
func DatabaseName(raw string) string {
	raw = strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		return strings.Trim(parsed.Path, "/ ")
	}
	name, _ := keywordValue(raw, "dbname")
	return name
}

// keywordValue looks up key in a libpq keyword/value connection string.
func keywordValue(dsn, key string) (string, bool) {
	for _, field := range strings.Fields(dsn) {
		k, v, found := strings.Cut(field, "=")
		if found && k == key {
			return strings.Trim(v, `"'`), true
		}
	}
	return "", false
}
