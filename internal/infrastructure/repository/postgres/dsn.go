package postgres

import (
	"net/url"
	"strings"
)

const preparedBinaryKey = "disable_prepared_binary_result"

// PoolDSN prepares a connection string for pgbouncer in transaction mode,
// where lib/pq must not rely on binary results of prepared statements. Both
// URL and keyword/value forms are accepted. An explicit setting is kept.
func PoolDSN(raw string, disablePreparedBinary bool) string {
	raw = strings.TrimSpace(raw)
	if !disablePreparedBinary || raw == "" {
		return raw
	}

	if parsed, ok := parseURLDSN(raw); ok {
		query := parsed.Query()
		if query.Get(preparedBinaryKey) != "" {
			return raw
		}
		query.Set(preparedBinaryKey, "yes")
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	if _, set := keywordDSN(raw)[preparedBinaryKey]; set {
		return raw
	}
	return raw + " " + preparedBinaryKey + "=yes"
}

// DatabaseName extracts the database name for trace attributes.
func DatabaseName(raw string) string {
	raw = strings.TrimSpace(raw)
	if parsed, ok := parseURLDSN(raw); ok {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}
	return keywordDSN(raw)["dbname"]
}

func parseURLDSN(raw string) (*url.URL, bool) {
	if !strings.HasPrefix(raw, "postgres://") && !strings.HasPrefix(raw, "postgresql://") {
		return nil, false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	return parsed, true
}

// keywordDSN reads "host=... dbname=..." pairs. Quoted values are unwrapped
// but may not contain spaces.
func keywordDSN(raw string) map[string]string {
	out := map[string]string{}
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return out
}
