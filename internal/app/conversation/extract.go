package conversation

import (
	"regexp"
	"strings"
)

var searchStringPattern = regexp.MustCompile(`search_string[ \t]*=[ \t]*(.*)`)

// ExtractSearchString finds a `search_string = ...` marker in a model reply
// and returns its cleaned value. ok is false when there is no marker or its
// value is empty once cleaned. An unfilled `<...>` placeholder or a value
// that just echoes the marker name also counts as no marker.
func ExtractSearchString(reply string) (query string, ok bool) {
	m := searchStringPattern.FindStringSubmatch(reply)
	if m == nil {
		return "", false
	}

	query = strings.Join(strings.Fields(m[1]), " ")
	query = strings.Trim(query, "\"'`.,; ")
	if strings.HasPrefix(query, "<") && strings.HasSuffix(query, ">") {
		return "", false
	}
	query = strings.NewReplacer(`"`, "", "'", "").Replace(query)
	query = strings.TrimSpace(query)
	if query == "" || query == "search_string" {
		return "", false
	}
	return query, true
}
