package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSearchString(t *testing.T) {
	cases := []struct {
		name   string
		reply  string
		want   string
		wantOK bool
	}{
		{"double quoted", `Sure! search_string="red shoes"`, "red shoes", true},
		{"spaced", "Here you go: search_string = budget coat", "budget coat", true},
		{"single quoted", "search_string='women floral summer dress'", "women floral summer dress", true},
		{"spaced quoted", `search_string = "men navy blazer under 200"`, "men navy blazer under 200", true},
		{"collapses whitespace", "search_string=  black   leather\tboots ", "black leather boots", true},
		{"trailing period", `search_string = "green parka".`, "green parka", true},
		{"stops at newline", "search_string=\"linen shirt\"\nLet me know!", "linen shirt", true},
		{"no marker", "What colour do you prefer?", "", false},
		{"case sensitive", `SEARCH_STRING="red shoes"`, "", false},
		{"empty value", `search_string=""`, "", false},
		{"value on next line", "search_string =\nWhat budget do you have?", "", false},
		{"unfilled placeholder", `search_string = "<search_string>"`, "", false},
		{"bare placeholder", "search_string=<query>", "", false},
		{"echoed marker name", "search_string='search_string'", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractSearchString(tc.reply)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
