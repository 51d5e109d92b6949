package retrieval_test

import (
	"testing"

	"github.com/UnknownOlympus/haven/internal/retrieval"
	"github.com/stretchr/testify/assert"
)

func TestQueryExpander_Expand(t *testing.T) {
	expander := retrieval.NewQueryExpander(retrieval.DefaultExpansions)

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "landmark",
			text: "skyddsrum nära Flogsta",
			want: "skyddsrum nära Flogsta Flogsta västra Uppsala Librobäck",
		},
		{
			name: "case and diacritics",
			text: "5 skyddsrum från ÅNGSTRÖMLABORATORIET",
			want: "5 skyddsrum från ÅNGSTRÖMLABORATORIET Ångström Lägerhyddsvägen Boländerna norra Uppsala",
		},
		{
			name: "english spelling",
			text: "shelters near Central Station",
			want: "shelters near Central Station Centralstation Bangårdsgatan Kungsgatan centrum Uppsala",
		},
		{
			name: "first match wins",
			text: "från Gottsunda eller Flogsta",
			want: "från Gottsunda eller Flogsta Flogsta västra Uppsala Librobäck",
		},
		{
			name: "unknown place",
			text: "skyddsrum nära Fyrishov",
			want: "skyddsrum nära Fyrishov",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expander.Expand(tt.text))
		})
	}
}

func TestNewQueryExpander_CustomTable(t *testing.T) {
	expander := retrieval.NewQueryExpander([]retrieval.Expansion{
		{Term: "  Clemenstorget ", Context: "Clemenstorget centrum Lund"},
		{Term: "", Context: "ignored"},
		{Term: "stortorget", Context: ""},
	})

	assert.Equal(t, "near clemenstorget Clemenstorget centrum Lund", expander.Expand("near clemenstorget"))
	assert.Equal(t, "near Stortorget", expander.Expand("near Stortorget"))
}
