package retrieval

import "strings"

// Expansion appends Context to queries mentioning Term.
type Expansion struct {
	Term    string // Term is matched as a case-insensitive substring.
	Context string // Context names streets and districts around the landmark.
}

// DefaultExpansions covers well-known Uppsala landmarks whose names rarely appear in
// shelter addresses. Order matters: the first matching term wins.
var DefaultExpansions = []Expansion{
	{Term: "ångström", Context: "Ångström Lägerhyddsvägen Boländerna norra Uppsala"},
	{Term: "angstrom", Context: "Ångström Lägerhyddsvägen Boländerna norra Uppsala"},
	{Term: "ekonomikum", Context: "Ekonomikum Kyrkogårdsgatan centrum Uppsala"},
	{Term: "bmc", Context: "BMC Biomedicinskt centrum Husargatan Uppsala"},
	{Term: "polacksbacken", Context: "Polacksbacken östra Uppsala Luthagen"},
	{Term: "centralstation", Context: "Centralstation Bangårdsgatan Kungsgatan centrum Uppsala"},
	{Term: "central station", Context: "Centralstation Bangårdsgatan Kungsgatan centrum Uppsala"},
	{Term: "stora torget", Context: "Stora torget centrum Uppsala"},
	{Term: "domkyrka", Context: "Domkyrka St Eriks torg centrum Uppsala"},
	{Term: "slott", Context: "Uppsala slott Kasåsen centrum"},
	{Term: "flogsta", Context: "Flogsta västra Uppsala Librobäck"},
	{Term: "studentstaden", Context: "Studentstaden Kantorsgatan västra Uppsala"},
	{Term: "kantorsgatan", Context: "Kantorsgatan Studentstaden västra Uppsala"},
	{Term: "luthagen", Context: "Luthagen östra Uppsala"},
	{Term: "gottsunda", Context: "Gottsunda södra Uppsala Valsätra"},
	{Term: "valsätra", Context: "Valsätra södra Uppsala Gottsunda"},
	{Term: "sävja", Context: "Sävja östra Uppsala"},
	{Term: "boländerna", Context: "Boländerna norra Uppsala"},
	{Term: "librobäck", Context: "Librobäck västra Uppsala Flogsta"},
	{Term: "akademiska", Context: "Akademiska sjukhuset södra Uppsala"},
	{Term: "sjukhus", Context: "Akademiska sjukhuset södra Uppsala"},
}

// QueryExpander enriches retrieval text with the surroundings of a named landmark.
// It is safe for concurrent use.
type QueryExpander struct {
	expansions []Expansion
}

// NewQueryExpander copies the table, lower-casing terms and dropping empty entries.
func NewQueryExpander(expansions []Expansion) *QueryExpander {
	table := make([]Expansion, 0, len(expansions))
	for _, e := range expansions {
		term := strings.ToLower(strings.TrimSpace(e.Term))
		if term == "" || e.Context == "" {
			continue
		}
		table = append(table, Expansion{Term: term, Context: e.Context})
	}

	return &QueryExpander{expansions: table}
}

// Expand appends the context of the first matching term, or returns text unchanged.
func (q *QueryExpander) Expand(text string) string {
	lower := strings.ToLower(text)
	for _, e := range q.expansions {
		if strings.Contains(lower, e.Term) {
			return text + " " + e.Context
		}
	}

	return text
}
