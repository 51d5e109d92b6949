package extract

// Language holds the per-language rules used to capture and clean a place name.
type Language struct {
	Tag          string   // Tag is the language tag, e.g. "sv".
	Upper        string   // Upper is the regexp class body for capital letters.
	Lower        string   // Lower is the regexp class body for lower-case letters.
	Conjunctions []string // Conjunctions separate two place names ("or").
	StopWords    []string // StopWords are capitalised words that are never places.
}

// Trigger is a phrase that introduces a place name.
type Trigger struct {
	Phrase   string
	Language string
}

// DefaultLanguages covers Swedish and English.
var DefaultLanguages = []Language{
	{
		Tag:          "sv",
		Upper:        "A-ZÅÄÖÉ",
		Lower:        "a-zåäöé",
		Conjunctions: []string{"eller", "och"},
		StopWords:    []string{"Vilka", "Visa", "Hur", "Var"},
	},
	{
		Tag:          "en",
		Upper:        "A-Z",
		Lower:        "a-z",
		Conjunctions: []string{"or", "and"},
		StopWords:    []string{"Find", "Show", "Which", "What", "Where"},
	},
}

// DefaultTriggers is ordered by priority: an earlier trigger wins over a later one
// even when the later one matches further left in the text.
var DefaultTriggers = []Trigger{
	{Phrase: "från", Language: "sv"},
	{Phrase: "from", Language: "en"},
	{Phrase: "vid", Language: "sv"},
	{Phrase: "nära", Language: "sv"},
	{Phrase: "near", Language: "en"},
	{Phrase: "i närheten av", Language: "sv"},
	{Phrase: "i", Language: "sv"},
	{Phrase: "in", Language: "en"},
	{Phrase: "at", Language: "en"},
	{Phrase: "på", Language: "sv"},
	{Phrase: "around", Language: "en"},
	{Phrase: "runt", Language: "sv"},
}
