package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// trailingPunctuation is stripped from the end of a captured span.
const trailingPunctuation = "?!.,;:"

// Location is a place name found in a query.
type Location struct {
	RawSpan string // RawSpan is the text captured after the trigger.
	Name    string // Name is the cleaned place name passed to the geocoder.
}

type rule struct {
	trigger  Trigger
	language Language
	pattern  *regexp.Regexp
}

// Extractor matches compiled trigger rules against query text. It is safe for concurrent use.
type Extractor struct {
	rules       []rule
	languages   map[string]Language
	regionWords []string
}

// New compiles the trigger table. Every trigger must reference a known language.
// regionWords name the deployment area ("Uppsala", "Sweden") and are skipped like
// stop words in every language.
func New(languages []Language, triggers []Trigger, regionWords ...string) (*Extractor, error) {
	byTag := make(map[string]Language, len(languages))
	for _, lang := range languages {
		byTag[lang.Tag] = lang
	}

	rules := make([]rule, 0, len(triggers))
	for _, trigger := range triggers {
		lang, ok := byTag[trigger.Language]
		if !ok {
			return nil, fmt.Errorf("trigger %q references unknown language %q", trigger.Phrase, trigger.Language)
		}
		pattern, err := compileTrigger(trigger.Phrase, lang)
		if err != nil {
			return nil, fmt.Errorf("failed to compile trigger %q: %w", trigger.Phrase, err)
		}
		rules = append(rules, rule{trigger: trigger, language: lang, pattern: pattern})
	}

	return &Extractor{rules: rules, languages: byTag, regionWords: regionWords}, nil
}

// MustNew is like New with the default tables and panics on error.
func MustNew(regionWords ...string) *Extractor {
	e, err := New(DefaultLanguages, DefaultTriggers, regionWords...)
	if err != nil {
		panic(err)
	}

	return e
}

// Extract returns the first place name in text. Only triggers of the given language are
// tried; an empty or unknown language tries every trigger. The boolean is false when the
// text names no place, which is the common case and not an error.
func (e *Extractor) Extract(text, language string) (Location, bool) {
	_, known := e.languages[language]

	for _, r := range e.rules {
		if known && r.trigger.Language != language {
			continue
		}

		for _, match := range r.pattern.FindAllStringSubmatch(text, -1) {
			raw := match[1]
			name := cleanSpan(TruncateAtConjunction(raw, r.language.Conjunctions))
			if name == "" || isStopWord(name, r.language.StopWords) || isStopWord(name, e.regionWords) {
				continue
			}

			return Location{RawSpan: raw, Name: name}, true
		}
	}

	return Location{}, false
}

// TruncateAtConjunction cuts span at the first comma or at the first word equal
// (ignoring case) to one of the conjunctions, keeping what precedes it.
func TruncateAtConjunction(span string, conjunctions []string) string {
	head := span
	if idx := strings.IndexByte(head, ','); idx >= 0 {
		head = head[:idx]
	}

	offset := 0
	for _, word := range strings.Fields(head) {
		idx := offset + strings.Index(head[offset:], word)
		for _, conj := range conjunctions {
			if strings.EqualFold(word, conj) {
				return strings.TrimSpace(head[:idx])
			}
		}
		offset = idx + len(word)
	}

	return strings.TrimSpace(head)
}

// compileTrigger builds `(?:^|\s)<phrase>\s+(<Word>(?:[\s,]+<Word>)*[?!.]?)`.
// The first letter of the phrase matches in either case so sentence-initial triggers work.
// A word is a capitalised word, a lone capital ("Uppsala C") or a short abbreviation
// with its period ("St. Eriks Torg").
func compileTrigger(phrase string, lang Language) (*regexp.Regexp, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, fmt.Errorf("empty trigger phrase")
	}

	first, size := utf8.DecodeRuneInString(phrase)
	head := "[" + regexp.QuoteMeta(string(unicode.ToUpper(first))) + regexp.QuoteMeta(string(unicode.ToLower(first))) + "]"
	rest := strings.Join(strings.Fields(regexp.QuoteMeta(phrase[size:])), `\s+`)
	if strings.HasPrefix(phrase[size:], " ") {
		rest = `\s+` + rest
	}

	word := fmt.Sprintf(`(?:[%[1]s][%[2]s]{0,2}\.|[%[1]s][%[2]s]*(?:-[%[1]s]?[%[2]s]+)*)`, lang.Upper, lang.Lower)
	expr := `(?:^|\s)` + head + rest + `\s+(` + word + `(?:[\s,]+` + word + `)*[?!.]?)`

	return regexp.Compile(expr)
}

func cleanSpan(span string) string {
	span = strings.Join(strings.Fields(span), " ")
	return strings.TrimSpace(strings.TrimRight(span, trailingPunctuation))
}

func isStopWord(name string, stopWords []string) bool {
	for _, w := range stopWords {
		if strings.EqualFold(name, w) {
			return true
		}
	}

	return false
}
