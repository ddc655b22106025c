package language

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fallback is returned when no candidate language scores above zero.
const Fallback = "en"

type entry struct {
	code     string   // ISO 639-1 (2-letter)
	display  string   // Human-readable name
	keywords []string // Common function words used for detection scoring
}

var languages = []entry{
	{"en", "English", []string{"the", "and", "is", "are", "of", "to", "in", "that", "with", "for"}},
	{"es", "Spanish", []string{"el", "la", "los", "las", "es", "son", "de", "que", "con", "para", "una"}},
	{"fr", "French", []string{"le", "la", "les", "est", "sont", "de", "que", "avec", "pour", "une", "dans"}},
	{"de", "German", []string{"der", "die", "das", "ist", "sind", "und", "mit", "ein", "eine", "nicht", "von"}},
	{"it", "Italian", []string{"il", "lo", "gli", "e", "sono", "di", "che", "con", "per", "una", "nel"}},
	{"pt", "Portuguese", []string{"o", "a", "os", "as", "e", "sao", "de", "que", "com", "para", "uma", "nao"}},
}

var keywordSets map[string]map[string]struct{}

func init() {
	keywordSets = make(map[string]map[string]struct{}, len(languages))
	for _, e := range languages {
		set := make(map[string]struct{}, len(e.keywords))
		for _, w := range e.keywords {
			set[w] = struct{}{}
		}
		keywordSets[e.code] = set
	}
}

// Detect guesses the language of text by counting matches against small
// per-language keyword sets over the word list. The highest-scoring language
// wins; ties break in table order and a zero score falls back to English.
// This is a best-effort heuristic, not a correctness-critical path.
func Detect(text string) string {
	words := tokenize(text)
	if len(words) == 0 {
		return Fallback
	}

	best := Fallback
	bestScore := 0
	for _, e := range languages {
		set := keywordSets[e.code]
		score := 0
		for _, w := range words {
			if _, ok := set[w]; ok {
				score++
			}
		}
		if score > bestScore {
			best = e.code
			bestScore = score
		}
	}
	return best
}

// Display returns the human-readable name for a detected code.
func Display(code string) string {
	for _, e := range languages {
		if e.code == code {
			return e.display
		}
	}
	return code
}

// tokenize lowercases, folds diacritics, and splits text into bare words so
// accented forms match the ASCII keyword tables.
func tokenize(text string) []string {
	folded := norm.NFKD.String(strings.ToLower(text))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.Is(unicode.Mn, r):
			// drop combining marks left over from decomposition
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}
