package morphy

import "github.com/wordcraftio/wordcraft/internal/wordnet"

// rule is one (suffix, replacement) pair from a POS's fixed rule table.
// A stem shorter than 2 letters after replacement is never tried — see
// Morphstr step 4.
type rule struct {
	suffix      string
	replacement string
}

// Rule tables, transcribed verbatim from the Princeton WordNet reference
// suffix tables: one ordered list per part of speech. Order matters —
// candidates are generated and verified in table order, and surviving
// ones are returned in that same order after dedup.
var (
	nounRules = []rule{
		{"ses", "s"},
		{"xes", "x"},
		{"zes", "z"},
		{"ches", "ch"},
		{"shes", "sh"},
		{"men", "man"},
		{"ies", "y"},
		{"s", ""},
	}

	verbRules = []rule{
		{"ies", "y"},
		{"ied", "y"},
		{"es", "e"},
		{"ed", "e"},
		{"ed", ""},
		{"ing", "e"},
		{"ing", ""},
		{"s", ""},
	}

	adjectiveRules = []rule{
		{"er", ""},
		{"est", ""},
		{"er", "e"},
		{"est", "e"},
	}

	adverbRules []rule // empty: adverbs have no suffix rules
)

func rulesFor(pos wordnet.POS) []rule {
	switch pos {
	case wordnet.Noun:
		return nounRules
	case wordnet.Verb:
		return verbRules
	case wordnet.Adjective:
		return adjectiveRules
	case wordnet.Adverb:
		return adverbRules
	}
	return nil
}
