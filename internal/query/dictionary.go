package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wordcraftio/wordcraft/internal/morphy"
	"github.com/wordcraftio/wordcraft/internal/wordnet"
)

// MaxWordLen bounds dictionary/related word input.
const MaxWordLen = 64

// SynsetDTO is the wire shape for one WordNet sense.
type SynsetDTO struct {
	POS        string   `json:"pos"`
	Definition string   `json:"definition"`
	Examples   []string `json:"examples"`
	Lemmas     []string `json:"lemmas"`
}

// DictionaryResult is the /v1/wordnet/dictionary response body.
type DictionaryResult struct {
	Normalized string      `json:"normalized"`
	Note       string      `json:"note,omitempty"`
	Results    []SynsetDTO `json:"results"`
}

func validateWord(word string) error {
	if len(word) == 0 || len(word) > MaxWordLen {
		return fmt.Errorf("%w: word must be 1..%d characters, got %d", ErrInvalidInput, MaxWordLen, len(word))
	}
	for _, r := range word {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isLetter && r != '_' && r != ' ' {
			return fmt.Errorf("%w: word contains an invalid character %q", ErrInvalidInput, r)
		}
	}
	return nil
}

func synsetDTO(s *wordnet.Synset) SynsetDTO {
	lemmas := make([]string, len(s.Lemmas))
	for i, l := range s.Lemmas {
		lemmas[i] = l.Word
	}
	examples := s.Examples()
	if examples == nil {
		examples = []string{}
	}
	return SynsetDTO{
		POS:        s.ID.POS.String(),
		Definition: s.Definition(),
		Examples:   examples,
		Lemmas:     lemmas,
	}
}

// synsetKey dedupes synsets encountered via multiple POS/candidate paths,
// keyed on the pair that identifies a synset uniquely.
type synsetKey struct {
	pos    wordnet.POS
	offset uint32
}

// dictionaryLookup is the shared pipeline for Dictionary and Related: it
// walks morphstr for every POS, resolves each surviving candidate lemma
// through the index to its synsets, and dedupes by (pos, offset) while
// preserving encounter order.
func dictionaryLookup(wn *wordnet.LoadedWordNet, word string) (normalized, note string, synsets []*wordnet.Synset, err error) {
	if err := validateWord(word); err != nil {
		return "", "", nil, err
	}
	if wn == nil {
		return "", "", nil, ErrNotAvailable
	}

	normalizedInternal := wordnet.Normalize(word)
	normalized = strings.ReplaceAll(normalizedInternal, " ", "_")

	seen := make(map[synsetKey]struct{})
	exactMatched := false
	fellBackTo := ""

	for _, pos := range wordnet.AllPOS {
		for _, c := range morphy.Morphstr(word, pos, wn, wn.LemmaExists) {
			entry, ok := wn.Index(pos, c.Lemma)
			if !ok {
				continue
			}
			if c.Source == morphy.Surface && c.Lemma == normalizedInternal {
				exactMatched = true
			} else if fellBackTo == "" {
				fellBackTo = c.Lemma
			}
			for _, offset := range entry.Offsets {
				syn, ok := wn.Synset(wordnet.SynsetID{POS: pos, Offset: offset})
				if !ok {
					continue
				}
				key := synsetKey{pos, offset}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				synsets = append(synsets, syn)
			}
		}
	}

	switch {
	case normalized != word:
		note = fmt.Sprintf("normalized %q to %q", word, normalized)
	case !exactMatched && fellBackTo != "":
		note = fmt.Sprintf("no exact entry for %q; showing results for %q", normalized, fellBackTo)
	}
	return normalized, note, synsets, nil
}

// Dictionary answers a dictionary query: every synset reachable from
// word via exact or morphological lookup, deduplicated. The result is not
// paginated.
func Dictionary(wn *wordnet.LoadedWordNet, word string) (DictionaryResult, error) {
	normalized, note, synsets, err := dictionaryLookup(wn, word)
	if err != nil {
		return DictionaryResult{}, err
	}
	results := make([]SynsetDTO, len(synsets))
	for i, s := range synsets {
		results[i] = synsetDTO(s)
	}
	return DictionaryResult{Normalized: normalized, Note: note, Results: results}, nil
}

// RelationTarget is one dereferenced relation endpoint: enough of the
// target synset to render a relation card with no second round trip.
type RelationTarget struct {
	SynsetID   string   `json:"synset_id"`
	Lemmas     []string `json:"lemmas"`
	POS        string   `json:"pos"`
	Definition string   `json:"definition"`
	SenseCount int      `json:"sense_count"`
}

// RelationGroup bundles every pointer of one kind from a synset.
type RelationGroup struct {
	Kind    string           `json:"kind"`
	Label   string           `json:"label"`
	Symbol  string           `json:"symbol"`
	Targets []RelationTarget `json:"targets"`
}

// RelatedSynsetDTO is one synset enriched with its dereferenced relation
// groups.
type RelatedSynsetDTO struct {
	ID         string          `json:"id"`
	POS        string          `json:"pos"`
	Lemmas     []string        `json:"lemmas"`
	Definition string          `json:"definition"`
	Examples   []string        `json:"examples"`
	Relations  []RelationGroup `json:"relations"`
}

// RelatedResult is the /v1/wordnet/related response body.
type RelatedResult struct {
	Normalized string             `json:"normalized"`
	Note       string             `json:"note,omitempty"`
	Synsets    []RelatedSynsetDTO `json:"synsets"`
}

func kindSlug(label string) string {
	return strings.ReplaceAll(label, " ", "_")
}

func senseCountFor(wn *wordnet.LoadedWordNet, target *wordnet.Synset) int {
	if len(target.Lemmas) == 0 {
		return 0
	}
	entry, ok := wn.Index(target.ID.POS, target.Lemmas[0].Word)
	if !ok {
		return 0
	}
	return entry.SenseCount()
}

func relationGroups(wn *wordnet.LoadedWordNet, s *wordnet.Synset) []RelationGroup {
	order := make([]wordnet.Relation, 0, len(s.Pointers))
	bySymbol := make(map[wordnet.Relation][]wordnet.Pointer)
	for _, p := range s.Pointers {
		if _, ok := bySymbol[p.Symbol]; !ok {
			order = append(order, p.Symbol)
		}
		bySymbol[p.Symbol] = append(bySymbol[p.Symbol], p)
	}

	groups := make([]RelationGroup, 0, len(order))
	for _, symbol := range order {
		pointers := bySymbol[symbol]
		targets := make([]RelationTarget, 0, len(pointers))
		for _, p := range pointers {
			target, ok := wn.Synset(p.Target)
			if !ok {
				continue
			}
			lemmas := make([]string, len(target.Lemmas))
			for i, l := range target.Lemmas {
				lemmas[i] = l.Word
			}
			targets = append(targets, RelationTarget{
				SynsetID:   target.ID.String(),
				Lemmas:     lemmas,
				POS:        target.ID.POS.String(),
				Definition: target.Definition(),
				SenseCount: senseCountFor(wn, target),
			})
		}
		sort.SliceStable(targets, func(i, j int) bool {
			if targets[i].SenseCount != targets[j].SenseCount {
				return targets[i].SenseCount > targets[j].SenseCount
			}
			li, lj := "", ""
			if len(targets[i].Lemmas) > 0 {
				li = targets[i].Lemmas[0]
			}
			if len(targets[j].Lemmas) > 0 {
				lj = targets[j].Lemmas[0]
			}
			return li < lj
		})
		label := symbol.Label()
		groups = append(groups, RelationGroup{
			Kind:    kindSlug(label),
			Label:   label,
			Symbol:  string(symbol),
			Targets: targets,
		})
	}
	return groups
}

// Related answers a related-word query: every synset reachable from
// word, each enriched with its dereferenced, grouped relation targets.
func Related(wn *wordnet.LoadedWordNet, word string) (RelatedResult, error) {
	normalized, note, synsets, err := dictionaryLookup(wn, word)
	if err != nil {
		return RelatedResult{}, err
	}

	out := make([]RelatedSynsetDTO, len(synsets))
	for i, s := range synsets {
		lemmas := make([]string, len(s.Lemmas))
		for j, l := range s.Lemmas {
			lemmas[j] = l.Word
		}
		examples := s.Examples()
		if examples == nil {
			examples = []string{}
		}
		out[i] = RelatedSynsetDTO{
			ID:         s.ID.String(),
			POS:        s.ID.POS.String(),
			Lemmas:     lemmas,
			Definition: s.Definition(),
			Examples:   examples,
			Relations:  relationGroups(wn, s),
		}
	}
	return RelatedResult{Normalized: normalized, Note: note, Synsets: out}, nil
}
