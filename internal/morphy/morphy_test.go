package morphy

import (
	"reflect"
	"testing"

	"github.com/wordcraftio/wordcraft/internal/wordnet"
)

type stubDict struct {
	lemmas     map[wordnet.POS]map[string]bool
	exceptions map[wordnet.POS]map[string][]string
}

func (d *stubDict) exists(pos wordnet.POS, lemma string) bool {
	return d.lemmas[pos][lemma]
}

func (d *stubDict) Exceptions(pos wordnet.POS, surface string) []string {
	return d.exceptions[pos][surface]
}

func newStub() *stubDict {
	return &stubDict{
		lemmas: map[wordnet.POS]map[string]bool{
			wordnet.Noun: {"dog": true, "box": true, "church": true, "wish": true, "man": true, "fly": true, "bus": true},
			wordnet.Verb: {"carry": true, "bake": true, "dance": true, "run": true, "hope": true},
		},
		exceptions: map[wordnet.POS]map[string][]string{
			wordnet.Noun: {"men": {"man"}},
			wordnet.Verb: {"running": {"run"}},
		},
	}
}

func TestMorphstr_SurfaceMatch(t *testing.T) {
	d := newStub()
	got := Morphstr("dog", wordnet.Noun, d, d.exists)
	want := []Candidate{{Lemma: "dog", POS: wordnet.Noun, Source: Surface}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Morphstr(dog) = %+v, want %+v", got, want)
	}
}

func TestMorphstr_ExceptionTakesPriorityOverRule(t *testing.T) {
	d := newStub()
	got := Morphstr("men", wordnet.Noun, d, d.exists)
	if len(got) == 0 || got[0].Lemma != "man" || got[0].Source != Exception {
		t.Fatalf("Morphstr(men) = %+v, want first candidate man/Exception", got)
	}
}

func TestMorphstr_RuleApplication(t *testing.T) {
	d := newStub()
	cases := map[string]string{
		"boxes":    "box",
		"churches": "church",
		"wishes":   "wish",
		"flies":    "fly",
		"buses":    "bus",
	}
	for surface, want := range cases {
		got := Morphstr(surface, wordnet.Noun, d, d.exists)
		found := false
		for _, c := range got {
			if c.Lemma == want && c.Source == Rule {
				found = true
			}
		}
		if !found {
			t.Errorf("Morphstr(%s) = %+v, want a Rule candidate %q", surface, got, want)
		}
	}
}

func TestMorphstr_VerbRules(t *testing.T) {
	d := newStub()
	cases := map[string]string{
		"carried": "carry",
		"baked":   "bake",
		"baking":  "bake",
		"danced":  "dance",
		"running": "run",
	}
	for surface, want := range cases {
		got := Morphstr(surface, wordnet.Verb, d, d.exists)
		found := false
		for _, c := range got {
			if c.Lemma == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Morphstr(%s) = %+v, want to contain %q", surface, got, want)
		}
	}
}

func TestMorphstr_ShortStemRejected(t *testing.T) {
	d := newStub()
	// "s" suffix with stem "a" (length 1) must never be tried per the
	// ≥2-letter stem rule, even though it mechanically "ends with s".
	got := Morphstr("as", wordnet.Noun, d, d.exists)
	for _, c := range got {
		if c.Lemma == "a" {
			t.Errorf("Morphstr(as) produced a 1-letter stem candidate: %+v", got)
		}
	}
}

func TestMorphstr_NoVerifyNoCandidates(t *testing.T) {
	d := newStub()
	got := Morphstr("zzz", wordnet.Noun, d, d.exists)
	if len(got) != 0 {
		t.Errorf("Morphstr(zzz) = %+v, want empty", got)
	}
}

func TestMorphstr_EmptyNormalizedReturnsEmpty(t *testing.T) {
	d := newStub()
	got := Morphstr("   ", wordnet.Noun, d, d.exists)
	if got != nil {
		t.Errorf("Morphstr(whitespace) = %+v, want nil", got)
	}
}

func TestMorphstr_DedupesByLemma(t *testing.T) {
	d := newStub()
	// "dogs" surface-fails, but the s-stripping rule and no other rule
	// produce "dog"; verify it only appears once even if multiple rules
	// could theoretically produce the same candidate.
	got := Morphstr("dogs", wordnet.Noun, d, d.exists)
	count := 0
	for _, c := range got {
		if c.Lemma == "dog" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Morphstr(dogs) produced %d copies of 'dog', want 1: %+v", count, got)
	}
}

func TestMorphstrAny_FindsVerbCandidate(t *testing.T) {
	d := newStub()
	got := MorphstrAny("bakes", d, d.exists)
	// "bakes" is not a noun, but is a verb via the "es -> e" rule.
	foundVerb := false
	for _, c := range got {
		if c.POS == wordnet.Verb && c.Lemma == "bake" {
			foundVerb = true
		}
	}
	if !foundVerb {
		t.Errorf("MorphstrAny(bakes) = %+v, want a verb candidate bake", got)
	}
}

func TestMorphstr_AdverbsHaveNoRules(t *testing.T) {
	d := newStub()
	got := Morphstr("quickly", wordnet.Adverb, d, d.exists)
	if len(got) != 0 {
		t.Errorf("Morphstr(quickly, adverb) = %+v, want empty (no surface hit, no rules)", got)
	}
}
