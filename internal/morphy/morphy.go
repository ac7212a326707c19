// Package morphy reduces a surface word form to candidate dictionary
// lemmas by consulting exception lists and applying part-of-speech
// suffix rules, the way Princeton WordNet's own morph.c does. It does
// not own a dictionary: callers inject a verify predicate, so the
// algorithm itself can be tested against a stub lemma set instead of a
// real WordNet load.
package morphy

import (
	"strings"

	"github.com/wordcraftio/wordcraft/internal/wordnet"
)

// Source records how a Candidate was derived.
type Source int

const (
	Surface Source = iota
	Exception
	Rule
)

func (s Source) String() string {
	switch s {
	case Surface:
		return "surface"
	case Exception:
		return "exception"
	case Rule:
		return "rule"
	default:
		return "unknown"
	}
}

// Candidate is one lemma Morphy proposes for a surface form.
type Candidate struct {
	Lemma  string
	POS    wordnet.POS
	Source Source
}

// Exceptions looks up a surface form's exception-table base forms for a
// given POS. ExistsFunc reports whether a (POS, lemma) pair is in the
// loaded dictionary. Both are satisfied by *wordnet.LoadedWordNet, and
// both are narrowed to exactly what Morphy needs so rules.go and
// morphy.go stay testable against a stub instead of a real WordNet load.
type Exceptions interface {
	Exceptions(pos wordnet.POS, surface string) []string
}

type ExistsFunc func(pos wordnet.POS, lemma string) bool

// normalize lowercases s and collapses whitespace runs to a single
// space, matching wordnet.Normalize's key format exactly: this module
// stores WordNet's underscore-joined lemmas as space-joined surface
// forms throughout (see wordnet.underscoresToSpaces), so Morphy
// normalizes to the same space form rather than introducing a second
// convention.
func normalize(s string) string {
	return wordnet.Normalize(s)
}

// Morphstr runs the four-step Morphy algorithm for one part of speech:
// try the surface form itself, consult the exception table, then apply
// each suffix rule for pos, verifying every candidate against exists.
// exceptions may be nil if no exception table is available for pos.
func Morphstr(surface string, pos wordnet.POS, exceptions Exceptions, exists ExistsFunc) []Candidate {
	normalized := normalize(surface)
	if normalized == "" {
		return nil
	}

	var candidates []Candidate
	seen := make(map[string]struct{})
	push := func(lemma string, src Source) {
		if _, dup := seen[lemma]; dup {
			return
		}
		seen[lemma] = struct{}{}
		candidates = append(candidates, Candidate{Lemma: lemma, POS: pos, Source: src})
	}

	if exists(pos, normalized) {
		push(normalized, Surface)
	}

	if exceptions != nil {
		for _, base := range exceptions.Exceptions(pos, normalized) {
			push(base, Exception)
		}
	}

	for _, r := range rulesFor(pos) {
		if !strings.HasSuffix(normalized, r.suffix) {
			continue
		}
		stem := normalized[:len(normalized)-len(r.suffix)]
		if len(stem) < 2 {
			continue
		}
		candidate := stem + r.replacement
		if exists(pos, candidate) {
			push(candidate, Rule)
		}
	}

	return candidates
}

// MorphstrAny applies Morphstr for every part of speech in the fixed
// order Noun, Verb, Adjective, Adverb, concatenating results.
func MorphstrAny(surface string, exceptions Exceptions, exists ExistsFunc) []Candidate {
	var all []Candidate
	for _, pos := range wordnet.AllPOS {
		all = append(all, Morphstr(surface, pos, exceptions, exists)...)
	}
	return all
}
