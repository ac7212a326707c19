package wordlist

import (
	"errors"
	"fmt"

	"github.com/wordcraftio/wordcraft/internal/bitset"
)

// ErrInvalidPattern is returned when a pattern's length is 0, exceeds the
// index's MaxLen, or contains a cell that isn't a lowercase letter or '_'.
var ErrInvalidPattern = errors.New("wordlist: invalid pattern")

// PatternCell is one position of a fixed-length template: either a fixed
// letter or a blank that matches anything.
type PatternCell struct {
	Letter byte // 'a'..'z' when Any is false; zero value otherwise
	Any    bool
}

// ParsePattern turns a string of [a-z_] into PatternCells. '_' (and, for
// caller convenience, '?') become blanks; anything else is a letter cell.
// It rejects empty patterns, patterns over maxLen, and any byte outside
// [a-z_?].
func ParsePattern(s string, maxLen int) ([]PatternCell, error) {
	if len(s) == 0 || len(s) > maxLen {
		return nil, fmt.Errorf("%w: length %d not in [1, %d]", ErrInvalidPattern, len(s), maxLen)
	}
	cells := make([]PatternCell, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '?':
			cells[i] = PatternCell{Any: true}
		case c >= 'a' && c <= 'z':
			cells[i] = PatternCell{Letter: c}
		default:
			return nil, fmt.Errorf("%w: position %d (%q) is not a letter or '_'", ErrInvalidPattern, i, c)
		}
	}
	return cells, nil
}

// bucket holds every accepted word of one length L, in load order, plus
// the positional and contains-letter bitsets built over it.
type bucket struct {
	words []string
	// positional[pos][c-'a'] is P[L][pos][c]: bit i set iff words[i][pos]==c.
	positional [][26]*bitset.Set
	// contains[c-'a'] is C[L][c]: bit i set iff c appears anywhere in words[i].
	contains [26]*bitset.Set
}

// Index is the complete, immutable, built-once wordlist index: one bucket
// per observed word length, built from the words Load returned.
type Index struct {
	maxLen  int
	buckets map[int]*bucket
}

// BuildIndex constructs the positional and contains-letter bitsets for
// every length present in words. Each bitset in bucket L has length
// exactly N_L, the number of words of that length; the 26 positional
// bitsets at a given position are pairwise disjoint and their union is
// all-ones because every accepted word has exactly one letter at that
// position.
func BuildIndex(words []string, maxLen int) *Index {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	byLen := make(map[int][]string)
	for _, w := range words {
		byLen[len(w)] = append(byLen[len(w)], w)
	}

	buckets := make(map[int]*bucket, len(byLen))
	for l, ws := range byLen {
		b := &bucket{words: ws}
		n := len(ws)
		b.positional = make([][26]*bitset.Set, l)
		for pos := 0; pos < l; pos++ {
			for c := 0; c < 26; c++ {
				b.positional[pos][c] = bitset.New(n)
			}
		}
		for c := 0; c < 26; c++ {
			b.contains[c] = bitset.New(n)
		}
		for i, w := range ws {
			seen := [26]bool{}
			for pos := 0; pos < l; pos++ {
				c := w[pos] - 'a'
				b.positional[pos][c].Set(i)
				if !seen[c] {
					seen[c] = true
					b.contains[c].Set(i)
				}
			}
		}
		buckets[l] = b
	}
	return &Index{maxLen: maxLen, buckets: buckets}
}

// MaxLen returns the upper bound on indexable word length.
func (idx *Index) MaxLen() int { return idx.maxLen }

// BucketSize returns N_L, the number of accepted words of length l.
func (idx *Index) BucketSize(l int) int {
	b, ok := idx.buckets[l]
	if !ok {
		return 0
	}
	return len(b.words)
}

// patternMask computes the AND of P[L][pos][c] for every Letter cell in
// pattern, or an all-ones mask of length N_L if pattern has no Letter
// cells. Returns nil if the bucket for len(pattern) doesn't exist.
func (idx *Index) patternMask(pattern []PatternCell) *bitset.Set {
	l := len(pattern)
	b, ok := idx.buckets[l]
	if !ok {
		return nil
	}
	n := len(b.words)
	mask := bitset.NewFull(n)
	for pos, cell := range pattern {
		if cell.Any {
			continue
		}
		mask.And(b.positional[pos][cell.Letter-'a'])
	}
	return mask
}

// MatchPattern returns every word in bucket len(pattern) that matches
// pattern, in input order. An absent bucket or a pattern longer than
// MaxLen yields an empty, non-error result.
func (idx *Index) MatchPattern(pattern []PatternCell) []string {
	if len(pattern) == 0 || len(pattern) > idx.maxLen {
		return nil
	}
	b, ok := idx.buckets[len(pattern)]
	if !ok {
		return nil
	}
	mask := idx.patternMask(pattern)
	if mask == nil {
		return nil
	}
	out := make([]string, 0, mask.Popcount())
	mask.Each(func(i int) bool {
		out = append(out, b.words[i])
		return true
	})
	return out
}

// Letters is a multiset of lowercase letters, as used by anagram queries.
type Letters [26]int

// NewLetters builds a Letters multiset from a string of lowercase ASCII
// letters. It returns an error if s is empty, longer than maxLen, or
// contains anything outside [a-z].
func NewLetters(s string, maxLen int) (Letters, error) {
	var m Letters
	if len(s) == 0 || len(s) > maxLen {
		return m, fmt.Errorf("%w: letters length %d not in [1, %d]", ErrInvalidPattern, len(s), maxLen)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return m, fmt.Errorf("%w: letters position %d (%q) is not a lowercase letter", ErrInvalidPattern, i, c)
		}
		m[c-'a']++
	}
	return m, nil
}

// Total returns the sum of multiplicities, i.e. the total letter count.
func (m Letters) Total() int {
	n := 0
	for _, c := range m {
		n += c
	}
	return n
}

// histogram returns the Letters multiset of word w. Only valid for
// lowercase a-z words, which is everything the index stores.
func histogram(w string) Letters {
	var h Letters
	for i := 0; i < len(w); i++ {
		h[w[i]-'a']++
	}
	return h
}

// AnagramQuery runs the three-step anagram algorithm: position filter,
// containment prefilter, multiset verification. pattern may be nil,
// meaning no positional constraint. When non-nil its length must already
// equal letters.Total() — callers validate this at the service boundary;
// AnagramQuery itself trusts its input.
func (idx *Index) AnagramQuery(letters Letters, pattern []PatternCell) []string {
	l := letters.Total()
	if pattern != nil {
		l = len(pattern)
	}
	if l == 0 || l > idx.maxLen {
		return nil
	}
	b, ok := idx.buckets[l]
	if !ok {
		return nil
	}

	var mask *bitset.Set
	if pattern != nil {
		mask = idx.patternMask(pattern)
	} else {
		mask = bitset.NewFull(len(b.words))
	}

	fixed := make([]bool, 26)
	if pattern != nil {
		for _, cell := range pattern {
			if !cell.Any {
				fixed[cell.Letter-'a'] = true
			}
		}
	}

	// Containment prefilter: every letter present in the multiset and not
	// already pinned by the pattern must appear in the word; every letter
	// absent from the multiset and not pinned must NOT appear.
	for c := 0; c < 26; c++ {
		if fixed[c] {
			continue
		}
		if letters[c] > 0 {
			mask.And(b.contains[c])
		} else {
			mask.AndNot(b.contains[c])
		}
	}

	// Multiset verification on the sparse survivor set.
	out := make([]string, 0, mask.Popcount())
	mask.Each(func(i int) bool {
		w := b.words[i]
		if histogram(w) == letters {
			out = append(out, w)
		}
		return true
	})
	return out
}

// Paginate slices items into the page of size pageSize starting at
// 1-based index page, returning that page and the exact total item
// count. page and pageSize are assumed already validated by the caller
// (page>=1, pageSize in [1,500]).
func Paginate[T any](items []T, page, pageSize int) (out []T, total int) {
	total = len(items)
	start := (page - 1) * pageSize
	if start >= total || start < 0 {
		return nil, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end], total
}
