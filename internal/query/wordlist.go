package query

import (
	"fmt"

	"github.com/wordcraftio/wordcraft/internal/wordlist"
)

// PageResult is the shape both pattern and anagram endpoints return:
// a page of words plus the total survivor count.
type PageResult struct {
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	Items    []string `json:"items"`
}

// Matches answers a pattern query: every indexed word matching a
// fixed-length letter/wildcard pattern, paginated.
func Matches(idx *wordlist.Index, pattern string, page, pageSize int) (PageResult, error) {
	if err := validatePage(page, pageSize); err != nil {
		return PageResult{}, err
	}
	cells, err := wordlist.ParsePattern(pattern, idx.MaxLen())
	if err != nil {
		return PageResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	all := idx.MatchPattern(cells)
	items, total := wordlist.Paginate(all, page, pageSize)
	return PageResult{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}

// Anagrams answers an anagram query: every indexed word using exactly
// the given letter multiset, optionally also matching pattern.
// pattern may be empty, meaning no positional constraint.
func Anagrams(idx *wordlist.Index, letters, pattern string, page, pageSize int) (PageResult, error) {
	if err := validatePage(page, pageSize); err != nil {
		return PageResult{}, err
	}

	multiset, err := wordlist.NewLetters(letters, idx.MaxLen())
	if err != nil {
		return PageResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var cells []wordlist.PatternCell
	if pattern != "" {
		cells, err = wordlist.ParsePattern(pattern, idx.MaxLen())
		if err != nil {
			return PageResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		if len(cells) != multiset.Total() {
			return PageResult{}, fmt.Errorf("%w: pattern length %d does not match letters length %d",
				ErrInvalidInput, len(cells), multiset.Total())
		}
	}

	all := idx.AnagramQuery(multiset, cells)
	items, total := wordlist.Paginate(all, page, pageSize)
	return PageResult{Total: total, Page: page, PageSize: pageSize, Items: items}, nil
}
