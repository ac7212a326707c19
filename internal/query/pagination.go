package query

import "fmt"

// MaxPageSize bounds page_size.
const MaxPageSize = 500

// validatePage checks page/page_size. page is 1-based; pageSize must
// be in [1, MaxPageSize].
func validatePage(page, pageSize int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidInput, page)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return fmt.Errorf("%w: page_size must be in [1, %d], got %d", ErrInvalidInput, MaxPageSize, pageSize)
	}
	return nil
}
