package catalog

// DefaultPageSize is the number of products per catalog page
const DefaultPageSize = 8

// Page is one slice of a longer list.
type Page[T any] struct {
	Items  []T
	Number int
	Total  int
	Size   int
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.Total }
func (p Page[T]) Prev() int     { return p.Number - 1 }
func (p Page[T]) Next() int     { return p.Number + 1 }

// Numbers lists 1..Total for page links.
func (p Page[T]) Numbers() []int {
	out := make([]int, p.Total)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Paginate cuts items into pages of size and returns page number. There is
// always at least one page, and number is clamped into range.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := (len(items) + size - 1) / size
	if total < 1 {
		total = 1
	}
	if number < 1 {
		number = 1
	}
	if number > total {
		number = total
	}

	start := (number - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{
		Items:  items[start:end],
		Number: number,
		Total:  total,
		Size:   size,
	}
}
