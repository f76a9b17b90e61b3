package paginator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of posts shown on a listing page when the
// configuration does not say otherwise.
const DefaultPageSize = 10

// Paginator splits a collection of Count items into pages of PageSize.
type Paginator struct {
	Count    int
	PageSize int
}

// Window is a single page of a Paginator: which items it covers and where
// it sits among the other pages.
type Window struct {
	Number   int
	NumPages int
	Count    int
	PageSize int
}

// New returns a Paginator. A non-positive page size falls back to DefaultPageSize.
func New(count, pageSize int) Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if count < 0 {
		count = 0
	}
	return Paginator{Count: count, PageSize: pageSize}
}

// NumPages is ceil(Count/PageSize). An empty collection still has one
// (empty) page so that page 1 is always servable.
func (p Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return (p.Count + p.PageSize - 1) / p.PageSize
}

// Page returns the window for the requested page number. Numbers below 1
// resolve to the first page, numbers past the end to the last page.
func (p Paginator) Page(number int) Window {
	numPages := p.NumPages()
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	return Window{
		Number:   number,
		NumPages: numPages,
		Count:    p.Count,
		PageSize: p.PageSize,
	}
}

// GetPage resolves a raw "page" query value. Anything that is not a
// positive integer yields page 1.
func (p Paginator) GetPage(raw string) Window {
	return p.Page(ParsePage(raw))
}

// ParsePage converts a raw page query value into a page number, defaulting
// to 1. A positive number too large for an int becomes math.MaxInt so that
// it still resolves to the last page.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return math.MaxInt
	}
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Offset is the index of the first item on the page.
func (w Window) Offset() int {
	return (w.Number - 1) * w.PageSize
}

// Limit is the maximum number of items on the page.
func (w Window) Limit() int {
	return w.PageSize
}

// Len is the number of items actually on the page.
func (w Window) Len() int {
	end := w.Offset() + w.PageSize
	if end > w.Count {
		end = w.Count
	}
	if end < w.Offset() {
		return 0
	}
	return end - w.Offset()
}

func (w Window) HasPrevious() bool {
	return w.Number > 1
}

func (w Window) HasNext() bool {
	return w.Number < w.NumPages
}

// PreviousPageNumber returns 0 on the first page.
func (w Window) PreviousPageNumber() int {
	if !w.HasPrevious() {
		return 0
	}
	return w.Number - 1
}

// NextPageNumber returns 0 on the last page.
func (w Window) NextPageNumber() int {
	if !w.HasNext() {
		return 0
	}
	return w.Number + 1
}

// Page is a slice of an ordered collection along with its window.
type Page[T any] struct {
	Items []T
	Window
}

// Paginate cuts items into pages of pageSize and returns the page
// requested by raw. items is not modified or reordered.
func Paginate[T any](items []T, pageSize int, raw string) Page[T] {
	w := New(len(items), pageSize).GetPage(raw)
	start := w.Offset()
	end := start + w.Len()
	return Page[T]{
		Items:  items[start:end:end],
		Window: w,
	}
}
