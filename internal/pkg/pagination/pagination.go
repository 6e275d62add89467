// Package pagination implements page-number pagination with the two
// lookup modes used by the API: strict (bad pages are errors) and lenient
// (bad pages are clamped).
package pagination

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
)

const QueryParam = "page"

var ErrInvalidPage = errors.New("invalid page")

type Page struct {
	Number   int
	NumPages int
	Count    int
	PerPage  int
}

// NumPages is never below 1; an empty result set has one empty page.
func NumPages(count, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// ParseNumber reads a 1-based page number. Empty means page 1.
func ParseNumber(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ErrInvalidPage
	}
	return n, nil
}

// Strict validates number against count.
func Strict(number, count, perPage int) (Page, error) {
	p := Page{Number: number, NumPages: NumPages(count, perPage), Count: count, PerPage: perPage}
	if number < 1 || number > p.NumPages {
		return Page{}, ErrInvalidPage
	}
	return p, nil
}

// Lenient falls back to the first page for unparsable input and to the
// last page for numbers past the end.
func Lenient(raw string, count, perPage int) Page {
	p := Page{Number: 1, NumPages: NumPages(count, perPage), Count: count, PerPage: perPage}
	n, err := ParseNumber(raw)
	if err != nil {
		if _, convErr := strconv.Atoi(strings.TrimSpace(raw)); convErr == nil {
			// integers below 1 are treated as past the end
			p.Number = p.NumPages
		}
		return p
	}
	if n > p.NumPages {
		n = p.NumPages
	}
	p.Number = n
	return p
}

func Offset(number, perPage int) int {
	if number < 1 || perPage <= 0 {
		return 0
	}
	return (number - 1) * perPage
}

func (p Page) Offset() int {
	return Offset(p.Number, p.PerPage)
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// Links returns absolute next/previous URLs for p, keeping every query
// argument of the current request. The link to page 1 carries no page
// argument.
func Links(base string, query *fasthttp.Args, p Page) (next, previous *string) {
	if p.HasNext() {
		u := pageURL(base, query, p.Number+1)
		next = &u
	}
	if p.HasPrevious() {
		u := pageURL(base, query, p.Number-1)
		previous = &u
	}
	return next, previous
}

func pageURL(base string, query *fasthttp.Args, number int) string {
	args := &fasthttp.Args{}
	if query != nil {
		query.CopyTo(args)
	}
	if number <= 1 {
		args.Del(QueryParam)
	} else {
		args.Set(QueryParam, strconv.Itoa(number))
	}
	args.Sort(bytes.Compare)

	qs := args.QueryString()
	if len(qs) == 0 {
		return base
	}
	return base + "?" + string(qs)
}
