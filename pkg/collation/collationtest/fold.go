// Package collationtest provides a deterministic collation service for tests.
package collationtest

import (
	"sync"
	"unicode"
	"unicode/utf16"

	"github.com/walteh/collsearch/pkg/codec"
	"github.com/walteh/collsearch/pkg/collation"
)

// accents folds a handful of Latin letters onto their base letter.
var accents = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ä': 'a', 'å': 'a',
	'ç': 'c',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ñ': 'n',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'ö': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
}

// Service matches code points one to one after an optional fold. The zero
// value is an identity collation.
type Service struct {
	// IgnoreAccents folds the letters of the accents table.
	IgnoreAccents bool
	// IgnoreCase folds to lower case.
	IgnoreCase bool
	// Ignorable code points are dropped from the needle; a needle made only
	// of them produces a zero-length match.
	Ignorable map[rune]bool

	// Opened counts streams handed out, Closed counts streams closed.
	Opened int
	Closed int
	// LastOptions is the options of the last Search call.
	LastOptions collation.SearchOptions

	mu sync.Mutex
}

var _ collation.Service = (*Service)(nil)

// Identity returns an exact matching service.
func Identity() *Service { return &Service{} }

// Loose returns a service that ignores case and accents.
func Loose() *Service { return &Service{IgnoreAccents: true, IgnoreCase: true} }

func (s *Service) Locale() string {
	switch {
	case s.IgnoreAccents && s.IgnoreCase:
		return "test-loose"
	case s.IgnoreAccents || s.IgnoreCase:
		return "test-partial"
	default:
		return "test-identity"
	}
}

func (s *Service) fold(r rune) rune {
	if s.IgnoreCase {
		r = unicode.ToLower(r)
	}
	if s.IgnoreAccents {
		if base, ok := accents[r]; ok {
			r = base
		}
	}
	return r
}

type point struct {
	r     rune
	start int
}

func (s *Service) points(u codec.Units) []point {
	var out []point
	for i := 0; i < len(u); {
		w := codec.UnitWidth(u, i)
		r := rune(u[i])
		if w == 2 {
			r = utf16.DecodeRune(rune(u[i]), rune(u[i+1]))
		}
		out = append(out, point{r: s.fold(r), start: i})
		i += w
	}
	return out
}

func (s *Service) Compare(a, b codec.Units) (int, error) {
	pa, pb := s.points(a), s.points(b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		switch {
		case pa[i].r < pb[i].r:
			return -1, nil
		case pa[i].r > pb[i].r:
			return 1, nil
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1, nil
	case len(pa) > len(pb):
		return 1, nil
	}
	return 0, nil
}

func (s *Service) Search(haystack, needle codec.Units, opts collation.SearchOptions) (collation.Stream, error) {
	s.mu.Lock()
	s.Opened++
	s.LastOptions = opts
	s.mu.Unlock()

	var pat []rune
	for _, p := range s.points(needle) {
		if !s.Ignorable[p.r] {
			pat = append(pat, p.r)
		}
	}

	return &stream{owner: s, hay: s.points(haystack), total: len(haystack), pat: pat, overlap: opts.Overlap}, nil
}

type stream struct {
	owner   *Service
	hay     []point
	total   int
	pat     []rune
	overlap bool
	next    int
	matched int
}

func (st *stream) Next() (int, error) {
	if len(st.pat) == 0 {
		if st.next > len(st.hay) {
			return collation.Done, nil
		}
		st.next = len(st.hay) + 1
		st.matched = 0
		return 0, nil
	}

	for i := st.next; i+len(st.pat) <= len(st.hay); i++ {
		if !st.matchAt(i) {
			continue
		}
		end := st.total
		if i+len(st.pat) < len(st.hay) {
			end = st.hay[i+len(st.pat)].start
		}
		start := st.hay[i].start
		st.matched = end - start
		if st.overlap {
			st.next = i + 1
		} else {
			st.next = i + len(st.pat)
		}
		return start, nil
	}
	st.next = len(st.hay)
	return collation.Done, nil
}

func (st *stream) matchAt(i int) bool {
	for j, r := range st.pat {
		if st.hay[i+j].r != r {
			return false
		}
	}
	return true
}

func (st *stream) MatchedLength() int { return st.matched }

func (st *stream) Close() error {
	st.owner.mu.Lock()
	st.owner.Closed++
	st.owner.mu.Unlock()
	return nil
}
