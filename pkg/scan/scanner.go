// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scan drives a collation search over code-unit buffers and yields
// non-overlapping matches in increasing order.
package scan

import (
	"github.com/walteh/collsearch/pkg/codec"
	"github.com/walteh/collsearch/pkg/collation"
	"gitlab.com/tozd/go/errors"
)

// ErrMisuse reports calls that are rejected before any search work starts.
var ErrMisuse = errors.Base("invalid search request")

// 🎯 Match is a span of the haystack in code units
type Match struct {
	Start int
	Len   int
}

// End returns the code unit offset just past the match.
func (m Match) End() int { return m.Start + m.Len }

// 🔍 Scanner yields matches of one needle over one haystack. It is single
// pass; start a new Scanner to iterate again.
type Scanner struct {
	stream collation.Stream
	limit  int

	cur  Match
	seen bool
	err  error
	done bool
}

// 🏭 New opens a non-overlapping search. The service is borrowed and is not
// closed by the scanner. An empty haystack yields no match without
// touching the service.
func New(haystack, needle codec.Units, svc collation.Service) (*Scanner, error) {
	if svc == nil {
		return nil, errors.Errorf("%w: no collation service", ErrMisuse)
	}
	if len(needle) == 0 {
		return nil, errors.Errorf("%w: empty needle", ErrMisuse)
	}

	s := &Scanner{limit: len(haystack)}
	if len(haystack) == 0 {
		s.done = true
		return s, nil
	}

	stream, err := svc.Search(haystack, needle, collation.SearchOptions{Overlap: false})
	if err != nil {
		return nil, errors.Errorf("searching with %q: %w", svc.Locale(), err)
	}
	s.stream = stream

	return s, nil
}

// Next advances to the next match. It returns false when the scan is
// exhausted or failed; check Err afterwards.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	start, err := s.stream.Next()
	if err != nil {
		s.fail(errors.Errorf("next match: %w", err))
		return false
	}
	if start == collation.Done {
		s.finish()
		return false
	}

	m := Match{Start: start, Len: s.stream.MatchedLength()}
	if m.Len == 0 {
		// ignorable-only needles match nothing
		s.finish()
		return false
	}
	if err := s.check(m); err != nil {
		s.fail(err)
		return false
	}

	s.cur, s.seen = m, true
	return true
}

func (s *Scanner) check(m Match) error {
	switch {
	case m.Start < 0 || m.Len < 0 || m.End() > s.limit:
		return errors.Errorf("%w: match [%d,%d) outside haystack of %d units", collation.ErrService, m.Start, m.End(), s.limit)
	case s.seen && m.Start < s.cur.End():
		return errors.Errorf("%w: match at %d overlaps previous match [%d,%d)", collation.ErrService, m.Start, s.cur.Start, s.cur.End())
	}
	return nil
}

// Match returns the current match. Only valid after Next returned true.
func (s *Scanner) Match() Match { return s.cur }

// Err returns the error that stopped the scan, if any.
func (s *Scanner) Err() error { return s.err }

// Close releases the underlying stream. It is safe to call more than once
// and after the scan ended on its own.
func (s *Scanner) Close() error {
	if s.stream == nil {
		s.done = true
		return nil
	}
	stream := s.stream
	s.stream = nil
	s.done = true
	if err := stream.Close(); err != nil {
		return errors.Errorf("closing search: %w", err)
	}
	return nil
}

func (s *Scanner) finish() {
	if err := s.Close(); err != nil {
		s.err = err
	}
}

func (s *Scanner) fail(err error) {
	s.err = err
	_ = s.Close()
}

// Collect runs a full scan and returns every match.
func Collect(haystack, needle codec.Units, svc collation.Service) ([]Match, error) {
	s, err := New(haystack, needle, svc)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var out []Match
	for s.Next() {
		out = append(out, s.Match())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
