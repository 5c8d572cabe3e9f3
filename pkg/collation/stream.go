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

package collation

import (
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/search"
)

// 🌊 stream walks a compiled pattern over the UTF-8 rendering of the
// haystack and reports positions in code units
type stream struct {
	pattern *search.Pattern
	text    []byte
	offsets []int
	overlap bool

	pos     int // byte offset where the next search starts
	matched int // code units in the last match
	done    bool
	closed  bool
}

func (s *stream) Next() (int, error) {
	if s.closed {
		return Done, errors.Errorf("%w: next on closed search", ErrService)
	}
	if s.done || s.pos > len(s.text) {
		s.done = true
		return Done, nil
	}

	start, end := s.pattern.Index(s.text[s.pos:])
	if start < 0 {
		s.done = true
		s.matched = 0
		return Done, nil
	}
	start += s.pos
	end += s.pos

	// A pattern made only of ignorable characters matches the empty string
	// everywhere; that is reported as no match at all.
	if end <= start {
		s.done = true
		s.matched = 0
		return Done, nil
	}

	startUnit, endUnit := s.offsets[start], s.offsets[end]
	if startUnit < 0 || endUnit < 0 {
		s.done = true
		return Done, errors.Errorf("%w: match [%d,%d) does not fall on character boundaries", ErrService, start, end)
	}

	s.matched = endUnit - startUnit
	if s.overlap {
		_, size := utf8.DecodeRune(s.text[start:])
		s.pos = start + size
	} else {
		s.pos = end
	}

	return startUnit, nil
}

func (s *stream) MatchedLength() int { return s.matched }

func (s *stream) Close() error {
	if s.closed {
		return errors.Errorf("%w: search closed twice", ErrService)
	}
	s.closed = true
	return nil
}
