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
	"github.com/walteh/collsearch/pkg/codec"
	"gitlab.com/tozd/go/errors"
)

// ErrService wraps every failure of the collation service: bad locale names,
// failed searches and use of a closed collator.
var ErrService = errors.Base("collation service failure")

// Done is returned by Stream.Next when no further match exists.
const Done = -1

// 🔎 SearchOptions controls a search stream
type SearchOptions struct {
	// Overlap lets the next match start inside the previous one.
	Overlap bool
}

// 🔌 Service is the collation engine as seen by the search code. A Service
// is borrowed: whoever opened it closes it.
type Service interface {
	// Search opens a match stream of needle over haystack.
	Search(haystack, needle codec.Units, opts SearchOptions) (Stream, error)

	// Compare orders a and b, returning -1, 0 or 1.
	Compare(a, b codec.Units) (int, error)

	// Locale returns the locale identifier the service was opened with.
	Locale() string
}

// 🌊 Stream yields match starts in code units, in increasing order
type Stream interface {
	// Next returns the start of the next match, or Done.
	Next() (int, error)

	// MatchedLength returns the length in code units of the last match.
	MatchedLength() int

	// Close releases the stream.
	Close() error
}
