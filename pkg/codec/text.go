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

package codec

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 📄 Text is host-encoded text tagged with its codec. The bytes are owned by
// the caller and must not be modified while the Text is in use.
type Text struct {
	data  []byte
	codec *Codec
}

// NewText wraps host bytes without copying them.
func NewText(b []byte, c *Codec) *Text {
	return &Text{data: b, codec: c}
}

// FromString converts a UTF-8 string into host-encoded text.
func FromString(s string, c *Codec) (*Text, error) {
	if c == nil {
		return nil, errors.Errorf("codec is required")
	}
	b, err := c.FromUTF8(s)
	if err != nil {
		return nil, errors.Errorf("converting %q: %w", s, err)
	}
	return NewText(b, c), nil
}

// Bytes returns the host bytes. Callers must not modify the result.
func (t *Text) Bytes() []byte { return t.data }

// Codec returns the codec the bytes are encoded with.
func (t *Text) Codec() *Codec { return t.codec }

// Len returns the length in bytes.
func (t *Text) Len() int { return len(t.data) }

// IsEmpty reports whether the text has no bytes.
func (t *Text) IsEmpty() bool { return len(t.data) == 0 }

// String renders the text as UTF-8, falling back to a quoted byte dump when
// the bytes are malformed for the codec.
func (t *Text) String() string {
	if t.codec == nil {
		return string(t.data)
	}
	s, err := t.codec.ToUTF8(t.data)
	if err != nil {
		return fmt.Sprintf("%q", t.data)
	}
	return s
}
