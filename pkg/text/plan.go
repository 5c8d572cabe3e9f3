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

package text

import (
	"bytes"

	"github.com/walteh/collsearch/pkg/codec"
)

// step copies haystack[from:to] and then writes insert.
type step struct {
	from, to int
	insert   []byte
}

// 📝 plan is the list of splices for one replace call, closed by a tail copy
type plan struct {
	steps []step
	tail  int // haystack[tail:] is copied last
}

func (p *plan) add(from, to int, insert []byte) {
	p.steps = append(p.steps, step{from: from, to: to, insert: insert})
}

// outcome is either the untouched input or a freshly built text.
type outcome struct {
	original  *codec.Text
	rewritten *codec.Text
	count     int
}

func unchanged(t *codec.Text) outcome { return outcome{original: t} }

func (o outcome) text() *codec.Text {
	if o.rewritten != nil {
		return o.rewritten
	}
	return o.original
}

func (o outcome) changed() bool { return o.rewritten != nil }

// apply consumes the plan once against the haystack bytes.
func (p *plan) apply(haystack *codec.Text) outcome {
	if len(p.steps) == 0 {
		return unchanged(haystack)
	}

	src := haystack.Bytes()
	var buf bytes.Buffer
	buf.Grow(len(src))

	for _, s := range p.steps {
		buf.Write(src[s.from:s.to])
		buf.Write(s.insert)
	}
	buf.Write(src[p.tail:])

	out := outcome{
		original:  haystack,
		rewritten: codec.NewText(buf.Bytes(), haystack.Codec()),
		count:     len(p.steps),
	}
	p.steps = nil
	return out
}
