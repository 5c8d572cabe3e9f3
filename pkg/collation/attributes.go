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

// 🏷️ Attribute is one collation setting in BCP 47 key/value form
type Attribute struct {
	Key   string
	Value string
}

// attributeDefaults lists the keys that are reported, in order, with the
// value they take when the locale does not set them.
var attributeDefaults = []Attribute{
	{Key: "ka", Value: "noignore"}, // alternate handling
	{Key: "kb", Value: "false"},    // backwards secondary
	{Key: "kc", Value: "false"},    // case level
	{Key: "kf", Value: "false"},    // case first
	{Key: "kn", Value: "false"},    // numeric
	{Key: "kr", Value: ""},         // reordering
}

// Attributes lists the collation settings. The "locale" and "ks" entries
// are always present; other keys appear only when set, unless
// includeDefaults is true.
func (c *Collator) Attributes(includeDefaults bool) []Attribute {
	attrs := []Attribute{
		{Key: "locale", Value: c.tag.String()},
		{Key: "ks", Value: c.strength.String()},
	}
	for _, def := range attributeDefaults {
		v := c.tag.TypeForKey(def.Key)
		switch {
		case v != "":
			attrs = append(attrs, Attribute{Key: def.Key, Value: v})
		case includeDefaults:
			attrs = append(attrs, def)
		}
	}
	return attrs
}
