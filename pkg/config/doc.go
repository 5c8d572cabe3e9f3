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

/*
Package config loads the settings for collsearch runs.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |  JSON   | |    HCL    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Picks a parser by file extension through a small registry
- Fills defaults (UTF-8, the root collation, four workers)
- Rejects unknown encodings, malformed locales and bad globs up front

📝 Formats:

	# .collsearch.yaml
	encoding: LATIN1
	locale: und-u-ks-level1
	include: ["notes/**", "docs/**"]
	replacements:
	  - old: cafe
	    new: coffee
	  - old: Strasse
	    new: Straße
	    locale: de-u-ks-level2
	    file: "docs/**"

	# .collsearch.hcl
	locale = lower(env.COLLSEARCH_LOCALE)
	replacement {
	  old = "cafe"
	  new = "coffee"
	}

🔍 Example:

	cfg, err := config.Load(ctx, ".collsearch.yaml")
	if err != nil {
		return err
	}
	replacer := text.NewCollationReplacer(cfg.Codec(), cfg.Locale, nil)
*/
package config
