// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package markup serializes structured values into XML.

A structured value is a Scalar, a Sequence or a *Mapping. Mappings keep
insertion order and carry serialization Directives next to the data instead
of inside it:

	user := markup.NewMapping().
	    Put("first_name", markup.String("Kit")).
	    Put("last_name", markup.String("Knight")).
	    Put("city", markup.Null())
	user.OrderBy(keystyle.Sym("last_name"), keystyle.Sym("first_name"), keystyle.Sym("city"))
	user.SetAttr(keystyle.Sym("city"), "xsi:nil", "true")

	xml, err := markup.NewSerializer().Fragment(user)
	// <lastName>Knight</lastName><firstName>Kit</firstName><city xsi:nil="true"></city>

# Rules

  - Scalar text is escaped; Raw scalars are parsed and inserted as markup.
  - A Sequence repeats the parent's tag once per item.
  - Null scalars always produce an empty element carrying xsi:nil="true".
  - Directives.Order must list every key of the mapping exactly once.
  - Directives.Attributes may only name keys present in the mapping.
  - Two keys producing the same tag are rejected.

Every violation is reported as a *ConstructionError before any output is
produced for the caller.
*/
package markup
