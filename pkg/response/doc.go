// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package response exposes SOAP replies both as the original markup and as a
structured mapping.

	doc := response.New(reply)
	doc.XML()                                   // exactly what the server sent
	name, err := doc.Path("get_user_response", "return", "name")

The structured view is computed on first access and memoized. Element names
are converted to snake_case keys with namespace prefixes removed, repeated
elements become sequences, xsi:nil elements become null scalars and element
attributes are kept as mapping directives, so the view can be serialized
again with package markup.

Malformed markup yields a *ParseError wrapping ErrMalformed and never a
partial mapping.

# Faults

Fault reads SOAP 1.1 and SOAP 1.2 faults from the body:

	if f, _ := doc.Fault(); f != nil {
	    log.Printf("%s: %s", f.Code, f.Reason)
	}
*/
package response
