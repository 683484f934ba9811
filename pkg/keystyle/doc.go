// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package keystyle converts mapping keys into XML tag names and back.

SOAP services disagree about element casing. Callers describe request data
with snake_case keys and let this package derive the tag, or pass a literal
key when the remote service uses irregular naming that must not be touched.

# Keys

A Key is either symbolic or literal:

	keystyle.Sym("get_user")     // normalized, e.g. getUser
	keystyle.Lit("GetAllUsers")  // passed through verbatim

# Styles

	LowerCamelCase  get_user -> getUser (default)
	CamelCase       get_user -> GetUser
	UpperCase       get_user -> GET_USER
	None            get_user -> get_user

Snake performs the reverse conversion for response tags:

	keystyle.Snake("ns1:getUserResponse") // get_user_response
*/
package keystyle
