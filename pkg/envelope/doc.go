// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package envelope renders SOAP 1.1 and SOAP 1.2 envelopes.

# Building Envelopes

The operation name becomes the body element. Symbolic names are normalized,
literal names are used verbatim:

	env, err := envelope.New(keystyle.Sym("get_user"),
	    envelope.WithTargetNamespace("http://users.example.com"),
	    envelope.WithBody(markup.NewMapping().Put("id", markup.Int(1))),
	)
	// <env:Body><wsdl:getUser><id>1</id></wsdl:getUser></env:Body>

	env, err := envelope.New(keystyle.Lit("GetAllUsers"), ...)
	// <env:Body><wsdl:GetAllUsers></wsdl:GetAllUsers></env:Body>

Options are plain functions over *Builder, so a request can also be
configured inline:

	env, err := envelope.New(op, func(b *envelope.Builder) {
	    b.Version = envelope.SOAP12
	    b.Header = credentials
	})

# Namespaces

The Envelope element declares, in order: the envelope prefix (env), xsd,
xsi and the target prefix, followed by any extra declarations. Without an
explicit namespace the target namespace is bound to the wsdl prefix;
WithNamespace replaces that pair and qualifies the body element with the
given prefix instead.

	NsSOAP11 = "http://schemas.xmlsoap.org/soap/envelope/"
	NsSOAP12 = "http://www.w3.org/2003/05/soap-envelope"

# Content Types

	SOAP 1.1: text/xml;charset=UTF-8 plus a SOAPAction header
	SOAP 1.2: application/soap+xml;charset=UTF-8;action="..."
*/
package envelope
