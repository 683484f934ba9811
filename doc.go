// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package gosoap is a WSDL-less SOAP client for Go.

# Overview

go-soap builds SOAP 1.1 and 1.2 requests from structured values, sends
them over an injectable transport and exposes replies both as the raw
markup and as a structured view. No WSDL is read: the caller names the
endpoint, the target namespace and the operation.

# Specifications Implemented

  - SOAP 1.1: https://www.w3.org/TR/2000/NOTE-SOAP-20000508/
  - SOAP 1.2 Part 1: https://www.w3.org/TR/soap12-part1/
  - XML Schema instance nil: https://www.w3.org/TR/xmlschema-1/#xsi_nil

# Package Structure

The library is organized into the following packages:

	github.com/sirosfoundation/go-soap/pkg/soap        - Client, requests, credentials and errors
	github.com/sirosfoundation/go-soap/pkg/keystyle    - Key styles and element name conversion
	github.com/sirosfoundation/go-soap/pkg/markup      - Structured values and their XML serialization
	github.com/sirosfoundation/go-soap/pkg/envelope    - SOAP envelope construction
	github.com/sirosfoundation/go-soap/pkg/response    - Reply parsing and SOAP faults
	github.com/sirosfoundation/go-soap/pkg/transport   - HTTPS transport with TLS 1.2/1.3 and metrics
	github.com/sirosfoundation/go-soap/pkg/compression - GZIP content coding

# Quick Start

To call an operation:

	import (
	    "github.com/sirosfoundation/go-soap/pkg/keystyle"
	    "github.com/sirosfoundation/go-soap/pkg/markup"
	    "github.com/sirosfoundation/go-soap/pkg/soap"
	)

	client, _ := soap.NewClient(&soap.ClientConfig{
	    Service: soap.Service{
	        Endpoint:  "https://users.example.com/soap",
	        Namespace: "http://users.example.com/v1",
	    },
	})

	resp, err := client.Call(ctx, keystyle.Sym("get_user"), func(r *soap.Request) {
	    r.Body = markup.NewMapping().Put("id", markup.Int(1))
	})

The body above is sent as:

	<env:Body><wsdl:getUser><id>1</id></wsdl:getUser></env:Body>

# Keys

Symbolic keys (keystyle.Sym) are converted with the configured key style,
lowerCamelCase by default. Literal keys (keystyle.Lit) are used verbatim.
Reply elements are keyed by the snake_case form of their local names.

# Ordering and Attributes

Mappings keep insertion order. Directives set an explicit order, which
must name every key exactly once, and attach attributes to child
elements. Directives are never serialized as elements.

# License

BSD-2-Clause License
*/
package gosoap
