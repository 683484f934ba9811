// Copyright (c) 2024 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

/*
Package soap is a WSDL-less SOAP client.

A Client is configured once with the service endpoint and namespace and
then calls operations by name. Each call serializes the body and header
mappings, wraps them in an envelope, sends it through the transport and
hands back the reply:

	client, err := soap.NewClient(&soap.ClientConfig{
	    Service: soap.Service{
	        Endpoint:  "https://users.example.com/soap",
	        Namespace: "http://users.example.com/v1",
	    },
	    Version: envelope.SOAP11,
	})

	resp, err := client.Call(ctx, keystyle.Sym("get_user"), func(r *soap.Request) {
	    r.Body = markup.NewMapping().Put("id", markup.Int(1))
	})

	name, err := resp.Path("get_user_response", "name")

# Errors

Envelope construction errors (*markup.ConstructionError and the envelope
sentinels) are returned before any I/O. Transport failures are wrapped in
*TransportError. A reply carrying a SOAP Fault yields *FaultError and an
HTTP error status without a fault yields *HTTPError; both keep the
Response. Set ClientConfig.IgnoreFaults to receive such replies as plain
responses.

# Credentials

A HeaderProvider contributes SOAP header entries to every call. Entries
set on the Request win over those of the provider.

# Logging

Requests and replies are logged at debug level with a request_id. Element
names listed in ClientConfig.LogFilter have their text replaced by
***FILTERED*** in the logged copy only.
*/
package soap
