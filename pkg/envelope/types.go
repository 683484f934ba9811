// Package envelope builds SOAP envelopes around serialized request bodies.
package envelope

import (
	"errors"
	"fmt"
	"strings"
)

// Namespace constants for SOAP envelopes
const (
	NsSOAP11 = "http://schemas.xmlsoap.org/soap/envelope/"
	NsSOAP12 = "http://www.w3.org/2003/05/soap-envelope"
	NsXSD    = "http://www.w3.org/2001/XMLSchema"
	NsXSI    = "http://www.w3.org/2001/XMLSchema-instance"
)

// Default prefixes
const (
	DefaultEnvPrefix           = "env"
	DefaultNamespaceIdentifier = "wsdl"
	PrefixXSD                  = "xsd"
	PrefixXSI                  = "xsi"
)

var (
	ErrNoOperation       = errors.New("envelope: operation name is required")
	ErrNoTargetNamespace = errors.New("envelope: target namespace is required")
	ErrDuplicatePrefix   = errors.New("envelope: namespace prefix declared twice")
	ErrEmptyPrefix       = errors.New("envelope: namespace prefix is empty")
)

// Version selects the SOAP protocol version.
type Version int

const (
	SOAP11 Version = iota
	SOAP12
)

// ParseVersion accepts "1.1" or "1.2". The empty string selects SOAP 1.1.
func ParseVersion(s string) (Version, error) {
	switch strings.TrimSpace(s) {
	case "", "1", "1.1", "11":
		return SOAP11, nil
	case "2", "1.2", "12":
		return SOAP12, nil
	default:
		return SOAP11, fmt.Errorf("envelope: unsupported SOAP version %q", s)
	}
}

func (v Version) String() string {
	if v == SOAP12 {
		return "1.2"
	}
	return "1.1"
}

// NamespaceURI returns the envelope namespace for the version.
func (v Version) NamespaceURI() string {
	if v == SOAP12 {
		return NsSOAP12
	}
	return NsSOAP11
}

// quotedStringEscaper escapes a MIME quoted-string (RFC 2045).
var quotedStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// ContentType returns the HTTP Content-Type for a request. SOAP 1.2 carries
// the action as a media type parameter; SOAP 1.1 sends it as the SOAPAction
// header instead.
func (v Version) ContentType(action string) string {
	if v == SOAP12 {
		ct := "application/soap+xml;charset=UTF-8"
		if action != "" {
			ct += `;action="` + quotedStringEscaper.Replace(action) + `"`
		}
		return ct
	}
	return "text/xml;charset=UTF-8"
}

// UsesSOAPActionHeader reports whether the action travels in the SOAPAction
// HTTP header.
func (v Version) UsesSOAPActionHeader() bool {
	return v != SOAP12
}
