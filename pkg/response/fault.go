package response

import (
	"fmt"

	"github.com/sirosfoundation/go-soap/pkg/markup"
)

// Fault is a SOAP fault carried in a reply body. Both SOAP 1.1
// (faultcode/faultstring) and SOAP 1.2 (Code/Reason) layouts are read.
type Fault struct {
	Code    string
	Subcode string
	Reason  string
	Actor   string
	Detail  markup.Value
}

func (f *Fault) Error() string {
	if f.Subcode != "" {
		return fmt.Sprintf("soap fault (%s/%s): %s", f.Code, f.Subcode, f.Reason)
	}
	return fmt.Sprintf("soap fault (%s): %s", f.Code, f.Reason)
}

// Fault returns the fault in the reply body, or nil when there is none.
func (d *Document) Fault() (*Fault, error) {
	body, err := d.Body()
	if err != nil {
		return nil, err
	}
	fm, ok := mappingAt(body, "fault")
	if !ok {
		return nil, nil
	}

	f := &Fault{}
	if code, ok := fm.Lookup("faultcode"); ok {
		f.Code = scalarText(code)
		f.Reason = lookupText(fm, "faultstring")
		f.Actor = lookupText(fm, "faultactor")
		f.Detail, _ = fm.Lookup("detail")
		return f, nil
	}

	if code, ok := mappingAt(fm, "code"); ok {
		f.Code = lookupText(code, "value")
		if sub, ok := mappingAt(code, "subcode"); ok {
			f.Subcode = lookupText(sub, "value")
		}
	}
	if reason, ok := mappingAt(fm, "reason"); ok {
		f.Reason = lookupText(reason, "text")
	}
	f.Actor = lookupText(fm, "role")
	f.Detail, _ = fm.Lookup("detail")
	return f, nil
}

func lookupText(m *markup.Mapping, key string) string {
	v, ok := m.Lookup(key)
	if !ok {
		return ""
	}
	return scalarText(v)
}
