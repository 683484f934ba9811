package soap

import (
	"github.com/beevik/etree"
)

// FilteredValue replaces the text of filtered elements in logged messages.
const FilteredValue = "***FILTERED***"

// logFilter prepares envelopes for logging.
type logFilter struct {
	names  map[string]struct{}
	indent int
}

func newLogFilter(names []string, pretty bool) *logFilter {
	f := &logFilter{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		f.names[n] = struct{}{}
	}
	if pretty {
		f.indent = 2
	}
	return f
}

// Apply masks the text of every element whose local name is filtered.
// Markup that does not parse is logged as received.
func (f *logFilter) Apply(xml []byte) string {
	if len(f.names) == 0 && f.indent == 0 {
		return string(xml)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xml); err != nil {
		return string(xml)
	}
	if root := doc.Root(); root != nil && len(f.names) > 0 {
		f.mask(root)
	}
	if f.indent > 0 {
		doc.Indent(f.indent)
	}
	out, err := doc.WriteToString()
	if err != nil {
		return string(xml)
	}
	return out
}

func (f *logFilter) mask(el *etree.Element) {
	if _, ok := f.names[el.Tag]; ok {
		for _, child := range el.ChildElements() {
			el.RemoveChild(child)
		}
		el.SetText(FilteredValue)
		return
	}
	for _, child := range el.ChildElements() {
		f.mask(child)
	}
}
