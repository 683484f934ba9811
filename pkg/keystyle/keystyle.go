package keystyle

import (
	"fmt"
	"strings"
	"unicode"
)

// Key names a mapping entry. Symbolic keys are normalized with a Style when
// they become tag names, literal keys are used verbatim.
type Key struct {
	name    string
	literal bool
}

// Sym returns a symbolic key subject to case normalization.
func Sym(name string) Key {
	return Key{name: name}
}

// Lit returns a literal key that is never normalized.
func Lit(name string) Key {
	return Key{name: name, literal: true}
}

// Name returns the key as written by the caller.
func (k Key) Name() string { return k.name }

// Literal reports whether the key bypasses normalization.
func (k Key) Literal() bool { return k.literal }

// IsZero reports whether the key is empty.
func (k Key) IsZero() bool { return k.name == "" }

func (k Key) String() string {
	if k.literal {
		return fmt.Sprintf("%q", k.name)
	}
	return ":" + k.name
}

// Style selects how symbolic keys become tag names.
type Style int

const (
	LowerCamelCase Style = iota
	CamelCase
	UpperCase
	None
)

func (s Style) String() string {
	switch s {
	case LowerCamelCase:
		return "lowerCamelcase"
	case CamelCase:
		return "camelcase"
	case UpperCase:
		return "upcase"
	case None:
		return "none"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle maps a configuration value to a Style. The empty string selects
// LowerCamelCase.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lowercamelcase", "lower_camelcase":
		return LowerCamelCase, nil
	case "camelcase":
		return CamelCase, nil
	case "upcase", "uppercase":
		return UpperCase, nil
	case "none":
		return None, nil
	default:
		return LowerCamelCase, fmt.Errorf("unknown key style %q", name)
	}
}

// Tag returns the element name for k.
func (s Style) Tag(k Key) string {
	if k.literal {
		return k.name
	}
	switch s {
	case CamelCase:
		return Camel(k.name)
	case UpperCase:
		return strings.ToUpper(k.name)
	case None:
		return k.name
	default:
		return LowerCamel(k.name)
	}
}

// Camel converts word_with_underscores to WordWithUnderscores.
func Camel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LowerCamel converts word_with_underscores to wordWithUnderscores.
func LowerCamel(s string) string {
	c := []rune(Camel(s))
	if len(c) == 0 {
		return ""
	}
	c[0] = unicode.ToLower(c[0])
	return string(c)
}

// Snake converts a tag name to snake_case, dropping any namespace prefix.
// Runs of capitals are kept together: HTTPStatus becomes http_status.
func Snake(tag string) string {
	if i := strings.LastIndexByte(tag, ':'); i >= 0 {
		tag = tag[i+1:]
	}
	rs := []rune(tag)
	var b strings.Builder
	b.Grow(len(rs) + 4)
	for i, r := range rs {
		switch {
		case r == '-' || r == '.':
			b.WriteByte('_')
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
