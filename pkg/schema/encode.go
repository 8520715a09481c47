package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

const hexDigits = "0123456789abcdef"

// encoder writes values in the format of JavaScript's JSON.stringify: keys in
// insertion order, no HTML escaping, ECMAScript number formatting.
type encoder struct {
	buf    []byte
	indent string
}

func appendJSON(b []byte, v any, indent string) ([]byte, error) {
	e := &encoder{buf: b, indent: indent}
	if err := e.value(v, 0); err != nil {
		return nil, err
	}

	return e.buf, nil
}

func (e *encoder) value(v any, depth int) error {
	switch t := v.(type) {
	case nil:
		e.buf = append(e.buf, "null"...)
	case bool:
		e.buf = strconv.AppendBool(e.buf, t)
	case string:
		e.buf = appendString(e.buf, t)
	case int:
		e.buf = strconv.AppendInt(e.buf, int64(t), 10)
	case int64:
		e.buf = strconv.AppendInt(e.buf, t, 10)
	case uint64:
		e.buf = strconv.AppendUint(e.buf, t, 10)
	case float64:
		e.buf = appendNumber(e.buf, t)
	case *Object:
		return e.object(t, depth)
	case []any:
		return e.array(t, depth)
	default:
		b, err := json.MarshalNoEscape(t)
		if err != nil {
			return fmt.Errorf("encode %T: %w", t, err)
		}

		e.buf = append(e.buf, b...)
	}

	return nil
}

func (e *encoder) object(o *Object, depth int) error {
	if o.Len() == 0 {
		e.buf = append(e.buf, "{}"...)

		return nil
	}

	e.buf = append(e.buf, '{')

	for i, k := range o.keys {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}

		e.newline(depth + 1)
		e.buf = appendString(e.buf, k)
		e.buf = append(e.buf, ':')

		if e.indent != "" {
			e.buf = append(e.buf, ' ')
		}

		if err := e.value(o.values[k], depth+1); err != nil {
			return fmt.Errorf("value of %q: %w", k, err)
		}
	}

	e.newline(depth)
	e.buf = append(e.buf, '}')

	return nil
}

func (e *encoder) array(a []any, depth int) error {
	if len(a) == 0 {
		e.buf = append(e.buf, "[]"...)

		return nil
	}

	e.buf = append(e.buf, '[')

	for i, v := range a {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}

		e.newline(depth + 1)

		if err := e.value(v, depth+1); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}

	e.newline(depth)
	e.buf = append(e.buf, ']')

	return nil
}

func (e *encoder) newline(depth int) {
	if e.indent == "" {
		return
	}

	e.buf = append(e.buf, '\n')
	for range depth {
		e.buf = append(e.buf, e.indent...)
	}
}

// appendString quotes s, escaping only quotes, backslashes and control
// characters. Invalid UTF-8 becomes U+FFFD.
func appendString(b []byte, s string) []byte {
	b = append(b, '"')

	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				b = append(b, "\ufffd"...)
			} else {
				b = append(b, s[i:i+size]...)
			}

			i += size

			continue
		}

		switch c {
		case '"':
			b = append(b, `\"`...)
		case '\\':
			b = append(b, `\\`...)
		case '\b':
			b = append(b, `\b`...)
		case '\f':
			b = append(b, `\f`...)
		case '\n':
			b = append(b, `\n`...)
		case '\r':
			b = append(b, `\r`...)
		case '\t':
			b = append(b, `\t`...)
		default:
			if c < 0x20 {
				b = append(b, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			} else {
				b = append(b, c)
			}
		}

		i++
	}

	return append(b, '"')
}

// appendNumber formats f like ECMAScript Number.prototype.toString: shortest
// round-trip digits, plain notation for exponents in [-7, 21), and no
// negative zero.
func appendNumber(b []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(b, "null"...)
	}

	if f == 0 {
		return append(b, '0')
	}

	if f < 0 {
		b = append(b, '-')
		f = -f
	}

	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	digits := strings.Replace(mant, ".", "", 1)

	e, err := strconv.Atoi(exp)
	if err != nil {
		return strconv.AppendFloat(b, f, 'g', -1, 64)
	}

	k, n := len(digits), e+1

	switch {
	case k <= n && n <= 21:
		b = append(b, digits...)
		b = append(b, strings.Repeat("0", n-k)...)
	case 0 < n && n <= 21:
		b = append(b, digits[:n]...)
		b = append(b, '.')
		b = append(b, digits[n:]...)
	case -6 < n && n <= 0:
		b = append(b, "0."...)
		b = append(b, strings.Repeat("0", -n)...)
		b = append(b, digits...)
	default:
		b = append(b, digits[0])
		if k > 1 {
			b = append(b, '.')
			b = append(b, digits[1:]...)
		}

		b = append(b, 'e')
		if n-1 >= 0 {
			b = append(b, '+')
		}

		b = strconv.AppendInt(b, int64(n-1), 10)
	}

	return b
}
