package generator

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2/js"

	"github.com/tomisinteazer/rjscompiler/ast"
)

func (p *printer) literal(expr *ast.LiteralExpr) {
	switch expr.TokenType {
	case js.DecimalToken, js.IntegerToken:
		p.token(expr.Span, minifyNumber(expr.Data), false)
	case js.StringToken:
		p.token(expr.Span, p.stringLit(expr.Data), false)
	default:
		p.token(expr.Span, expr.Data, false)
	}
}

// minifyNumber emits the shortest literal with the same value: redundant
// zeros and exponent characters go, 0.5 becomes .5, and the decimal and
// exponential notations trade places whenever the other is shorter.
func minifyNumber(data []byte) []byte {
	if n := len(data); 0 < n && data[n-1] == 'n' {
		return data // bigint notation admits no fraction or exponent
	}
	if bytes.IndexByte(data, '_') != -1 {
		return data // numeric separators need the digits regrouped, keep as is
	}
	mant := data
	baseExp := 0
	for i, c := range data {
		if c == 'e' || c == 'E' {
			v, err := strconv.Atoi(string(data[i+1:]))
			if err != nil {
				return data
			}
			mant, baseExp = data[:i], v
			break
		}
	}
	intPart, fracPart := mant, []byte(nil)
	if dot := bytes.IndexByte(mant, '.'); dot != -1 {
		intPart, fracPart = mant[:dot], mant[dot+1:]
	}
	digits := make([]byte, 0, len(intPart)+len(fracPart))
	digits = append(digits, intPart...)
	digits = append(digits, fracPart...)
	point := len(intPart) // digits left of the decimal point
	for 0 < len(digits) && digits[0] == '0' {
		digits = digits[1:]
		point--
	}
	exp := point - len(digits) + baseExp
	for 0 < len(digits) && digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
		exp++
	}
	if len(digits) == 0 {
		return []byte{'0'}
	}

	var plain []byte
	switch {
	case 0 <= exp:
		plain = append(plain, digits...)
		for i := 0; i < exp; i++ {
			plain = append(plain, '0')
		}
	case -exp < len(digits):
		k := len(digits) + exp
		plain = append(plain, digits[:k]...)
		plain = append(plain, '.')
		plain = append(plain, digits[k:]...)
	default:
		plain = append(plain, '.')
		for i := 0; i < -exp-len(digits); i++ {
			plain = append(plain, '0')
		}
		plain = append(plain, digits...)
	}
	if exp == 0 {
		return plain
	}
	expo := append([]byte{}, digits...)
	expo = append(expo, 'e')
	expo = strconv.AppendInt(expo, int64(exp), 10)
	if len(expo) < len(plain) {
		return expo
	}
	return plain
}

// stringLit rewrites a string literal with the cheapest quote and without
// superfluous escapes. U+2028 and U+2029 are always escaped so the output
// stays valid pre-ES2019 and safe to inline in JSON contexts.
func (p *printer) stringLit(data []byte) []byte {
	content := data[1 : len(data)-1]
	quote := byte('"')
	switch p.opts.Quote {
	case QuoteSingle:
		quote = '\''
	case QuoteDouble:
		quote = '"'
	default:
		if countQuotes(content, '\'') < countQuotes(content, '"') {
			quote = '\''
		}
	}
	b := make([]byte, 0, len(data))
	b = append(b, quote)
	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '\\':
			i++
			if len(content) <= i {
				b = append(b, '\\')
				break
			}
			e := content[i]
			switch e {
			case quote, '\\', 'n', 'r', 'x', 'u':
				b = append(b, '\\', e)
			case '\'', '"', '`':
				b = append(b, e)
			case 't':
				b = append(b, '\t')
			case 'f':
				b = append(b, '\f')
			case 'v':
				b = append(b, '\v')
			case 'b':
				b = append(b, '\b')
			case '\n':
				// a line continuation contributes nothing
			case '\r':
				if i+1 < len(content) && content[i+1] == '\n' {
					i++
				}
			default:
				if '0' <= e && e <= '9' {
					b = append(b, '\\', e)
				} else {
					b = append(b, e)
				}
			}
		case c == quote:
			b = append(b, '\\', quote)
		case c == 0xE2 && i+2 < len(content) && content[i+1] == 0x80 && (content[i+2] == 0xA8 || content[i+2] == 0xA9):
			b = append(b, '\\', 'u', '2', '0', '2')
			if content[i+2] == 0xA8 {
				b = append(b, '8')
			} else {
				b = append(b, '9')
			}
			i += 2
		default:
			b = append(b, c)
		}
	}
	b = append(b, quote)
	return b
}

// countQuotes counts unescaped occurrences that would need escaping under the
// given quote.
func countQuotes(content []byte, quote byte) int {
	n := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\\':
			i++
			if i < len(content) && content[i] == quote {
				n++
			}
		case quote:
			n++
		}
	}
	return n
}

func (p *printer) propertyName(name ast.PropertyName) {
	if name.Computed != nil {
		p.writeByte('[')
		p.expr(name.Computed, ast.OpAssign)
		p.writeByte(']')
		return
	}
	lit := name.Literal
	switch lit.TokenType {
	case js.StringToken:
		if key, ok := dottableName(lit.Data, p.es5); ok {
			p.token(lit.Span, key, false)
			return
		}
		p.token(lit.Span, p.stringLit(lit.Data), false)
	case js.DecimalToken, js.IntegerToken:
		p.token(lit.Span, minifyNumber(lit.Data), false)
	default:
		if p.es5 && reservedName(lit.Data) {
			quoted := make([]byte, 0, len(lit.Data)+2)
			quoted = append(quoted, '"')
			quoted = append(quoted, lit.Data...)
			quoted = append(quoted, '"')
			p.token(lit.Span, quoted, false)
			return
		}
		p.token(lit.Span, lit.Data, false)
	}
}

// dottableName returns the bare name of a string literal that can serve as a
// property name without quotes or brackets.
func dottableName(data []byte, es5 bool) ([]byte, bool) {
	inner := data[1 : len(data)-1]
	if len(inner) == 0 || bytes.IndexByte(inner, '\\') != -1 {
		return nil, false
	}
	if !identName(inner) {
		return nil, false
	}
	if es5 && reservedName(inner) {
		return nil, false
	}
	return inner, true
}

func identName(name []byte) bool {
	if !js.IsIdentifierStart(name) {
		return false
	}
	_, n := utf8.DecodeRune(name)
	for i := n; i < len(name); {
		if !js.IsIdentifierContinue(name[i:]) {
			return false
		}
		_, size := utf8.DecodeRune(name[i:])
		i += size
	}
	return true
}

func reservedName(name []byte) bool {
	_, ok := js.Keywords[string(name)]
	return ok
}
