package worktodo

import (
	"math"
	"strconv"
	"strings"

	"github.com/teranos/worktodo/errors"
)

// splitFields splits a payload on commas that are not inside a double-quoted
// span. Quotes toggle on every '"' and are kept in the token. Tokens are
// trimmed; a trailing empty token is dropped.
func splitFields(payload string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	for _, r := range payload {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			tokens = append(tokens, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, strings.TrimSpace(current.String()))
	}
	return tokens
}

// fields is a cursor over the tokens of one assignment.
// Tokens are consumed from the front; the known-factors list is taken from the back.
type fields struct {
	toks []string
	pos  int
	end  int
}

func newFields(toks []string) *fields {
	return &fields{toks: toks, end: len(toks)}
}

func (f *fields) remaining() int {
	return f.end - f.pos
}

func (f *fields) peek() (string, bool) {
	if f.remaining() == 0 {
		return "", false
	}
	return f.toks[f.pos], true
}

func (f *fields) next() (string, bool) {
	tok, ok := f.peek()
	if ok {
		f.pos++
	}
	return tok, ok
}

// skip discards n advisory tokens; false when fewer than n remain
func (f *fields) skip(n int) bool {
	if f.remaining() < n {
		return false
	}
	f.pos += n
	return true
}

func (f *fields) last() (string, bool) {
	if f.remaining() == 0 {
		return "", false
	}
	return f.toks[f.end-1], true
}

func (f *fields) dropLast() {
	if f.remaining() > 0 {
		f.end--
	}
}

// isHexAID reports whether tok is a 32-digit hexadecimal assignment ID
func isHexAID(tok string) bool {
	if len(tok) != 32 {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

func parseUint32(field, tok string) (uint32, error) {
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, numberError(field, tok, err)
	}
	return uint32(v), nil
}

func parseInt32(field, tok string) (int32, error) {
	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, numberError(field, tok, err)
	}
	return int32(v), nil
}

func parseUint64(field, tok string) (uint64, error) {
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, numberError(field, tok, err)
	}
	return v, nil
}

func parseBound(field, tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = errors.Newf("%s is not finite", tok)
	}
	if err != nil {
		return 0, numberError(field, tok, err)
	}
	return v, nil
}

func numberError(field, tok string, cause error) *SkipError {
	msg := "malformed " + field
	if errors.Is(cause, strconv.ErrRange) {
		msg = field + " out of range"
	}
	return &SkipError{Kind: SkipNumber, Field: field, Token: tok, Message: msg}
}

// isQuoted reports whether tok has the shape of a quoted factor list
func isQuoted(tok string) bool {
	return len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"'
}

// parseFactorList decodes `"f1,f2,..."` into decimal strings.
// Empty lists, empty elements and non-digit elements are rejected.
func parseFactorList(tok string) ([]string, error) {
	if !isQuoted(tok) {
		return nil, errors.New("known factors must be a quoted list")
	}
	body := tok[1 : len(tok)-1]
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("empty known factors list")
	}

	parts := strings.Split(body, ",")
	factors := make([]string, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.Newf("empty factor at position %d", i+1)
		}
		if !isDecimal(part) {
			return nil, errors.Newf("factor %q is not a decimal integer", part)
		}
		factors = append(factors, part)
	}
	return factors, nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
