package worktodo

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/worktodo/errors"
)

// ErrIgnored is returned by Decode for blank lines and # comments.
// These lines are skipped silently and never reported.
var ErrIgnored = errors.New("line ignored")

// SkipKind categorizes why a line was rejected
type SkipKind string

const (
	SkipSyntax      SkipKind = "syntax"      // missing '=' or missing fields
	SkipUnsupported SkipKind = "unsupported" // test type or number form not handled
	SkipNumber      SkipKind = "number"      // malformed or overflowing numeric field
	SkipRange       SkipKind = "range"       // numeric field out of its valid range
	SkipFactors     SkipKind = "factors"     // bad or inconsistent known factors
)

// SkipError explains why a worktodo line was not accepted.
// The scan continues with the next line; a SkipError never aborts it.
type SkipError struct {
	Kind    SkipKind // Error category
	Keyword string   // Test type keyword of the line (may be empty)
	Field   string   // Field that failed, e.g. "B1" or "k" (may be empty)
	Token   string   // Offending token, when one exists
	Message string   // Human-readable reason
	Err     error    // Underlying cause (optional)
}

// Error implements the error interface with a plain one-line reason
func (e *SkipError) Error() string {
	msg := e.Message
	if e.Token != "" {
		msg += fmt.Sprintf(" (%s %q)", e.fieldName(), e.Token)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause
func (e *SkipError) Unwrap() error {
	return e.Err
}

func (e *SkipError) fieldName() string {
	if e.Field == "" {
		return "token"
	}
	return e.Field
}

// FormatTerminal renders the reason with colors for the check command
func (e *SkipError) FormatTerminal() string {
	var sb strings.Builder
	switch e.Kind {
	case SkipUnsupported:
		sb.WriteString(pterm.Yellow(e.Message))
	default:
		sb.WriteString(pterm.Red(e.Message))
	}
	if e.Keyword != "" {
		sb.WriteString(fmt.Sprintf(" %s %s", pterm.Gray("type:"), e.Keyword))
	}
	if e.Token != "" {
		sb.WriteString(fmt.Sprintf(" %s %q", pterm.Gray(e.fieldName()+":"), e.Token))
	}
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(" %s %v", pterm.Gray("cause:"), e.Err))
	}
	return sb.String()
}

// AsSkip returns the SkipError carried by err, if any
func AsSkip(err error) (*SkipError, bool) {
	var skip *SkipError
	if errors.As(err, &skip) {
		return skip, true
	}
	return nil, false
}

func skipf(kind SkipKind, field, token, format string, args ...interface{}) *SkipError {
	return &SkipError{
		Kind:    kind,
		Field:   field,
		Token:   token,
		Message: fmt.Sprintf(format, args...),
	}
}
