package worktodo

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the test an assignment asks the compute engine to run.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPRP              // probable-prime test (PRP, PRPDC)
	KindLL               // Lucas-Lehmer test (Test, DoubleCheck)
	KindPM1              // P-1 factoring (PFactor, Pminus1)
)

// String returns the short name used in logs and CLI output
func (k Kind) String() string {
	switch k {
	case KindPRP:
		return "PRP"
	case KindLL:
		return "LL"
	case KindPM1:
		return "P-1"
	default:
		return "Unsupported"
	}
}

// MarshalText renders the kind by name in JSON output
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Residue types carried by primality assignments.
const (
	ResidueTypeDefault  uint32 = 1 // plain PRP/LL residue
	ResidueTypeCofactor uint32 = 5 // Mersenne cofactor PRP (known factors divided out)
)

// Options is the kind-specific part of an Entry.
// It is either FactoringOptions (KindPM1) or PrimalityOptions (KindPRP, KindLL).
type Options interface {
	isOptions()
}

// FactoringOptions holds the P-1 smoothness bounds.
type FactoringOptions struct {
	B1 uint64  `json:"b1"`
	B2 float64 `json:"b2"`
}

// PrimalityOptions holds the residue type of a PRP or LL test.
type PrimalityOptions struct {
	ResidueType uint32 `json:"residue_type"`
}

func (FactoringOptions) isOptions() {}
func (PrimalityOptions) isOptions() {}

// Entry is one decoded worktodo assignment on the number K*B^Exponent+C.
//
// Entries are built once by the Decoder and not modified afterwards.
// K >= 1, B >= 2 and Exponent >= 1 hold for every Entry the Decoder returns.
type Entry struct {
	Kind         Kind     `json:"kind"`
	K            uint32   `json:"k"`
	B            uint32   `json:"b"`
	Exponent     uint32   `json:"n"`
	C            int32    `json:"c"`
	AID          string   `json:"aid,omitempty"`
	RawLine      string   `json:"raw_line"`
	KnownFactors []string `json:"known_factors,omitempty"`
	Options      Options  `json:"options"`
}

// Factoring returns the P-1 bounds; ok is false for primality entries.
func (e *Entry) Factoring() (FactoringOptions, bool) {
	opts, ok := e.Options.(FactoringOptions)
	return opts, ok
}

// Primality returns the residue options; ok is false for P-1 entries.
func (e *Entry) Primality() (PrimalityOptions, bool) {
	opts, ok := e.Options.(PrimalityOptions)
	return opts, ok
}

// IsMersenne reports whether the entry targets 2^n-1.
func (e *Entry) IsMersenne() bool {
	return isMersenne(e.K, e.B, e.C)
}

// IsWagstaff reports whether the entry targets (2^n+1)/3.
func (e *Entry) IsWagstaff() bool {
	return isWagstaff(e.K, e.B, e.C, e.KnownFactors)
}

func isMersenne(k, b uint32, c int32) bool {
	return k == 1 && b == 2 && c == -1
}

func isWagstaff(k, b uint32, c int32, factors []string) bool {
	return k == 1 && b == 2 && c == 1 && len(factors) > 0 && factors[0] == "3"
}

// Number renders the candidate as k*b^n+c, e.g. "1*2^89-1".
func (e *Entry) Number() string {
	sign := "+"
	if e.C < 0 {
		sign = ""
	}
	return fmt.Sprintf("%d*%d^%d%s%d", e.K, e.B, e.Exponent, sign, e.C)
}

// String summarises the entry for logs, e.g.
// "PRP on 1*2^11-1 (Mersenne) with 1 known factors, residueType=5".
func (e *Entry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString(" on ")
	sb.WriteString(e.Number())
	if e.IsMersenne() {
		sb.WriteString(" (Mersenne)")
	}
	if e.IsWagstaff() {
		sb.WriteString(" (Wagstaff)")
	}
	if len(e.KnownFactors) > 0 {
		fmt.Fprintf(&sb, " with %d known factors", len(e.KnownFactors))
	}
	switch opts := e.Options.(type) {
	case FactoringOptions:
		fmt.Fprintf(&sb, ", B1=%d, B2=%s", opts.B1, strconv.FormatFloat(opts.B2, 'f', -1, 64))
	case PrimalityOptions:
		fmt.Fprintf(&sb, ", residueType=%d", opts.ResidueType)
	}
	if e.AID != "" {
		sb.WriteString(", AID=")
		sb.WriteString(e.AID)
	}
	return sb.String()
}
