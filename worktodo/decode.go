package worktodo

import (
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/worktodo/cofactor"
	"github.com/teranos/worktodo/logger"
)

// FactorValidator checks that known factors are consistent with 2^exponent-1.
type FactorValidator interface {
	ValidateFactors(exponent uint32, factors []string) bool
}

// FactorValidatorFunc adapts a function to FactorValidator
type FactorValidatorFunc func(exponent uint32, factors []string) bool

// ValidateFactors implements FactorValidator
func (f FactorValidatorFunc) ValidateFactors(exponent uint32, factors []string) bool {
	return f(exponent, factors)
}

// Decoder turns worktodo lines into entries.
// It holds no per-line state and is safe for concurrent use.
type Decoder struct {
	validator FactorValidator
	log       *zap.SugaredLogger
}

// DecoderOption configures a Decoder
type DecoderOption func(*Decoder)

// WithValidator replaces the known-factor validator (default: cofactor.Validate)
func WithValidator(v FactorValidator) DecoderOption {
	return func(d *Decoder) {
		d.validator = v
	}
}

// WithLogger sets the logger that receives decoding warnings
func WithLogger(l *zap.SugaredLogger) DecoderOption {
	return func(d *Decoder) {
		d.log = l
	}
}

// NewDecoder creates a Decoder
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		validator: FactorValidatorFunc(cofactor.Validate),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Decoder) logger() *zap.SugaredLogger {
	if d.log != nil {
		return d.log
	}
	return logger.Logger
}

// Test type keywords
const (
	keywordTest        = "Test"
	keywordDoubleCheck = "DoubleCheck"
	keywordPRP         = "PRP"
	keywordPRPDC       = "PRPDC"
	keywordPFactor     = "PFactor"
	keywordPminus1     = "Pminus1"
)

// draft accumulates the fields of one line before the Entry is built
type draft struct {
	keyword   string
	kind      Kind
	k, b, n   uint32
	c         int32
	aid       string
	factors   []string
	factoring FactoringOptions
	primality PrimalityOptions
}

func (dr *draft) isMersenne() bool {
	return isMersenne(dr.k, dr.b, dr.c)
}

func (dr *draft) isWagstaff() bool {
	return isWagstaff(dr.k, dr.b, dr.c, dr.factors)
}

// setMersenne records the implicit 2^n-1 form of exponent-only assignments
func (dr *draft) setMersenne(n uint32) {
	dr.k, dr.b, dr.n, dr.c = 1, 2, n, -1
}

// Decode parses one worktodo line.
//
// Blank and comment lines return ErrIgnored. Lines that cannot be run
// return a *SkipError naming the reason. Anything else yields an Entry.
func (d *Decoder) Decode(line string) (*Entry, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, ErrIgnored
	}

	keyword, payload, found := strings.Cut(trimmed, "=")
	keyword = strings.TrimSpace(keyword)
	if !found || keyword == "" {
		return nil, skipf(SkipSyntax, "", "", "missing '=' between test type and payload")
	}
	if strings.TrimSpace(payload) == "" {
		return nil, &SkipError{Kind: SkipSyntax, Keyword: keyword, Message: "missing payload after '='"}
	}

	dr := &draft{keyword: keyword}
	switch keyword {
	case keywordTest, keywordDoubleCheck:
		dr.kind = KindLL
	case keywordPRP, keywordPRPDC:
		dr.kind = KindPRP
	case keywordPFactor, keywordPminus1:
		dr.kind = KindPM1
	default:
		return nil, &SkipError{Kind: SkipUnsupported, Keyword: keyword, Message: "unsupported test type: " + keyword}
	}
	dr.primality.ResidueType = ResidueTypeDefault

	f := newFields(splitFields(payload))
	if tok, ok := f.peek(); ok && (tok == "" || tok == "N/A") {
		f.next()
	}
	if tok, ok := f.peek(); ok && (isHexAID(tok) || (dr.kind == KindPM1 && tok == "AID")) {
		dr.aid = tok
		f.next()
	}

	var err error
	switch keyword {
	case keywordPFactor:
		err = d.decodePFactor(dr, f)
	case keywordPminus1:
		err = d.decodePminus1(dr, f)
	case keywordTest, keywordDoubleCheck:
		err = d.decodeLL(dr, f)
	default:
		err = d.decodePRP(dr, f)
	}
	if err != nil {
		if skip, ok := AsSkip(err); ok && skip.Keyword == "" {
			skip.Keyword = keyword
		}
		return nil, err
	}

	return dr.build(line), nil
}

// build freezes the draft; the options arm is chosen by kind alone
func (dr *draft) build(raw string) *Entry {
	e := &Entry{
		Kind:     dr.kind,
		K:        dr.k,
		B:        dr.b,
		Exponent: dr.n,
		C:        dr.c,
		AID:      dr.aid,
		RawLine:  raw,
	}
	if len(dr.factors) > 0 {
		e.KnownFactors = append([]string(nil), dr.factors...)
	}
	if dr.kind == KindPM1 {
		e.Options = dr.factoring
	} else {
		e.Options = dr.primality
	}
	return e
}

// PFactor=[AID,]exponent,how_far_factored,tests_saved,B1,B2[,"factors"]
// PFactor=[AID,]1,b,n,c,how_far_factored,tests_saved,B1,B2[,"factors"]
func (d *Decoder) decodePFactor(dr *draft, f *fields) error {
	if tok, ok := f.peek(); ok && tok == "1" {
		if err := parseKBNC(dr, f); err != nil {
			return err
		}
	} else {
		n, err := parseExponent(f)
		if err != nil {
			return err
		}
		dr.setMersenne(n)
	}
	if !dr.isMersenne() {
		return skipf(SkipUnsupported, "", "", "unsupported PFactor line (only Mersenne supported)")
	}

	if !f.skip(1) {
		return skipf(SkipSyntax, "how_far_factored", "", "bad PFactor line (missing how_far_factored)")
	}
	if !f.skip(1) {
		return skipf(SkipSyntax, "tests_saved", "", "bad PFactor line (missing ll_tests_saved_if_factor_found)")
	}

	opts, err := parseBounds(f)
	if err != nil {
		return err
	}
	dr.factoring = opts
	return parseTrailingFactors(dr, f)
}

// Pminus1=[AID,]k,b,n,c,B1,B2,how_far_factored[,"factors"]
func (d *Decoder) decodePminus1(dr *draft, f *fields) error {
	if err := parseKBNC(dr, f); err != nil {
		return err
	}
	if !dr.isMersenne() {
		return skipf(SkipUnsupported, "", "", "unsupported Pminus1 line (only Mersenne supported)")
	}

	opts, err := parseBounds(f)
	if err != nil {
		return err
	}
	dr.factoring = opts

	if !f.skip(1) {
		return skipf(SkipSyntax, "how_far_factored", "", "bad Pminus1 line (missing how_far_factored)")
	}
	return parseTrailingFactors(dr, f)
}

// {Test|DoubleCheck}=[AID,]exponent,how_far_factored,has_been_pminus1ed
func (d *Decoder) decodeLL(dr *draft, f *fields) error {
	n, err := parseExponent(f)
	if err != nil {
		return err
	}
	dr.setMersenne(n)

	if !f.skip(1) {
		return skipf(SkipSyntax, "how_far_factored", "", "bad LL line (missing how_far_factored)")
	}
	if !f.skip(1) {
		return skipf(SkipSyntax, "has_been_pminus1ed", "", "bad LL line (missing has_been_pminus1ed)")
	}
	return nil
}

// PRP[DC]=[AID,]k,b,n,c[,how_far_factored,tests_saved[,base,residue_type]][,"factors"]
func (d *Decoder) decodePRP(dr *draft, f *fields) error {
	if err := parseKBNC(dr, f); err != nil {
		return err
	}

	switch f.remaining() {
	case 1, 3, 5:
		tok, _ := f.last()
		factors, err := parseFactorList(tok)
		if err != nil {
			return &SkipError{Kind: SkipFactors, Field: "known_factors", Token: tok, Message: "bad PRP line (bad known factors part)", Err: err}
		}
		f.dropLast()
		dr.factors = factors

		if dr.isMersenne() {
			if !d.validator.ValidateFactors(dr.n, dr.factors) {
				return skipf(SkipFactors, "known_factors", tok, "invalid known factors for exponent %d", dr.n)
			}
			dr.primality.ResidueType = ResidueTypeCofactor
		}
	}

	if !dr.isMersenne() && !dr.isWagstaff() {
		return skipf(SkipUnsupported, "", "", "unsupported PRP line (only Mersenne and Wagstaff supported)")
	}

	if f.remaining() >= 2 {
		f.skip(2) // how_far_factored, tests_saved
	}

	if f.remaining() >= 2 {
		baseTok, _ := f.next()
		rtTok, _ := f.next()
		base, err := parseUint32("base", baseTok)
		if err != nil {
			return err
		}
		rt, err := parseUint32("residue_type", rtTok)
		if err != nil {
			return err
		}
		if base < 2 {
			return skipf(SkipRange, "base", baseTok, "invalid PRP base < 2")
		}
		if base != 3 {
			return skipf(SkipUnsupported, "base", baseTok, "only PRP base 3 implemented")
		}
		if rt != dr.primality.ResidueType {
			d.logger().Warnw("PRP residue type does not match expected, keeping expected",
				"residue_type", rt,
				"expected", dr.primality.ResidueType,
				logger.FieldExponent, dr.n,
			)
		}
	}
	return nil
}

// parseKBNC consumes k,b,n,c and checks k>=1, b>=2, n>=1
func parseKBNC(dr *draft, f *fields) error {
	if f.remaining() < 4 {
		return skipf(SkipSyntax, "", "", "not enough parts for k,b,n,c")
	}
	kTok, _ := f.next()
	bTok, _ := f.next()
	nTok, _ := f.next()
	cTok, _ := f.next()

	var err error
	if dr.k, err = parseUint32("k", kTok); err != nil {
		return err
	}
	if dr.b, err = parseUint32("b", bTok); err != nil {
		return err
	}
	if dr.n, err = parseUint32("n", nTok); err != nil {
		return err
	}
	if dr.c, err = parseInt32("c", cTok); err != nil {
		return err
	}

	if dr.k == 0 || dr.b < 2 || dr.n == 0 {
		return skipf(SkipRange, "", "", "invalid k,b,n,c values (%s,%s,%s,%s)", kTok, bTok, nTok, cTok)
	}
	return nil
}

func parseExponent(f *fields) (uint32, error) {
	tok, ok := f.next()
	if !ok {
		return 0, skipf(SkipSyntax, "exponent", "", "missing exponent")
	}
	n, err := parseUint32("exponent", tok)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, skipf(SkipRange, "exponent", tok, "invalid exponent 0")
	}
	return n, nil
}

// parseBounds consumes B1 (integer) and B2 (real, may be fractional)
func parseBounds(f *fields) (FactoringOptions, error) {
	if f.remaining() < 2 {
		return FactoringOptions{}, skipf(SkipSyntax, "", "", "not enough parts for B1,B2")
	}
	b1Tok, _ := f.next()
	b2Tok, _ := f.next()

	b1, err := parseUint64("B1", b1Tok)
	if err != nil {
		return FactoringOptions{}, err
	}
	b2, err := parseBound("B2", b2Tok)
	if err != nil {
		return FactoringOptions{}, err
	}
	if b1 == 0 || b2 < float64(b1) {
		return FactoringOptions{}, skipf(SkipRange, "", "", "invalid B1,B2 values (%s,%s)", b1Tok, b2Tok)
	}
	return FactoringOptions{B1: b1, B2: b2}, nil
}

// parseTrailingFactors takes an optional quoted factor list from the end.
// An unquoted trailing token is advisory and ignored.
func parseTrailingFactors(dr *draft, f *fields) error {
	tok, ok := f.last()
	if !ok || !isQuoted(tok) {
		return nil
	}
	factors, err := parseFactorList(tok)
	if err != nil {
		return &SkipError{Kind: SkipFactors, Field: "known_factors", Token: tok, Message: "bad known factors", Err: err}
	}
	f.dropLast()
	dr.factors = factors
	return nil
}

var defaultDecoder = NewDecoder()

// Decode parses line with the default decoder
func Decode(line string) (*Entry, error) {
	return defaultDecoder.Decode(line)
}
