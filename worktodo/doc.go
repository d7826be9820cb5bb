// Package worktodo reads the work queue of a primality/factoring engine.
//
// Each non-blank, non-comment line of a worktodo file is one assignment on a
// number k*b^n+c:
//
//	Test=<exp>,<how_far_factored>,<has_been_pminus1ed>
//	DoubleCheck=<exp>,<how_far_factored>,<has_been_pminus1ed>
//	PRP=[AID,]<k>,<b>,<n>,<c>[,<hff>,<saved>[,<base>,<residue_type>]][,"<f1,f2,...>"]
//	PRPDC=...
//	PFactor=[AID,]<exp>|1,<b>,<n>,<c>,<hff>,<saved>,<B1>,<B2>[,"<factors>"]
//	Pminus1=[AID,]<k>,<b>,<n>,<c>,<B1>,<B2>,<hff>[,"<factors>"]
//
// Decoder turns one line into an Entry or a *SkipError. Queue scans a file
// for the first runnable Entry and archives processed lines.
//
// Exponent-only assignments (Test, DoubleCheck and the PFactor shorthand)
// always describe Mersenne numbers, so their entries carry k=1, b=2, c=-1.
package worktodo
