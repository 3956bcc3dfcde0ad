// Package sqlite decodes a SQLite database file into a paging/B-tree model
// without executing SQL, writing to the file, or interpreting the
// WAL/journal. It is a synchronous, per-invocation library: a fresh Pager
// and Model are built for every decode and nothing is shared across calls.
package sqlite

import "errors"

// Fatal error kinds. Any of these abort the whole decode and are returned
// as-is (wrapped with context) from the function that detected them, except
// ErrBudgetExceeded, which no decode function returns: a B-tree walk that
// exhausts its node budget ends that tree with a
// MarkTraversalBudgetExceeded node and the decode goes on.
var (
	ErrBadMagic        = errors.New("bad magic")
	ErrBadPageSize     = errors.New("bad page size")
	ErrBadEncoding     = errors.New("bad encoding")
	ErrBadPageType     = errors.New("bad page type")
	ErrUnexpectedEOF   = errors.New("unexpected eof")
	ErrPageOutOfRange  = errors.New("page out of range")
	ErrBudgetExceeded  = errors.New("traversal budget exceeded")
)

// ErrVarintTruncated is the internal sentinel a varint read fails with when
// its continuation bytes run past the end of the input. Varint and
// VarintFromBytes return it; cell and record decoding fold it into
// MarkVarintTruncated or MarkRecordTruncated on the affected cell or record.
var ErrVarintTruncated = errors.New("varint: truncated")

// Recoverable error kinds. These never escape as Go errors; they are
// captured in-band on the affected Cell/Record/PageDesc as one of these
// string markers so a single corrupt row never hides the rest of the
// database (spec's error propagation policy).
const (
	MarkBoundsViolation   = "BoundsViolation"
	MarkVarintTruncated   = "VarintTruncated"
	MarkRecordTruncated   = "RecordTruncated"
	MarkOverflowCycle     = "OverflowCycle"
	MarkOverflowTruncated = "OverflowTruncated"
	MarkUnknownSerialType = "UnknownSerialType"
	MarkMalformed         = "<malformed>"

	// MarkTraversalBudgetExceeded labels the synthetic NodeDesc a B-tree
	// walk appends when it hits its node budget (§7, fatal per-tree only).
	MarkTraversalBudgetExceeded = "TraversalBudgetExceeded"
)
