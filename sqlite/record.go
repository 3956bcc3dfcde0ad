package sqlite

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"unicode/utf16"
)

// ColumnKind tags the decoded storage class of a Record column.
type ColumnKind int

const (
	ColNull ColumnKind = iota
	ColInt
	ColFloat
	ColText
	ColBlob
	ColReserved // serial type 10 or 11: reserved, rendered as <reserved:N>
)

// Column is one decoded value of a Record.
type Column struct {
	Kind  ColumnKind
	Int   int64
	Float float64
	Text  string
	Blob  []byte
}

// Record is an ordered sequence of typed columns decoded from a cell's
// payload. Malformed records never panic; they carry a reason instead.
type Record struct {
	Columns   []Column
	Malformed bool
	Reason    string
}

// DecodeRecord decodes a record from payload using enc to resolve TEXT
// columns. It never returns an error: a truncated or otherwise malformed
// record is reported via Record.Malformed/Reason so a single corrupt row
// never aborts the wider decode.
func DecodeRecord(payload []byte, enc TextEncoding) *Record {
	rec := &Record{}
	if len(payload) == 0 {
		return rec
	}

	headerLen, n, err := VarintFromBytes(payload)
	if err != nil || headerLen < int64(n) || int(headerLen) > len(payload) {
		rec.Malformed = true
		rec.Reason = MarkRecordTruncated
		return rec
	}

	var serialTypes []int64
	pos := n
	for pos < int(headerLen) {
		st, k, err := VarintFromBytes(payload[pos:])
		if err != nil || k == 0 {
			rec.Malformed = true
			rec.Reason = MarkRecordTruncated
			return rec
		}
		serialTypes = append(serialTypes, st)
		pos += k
	}
	if pos != int(headerLen) {
		// Header varints overran the declared header length.
		rec.Malformed = true
		rec.Reason = MarkRecordTruncated
		return rec
	}

	body := int(headerLen)
	for _, st := range serialTypes {
		col, size, ok := decodeSerialValue(payload, body, st, enc)
		if !ok {
			rec.Malformed = true
			rec.Reason = MarkRecordTruncated
			return rec
		}
		rec.Columns = append(rec.Columns, col)
		body += size
	}
	return rec
}

func decodeSerialValue(buf []byte, off int, st int64, enc TextEncoding) (Column, int, bool) {
	switch {
	case st == 0:
		return Column{Kind: ColNull}, 0, true
	case st >= 1 && st <= 4:
		sz := int(st)
		if off+sz > len(buf) {
			return Column{}, 0, false
		}
		return Column{Kind: ColInt, Int: readSignedBE(buf[off : off+sz])}, sz, true
	case st == 5:
		if off+6 > len(buf) {
			return Column{}, 0, false
		}
		return Column{Kind: ColInt, Int: readSignedBE(buf[off : off+6])}, 6, true
	case st == 6:
		if off+8 > len(buf) {
			return Column{}, 0, false
		}
		return Column{Kind: ColInt, Int: int64(binary.BigEndian.Uint64(buf[off : off+8]))}, 8, true
	case st == 7:
		if off+8 > len(buf) {
			return Column{}, 0, false
		}
		bits := binary.BigEndian.Uint64(buf[off : off+8])
		return Column{Kind: ColFloat, Float: math.Float64frombits(bits)}, 8, true
	case st == 8:
		return Column{Kind: ColInt, Int: 0}, 0, true
	case st == 9:
		return Column{Kind: ColInt, Int: 1}, 0, true
	case st == 10 || st == 11:
		return Column{Kind: ColReserved, Int: st}, 0, true
	case st >= 12 && st%2 == 0:
		sz := int((st - 12) / 2)
		if off+sz > len(buf) {
			return Column{}, 0, false
		}
		b := make([]byte, sz)
		copy(b, buf[off:off+sz])
		return Column{Kind: ColBlob, Blob: b}, sz, true
	default: // st >= 13, odd
		sz := int((st - 13) / 2)
		if off+sz > len(buf) {
			return Column{}, 0, false
		}
		return Column{Kind: ColText, Text: decodeText(buf[off:off+sz], enc)}, sz, true
	}
}

// decodeText honors the file's text encoding. Invalid sequences degrade to
// U+FFFD rather than failing the record, per the decoder's never-panic
// contract.
func decodeText(b []byte, enc TextEncoding) string {
	switch enc {
	case UTF16LE, UTF16BE:
		odd := len(b)%2 != 0
		if odd {
			b = b[:len(b)-1]
		}
		units := make([]uint16, len(b)/2)
		for i := range units {
			if enc == UTF16LE {
				units[i] = binary.LittleEndian.Uint16(b[i*2 : i*2+2])
			} else {
				units[i] = binary.BigEndian.Uint16(b[i*2 : i*2+2])
			}
		}
		s := string(utf16.Decode(units))
		if odd {
			s += "�"
		}
		return s
	default:
		return strings.ToValidUTF8(string(b), "�")
	}
}

// previewLimit is the ~100 visible-character cap on Record.Preview.
const previewLimit = 100

// render formats the record as a printable tuple, e.g. (1, 'alice', NULL).
// limit <= 0 means unbounded (full_content); otherwise the result is capped
// to limit runes with a trailing ellipsis.
func (r *Record) render(limit int) string {
	if r.Malformed {
		return MarkMalformed
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range r.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		switch c.Kind {
		case ColNull:
			b.WriteString("NULL")
		case ColInt:
			fmt.Fprintf(&b, "%d", c.Int)
		case ColFloat:
			fmt.Fprintf(&b, "%g", c.Float)
		case ColText:
			fmt.Fprintf(&b, "'%s'", strings.ReplaceAll(c.Text, "'", "''"))
		case ColBlob:
			fmt.Fprintf(&b, "x'%s'", hex.EncodeToString(c.Blob))
		case ColReserved:
			fmt.Fprintf(&b, "<reserved:%d>", c.Int)
		}
	}
	b.WriteByte(')')

	s := b.String()
	if limit > 0 {
		runes := []rune(s)
		if len(runes) > limit {
			s = string(runes[:limit]) + "..."
		}
	}
	return s
}

// Preview is a printable best-effort summary capped to ~100 visible
// characters.
func (r *Record) Preview() string { return r.render(previewLimit) }

// Full is the same rendering without truncation.
func (r *Record) Full() string { return r.render(0) }
