// Package testdata builds small, valid-enough SQLite byte buffers in memory
// for the sqlite package's tests. The retrieval pack that seeded this repo
// didn't carry binary .db fixtures, so these builders stand in for them:
// each one assembles exactly the bytes its scenario needs, the same way the
// decoder would read them back.
package testdata

import "encoding/binary"

// Varint encodes v the way sqlite.Varint decodes it: up to eight 7-bit
// groups (continuation bit set on every byte but the last). Values this
// package ever needs fit well under the 2^56 boundary where a 9th,
// full-8-bit byte would be required, so that case isn't implemented here.
func Varint(v uint64) []byte {
	if v <= 0x7f {
		return []byte{byte(v)}
	}
	// groups holds 7-bit chunks, least-significant chunk first.
	var groups []byte
	for v > 0 {
		groups = append(groups, byte(v&0x7f))
		v >>= 7
	}
	out := make([]byte, len(groups))
	for i := range groups {
		out[i] = groups[len(groups)-1-i]
		if i != len(groups)-1 {
			out[i] |= 0x80
		}
	}
	return out
}

// Value is a column to encode into a record; use Null/Int/Text/Blob.
type Value struct {
	isNull bool
	i      int64
	s      *string
	b      []byte
}

func Null() Value       { return Value{isNull: true} }
func Int(v int64) Value { return Value{i: v} }
func Text(s string) Value {
	return Value{s: &s}
}
func Blob(b []byte) Value { return Value{b: b} }

// Record builds the serial-type-header-then-body record encoding §4.5
// describes. Integers always use the 8-byte width (serial type 6) except 0
// and 1, which use the zero/one serial types (8, 9).
func Record(vals ...Value) []byte {
	var serials []uint64
	var body []byte
	for _, v := range vals {
		switch {
		case v.isNull:
			serials = append(serials, 0)
		case v.s != nil:
			t := []byte(*v.s)
			serials = append(serials, uint64(13+2*len(t)))
			body = append(body, t...)
		case v.b != nil:
			serials = append(serials, uint64(12+2*len(v.b)))
			body = append(body, v.b...)
		default:
			switch v.i {
			case 0:
				serials = append(serials, 8)
			case 1:
				serials = append(serials, 9)
			default:
				serials = append(serials, 6)
				w := make([]byte, 8)
				binary.BigEndian.PutUint64(w, uint64(v.i))
				body = append(body, w...)
			}
		}
	}

	var headerBody []byte
	for _, s := range serials {
		headerBody = append(headerBody, Varint(s)...)
	}
	header := append(Varint(uint64(len(headerBody)+1)), headerBody...)
	return append(header, body...)
}

// DBHeader builds the 100-byte file header for a database of pageCount
// pages of pageSize bytes using the given text encoding (1/2/3).
func DBHeader(pageSize int, pageCount uint32, encoding uint32) []byte {
	buf := make([]byte, 100)
	copy(buf[0:16], "SQLite format 3\x00")
	if pageSize == 65536 {
		binary.BigEndian.PutUint16(buf[16:18], 1)
	} else {
		binary.BigEndian.PutUint16(buf[16:18], uint16(pageSize))
	}
	buf[18] = 1 // file format write version
	buf[19] = 1 // file format read version
	buf[21] = 64
	buf[22] = 32
	buf[23] = 32
	binary.BigEndian.PutUint32(buf[24:28], 1) // change counter
	binary.BigEndian.PutUint32(buf[28:32], pageCount)
	binary.BigEndian.PutUint32(buf[44:48], 4) // schema format
	binary.BigEndian.PutUint32(buf[56:60], encoding)
	binary.BigEndian.PutUint32(buf[92:96], 1) // version-valid-for counter
	binary.BigEndian.PutUint32(buf[96:100], 3045000)
	return buf
}

// LeafPage lays cells out immediately after the cell-pointer array (rather
// than growing backward from the end of the page, as real SQLite does) —
// a simpler, still fully §3.2-invariant-compliant layout where
// cell_content_start equals pointer_array_end exactly. headerOffset is 100
// for page 1, 0 otherwise. pageTypeFlag selects LeafTable (0x0D) or
// LeafIndex (0x0A).
func LeafPage(pageSize, headerOffset int, pageTypeFlag byte, cells [][]byte) []byte {
	buf := make([]byte, pageSize)
	pointerArrayStart := headerOffset + 8
	contentStart := pointerArrayStart + 2*len(cells)

	buf[headerOffset] = pageTypeFlag
	binary.BigEndian.PutUint16(buf[headerOffset+1:headerOffset+3], 0) // first freeblock
	binary.BigEndian.PutUint16(buf[headerOffset+3:headerOffset+5], uint16(len(cells)))
	binary.BigEndian.PutUint16(buf[headerOffset+5:headerOffset+7], uint16(contentStart))
	buf[headerOffset+7] = 0 // fragmented free bytes

	pos := contentStart
	for i, cell := range cells {
		binary.BigEndian.PutUint16(buf[pointerArrayStart+2*i:pointerArrayStart+2*i+2], uint16(pos))
		copy(buf[pos:pos+len(cell)], cell)
		pos += len(cell)
	}
	return buf
}

// InteriorPage builds an interior page (table or index) whose cells are
// [children[i], keyPayload[i]] pairs, with children[len(keyPayload)] used
// as the right-most pointer. pageTypeFlag selects InteriorTable (0x05) or
// InteriorIndex (0x02); for InteriorTable, keyPayloads should already be
// varint-encoded rowids (no payload); for InteriorIndex they should be
// [varint payload_size][payload bytes].
func InteriorPage(pageSize, headerOffset int, pageTypeFlag byte, children []uint32, keyPayloads [][]byte) []byte {
	buf := make([]byte, pageSize)
	pointerArrayStart := headerOffset + 12
	var cells [][]byte
	for i, kp := range keyPayloads {
		c := make([]byte, 4)
		binary.BigEndian.PutUint32(c, children[i])
		c = append(c, kp...)
		cells = append(cells, c)
	}
	contentStart := pointerArrayStart + 2*len(cells)

	buf[headerOffset] = pageTypeFlag
	binary.BigEndian.PutUint16(buf[headerOffset+1:headerOffset+3], 0)
	binary.BigEndian.PutUint16(buf[headerOffset+3:headerOffset+5], uint16(len(cells)))
	binary.BigEndian.PutUint16(buf[headerOffset+5:headerOffset+7], uint16(contentStart))
	buf[headerOffset+7] = 0
	binary.BigEndian.PutUint32(buf[headerOffset+8:headerOffset+12], children[len(children)-1])

	pos := contentStart
	for i, cell := range cells {
		binary.BigEndian.PutUint16(buf[pointerArrayStart+2*i:pointerArrayStart+2*i+2], uint16(pos))
		copy(buf[pos:pos+len(cell)], cell)
		pos += len(cell)
	}
	return buf
}

// TableLeafCell builds a [varint payload_size][varint rowid][payload] cell
// with no overflow.
func TableLeafCell(rowid int64, payload []byte) []byte {
	out := Varint(uint64(len(payload)))
	out = append(out, Varint(uint64(rowid))...)
	return append(out, payload...)
}

// IndexLeafCell builds a [varint payload_size][payload] cell with no
// overflow.
func IndexLeafCell(payload []byte) []byte {
	out := Varint(uint64(len(payload)))
	return append(out, payload...)
}

// Concat assembles a full database file from a header and a sequence of
// already page-sized page buffers.
func Concat(header []byte, pages ...[]byte) []byte {
	var out []byte
	if len(pages) > 0 {
		page1 := make([]byte, len(pages[0]))
		copy(page1, pages[0])
		copy(page1[0:100], header)
		out = append(out, page1...)
		for _, p := range pages[1:] {
			out = append(out, p...)
		}
	}
	return out
}

// Source is a minimal in-memory ByteSource (sqlite.ByteSource's shape)
// backed by a []byte, for feeding a built fixture straight into the core.
type Source struct {
	Data []byte
}

func (s *Source) Len() int64 { return int64(len(s.Data)) }

func (s *Source) ReadAt(offset int64, buf []byte) (int, error) {
	if offset >= int64(len(s.Data)) {
		return 0, nil
	}
	n := copy(buf, s.Data[offset:])
	return n, nil
}
