package sqlite

import (
	"fmt"
)

// TextEncoding is the file-wide text encoding recorded in the database
// header and threaded as a value parameter into every record decode — there
// is no global or ambient encoding state.
type TextEncoding int

const (
	UTF8    TextEncoding = 1
	UTF16LE TextEncoding = 2
	UTF16BE TextEncoding = 3
)

func (e TextEncoding) String() string {
	switch e {
	case UTF8:
		return "UTF-8"
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	default:
		return "unknown"
	}
}

const (
	headerMagic    = "SQLite format 3\x00"
	headerSize     = 100
	minPageSize    = 512
	maxPageSize    = 32768
	pageSizeOneMsb = 65536
)

// Header is the decoded 100-byte file header.
type Header struct {
	PageSize             int
	FileFormatWriteVer   uint8
	FileFormatReadVer    uint8
	ReservedSpace        uint8
	MaxEmbeddedPayload   uint8
	MinEmbeddedPayload   uint8
	LeafPayloadFraction  uint8
	ChangeCounter        uint32
	HeaderPageCount      uint32
	FirstFreelistTrunk   uint32
	TotalFreelistPages   uint32
	SchemaCookie         uint32
	SchemaFormat         uint32
	DefaultCacheSize     uint32
	LargestRootBTreePage uint32
	TextEncoding         TextEncoding
	UserVersion          uint32
	IncrementalVacuum    uint32
	ApplicationID        uint32
	VersionValidFor      uint32
	LibraryVersionNumber uint32

	// PageCount is the page count this decode actually uses: the
	// file-derived count whenever it disagrees with HeaderPageCount (see
	// the open-question resolution in DESIGN.md), else HeaderPageCount.
	PageCount           int
	PageCountDiscrepant bool
}

// SqliteVersion renders LibraryVersionNumber the way sqlite3_libversion()
// does: an encoded X*1000000+Y*1000+Z maps to "X.Y.Z".
func (h *Header) SqliteVersion() string {
	v := h.LibraryVersionNumber
	if v == 0 {
		return "unknown"
	}
	major := v / 1000000
	minor := (v / 1000) % 1000
	patch := v % 1000
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}

// DecodeHeader parses the first 100 bytes of the file. fileLen is the total
// byte length of the byte source, used to resolve the page-count open
// question against the in-header count.
func DecodeHeader(buf []byte, fileLen int64) (*Header, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("header: %w", ErrUnexpectedEOF)
	}
	if string(buf[0:16]) != headerMagic {
		return nil, fmt.Errorf("header: %w", ErrBadMagic)
	}

	rawPageSize, err := readUint16(buf, 16)
	if err != nil {
		return nil, fmt.Errorf("header: %w", ErrUnexpectedEOF)
	}
	pageSize, err := resolvePageSize(rawPageSize)
	if err != nil {
		return nil, err
	}

	writeVer, _ := readUint8(buf, 18)
	readVer, _ := readUint8(buf, 19)
	reserved, _ := readUint8(buf, 20)
	maxPayload, _ := readUint8(buf, 21)
	minPayload, _ := readUint8(buf, 22)
	leafPayload, _ := readUint8(buf, 23)
	changeCounter, _ := readUint32(buf, 24)
	headerPageCount, _ := readUint32(buf, 28)
	firstFreelist, _ := readUint32(buf, 32)
	totalFreelist, _ := readUint32(buf, 36)
	schemaCookie, _ := readUint32(buf, 40)
	schemaFormat, _ := readUint32(buf, 44)
	defaultCache, _ := readUint32(buf, 48)
	largestRoot, _ := readUint32(buf, 52)

	encRaw, err := readUint32(buf, 56)
	if err != nil {
		return nil, fmt.Errorf("header: %w", ErrUnexpectedEOF)
	}
	enc, err := resolveEncoding(encRaw)
	if err != nil {
		return nil, err
	}

	userVersion, _ := readUint32(buf, 60)
	incrVacuum, _ := readUint32(buf, 64)
	appID, _ := readUint32(buf, 68)
	versionValidFor, _ := readUint32(buf, 92)
	libVersion, _ := readUint32(buf, 96)

	h := &Header{
		PageSize:             pageSize,
		FileFormatWriteVer:   writeVer,
		FileFormatReadVer:    readVer,
		ReservedSpace:        reserved,
		MaxEmbeddedPayload:   maxPayload,
		MinEmbeddedPayload:   minPayload,
		LeafPayloadFraction:  leafPayload,
		ChangeCounter:        changeCounter,
		HeaderPageCount:      headerPageCount,
		FirstFreelistTrunk:   firstFreelist,
		TotalFreelistPages:   totalFreelist,
		SchemaCookie:         schemaCookie,
		SchemaFormat:         schemaFormat,
		DefaultCacheSize:     defaultCache,
		LargestRootBTreePage: largestRoot,
		TextEncoding:         enc,
		UserVersion:          userVersion,
		IncrementalVacuum:    incrVacuum,
		ApplicationID:        appID,
		VersionValidFor:      versionValidFor,
		LibraryVersionNumber: libVersion,
	}

	fileDerived := int(fileLen / int64(pageSize))
	h.PageCount = int(headerPageCount)
	if fileDerived != int(headerPageCount) {
		h.PageCountDiscrepant = true
		if fileDerived > 0 {
			h.PageCount = fileDerived
		}
	}
	if h.PageCount < 1 {
		h.PageCount = 1
	}
	return h, nil
}

func resolvePageSize(raw uint16) (int, error) {
	if raw == 1 {
		return pageSizeOneMsb, nil
	}
	if raw < minPageSize || raw > maxPageSize || raw&(raw-1) != 0 {
		return 0, fmt.Errorf("header: page size %d: %w", raw, ErrBadPageSize)
	}
	return int(raw), nil
}

func resolveEncoding(raw uint32) (TextEncoding, error) {
	switch raw {
	case 1:
		return UTF8, nil
	case 2:
		return UTF16LE, nil
	case 3:
		return UTF16BE, nil
	default:
		return 0, fmt.Errorf("header: encoding %d: %w", raw, ErrBadEncoding)
	}
}

// Open reads and validates the database header from source, then builds the
// Pager for the rest of the decode to use. It is the one place header bytes
// and page geometry meet.
func Open(source ByteSource) (*Header, *Pager, error) {
	fileLen := source.Len()
	buf := make([]byte, headerSize)
	n, err := source.ReadAt(0, buf)
	if err != nil {
		return nil, nil, fmt.Errorf("header: %w", ErrUnexpectedEOF)
	}
	if n < headerSize {
		return nil, nil, fmt.Errorf("header: %w", ErrUnexpectedEOF)
	}
	header, err := DecodeHeader(buf, fileLen)
	if err != nil {
		return nil, nil, err
	}
	pager := NewPager(source, header.PageSize, header.PageCount)
	return header, pager, nil
}
