package sqlite

import "fmt"

// PageType classifies a B-tree page. Overflow pages carry no header of
// their own and are never classified by this decoder directly — they are
// inferred from the walk context — but "Overflow" is still a valid
// page_type value on the nodes the walker synthesizes for them.
type PageType string

const (
	PageInteriorTable PageType = "InteriorTable"
	PageLeafTable     PageType = "LeafTable"
	PageInteriorIndex PageType = "InteriorIndex"
	PageLeafIndex     PageType = "LeafIndex"
	PageOverflow      PageType = "Overflow"
)

func (t PageType) isInterior() bool {
	return t == PageInteriorTable || t == PageInteriorIndex
}

const (
	flagInteriorIndex = 0x02
	flagInteriorTable = 0x05
	flagLeafIndex     = 0x0A
	flagLeafTable     = 0x0D
)

// PageHeader is the decoded B-tree page header: 8 bytes for leaf pages, 12
// for interior pages (the extra 4 being the right-most pointer).
type PageHeader struct {
	Type                 PageType
	FirstFreeblockOffset uint16
	CellCount            uint16
	CellContentStart     uint16
	FragmentedFreeBytes  uint8
	RightMostPointer     uint32
	Size                 int
}

// CellContentStartResolved returns the cell-content-start offset with the
// 0-means-65536 rule applied.
func (h *PageHeader) CellContentStartResolved() int {
	if h.CellContentStart == 0 {
		return pageSizeOneMsb
	}
	return int(h.CellContentStart)
}

// DecodePageHeader reads a B-tree page header from buf starting at offset
// (100 for page 1, 0 otherwise).
func DecodePageHeader(buf []byte, offset int) (*PageHeader, error) {
	typeByte, err := readUint8(buf, offset)
	if err != nil {
		return nil, fmt.Errorf("page header: %w", ErrUnexpectedEOF)
	}
	var t PageType
	switch typeByte {
	case flagInteriorIndex:
		t = PageInteriorIndex
	case flagInteriorTable:
		t = PageInteriorTable
	case flagLeafIndex:
		t = PageLeafIndex
	case flagLeafTable:
		t = PageLeafTable
	default:
		return nil, fmt.Errorf("page header: type 0x%02x: %w", typeByte, ErrBadPageType)
	}

	firstFree, err := readUint16(buf, offset+1)
	if err != nil {
		return nil, fmt.Errorf("page header: %w", ErrUnexpectedEOF)
	}
	cellCount, err := readUint16(buf, offset+3)
	if err != nil {
		return nil, fmt.Errorf("page header: %w", ErrUnexpectedEOF)
	}
	cellContentStart, err := readUint16(buf, offset+5)
	if err != nil {
		return nil, fmt.Errorf("page header: %w", ErrUnexpectedEOF)
	}
	fragBytes, err := readUint8(buf, offset+7)
	if err != nil {
		return nil, fmt.Errorf("page header: %w", ErrUnexpectedEOF)
	}

	h := &PageHeader{
		Type:                 t,
		FirstFreeblockOffset: firstFree,
		CellCount:            cellCount,
		CellContentStart:     cellContentStart,
		FragmentedFreeBytes:  fragBytes,
		Size:                 8,
	}
	if t.isInterior() {
		rightMost, err := readUint32(buf, offset+8)
		if err != nil {
			return nil, fmt.Errorf("page header: %w", ErrUnexpectedEOF)
		}
		h.RightMostPointer = rightMost
		h.Size = 12
	}
	return h, nil
}

// cellPointerArray reads the cell_count big-endian 16-bit offsets
// immediately following the page header.
func cellPointerArray(buf []byte, headerOffset, headerSize int, cellCount int) ([]int, error) {
	start := headerOffset + headerSize
	offsets := make([]int, cellCount)
	for i := 0; i < cellCount; i++ {
		v, err := readUint16(buf, start+2*i)
		if err != nil {
			return nil, fmt.Errorf("cell pointer array: %w", ErrUnexpectedEOF)
		}
		offsets[i] = int(v)
	}
	return offsets, nil
}
