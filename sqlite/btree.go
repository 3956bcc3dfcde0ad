package sqlite

import "fmt"

// PageDesc is one decoded page, independent of which B-tree (if any) it
// belongs to.
type PageDesc struct {
	PageNumber        int        `json:"page_number"`
	PageType          PageType   `json:"page_type"`
	CellCount         int        `json:"cell_count"`
	FreeSpace         int        `json:"free_space"`
	CellContentStart  int        `json:"cell_content_start"`
	Cells             []CellDesc `json:"cells"`
	rightMostPointer  int
	hasRightMost      bool
}

// decodePage reads the page header, cell-pointer array, and every cell on
// page number in a single pass. A page-classification failure (BadPageType
// or a short read of the header itself) propagates as a fatal error, per
// §7 — it is not something a single corrupt cell can recover from.
func decodePage(pager *Pager, pageNumber int, enc TextEncoding) (*PageDesc, error) {
	buf, err := pager.Page(pageNumber)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNumber, err)
	}

	headerOffset := 0
	if pageNumber == 1 {
		headerOffset = headerSize
	}
	ph, err := DecodePageHeader(buf, headerOffset)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNumber, err)
	}

	pageSize := pager.PageSize()
	cellContentStart := ph.CellContentStartResolved()
	offsets, err := cellPointerArray(buf, headerOffset, ph.Size, int(ph.CellCount))
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNumber, err)
	}

	pointerArrayEnd := headerOffset + ph.Size + 2*int(ph.CellCount)
	freeSpace := cellContentStart - pointerArrayEnd
	if freeSpace < 0 {
		freeSpace = 0
	}
	freeSpace += int(ph.FragmentedFreeBytes)

	pd := &PageDesc{
		PageNumber:       pageNumber,
		PageType:         ph.Type,
		CellCount:        int(ph.CellCount),
		FreeSpace:        freeSpace,
		CellContentStart: cellContentStart,
	}
	if ph.Type.isInterior() {
		pd.rightMostPointer = int(ph.RightMostPointer)
		pd.hasRightMost = true
	}

	pd.Cells = make([]CellDesc, len(offsets))
	for i, off := range offsets {
		pd.Cells[i] = decodeCell(buf, pageSize, cellContentStart, off, i, ph.Type, pager, enc)
	}
	return pd, nil
}

// childPages returns, in the §4.9.3 order (every cell's left-child, then
// the right-most pointer last), the page numbers an interior page's
// children live on.
func (pd *PageDesc) childPages() []int {
	if !pd.PageType.isInterior() {
		return []int{}
	}
	children := make([]int, 0, len(pd.Cells)+1)
	for _, c := range pd.Cells {
		if c.LeftChild != nil {
			children = append(children, *c.LeftChild)
		}
	}
	if pd.hasRightMost {
		children = append(children, pd.rightMostPointer)
	}
	return children
}
