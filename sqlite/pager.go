package sqlite

import "fmt"

// ByteSource is the byte-source contract the core requires from its caller
// (spec's external byte-source contract): a length and a positioned read.
// Reads beyond end of the source return a short count rather than an error;
// the Pager is responsible for turning a short read into a fatal error.
type ByteSource interface {
	Len() int64
	ReadAt(offset int64, buf []byte) (int, error)
}

// Pager maps a 1-based page number onto a fixed-size byte slice. It is
// single-writer during construction (NewPager/Page calls happen from one
// goroutine, matching the core's synchronous per-invocation model) and
// read-only thereafter; pages are lazily materialized on first fetch and
// memoized by number for the lifetime of the decode.
type Pager struct {
	source    ByteSource
	pageSize  int
	pageCount int
	cache     map[int][]byte
}

// NewPager constructs a Pager over source with the given page size and page
// count, both already validated by the header decoder.
func NewPager(source ByteSource, pageSize, pageCount int) *Pager {
	return &Pager{
		source:    source,
		pageSize:  pageSize,
		pageCount: pageCount,
		cache:     make(map[int][]byte),
	}
}

// PageSize reports the fixed page width this pager was constructed with.
func (p *Pager) PageSize() int { return p.pageSize }

// PageCount reports the number of pages this pager considers addressable.
func (p *Pager) PageCount() int { return p.pageCount }

// Page returns the raw bytes of page n (1-based). The pager refuses n=0,
// n>page_count, or a short final page — the last page must be full-width.
// The returned slice must never be mutated by the caller.
func (p *Pager) Page(n int) ([]byte, error) {
	if n < 1 || n > p.pageCount {
		return nil, fmt.Errorf("pager: page %d: %w", n, ErrPageOutOfRange)
	}
	if buf, ok := p.cache[n]; ok {
		return buf, nil
	}
	buf := make([]byte, p.pageSize)
	offset := int64(n-1) * int64(p.pageSize)
	read, err := p.source.ReadAt(offset, buf)
	if err != nil {
		return nil, fmt.Errorf("pager: page %d: %w", n, err)
	}
	if read < p.pageSize {
		return nil, fmt.Errorf("pager: page %d: %w", n, ErrUnexpectedEOF)
	}
	p.cache[n] = buf
	return buf, nil
}
