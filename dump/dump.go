// Package dump renders a decoded Model as a human-readable textual dump,
// the reference implementation of spec's `dump` collaborator contract.
package dump

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/opendb-tools/sqliteviz/ddl"
	"github.com/opendb-tools/sqliteviz/sqlite"
)

// Options filters what Write dumps. Table and Page filters are unions: a
// page is included if it matches either filter (or if both are empty, in
// which case everything is dumped).
type Options struct {
	Tables []string
	Pages  []int
}

func (o Options) empty() bool {
	return len(o.Tables) == 0 && len(o.Pages) == 0
}

// Write renders model (plus schema column info derived via ddl) to w.
func Write(w io.Writer, model *sqlite.Model, opts Options) error {
	fmt.Fprintf(w, "file: %s\n", model.DatabaseInfo.FileName)
	fmt.Fprintf(w, "page size: %s (%d bytes)\n", humanize.Bytes(uint64(model.DatabaseInfo.PageSize)), model.DatabaseInfo.PageSize)
	fmt.Fprintf(w, "page count: %d\n", model.DatabaseInfo.PageCount)
	if model.DatabaseInfo.PageCountDiscrepant {
		fmt.Fprintf(w, "  (header claimed %d pages; using the file-derived count)\n", model.DatabaseInfo.HeaderPageCount)
	}
	fmt.Fprintf(w, "text encoding: %s\n", model.DatabaseInfo.TextEncoding)
	fmt.Fprintf(w, "sqlite version: %s\n\n", model.DatabaseInfo.SqliteVersion)

	wantTable, wantPage := matchSets(opts)

	fmt.Fprintln(w, "schema:")
	for _, t := range model.Schema.Tables {
		if !opts.empty() && !wantTable[t.Name] && !wantPage[t.RootPage] {
			continue
		}
		fmt.Fprintf(w, "  table %-20s root page %d\n", t.Name, t.RootPage)
		writeColumns(w, model, t.Name)
	}
	for _, ix := range model.Schema.Indexes {
		if !opts.empty() && !wantTable[ix.Name] && !wantPage[ix.RootPage] {
			continue
		}
		fmt.Fprintf(w, "  index %-20s on %-15s root page %d\n", ix.Name, ix.TableName, ix.RootPage)
	}
	fmt.Fprintln(w)

	for _, bt := range model.Btrees {
		if !opts.empty() && !wantTable[bt.Name] {
			continue
		}
		writeBTree(w, bt)
	}

	for _, pd := range model.Pages {
		if !opts.empty() && !wantPage[pd.PageNumber] && !pageBelongsToWantedTree(model, pd.PageNumber, wantTable) {
			continue
		}
		writePage(w, pd)
	}

	fp, err := Fingerprint(model)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	fmt.Fprintf(w, "fingerprint: %s\n", fp)
	return nil
}

func matchSets(opts Options) (tables map[string]bool, pages map[int]bool) {
	tables = make(map[string]bool, len(opts.Tables))
	for _, n := range opts.Tables {
		tables[n] = true
	}
	pages = make(map[int]bool, len(opts.Pages))
	for _, p := range opts.Pages {
		pages[p] = true
	}
	return tables, pages
}

func pageBelongsToWantedTree(model *sqlite.Model, pageNumber int, wantTable map[string]bool) bool {
	if len(wantTable) == 0 {
		return false
	}
	for _, bt := range model.Btrees {
		if !wantTable[bt.Name] {
			continue
		}
		for _, n := range bt.Nodes {
			if n.PageNumber == pageNumber {
				return true
			}
		}
	}
	return false
}

func writeColumns(w io.Writer, model *sqlite.Model, tableName string) {
	if model.RawSchema == nil {
		return
	}
	for _, e := range model.RawSchema.Tables {
		if e.Name != tableName || e.SQL == "" {
			continue
		}
		cols, err := ddl.ParseColumns(e.SQL)
		if err != nil {
			fmt.Fprintf(w, "    (columns unavailable: %v)\n", err)
			return
		}
		for _, c := range cols {
			fmt.Fprintf(w, "    %-20s %-12s affinity=%s\n", c.Name, c.Type, c.Affinity)
		}
	}
}

func writeBTree(w io.Writer, bt sqlite.BTree) {
	fmt.Fprintf(w, "btree %q (%s, root=%d)\n", bt.Name, bt.TreeType, bt.RootPage)
	for _, n := range bt.Nodes {
		if n.Error != "" {
			fmt.Fprintf(w, "  [budget exceeded: %s]\n", n.Error)
			continue
		}
		fmt.Fprintf(w, "  node %d: page %d (%s) depth=%d cells=%d children=%v\n",
			n.ID, n.PageNumber, n.PageType, n.Depth, n.CellCount, n.Children)
	}
	for _, l := range bt.Links {
		fmt.Fprintf(w, "  link %d -> %d (%s)\n", l.Source, l.Target, l.LinkType)
	}
	fmt.Fprintln(w)
}

func writePage(w io.Writer, pd sqlite.PageDesc) {
	fmt.Fprintf(w, "page %d: %s cells=%d free=%d content_start=%d\n",
		pd.PageNumber, pd.PageType, pd.CellCount, pd.FreeSpace, pd.CellContentStart)
	for _, c := range pd.Cells {
		fmt.Fprintf(w, "  cell[%d] %s offset=%d size=%d", c.Index, c.CellType, c.Offset, c.Size)
		if c.Rowid != nil {
			fmt.Fprintf(w, " rowid=%d", *c.Rowid)
		}
		if c.LeftChild != nil {
			fmt.Fprintf(w, " left_child=%d", *c.LeftChild)
		}
		if c.HasOverflow {
			fmt.Fprintf(w, " overflow_page=%v", c.OverflowPage)
		}
		fmt.Fprintf(w, " %s\n", c.Preview)
	}
	fmt.Fprintln(w)
}

// Fingerprint computes a stable content fingerprint of the decoded file, so
// two dumps of the same file can be compared without diffing the full
// output: it hashes the database-info summary (file name, page size, page
// count, text encoding) plus the sorted table and index names with their
// root pages. No raw file bytes go into the hash.
func Fingerprint(model *sqlite.Model) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%d|%d|%s\n", model.DatabaseInfo.FileName, model.DatabaseInfo.PageSize, model.DatabaseInfo.PageCount, model.DatabaseInfo.TextEncoding)

	names := make([]string, 0, len(model.Schema.Tables)+len(model.Schema.Indexes))
	for _, t := range model.Schema.Tables {
		names = append(names, fmt.Sprintf("table:%s@%d", t.Name, t.RootPage))
	}
	for _, ix := range model.Schema.Indexes {
		names = append(names, fmt.Sprintf("index:%s@%d", ix.Name, ix.RootPage))
	}
	sort.Strings(names)
	for _, n := range names {
		sb.WriteString(n)
		sb.WriteByte('\n')
	}

	sum := blake3.Sum256([]byte(sb.String()))
	return fmt.Sprintf("%x", sum[:16]), nil
}

// OpenOutput opens path for writing, transparently compressing with xz when
// path ends in ".xz".
func OpenOutput(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("dump: %w", err)
	}
	if !strings.HasSuffix(path, ".xz") {
		return f, nil
	}
	xw, err := xz.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("dump: %w", err)
	}
	return &xzFile{xw: xw, f: f}, nil
}

type xzFile struct {
	xw *xz.Writer
	f  *os.File
}

func (x *xzFile) Write(p []byte) (int, error) { return x.xw.Write(p) }

func (x *xzFile) Close() error {
	if err := x.xw.Close(); err != nil {
		x.f.Close()
		return err
	}
	return x.f.Close()
}
