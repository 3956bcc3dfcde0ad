package sqlite

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/opendb-tools/sqliteviz/testdata"
)

func TestBuildBTreeSingleLeaf(t *testing.T) {
	const pageSize = 4096
	cell := testdata.TableLeafCell(1, testdata.Record(testdata.Text("hello")))
	page1 := testdata.LeafPage(pageSize, 100, 0x0D, [][]byte{cell})
	header := testdata.DBHeader(pageSize, 1, 1)
	db := testdata.Concat(header, page1)

	pager := NewPager(&testdata.Source{Data: db}, pageSize, 1)
	bt, pages, err := BuildBTree(pager, "t", "table", 1, UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bt.Nodes) != 1 {
		t.Fatalf("nodes = %d, want 1", len(bt.Nodes))
	}
	if bt.Nodes[0].PageType != PageLeafTable || bt.Nodes[0].Depth != 0 {
		t.Errorf("root node = %+v, want LeafTable at depth 0", bt.Nodes[0])
	}
	if len(bt.Links) != 0 {
		t.Errorf("links = %d, want 0 for a single-node tree", len(bt.Links))
	}
	if len(pages) != 1 || pages[0] != 1 {
		t.Errorf("pages = %v, want [1]", pages)
	}

	// An empty Links (and the root node's empty Children) must marshal
	// as [], not null, for a consumer iterating the JSON with .map().
	blob, err := json.Marshal(bt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(blob)
	for _, want := range []string{`"links":[]`, `"children":[]`} {
		if !strings.Contains(out, want) {
			t.Errorf("json output missing %s (nil slice marshaled as null?): %s", want, out)
		}
	}
}

func TestBuildBTreeInteriorWithChildren(t *testing.T) {
	const pageSize = 4096
	interior := testdata.InteriorPage(pageSize, 100, 0x05, []uint32{2, 3}, [][]byte{
		testdata.Varint(5),
	})
	leaf2 := testdata.LeafPage(pageSize, 0, 0x0D, nil)
	leaf3 := testdata.LeafPage(pageSize, 0, 0x0D, nil)
	header := testdata.DBHeader(pageSize, 3, 1)
	db := testdata.Concat(header, interior, leaf2, leaf3)

	pager := NewPager(&testdata.Source{Data: db}, pageSize, 3)
	bt, pages, err := BuildBTree(pager, "t", "table", 1, UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bt.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3 (root + 2 leaves)", len(bt.Nodes))
	}
	if len(bt.Links) != 2 {
		t.Fatalf("links = %d, want 2 child links", len(bt.Links))
	}
	for _, l := range bt.Links {
		if l.LinkType != LinkChild {
			t.Errorf("link %+v, want link_type=child", l)
		}
	}
	if len(pages) != 3 {
		t.Errorf("pages = %v, want 3 distinct pages visited", pages)
	}
}

func TestBuildBTreeOutOfRangeRoot(t *testing.T) {
	const pageSize = 4096
	header := testdata.DBHeader(pageSize, 1, 1)
	page1 := testdata.LeafPage(pageSize, 100, 0x0D, nil)
	db := testdata.Concat(header, page1)

	pager := NewPager(&testdata.Source{Data: db}, pageSize, 1)
	bt, pages, err := BuildBTree(pager, "ghost", "table", 99, UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bt.Nodes) != 0 || len(pages) != 0 {
		t.Errorf("expected an empty tree for an out-of-range root, got nodes=%v pages=%v", bt.Nodes, pages)
	}

	blob, err := json.Marshal(bt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(blob)
	for _, want := range []string{`"nodes":[]`, `"links":[]`} {
		if !strings.Contains(out, want) {
			t.Errorf("json output missing %s (nil slice marshaled as null?): %s", want, out)
		}
	}
}

func TestBuildBTreeOutOfRangeChildLink(t *testing.T) {
	const pageSize = 4096
	// An interior page whose single child pointer (999) doesn't exist.
	interior := testdata.InteriorPage(pageSize, 100, 0x05, []uint32{999}, nil)
	header := testdata.DBHeader(pageSize, 1, 1)
	db := testdata.Concat(header, interior)

	pager := NewPager(&testdata.Source{Data: db}, pageSize, 1)
	bt, _, err := BuildBTree(pager, "t", "table", 1, UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bt.Nodes) != 1 {
		t.Fatalf("nodes = %d, want 1 (root only, child unresolvable)", len(bt.Nodes))
	}
	if len(bt.Links) != 1 || bt.Links[0].Target != -999 {
		t.Fatalf("links = %+v, want one link with target=-999", bt.Links)
	}
}
