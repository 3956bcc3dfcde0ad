package dump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/opendb-tools/sqliteviz/sqlite"
	"github.com/opendb-tools/sqliteviz/testdata"
)

func buildOneTableModel(t *testing.T) *sqlite.Model {
	t.Helper()
	const pageSize = 4096
	schemaCell := testdata.TableLeafCell(1, testdata.Record(
		testdata.Text("table"), testdata.Text("t"), testdata.Text("t"),
		testdata.Int(2), testdata.Text("CREATE TABLE t (x INTEGER, y TEXT)"),
	))
	page1 := testdata.LeafPage(pageSize, 100, 0x0D, [][]byte{schemaCell})
	rowCell := testdata.TableLeafCell(1, testdata.Record(testdata.Int(7), testdata.Text("hello")))
	page2 := testdata.LeafPage(pageSize, 0, 0x0D, [][]byte{rowCell})
	header := testdata.DBHeader(pageSize, 2, 1)
	db := testdata.Concat(header, page1, page2)

	model, err := sqlite.DecodeModel(&testdata.Source{Data: db}, "t.db")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return model
}

func TestWriteDumpIncludesSchemaAndCells(t *testing.T) {
	model := buildOneTableModel(t)
	var buf bytes.Buffer
	if err := Write(&buf, model, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "table t") {
		t.Errorf("dump missing table entry: %s", out)
	}
	if !strings.Contains(out, "x") || !strings.Contains(out, "INTEGER") {
		t.Errorf("dump missing column info: %s", out)
	}
	if !strings.Contains(out, "cell[0] TableLeaf") || !strings.Contains(out, "(7, 'hello')") {
		t.Errorf("dump missing page 2's cell: %s", out)
	}
	if !strings.Contains(out, "fingerprint:") {
		t.Errorf("dump missing fingerprint line")
	}
}

func TestWriteDumpTableFilter(t *testing.T) {
	model := buildOneTableModel(t)
	var buf bytes.Buffer
	if err := Write(&buf, model, Options{Tables: []string{"nonexistent"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "btree \"t\"") {
		t.Errorf("expected table t's btree to be filtered out")
	}
}

func TestFingerprintStable(t *testing.T) {
	model := buildOneTableModel(t)
	a, err := Fingerprint(model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := Fingerprint(model)
	if a != b {
		t.Errorf("fingerprint not stable: %q vs %q", a, b)
	}
}
