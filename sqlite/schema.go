package sqlite

// SchemaKind is the row kind stored in sqlite_schema.
type SchemaKind string

const (
	SchemaTable   SchemaKind = "table"
	SchemaIndex   SchemaKind = "index"
	SchemaView    SchemaKind = "view"
	SchemaTrigger SchemaKind = "trigger"
)

// SchemaEntry is one row of the schema table, decoded regardless of kind.
type SchemaEntry struct {
	Kind      SchemaKind
	Name      string
	TableName string
	RootPage  int
	SQL       string
}

// SchemaResult groups the decoded schema rows by kind while preserving the
// table's own file order in All, which the B-tree/view-and-trigger
// ordering of §8 P5 depends on.
type SchemaResult struct {
	Tables   []SchemaEntry
	Indexes  []SchemaEntry
	Views    []SchemaEntry
	Triggers []SchemaEntry
	All      []SchemaEntry
}

// DecodeSchema walks the B-tree rooted at page 1 as a TableLeaf tree and
// decodes its five-column rows: (type, name, tbl_name, rootpage, sql).
func DecodeSchema(pager *Pager, enc TextEncoding) (*SchemaResult, error) {
	res := &SchemaResult{}

	var visit func(pageNumber int, visited map[int]bool) error
	visit = func(pageNumber int, visited map[int]bool) error {
		if visited[pageNumber] {
			return nil
		}
		visited[pageNumber] = true

		pd, err := decodePage(pager, pageNumber, enc)
		if err != nil {
			return err
		}

		switch pd.PageType {
		case PageLeafTable:
			for _, c := range pd.Cells {
				entry, ok := schemaEntryFromCell(c)
				if !ok {
					continue
				}
				res.All = append(res.All, entry)
				switch entry.Kind {
				case SchemaTable:
					res.Tables = append(res.Tables, entry)
				case SchemaIndex:
					res.Indexes = append(res.Indexes, entry)
				case SchemaView:
					res.Views = append(res.Views, entry)
				case SchemaTrigger:
					res.Triggers = append(res.Triggers, entry)
				}
			}
		case PageInteriorTable:
			for _, child := range pd.childPages() {
				if child < 1 || child > pager.PageCount() {
					continue
				}
				if err := visit(child, visited); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := visit(1, make(map[int]bool)); err != nil {
		return nil, err
	}
	return res, nil
}

// schemaEntryFromCell decodes the fixed five-column row shape of
// sqlite_schema from an already-decoded TableLeaf cell. A malformed row
// (record decode failed) is skipped rather than surfaced — it carries no
// usable name or root page for the rest of the decode to key off of.
func schemaEntryFromCell(c CellDesc) (SchemaEntry, bool) {
	rec := c.record
	if rec == nil || rec.Malformed || len(rec.Columns) < 5 {
		return SchemaEntry{}, false
	}
	kind := rec.Columns[0].Text
	name := rec.Columns[1].Text
	tblName := rec.Columns[2].Text
	root := int(rec.Columns[3].Int)
	sql := rec.Columns[4].Text

	switch SchemaKind(kind) {
	case SchemaTable, SchemaIndex, SchemaView, SchemaTrigger:
	default:
		return SchemaEntry{}, false
	}
	return SchemaEntry{
		Kind:      SchemaKind(kind),
		Name:      name,
		TableName: tblName,
		RootPage:  root,
		SQL:       sql,
	}, true
}
