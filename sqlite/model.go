package sqlite

import "sort"

// DatabaseInfo is the file-level summary at the top of a Model.
type DatabaseInfo struct {
	FileName      string `json:"file_name"`
	PageSize      int    `json:"page_size"`
	PageCount     int    `json:"page_count"`
	TextEncoding  string `json:"text_encoding"`
	SqliteVersion string `json:"sqlite_version"`

	// HeaderPageCount and PageCountDiscrepant resolve the open question of
	// spec.md §9: the in-header page count is surfaced alongside the
	// file-derived count this decode actually used, whenever they disagree.
	HeaderPageCount     int  `json:"header_page_count,omitempty"`
	PageCountDiscrepant bool `json:"page_count_discrepant,omitempty"`
}

// SchemaTableRef is one entry of Schema.Tables.
type SchemaTableRef struct {
	Name     string `json:"name"`
	RootPage int    `json:"root_page"`
}

// SchemaIndexRef is one entry of Schema.Indexes.
type SchemaIndexRef struct {
	Name      string `json:"name"`
	TableName string `json:"table_name"`
	RootPage  int    `json:"root_page"`
}

// Schema is the Model's schema section. Views and triggers are decoded (see
// SchemaResult) but intentionally left out of this JSON view, matching
// §6.2's schema shape exactly; dump/info reach the full SchemaResult
// directly when they need them.
type Schema struct {
	Tables  []SchemaTableRef `json:"tables"`
	Indexes []SchemaIndexRef `json:"indexes"`
}

// Model is the fully assembled, JSON-serializable decode result: the sole
// output of the core, handed to the renderer or the dump formatter.
type Model struct {
	DatabaseInfo DatabaseInfo `json:"database_info"`
	Schema       Schema       `json:"schema"`
	Pages        []PageDesc   `json:"pages"`
	Btrees       []BTree      `json:"btrees"`

	// RawSchema carries the full schema decode (views, triggers, SQL
	// text) for collaborators that need more than §6.2's trimmed schema
	// view. Excluded from the JSON the renderer/dump contract describes.
	RawSchema *SchemaResult `json:"-"`
}

// DecodeModel runs the whole core pipeline over source: header, schema,
// every table/index B-tree, and the union of pages they touched. The
// returned error, when non-nil, is always one of the fatal kinds of §7 —
// everything else is captured in-band on the Model itself.
func DecodeModel(source ByteSource, fileName string) (*Model, error) {
	header, pager, err := Open(source)
	if err != nil {
		return nil, err
	}

	schemaResult, err := DecodeSchema(pager, header.TextEncoding)
	if err != nil {
		return nil, err
	}

	model := &Model{
		DatabaseInfo: buildDatabaseInfo(fileName, header),
		Schema:       buildSchemaView(schemaResult),
		Btrees:       []BTree{},
		RawSchema:    schemaResult,
	}

	visited := map[int]bool{1: true}
	for _, entry := range schemaResult.All {
		if entry.RootPage == 0 {
			continue
		}
		switch entry.Kind {
		case SchemaTable:
			bt, pages, err := BuildBTree(pager, entry.Name, "table", entry.RootPage, header.TextEncoding)
			if err != nil {
				return nil, err
			}
			model.Btrees = append(model.Btrees, *bt)
			for _, p := range pages {
				visited[p] = true
			}
		case SchemaIndex:
			bt, pages, err := BuildBTree(pager, entry.Name, "index", entry.RootPage, header.TextEncoding)
			if err != nil {
				return nil, err
			}
			model.Btrees = append(model.Btrees, *bt)
			for _, p := range pages {
				visited[p] = true
			}
		}
	}

	pageNumbers := make([]int, 0, len(visited))
	for p := range visited {
		pageNumbers = append(pageNumbers, p)
	}
	sort.Ints(pageNumbers)

	for _, p := range pageNumbers {
		pd, err := decodePage(pager, p, header.TextEncoding)
		if err != nil {
			return nil, err
		}
		model.Pages = append(model.Pages, *pd)
	}

	return model, nil
}

func buildDatabaseInfo(fileName string, h *Header) DatabaseInfo {
	return DatabaseInfo{
		FileName:            fileName,
		PageSize:            h.PageSize,
		PageCount:           h.PageCount,
		TextEncoding:        h.TextEncoding.String(),
		SqliteVersion:       h.SqliteVersion(),
		HeaderPageCount:     int(h.HeaderPageCount),
		PageCountDiscrepant: h.PageCountDiscrepant,
	}
}

func buildSchemaView(r *SchemaResult) Schema {
	s := Schema{Tables: []SchemaTableRef{}, Indexes: []SchemaIndexRef{}}
	for _, t := range r.Tables {
		s.Tables = append(s.Tables, SchemaTableRef{Name: t.Name, RootPage: t.RootPage})
	}
	for _, ix := range r.Indexes {
		s.Indexes = append(s.Indexes, SchemaIndexRef{Name: ix.Name, TableName: ix.TableName, RootPage: ix.RootPage})
	}
	return s
}
