// Package ddl parses the column list out of a CREATE TABLE/CREATE INDEX
// statement stored in sqlite_schema.sql. It never runs against the decode
// core; dump is its only caller.
package ddl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Affinity is SQLite's column type-affinity rule
// (sqlite.org/datatype3.html#affinity).
type Affinity int

const (
	_ Affinity = iota
	TEXT
	NUMERIC
	INTEGER
	REAL
	BLOB
)

func (a Affinity) String() string {
	switch a {
	case TEXT:
		return "TEXT"
	case INTEGER:
		return "INTEGER"
	case REAL:
		return "REAL"
	case BLOB:
		return "BLOB"
	default:
		return "NUMERIC"
	}
}

// Column is one parsed column definition.
type Column struct {
	Name     string
	Type     string
	Affinity Affinity
}

//nolint:govet // participle grammar tags are not standard struct tags
type group struct {
	Items []*groupToken `"(" @@* ")"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type groupToken struct {
	Group *group `( @@`
	Atom  string `| @(Ident|Number|String|Op|Comma) )`
}

//nolint:govet // participle grammar tags are not standard struct tags
type topToken struct {
	Group *group `( @@`
	Atom  string `| @(Ident|Number|String|Op) )`
}

//nolint:govet // participle grammar tags are not standard struct tags
type columnDef struct {
	Name  string      `@(Ident|String)`
	Words []*topToken `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type columnList struct {
	Columns []*columnDef `"(" @@ ( "," @@ )* ")"`
}

var ddlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `'[^']*'|"[^"]*"|` + "`[^`]*`"},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Op", Pattern: `[^\sA-Za-z0-9_(),'"` + "`" + `]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var columnListParser = participle.MustBuild[columnList](
	participle.Lexer(ddlLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// constraintKeywords mark the end of a column's type and the start of its
// column-level constraints (PRIMARY KEY, NOT NULL, DEFAULT, ...).
var constraintKeywords = map[string]bool{
	"PRIMARY": true, "NOT": true, "NULL": true, "UNIQUE": true,
	"CHECK": true, "DEFAULT": true, "COLLATE": true, "REFERENCES": true,
	"GENERATED": true, "AS": true, "ON": true, "CONSTRAINT": true,
	"AUTOINCREMENT": true, "WITHOUT": true,
}

// affinityOf derives a column's type affinity from its declared type name,
// following SQLite's substring-matching rules (first match wins, in this
// order: INT, CHAR/CLOB/TEXT, BLOB/empty, REAL/FLOA/DOUB, else NUMERIC).
func affinityOf(typeName string) Affinity {
	u := strings.ToUpper(typeName)
	switch {
	case strings.Contains(u, "INT"):
		return INTEGER
	case strings.Contains(u, "CHAR") || strings.Contains(u, "CLOB") || strings.Contains(u, "TEXT"):
		return TEXT
	case strings.Contains(u, "BLOB") || u == "":
		return BLOB
	case strings.Contains(u, "REAL") || strings.Contains(u, "FLOA") || strings.Contains(u, "DOUB"):
		return REAL
	default:
		return NUMERIC
	}
}

// ParseColumns extracts the column list from a CREATE TABLE or CREATE INDEX
// statement's SQL text. Only the parenthesized column list is parsed; table-
// level constraints and trailing clauses (WITHOUT ROWID, STRICT) are ignored.
func ParseColumns(sql string) ([]Column, error) {
	open := strings.Index(sql, "(")
	shut := strings.LastIndex(sql, ")")
	if open < 0 || shut <= open {
		return nil, fmt.Errorf("ddl: no column list found in %q", sql)
	}

	parsed, err := columnListParser.ParseString("", sql[open:shut+1])
	if err != nil {
		return nil, fmt.Errorf("ddl: %w", err)
	}

	cols := make([]Column, 0, len(parsed.Columns))
	for _, c := range parsed.Columns {
		switch strings.ToUpper(c.Name) {
		case "CONSTRAINT", "PRIMARY", "UNIQUE", "CHECK", "FOREIGN":
			// A table-level constraint, not a column definition.
			continue
		}
		var typeWords []string
		for _, w := range c.Words {
			if w.Group != nil {
				continue
			}
			if constraintKeywords[strings.ToUpper(w.Atom)] {
				break
			}
			typeWords = append(typeWords, w.Atom)
		}
		typeName := strings.Join(typeWords, " ")
		cols = append(cols, Column{
			Name:     unquote(c.Name),
			Type:     typeName,
			Affinity: affinityOf(typeName),
		})
	}
	return cols, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '`' && last == '`') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
