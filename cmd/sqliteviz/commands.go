package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/opendb-tools/sqliteviz/dump"
	"github.com/opendb-tools/sqliteviz/internal/logging"
	"github.com/opendb-tools/sqliteviz/viz"
)

// VizCmd emits a standalone HTML document embedding the decoded Model.
type VizCmd struct {
	DB  string `arg:"" type:"existingfile" help:"SQLite database file"`
	Out string `short:"o" help:"Output HTML path (default stdout)"`
}

func (c *VizCmd) Run(ctx context.Context) error {
	logging.FromContext(ctx).Info("viz", "db", c.DB)
	model, err := decodeFile(c.DB)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := viz.Render(&buf, model); err != nil {
		return err
	}
	return writeOutput(c.Out, buf.Bytes())
}

// InfoCmd emits a human-readable summary of database_info and schema.
type InfoCmd struct {
	DB      string `arg:"" type:"existingfile" help:"SQLite database file"`
	Verbose bool   `short:"v" help:"List tables/indexes with root pages"`
}

func (c *InfoCmd) Run(ctx context.Context) error {
	logging.FromContext(ctx).Info("info", "db", c.DB, "verbose", c.Verbose)
	model, err := decodeFile(c.DB)
	if err != nil {
		return err
	}

	info := model.DatabaseInfo
	fmt.Printf("file:           %s\n", info.FileName)
	fmt.Printf("page size:      %d\n", info.PageSize)
	fmt.Printf("page count:     %d\n", info.PageCount)
	if info.PageCountDiscrepant {
		fmt.Printf("                (header claimed %d; file-derived count used)\n", info.HeaderPageCount)
	}
	fmt.Printf("text encoding:  %s\n", info.TextEncoding)
	fmt.Printf("sqlite version: %s\n", info.SqliteVersion)
	fmt.Printf("tables:         %d\n", len(model.Schema.Tables))
	fmt.Printf("indexes:        %d\n", len(model.Schema.Indexes))

	if c.Verbose {
		fmt.Println("\ntables:")
		for _, t := range model.Schema.Tables {
			fmt.Printf("  %-24s root page %d\n", t.Name, t.RootPage)
		}
		fmt.Println("\nindexes:")
		for _, ix := range model.Schema.Indexes {
			fmt.Printf("  %-24s on %-20s root page %d\n", ix.Name, ix.TableName, ix.RootPage)
		}
	}
	return nil
}

// DumpCmd emits a textual dump of the Model, optionally filtered.
type DumpCmd struct {
	DB     string   `arg:"" type:"existingfile" help:"SQLite database file"`
	Out    string   `short:"o" help:"Output path (default stdout); a .xz suffix compresses the output"`
	Tables []string `short:"t" help:"Filter by B-tree name (union)"`
	Pages  []int    `short:"p" help:"Filter by page number (union)"`
}

func (c *DumpCmd) Run(ctx context.Context) error {
	logging.FromContext(ctx).Info("dump", "db", c.DB, "tables", c.Tables, "pages", c.Pages)
	model, err := decodeFile(c.DB)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := dump.Write(&buf, model, dump.Options{Tables: c.Tables, Pages: c.Pages}); err != nil {
		return err
	}

	if c.Out == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	w, err := dump.OpenOutput(c.Out)
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = w.Write(buf.Bytes())
	return err
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
