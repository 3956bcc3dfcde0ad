// Command sqliteviz is the CLI front-end for the sqlite decode core: it
// opens a database file, runs the decoder, and hands the resulting Model to
// one of three collaborators (viz, info, dump).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/opendb-tools/sqliteviz/internal/logging"
)

// CLI defines sqliteviz's command-line interface.
var CLI struct {
	Viz  VizCmd  `cmd:"" help:"Emit a standalone HTML visualization"`
	Info InfoCmd `cmd:"" help:"Summarize database_info and schema"`
	Dump DumpCmd `cmd:"" help:"Emit a textual dump of the decoded model"`
}

func main() {
	os.Exit(run())
}

func run() int {
	parser, err := kong.New(&CLI,
		kong.Name("sqliteviz"),
		kong.Description("Decode a SQLite database file's paging and B-tree layout"),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.Errorf("%v", err)
		return 2
	}

	logging.Init(slog.LevelInfo)
	correlationID := uuid.New().String()
	rctx := logging.WithCorrelationID(context.Background(), correlationID)

	if err := ctx.Run(rctx); err != nil {
		logging.FromContext(rctx).Error("decode failed", "error", err.Error())
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	return 0
}
