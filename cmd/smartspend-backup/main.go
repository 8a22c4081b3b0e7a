package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"smartspend/internal/backup"
	"smartspend/internal/cli"
	"smartspend/internal/log"
)

// smartspend-backup exports and imports full datasets against the local
// SQLite database, for offline use and scheduled jobs.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentBackup)
	cfg := cli.LoadAndValidateConfig(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	st := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer st.Close()

	ctx := context.Background()

	switch os.Args[1] {
	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		format := fs.String("format", "json", "output format: json or csv")
		out := fs.String("out", "", "output file (default stdout)")
		_ = fs.Parse(os.Args[2:])

		data, err := st.Snapshot(ctx)
		if err != nil {
			logger.Error("Failed to read dataset", log.FieldError, err, log.FieldOperation, log.OpExport)
			os.Exit(1)
		}

		var payload []byte
		switch *format {
		case "json":
			payload, err = backup.ExportJSON(data, time.Now())
			if err != nil {
				logger.Error("Failed to encode backup", log.FieldError, err)
				os.Exit(1)
			}
		case "csv":
			payload = backup.ExportCSV(data)
		default:
			fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
			os.Exit(2)
		}

		if *out == "" {
			_, _ = os.Stdout.Write(payload)
		} else {
			if err := os.WriteFile(*out, payload, 0o644); err != nil {
				logger.Error("Failed to write backup file", log.FieldError, err, "path", *out)
				os.Exit(1)
			}
			logger.Info("Backup written",
				"path", *out,
				"format", *format,
				"transactions", len(data.Transactions))
		}

	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		in := fs.String("in", "", "backup file to import (required)")
		_ = fs.Parse(os.Args[2:])

		if *in == "" {
			fmt.Fprintln(os.Stderr, "import requires -in <file>")
			os.Exit(2)
		}

		raw, err := os.ReadFile(*in)
		if err != nil {
			logger.Error("Failed to read backup file", log.FieldError, err, "path", *in)
			os.Exit(1)
		}

		data, err := backup.Import(raw, backup.ImportOptions{})
		if err != nil {
			logger.Error("Malformed backup document", log.FieldError, err, log.FieldOperation, log.OpImport)
			os.Exit(1)
		}

		if err := st.Replace(ctx, data); err != nil {
			logger.Error("Failed to apply backup", log.FieldError, err, log.FieldOperation, log.OpReplace)
			os.Exit(1)
		}

		logger.Info("Backup imported",
			"path", *in,
			"transactions", len(data.Transactions),
			"categories", len(data.Categories),
			"members", len(data.Members))

	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  smartspend-backup export [-format json|csv] [-out file]
  smartspend-backup import -in <file>`)
}
