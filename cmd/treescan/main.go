package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cosmoforge/treescan/pkg/buffer"
	"github.com/cosmoforge/treescan/pkg/catalog"
	"github.com/cosmoforge/treescan/pkg/compression"
	"github.com/cosmoforge/treescan/pkg/config"
	"github.com/cosmoforge/treescan/pkg/export"
	"github.com/cosmoforge/treescan/pkg/logger"
	"github.com/cosmoforge/treescan/pkg/mmap"
	"github.com/cosmoforge/treescan/pkg/scan"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.SetEnvPrefix("TREESCAN")
	viper.AutomaticEnv()

	var cfgPath string
	var logLevel string

	root := &cobra.Command{
		Use:   "treescan",
		Short: "treescan - column-mapped reader for Consistent-Trees catalogs",
		Long: `treescan extracts a caller-chosen subset of columns from
Consistent-Trees style ASCII catalogs into typed buffers, resolving columns
by name so files remain readable when producers reorder them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if viper.IsSet("LOG_LEVEL") && !cmd.Flags().Changed("log-level") {
				logLevel = viper.GetString("LOG_LEVEL")
			}
			return logger.Init(logger.Config{
				Level:    logLevel,
				Encoding: "console",
			})
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a treescan config YAML")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "minimum log level")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("treescan v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newColumnsCmd(&cfgPath))
	root.AddCommand(newScanCmd(&cfgPath))

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// loadConfig merges the optional config file over the defaults.
func loadConfig(cfgPath string) (*config.Config, error) {
	cfg := config.Default()
	if cfgPath != "" {
		if err := config.Load(cfgPath, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// headerEntry is one column of the `columns` command output.
type headerEntry struct {
	Column int    `json:"column"`
	Name   string `json:"name"`
}

func newColumnsCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <catalog>",
		Short: "List the columns a catalog declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}

			path, cleanup, err := compression.Inflate(args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			f, err := os.Open(path) //nolint:gosec // G304: user-supplied catalog path
			if err != nil {
				return err
			}
			defer f.Close()

			r := bufio.NewReaderSize(f, cfg.Limits.MaxLineBytes)
			line, err := r.ReadString('\n')
			if err != nil && err != io.EOF {
				return err
			}

			hdr, err := catalog.ParseHeader(line, cfg.Limits)
			if err != nil {
				return err
			}

			entries := make([]headerEntry, hdr.Columns())
			for i, name := range hdr.Names {
				entries[i] = headerEntry{Column: i, Name: name}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
}

func newScanCmd(cfgPath *string) *cobra.Command {
	var fieldsPath string
	var outPath string
	var format string
	var useMmap bool

	cmd := &cobra.Command{
		Use:   "scan <catalog>",
		Short: "Extract the requested columns from every tree in a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}

			specs, err := catalog.LoadFields(fieldsPath)
			if err != nil {
				return err
			}

			reg := buffer.NewRegistry()
			reqs, err := catalog.ApplyFields(specs, reg)
			if err != nil {
				return err
			}

			path, cleanup, err := compression.Inflate(args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			var sc *scan.Scanner
			if useMmap {
				mr, err := mmap.Open(path)
				if err != nil {
					return err
				}
				sc, err = scan.NewScannerFrom(mr, path, reqs, reg, cfg)
				if err != nil {
					mr.Close()
					return err
				}
			} else {
				sc, err = scan.NewScanner(path, reqs, reg, cfg)
				if err != nil {
					return err
				}
			}
			defer sc.Close()

			if err := sc.ReadAll(); err != nil {
				return err
			}

			trees, rows := sc.Totals()
			logger.Info("catalog scanned",
				zap.Int64("trees", trees),
				zap.Int64("rows", rows))

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath) //nolint:gosec // G304: user-supplied output path
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			switch format {
			case "arrow":
				rec, err := export.NewRecord(sc.Map(), reg)
				if err != nil {
					return err
				}
				defer rec.Release()
				return export.WriteIPC(out, rec)
			case "json":
				return writeJSONRows(out, sc, reg)
			default:
				return fmt.Errorf("unknown output format %q (want json or arrow)", format)
			}
		},
	}

	cmd.Flags().StringVar(&fieldsPath, "fields", "", "YAML file listing the columns to extract")
	cmd.Flags().StringVar(&outPath, "output", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or arrow")
	cmd.Flags().BoolVar(&useMmap, "mmap", false, "read the catalog through a memory mapping")
	_ = cmd.MarkFlagRequired("fields")
	return cmd
}

// writeJSONRows emits one JSON object per row, keyed by column name.
func writeJSONRows(w io.Writer, sc *scan.Scanner, reg *buffer.Registry) error {
	enc := json.NewEncoder(w)
	cols := sc.Map().Columns()
	row := make(map[string]interface{}, len(cols))

	for i := int64(0); i < reg.Rows(); i++ {
		for _, col := range cols {
			switch col.Type {
			case catalog.Int32:
				row[col.Name] = reg.Int32At(col.Slot, i, col.Offset)
			case catalog.Int64:
				row[col.Name] = reg.Int64At(col.Slot, i, col.Offset)
			case catalog.Uint32:
				row[col.Name] = reg.Uint32At(col.Slot, i, col.Offset)
			case catalog.Uint64:
				row[col.Name] = reg.Uint64At(col.Slot, i, col.Offset)
			case catalog.Float32:
				row[col.Name] = reg.Float32At(col.Slot, i, col.Offset)
			case catalog.Float64:
				row[col.Name] = reg.Float64At(col.Slot, i, col.Offset)
			}
		}
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
