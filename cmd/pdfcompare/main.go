// Command pdfcompare compares pairs of PDF documents from the command line and
// writes the common data of each pair as CSV.
//
// Usage:
//
//	pdfcompare [flags] a.pdf b.pdf [c.pdf d.pdf ...]
//
// Arguments are taken two at a time. Pairs run concurrently, bounded by -jobs.
// Settings come from the environment (and a .env file) like the server;
// flags override them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Harjeet1309/pdfmerge/internal/config"
	"github.com/Harjeet1309/pdfmerge/internal/core"
	"github.com/Harjeet1309/pdfmerge/internal/extract"
	"github.com/Harjeet1309/pdfmerge/internal/logging"
	"github.com/Harjeet1309/pdfmerge/internal/table"
)

// Exit codes.
const (
	exitOK         = 0
	exitUnreadable = 1
	exitUsage      = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// pairResult is the report line for one pair.
type pairResult struct {
	a, b   string
	result *core.Result
	output string
	err    error
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pdfcompare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: pdfcompare [flags] a.pdf b.pdf [c.pdf d.pdf ...]")
		fs.PrintDefaults()
	}

	var (
		outDir  = fs.String("out", ".", "directory for the CSV files")
		envFile = fs.String("env", "", "load settings from this .env file (default: ./.env if present)")
		jobs    = fs.Int("jobs", 0, "pairs compared at once (default: COMPARE_MAX_CONCURRENT)")
	)
	overrides := map[string]*string{
		"COMPARE_LINE_THRESHOLD":   fs.String("line-threshold", "", "minimum line similarity, 1-100"),
		"COMPARE_COLUMN_THRESHOLD": fs.String("column-threshold", "", "minimum column name similarity, 1-100"),
		"COMPARE_HEADER_KEYWORDS":  fs.String("keywords", "", "comma-separated header keywords"),
		"COMPARE_JOIN_MODE":        fs.String("join", "", "join mode: single or composite"),
		"COMPARE_RECONSTRUCT_TEXT": fs.String("reconstruct", "", "rebuild tables from common text lines (true/false)"),
		"COMPARE_EXTRACT_TIMEOUT":  fs.String("timeout", "", "per-extraction timeout, e.g. 30s"),
		"LOG_LEVEL":                fs.String("log-level", "", "debug, info, warn or error"),
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	files := fs.Args()
	if len(files) == 0 || len(files)%2 != 0 {
		fs.Usage()
		return exitUsage
	}

	if err := loadEnvFile(*envFile); err != nil {
		fmt.Fprintf(stderr, "pdfcompare: %v\n", err)
		return exitUsage
	}

	cfg, err := config.LoadFrom(withOverrides(os.LookupEnv, overrides))
	if err != nil {
		fmt.Fprintf(stderr, "pdfcompare: %v\n", err)
		return exitUsage
	}
	slog.SetDefault(logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format))

	if *jobs > 0 {
		cfg.Upload.MaxConcurrent = *jobs
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "pdfcompare: %v\n", err)
		return exitUsage
	}

	service := core.NewService(cfg.ServiceConfig())
	results := make([]pairResult, len(files)/2)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Upload.MaxConcurrent)
	for i := range results {
		a, b := files[2*i], files[2*i+1]
		results[i] = pairResult{a: a, b: b}
		g.Go(func() error {
			out, res, err := comparePair(gctx, service, a, b, *outDir, cfg.Upload.MaxFileSize)
			results[i].output, results[i].result, results[i].err = out, res, err
			// Only cancellation stops the other pairs.
			if errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(stderr, "pdfcompare: %v\n", err)
	}

	code := exitOK
	for _, r := range results {
		fmt.Fprintln(stdout, r.report())
		if r.err != nil {
			code = exitUnreadable
		}
	}
	return code
}

// comparePair reads both files, compares them and writes the CSV for a
// successful result.
func comparePair(ctx context.Context, service *core.Service, pathA, pathB, outDir string, maxSize int64) (string, *core.Result, error) {
	docA, err := readPDF(pathA, maxSize)
	if err != nil {
		return "", nil, userError(err)
	}
	docB, err := readPDF(pathB, maxSize)
	if err != nil {
		return "", nil, userError(err)
	}

	res, err := service.Compare(core.WithClient(ctx, core.Client{Source: core.SourceCLI}), docA, docB)
	if err != nil {
		return "", nil, userError(err)
	}
	if !res.HasData() {
		return "", res, nil
	}

	out := filepath.Join(outDir, outputName(pathA, pathB, res.Filename))
	if err := writeCSV(out, res.Table); err != nil {
		return "", res, err
	}
	return out, res, nil
}

func readPDF(path string, maxSize int64) (*extract.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := extract.ReadDocument(filepath.Base(path), f, maxSize)
	if err != nil {
		return nil, err
	}
	if err := doc.CheckHeader(); err != nil {
		return nil, err
	}
	return doc, nil
}

func writeCSV(path string, t table.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return table.WriteCSV(f, t)
}

// outputName is "<a>__<b>__<filename>" with the extensions of a and b removed.
func outputName(pathA, pathB, filename string) string {
	stem := func(p string) string {
		base := filepath.Base(p)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return stem(pathA) + "__" + stem(pathB) + "__" + filename
}

func (r pairResult) report() string {
	prefix := r.a + " x " + r.b + ": "
	switch {
	case r.err != nil:
		var ue *core.UserError
		if errors.As(r.err, &ue) {
			return fmt.Sprintf("%serror: %s (%s) [%v]", prefix, ue.Msg.Message, ue.Msg.Code, ue.Err)
		}
		return prefix + "error: " + core.FormatUserError(r.err) + " [" + r.err.Error() + "]"
	case r.result.HasData():
		return fmt.Sprintf("%s%d row(s), %s mode -> %s", prefix, r.result.Table.Len(), r.result.Mode, r.output)
	default:
		msg := core.OutcomeMessage(r.result.Outcome)
		return prefix + msg.Message + " (" + msg.Code + ")"
	}
}

// userError attaches the user message to err when one is known.
func userError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	return core.NewUserError(err)
}

// withOverrides layers non-empty flag values over base.
func withOverrides(base config.LookupFunc, overrides map[string]*string) config.LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := overrides[key]; ok && v != nil && *v != "" {
			return *v, true
		}
		return base(key)
	}
}

// loadEnvFile loads an explicit .env file, or ./.env when present. Unlike
// the server, existing environment variables win.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}
	return nil
}
