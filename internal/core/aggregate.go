package core

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultNameFilter is the substring a price-list file name must contain.
const DefaultNameFilter = "price"

// DefaultExtension is the extension of price-list files.
const DefaultExtension = ".csv"

// LoadOptions controls how LoadPrices selects and reads files.
type LoadOptions struct {
	NameFilter  string   // case-sensitive substring of the file name
	Extension   string   // required file name suffix
	Encoding    Encoding // declared text encoding of every file
	Workers     int      // files parsed in parallel; 1 disables fan-out
	MaxFileSize int64    // larger files are skipped; 0 disables the check
	Timeout     time.Duration
	Logger      *slog.Logger
}

// DefaultLoadOptions returns the options matching the classic price machine:
// "*price*.csv" files in UTF-8.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		NameFilter:  DefaultNameFilter,
		Extension:   DefaultExtension,
		Encoding:    EncodingUTF8,
		Workers:     4,
		MaxFileSize: 10 * 1024 * 1024,
	}
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.NameFilter == "" {
		o.NameFilter = DefaultNameFilter
	}
	if o.Extension == "" {
		o.Extension = DefaultExtension
	}
	if o.Encoding == "" {
		o.Encoding = EncodingUTF8
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// fileResult is what one file contributes to the master table.
type fileResult struct {
	report FileReport
	rows   []Row
	issues []Issue
}

// LoadPrices aggregates every price-list file found directly inside dir.
//
// Files are processed in lexicographic name order and their rows are
// concatenated in that order, so ties in unit price keep file-then-row order.
// Unreadable files, files missing a canonical column and rows with unusable
// values are excluded and recorded in the report. ErrNoPrices is returned
// when nothing usable remains.
func LoadPrices(ctx context.Context, dir string, opts LoadOptions) (*PriceList, error) {
	opts = opts.withDefaults()
	logger := opts.Logger.With("dir", dir)

	files, err := ListPriceFiles(dir, opts.NameFilter, opts.Extension)
	if err != nil {
		return nil, fmt.Errorf("list price files: %w", err)
	}
	logger.Debug("price files selected", "count", len(files))

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("load cancelled before %s: %w", name, err)
			}
			results[i] = loadFile(dir, name, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	list := &PriceList{
		ID:       uuid.New(),
		Dir:      dir,
		LoadedAt: time.Now(),
	}
	for _, res := range results {
		list.Report.Files = append(list.Report.Files, res.report)
		list.Report.Issues = append(list.Report.Issues, res.issues...)
		list.Report.Excluded += res.report.Rows - res.report.Accepted
		list.rows = append(list.rows, res.rows...)

		for _, issue := range res.issues {
			logger.Warn("price input excluded", "file", issue.File, "line", issue.Line, "error", issue.Message)
		}
	}

	if len(list.rows) == 0 {
		return nil, fmt.Errorf("%w in %s (%d files)", ErrNoPrices, dir, len(files))
	}

	sort.SliceStable(list.rows, func(i, j int) bool {
		return list.rows[i].UnitPrice < list.rows[j].UnitPrice
	})
	for i := range list.rows {
		list.rows[i].Rank = i + 1
	}

	logger.Info("prices loaded",
		"load_id", list.ID,
		"files", len(files),
		"rows", len(list.rows),
		"excluded", list.Report.Excluded,
	)
	return list, nil
}

// ListPriceFiles returns the names of regular files directly inside dir whose
// name contains filter and ends with ext, sorted lexicographically.
func ListPriceFiles(dir, filter, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.Contains(name, filter) && strings.HasSuffix(name, ext) {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

// SourceName returns the provenance tag of a file: its name without extension.
func SourceName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// loadFile reads, normalizes and converts one file. It never fails; every
// problem ends up in the returned issues.
func loadFile(dir, name string, opts LoadOptions) fileResult {
	res := fileResult{report: FileReport{File: name}}

	raw, n, err := readFile(filepath.Join(dir, name), opts)
	res.report.Bytes = n
	if err != nil {
		uerr := &UnreadableFileError{File: name, Err: err}
		res.report.Error = uerr.Error()
		res.issues = append(res.issues, newIssue(name, 0, uerr))
		return res
	}

	table := Normalize(raw)
	res.report.Rows = table.Len()
	if len(table.Overridden) > 0 {
		opts.Logger.Debug("duplicate columns overridden", "file", name, "headers", table.Overridden)
	}

	if missing := table.Missing(); len(missing) > 0 {
		for _, f := range missing {
			res.issues = append(res.issues, newIssue(name, 0, &MissingFieldError{
				File:  name,
				Field: f,
				Rows:  table.Len(),
			}))
		}
		return res
	}

	source := SourceName(name)
	for i := 0; i < table.Len(); i++ {
		row, err := buildRow(table, i, name, source)
		if err != nil {
			res.issues = append(res.issues, newIssue(name, table.Lines[i], err))
			continue
		}
		res.rows = append(res.rows, row)
	}
	res.report.Accepted = len(res.rows)
	return res
}

func readFile(path string, opts LoadOptions) (*RawTable, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
		return nil, info.Size(), fmt.Errorf("%w: %d bytes exceeds %d", errFileTooLarge, info.Size(), opts.MaxFileSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	counter := NewCountingReader(f)
	raw, err := ReadTable(counter, opts.Encoding)
	return raw, counter.BytesRead, err
}

// buildRow converts row i of a complete table into a Row without rank.
func buildRow(t *NormalizedTable, i int, file, source string) (Row, error) {
	line := t.Lines[i]
	invalid := func(f Field, reason string) error {
		return &InvalidValueError{File: file, Line: line, Field: f, Value: t.Cell(f, i), Reason: reason}
	}

	name := CleanCell(t.Cell(FieldName, i))
	if name == "" {
		return Row{}, invalid(FieldName, "empty")
	}

	price, err := ParseNumber(t.Cell(FieldPrice, i))
	if err != nil {
		return Row{}, invalid(FieldPrice, err.Error())
	}

	weight, err := ParseNumber(t.Cell(FieldWeight, i))
	if err != nil {
		return Row{}, invalid(FieldWeight, err.Error())
	}

	unit, err := unitPrice(price, weight)
	if err != nil {
		return Row{}, invalid(FieldWeight, err.Error())
	}

	return Row{
		Name:       name,
		Price:      price,
		Weight:     weight,
		UnitPrice:  unit,
		SourceFile: source,
	}, nil
}

// unitPrice divides price by weight. Zero and negative weights have no unit
// price.
func unitPrice(price, weight float64) (float64, error) {
	if weight == 0 {
		return 0, errZeroWeight
	}
	if weight < 0 {
		return 0, errNegativeWeight
	}
	u := price / weight
	if math.IsNaN(u) || math.IsInf(u, 0) {
		return 0, errNotFinite
	}
	return u, nil
}

// ResolveDir returns dir, or the directory of the running executable when dir
// is empty.
func ResolveDir(dir string) (string, error) {
	if dir != "" {
		return filepath.Clean(dir), nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
