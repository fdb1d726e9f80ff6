// Package export renders ranked price rows into report files.
//
// Formats register themselves in init and are looked up by key, so the CLI,
// the console loop and the HTTP download route share one list of formats.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/JonMunkholm/pricemachine/internal/core"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = "html"

// Format describes one report format.
type Format struct {
	Key         string
	Extension   string
	ContentType string
	Write       func(ctx context.Context, w io.Writer, rows []core.Row) error
}

var (
	registry   = make(map[string]Format)
	registryMu sync.RWMutex
)

// Register adds a format to the registry.
// Panics if a format with the same key is already registered.
func Register(f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[f.Key]; exists {
		panic(fmt.Sprintf("export format already registered: %s", f.Key))
	}
	registry[f.Key] = f
}

// Get returns a format by key, ignoring case.
// Returns false if not found.
func Get(key string) (Format, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	f, ok := registry[strings.ToLower(key)]
	return f, ok
}

// Lookup is Get with an error suitable for callers.
func Lookup(key string) (Format, error) {
	if key == "" {
		key = DefaultFormat
	}
	f, ok := Get(key)
	if !ok {
		return Format{}, fmt.Errorf("unknown export format %q (available: %s)", key, strings.Join(Keys(), ", "))
	}
	return f, nil
}

// Keys returns the registered format keys in sorted order.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteFile renders rows into path. The file is written next to its final
// location first and renamed into place, so readers never see a partial report.
func WriteFile(ctx context.Context, path, key string, rows []core.Row) error {
	f, err := Lookup(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("create report: %w", err)
	}

	if err := f.Write(ctx, tmp, rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s report: %w", f.Key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Tabular formats share these column headings. They are synonyms the
// classifier recognizes, so an exported CSV can be loaded back as a price list.
var columns = []string{"Номер", "Наименование", "Цена", "Вес", "Файл", "Цена за кг."}

// FormatNumber renders a price or weight without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatUnitPrice renders a unit price rounded to one decimal.
func FormatUnitPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func record(r core.Row) []string {
	return []string{
		strconv.Itoa(r.Rank),
		r.Name,
		FormatNumber(r.Price),
		FormatNumber(r.Weight),
		r.SourceFile,
		FormatUnitPrice(r.UnitPrice),
	}
}
