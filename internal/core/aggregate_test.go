package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func testOptions() LoadOptions {
	opts := DefaultLoadOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func mustLoad(t *testing.T, dir string, opts LoadOptions) *PriceList {
	t.Helper()
	list, err := LoadPrices(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("LoadPrices() error = %v", err)
	}
	return list
}

func TestLoadPrices_TwoFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"price1.csv": "Наименование,Цена,Вес\nяблоки,100,2\n",
		"price2.csv": "товар,розница,фасовка\nгруши,150,3\n",
	})

	list := mustLoad(t, dir, testOptions())

	want := []Row{
		{Rank: 1, Name: "яблоки", Price: 100, Weight: 2, UnitPrice: 50, SourceFile: "price1"},
		{Rank: 2, Name: "груши", Price: 150, Weight: 3, UnitPrice: 50, SourceFile: "price2"},
	}
	if got := list.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %+v\nwant %+v", got, want)
	}
	if len(list.Report.Files) != 2 {
		t.Errorf("Report.Files = %d, want 2", len(list.Report.Files))
	}
	if list.Report.Excluded != 0 {
		t.Errorf("Report.Excluded = %d, want 0", list.Report.Excluded)
	}
}

func TestLoadPrices_SortsByUnitPrice(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a_price.csv": "name,price,weight\nсыр,900,1\nмолоко,80,1\n",
		"b_price.csv": "title,retail,mass\nхлеб,50,0.5\n",
	})

	list := mustLoad(t, dir, testOptions())

	var names []string
	for _, r := range list.Rows() {
		names = append(names, r.Name)
	}
	want := []string{"молоко", "хлеб", "сыр"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestLoadPrices_ExtraColumnDropped(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"price.csv": "Наименование,color,Цена,Вес\nяблоки,красный,100,2\nгруши,зелёный,150,3\n",
	})

	list := mustLoad(t, dir, testOptions())

	if list.Len() != 2 {
		t.Errorf("Len() = %d, want 2", list.Len())
	}
}

func TestLoadPrices_ZeroWeightExcluded(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"price.csv": "name,price,weight\nяблоки,100,2\nвоздух,10,0\nгруши,90,-1\n",
	})

	list := mustLoad(t, dir, testOptions())

	if list.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", list.Len())
	}
	if got := list.Search("воздух"); len(got) != 0 {
		t.Errorf("Search(воздух) = %v, want no match", got)
	}
	if list.Report.Excluded != 2 {
		t.Errorf("Report.Excluded = %d, want 2", list.Report.Excluded)
	}
	for _, issue := range list.Report.Issues {
		var iv *InvalidValueError
		if !errors.As(issue.Err, &iv) {
			t.Errorf("issue %q is not an InvalidValueError", issue.Message)
			continue
		}
		if iv.Field != FieldWeight {
			t.Errorf("issue field = %v, want weight", iv.Field)
		}
	}
}

func TestLoadPrices_InvalidValues(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"price.csv": "name,price,weight\n,100,2\nсахар,дорого,1\nсоль,20,много\nмука,\"1 250,50\",5\n",
	})

	list := mustLoad(t, dir, testOptions())

	rows := list.Rows()
	if len(rows) != 1 || rows[0].Name != "мука" {
		t.Fatalf("Rows() = %+v, want only мука", rows)
	}
	if rows[0].Price != 1250.5 {
		t.Errorf("Price = %v, want 1250.5", rows[0].Price)
	}

	wantFields := []Field{FieldName, FieldPrice, FieldWeight}
	wantLines := []int{2, 3, 4}
	if len(list.Report.Issues) != len(wantFields) {
		t.Fatalf("issues = %d, want %d", len(list.Report.Issues), len(wantFields))
	}
	for i, issue := range list.Report.Issues {
		var iv *InvalidValueError
		if !errors.As(issue.Err, &iv) {
			t.Fatalf("issue %d: %v is not an InvalidValueError", i, issue.Err)
		}
		if iv.Field != wantFields[i] {
			t.Errorf("issue %d field = %v, want %v", i, iv.Field, wantFields[i])
		}
		if issue.Line != wantLines[i] {
			t.Errorf("issue %d line = %d, want %d", i, issue.Line, wantLines[i])
		}
	}
}

func TestLoadPrices_MissingColumnExcludesFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"price1.csv": "name,price,weight\nяблоки,100,2\n",
		"price2.csv": "name,price\nгруши,150\nсливы,90\n",
	})

	list := mustLoad(t, dir, testOptions())

	if list.Len() != 1 {
		t.Errorf("Len() = %d, want 1", list.Len())
	}
	if len(list.Report.Issues) != 1 {
		t.Fatalf("issues = %v, want one", list.Report.Issues)
	}
	var mf *MissingFieldError
	if !errors.As(list.Report.Issues[0].Err, &mf) {
		t.Fatalf("issue is %T, want *MissingFieldError", list.Report.Issues[0].Err)
	}
	if mf.File != "price2.csv" || mf.Field != FieldWeight || mf.Rows != 2 {
		t.Errorf("MissingFieldError = %+v", mf)
	}
	if list.Report.Excluded != 2 {
		t.Errorf("Report.Excluded = %d, want 2", list.Report.Excluded)
	}
}

func TestLoadPrices_UnreadableFileSkipped(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"price1.csv": "name,price,weight\nяблоки,100,2\n",
		"price2.csv": "name,price,weight\n\xff\xfe,1,1\n",
		"price3.csv": "",
	})

	list := mustLoad(t, dir, testOptions())

	if list.Len() != 1 {
		t.Errorf("Len() = %d, want 1", list.Len())
	}
	if len(list.Report.Issues) != 2 {
		t.Fatalf("issues = %v, want two", list.Report.Issues)
	}

	var uf *UnreadableFileError
	if !errors.As(list.Report.Issues[0].Err, &uf) || uf.File != "price2.csv" {
		t.Errorf("first issue = %v, want unreadable price2.csv", list.Report.Issues[0].Err)
	}
	if !errors.Is(list.Report.Issues[0].Err, errInvalidEncoding) {
		t.Errorf("first issue should wrap errInvalidEncoding")
	}
	if !errors.Is(list.Report.Issues[1].Err, errEmptyFile) {
		t.Errorf("second issue = %v, want errEmptyFile", list.Report.Issues[1].Err)
	}
	if list.Report.Files[1].Error == "" {
		t.Errorf("FileReport.Error empty for unreadable file")
	}
}

func TestLoadPrices_FileTooLarge(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"price1.csv": "name,price,weight\nяблоки,100,2\n",
		"price2.csv": "name,price,weight\n" + strings.Repeat("груши,150,3\n", 100),
	})
	opts := testOptions()
	opts.MaxFileSize = 256

	list := mustLoad(t, dir, opts)

	if list.Len() != 1 {
		t.Errorf("Len() = %d, want 1", list.Len())
	}
	if len(list.Report.Issues) != 1 || !errors.Is(list.Report.Issues[0].Err, errFileTooLarge) {
		t.Errorf("issues = %v, want file too large", list.Report.Issues)
	}
}

func TestLoadPrices_Windows1251(t *testing.T) {
	text := "Наименование,Цена,Вес\nгречка,120,0.8\n"
	encoded, err := EncodingWindows1251.charmap().NewEncoder().String(text)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dir := writeFiles(t, map[string]string{"price.csv": encoded})
	opts := testOptions()
	opts.Encoding = EncodingWindows1251

	list := mustLoad(t, dir, opts)

	rows := list.Rows()
	if len(rows) != 1 || rows[0].Name != "гречка" {
		t.Fatalf("Rows() = %+v, want гречка", rows)
	}
	if math.Abs(rows[0].UnitPrice-150) > 1e-9 {
		t.Errorf("UnitPrice = %v, want 150", rows[0].UnitPrice)
	}
}

func TestLoadPrices_NoPrices(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"empty directory", map[string]string{}},
		{"no matching files", map[string]string{"notes.txt": "name,price,weight\na,1,1\n"}},
		{"headers only", map[string]string{"price.csv": "name,price,weight\n"}},
		{"every row invalid", map[string]string{"price.csv": "name,price,weight\na,1,0\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			_, err := LoadPrices(context.Background(), dir, testOptions())
			if !errors.Is(err, ErrNoPrices) {
				t.Errorf("LoadPrices() error = %v, want ErrNoPrices", err)
			}
		})
	}
}

func TestLoadPrices_MissingDirectory(t *testing.T) {
	_, err := LoadPrices(context.Background(), filepath.Join(t.TempDir(), "nope"), testOptions())
	if err == nil {
		t.Fatal("LoadPrices() error = nil, want error")
	}
	if got := MapError(err).Code; got != "PRC003" {
		t.Errorf("MapError code = %s, want PRC003", got)
	}
}

func TestLoadPrices_Cancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"price.csv": "name,price,weight\na,1,1\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadPrices(ctx, dir, testOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("LoadPrices() error = %v, want context.Canceled", err)
	}
}

func TestLoadPrices_Idempotent(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"price1.csv": "Наименование,Цена,Вес\nяблоки,100,2\nсливы,60,2\n",
		"price2.csv": "товар,розница,фасовка\nгруши,150,3\n",
	})

	first := mustLoad(t, dir, testOptions())
	second := mustLoad(t, dir, testOptions())

	if !reflect.DeepEqual(first.Rows(), second.Rows()) {
		t.Errorf("loads differ:\n%+v\n%+v", first.Rows(), second.Rows())
	}
	if first.ID == second.ID {
		t.Errorf("each load should get its own ID")
	}
}

func TestLoadPrices_SearchCaseInsensitive(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"price.csv": "name,price,weight\nяблоки,100,2\nгруши,150,3\n",
	})

	list := mustLoad(t, dir, testOptions())

	got := list.Search("ЯБЛ")
	if len(got) != 1 || got[0].Name != "яблоки" {
		t.Errorf("Search(ЯБЛ) = %+v, want яблоки", got)
	}
	if all := list.Search(""); len(all) != 2 {
		t.Errorf("Search(\"\") = %d rows, want 2", len(all))
	}
	if none := list.Search("ананас"); none == nil || len(none) != 0 {
		t.Errorf("Search(ананас) = %#v, want empty non-nil slice", none)
	}
}

func TestLoadPrices_RandomizedInvariants(t *testing.T) {
	faker := gofakeit.New(42)

	for run := 0; run < 5; run++ {
		files := make(map[string]string)
		nFiles := faker.IntRange(1, 4)
		for f := 0; f < nFiles; f++ {
			var b strings.Builder
			b.WriteString("name,price,weight\n")
			for r := faker.IntRange(1, 20); r > 0; r-- {
				fmt.Fprintf(&b, "%s,%s,%s\n",
					faker.Word(),
					strconv.FormatFloat(faker.Float64Range(1, 5000), 'f', 2, 64),
					strconv.FormatFloat(faker.Float64Range(0.05, 25), 'f', 3, 64),
				)
			}
			files[fmt.Sprintf("price_%02d.csv", f)] = b.String()
		}

		list := mustLoad(t, writeFiles(t, files), testOptions())
		rows := list.Rows()

		for i, row := range rows {
			if row.Rank != i+1 {
				t.Fatalf("run %d: row %d has rank %d", run, i, row.Rank)
			}
			if i > 0 && rows[i-1].UnitPrice > row.UnitPrice {
				t.Fatalf("run %d: unit price decreases at rank %d", run, row.Rank)
			}
			want := row.Price / row.Weight
			if math.Abs(row.UnitPrice-want) > 1e-9*math.Max(1, want) {
				t.Fatalf("run %d: unit price %v, want %v", run, row.UnitPrice, want)
			}
			if !strings.HasPrefix(row.SourceFile, "price_") {
				t.Fatalf("run %d: source %q", run, row.SourceFile)
			}
		}
	}
}

func TestListPriceFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"price_b.csv":     "x",
		"price_a.csv":     "x",
		"my_price.csv":    "x",
		"Price_upper.csv": "x",
		"price.txt":       "x",
		"price.csv.bak":   "x",
		"stock.csv":       "x",
	})
	if err := os.Mkdir(filepath.Join(dir, "price_dir.csv"), 0o755); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "price_nested.csv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ListPriceFiles(dir, DefaultNameFilter, DefaultExtension)
	if err != nil {
		t.Fatalf("ListPriceFiles() error = %v", err)
	}

	want := []string{"my_price.csv", "price_a.csv", "price_b.csv"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListPriceFiles() = %v, want %v", got, want)
	}
}

func TestSourceName(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"price1.csv", "price1"},
		{"price.v2.csv", "price.v2"},
		{"price", "price"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			if got := SourceName(tt.file); got != tt.want {
				t.Errorf("SourceName(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		weight  float64
		want    float64
		wantErr error
	}{
		{"regular", 100, 2, 50, nil},
		{"fractional weight", 50, 0.5, 100, nil},
		{"zero price", 0, 3, 0, nil},
		{"zero weight", 10, 0, 0, errZeroWeight},
		{"negative weight", 10, -1, 0, errNegativeWeight},
		{"overflow", math.MaxFloat64, 1e-300, 0, errNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unitPrice(tt.price, tt.weight)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("unitPrice() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("unitPrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDir(t *testing.T) {
	got, err := ResolveDir("some/dir/")
	if err != nil || got != filepath.Clean("some/dir") {
		t.Errorf("ResolveDir(some/dir/) = %q, %v", got, err)
	}

	got, err = ResolveDir("")
	if err != nil {
		t.Fatalf("ResolveDir(\"\") error = %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ResolveDir(\"\") = %q, want absolute path", got)
	}
}
