// Package console runs the interactive search loop over a loaded price list.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/pricemachine/internal/core"
	"github.com/JonMunkholm/pricemachine/internal/export"
)

const (
	exitHint   = `Команда - "exit" - завершить работу программы`
	prompt     = "Введите наименование продукта: "
	farewell   = "Работа завершена."
	exitWord   = "exit"
	allWord    = "all"
	notFoundFm = "Продукта с наименованием: %s, не найдено. "
)

// Searcher is the part of core.Service the loop needs.
type Searcher interface {
	Search(q string) ([]core.Row, error)
	Summary() (core.Summary, error)
}

// REPL reads queries line by line and prints matching rows.
// Every non-empty search result is also exported to Output.
type REPL struct {
	svc    Searcher
	in     io.Reader
	out    io.Writer
	logger *slog.Logger

	Output string // report path rewritten on every hit
	Format string // export format key
}

// New creates a REPL reading from in and printing to out.
func New(svc Searcher, in io.Reader, out io.Writer, output, format string) *REPL {
	return &REPL{
		svc:    svc,
		in:     in,
		out:    out,
		logger: slog.Default().With("component", "console"),
		Output: output,
		Format: format,
	}
}

// Run exports the full list, then serves queries until "exit", end of
// input or cancellation of ctx.
func (r *REPL) Run(ctx context.Context) error {
	all, err := r.svc.Search("")
	if err != nil {
		return fmt.Errorf("initial export: %w", err)
	}
	r.export(ctx, all)

	fmt.Fprintln(r.out, exitHint)

	scanner := bufio.NewScanner(r.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			break
		}
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.ToLower(strings.TrimSpace(line)) == exitWord {
			break
		}

		if line == allWord {
			r.printAll()
			continue
		}

		r.search(ctx, line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	fmt.Fprintln(r.out, farewell)
	return nil
}

func (r *REPL) printAll() {
	rows, err := r.svc.Search("")
	if err != nil {
		fmt.Fprintln(r.out, core.FormatUserError(err))
		return
	}
	PrintRows(r.out, rows)

	sum, err := r.svc.Summary()
	if err != nil {
		r.logger.Warn("summary failed", "error", err)
		return
	}
	PrintSummary(r.out, sum)
}

func (r *REPL) search(ctx context.Context, q string) {
	rows, err := r.svc.Search(q)
	if err != nil {
		fmt.Fprintln(r.out, core.FormatUserError(err))
		return
	}
	if len(rows) == 0 {
		fmt.Fprintf(r.out, notFoundFm+"\n", q)
		return
	}

	r.export(ctx, rows)
	PrintRows(r.out, rows)
}

// export writes rows to the report file. Failures are reported but do not
// end the session.
func (r *REPL) export(ctx context.Context, rows []core.Row) {
	if r.Output == "" {
		return
	}
	if err := export.WriteFile(ctx, r.Output, r.Format, rows); err != nil {
		r.logger.Warn("export failed", "path", r.Output, "error", err)
		fmt.Fprintln(r.out, core.FormatUserError(err))
		return
	}
	r.logger.Debug("report written", "path", r.Output, "rows", len(rows))
}

// PrintRows writes rows as an aligned text table.
func PrintRows(w io.Writer, rows []core.Row) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "№\tНаименование\tЦена\tВес\tФайл\tЦена за кг.")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			row.Rank,
			row.Name,
			export.FormatNumber(row.Price),
			export.FormatNumber(row.Weight),
			row.SourceFile,
			export.FormatUnitPrice(row.UnitPrice),
		)
	}
	tw.Flush()
}

// PrintSummary writes one line describing the unit price distribution.
func PrintSummary(w io.Writer, s core.Summary) {
	if s.Rows == 0 {
		return
	}
	fmt.Fprintf(w, "Позиций: %d, файлов: %d. Цена за кг.: мин %s, медиана %s, средняя %s, макс %s\n",
		s.Rows, s.Files,
		export.FormatUnitPrice(*s.Min),
		export.FormatUnitPrice(*s.Median),
		export.FormatUnitPrice(*s.Mean),
		export.FormatUnitPrice(*s.Max),
	)
}
