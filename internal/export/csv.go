package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/JonMunkholm/pricemachine/internal/core"
)

func init() {
	Register(Format{
		Key:         "csv",
		Extension:   ".csv",
		ContentType: "text/csv; charset=utf-8",
		Write:       writeCSV,
	})
}

func writeCSV(ctx context.Context, w io.Writer, rows []core.Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writer.Write(record(r)); err != nil {
			return fmt.Errorf("write record %d: %w", r.Rank, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
