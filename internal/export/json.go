package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/JonMunkholm/pricemachine/internal/core"
)

func init() {
	Register(Format{
		Key:         "json",
		Extension:   ".json",
		ContentType: "application/json",
		Write:       writeJSON,
	})
}

type jsonReport struct {
	Total int        `json:"total"`
	Rows  []core.Row `json:"rows"`
}

func writeJSON(_ context.Context, w io.Writer, rows []core.Row) error {
	if rows == nil {
		rows = []core.Row{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(jsonReport{Total: len(rows), Rows: rows}); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
