package core

import (
	"time"

	"github.com/google/uuid"
)

// Row is one ranked entry of the aggregated price list.
type Row struct {
	Rank       int     `json:"rank"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Weight     float64 `json:"weight"`
	UnitPrice  float64 `json:"unitPrice"`
	SourceFile string  `json:"sourceFile"`
}

// FileReport summarizes the ingestion of one file.
type FileReport struct {
	File     string `json:"file"`
	Bytes    int64  `json:"bytes"`
	Rows     int    `json:"rows"`
	Accepted int    `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

// Issue is a non-fatal ingestion problem: a skipped file, a file missing a
// column, or an excluded row.
type Issue struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func newIssue(file string, line int, err error) Issue {
	return Issue{File: file, Line: line, Message: err.Error(), Err: err}
}

// Report collects what happened to every input of a load.
type Report struct {
	Files    []FileReport `json:"files"`
	Issues   []Issue      `json:"issues"`
	Excluded int          `json:"excluded"`
}

// PriceList is the result of one aggregation run.
// It is immutable once returned by LoadPrices.
type PriceList struct {
	ID       uuid.UUID
	Dir      string
	LoadedAt time.Time
	Report   Report

	rows []Row
}

// Len returns the number of ranked rows.
func (p *PriceList) Len() int {
	return len(p.rows)
}

// Rows returns a copy of all rows in rank order.
func (p *PriceList) Rows() []Row {
	out := make([]Row, len(p.rows))
	copy(out, p.rows)
	return out
}
