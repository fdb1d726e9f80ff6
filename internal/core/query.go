package core

import "strings"

// Search returns the rows whose name contains q, ignoring case, in rank
// order. An empty q matches every row. No match yields an empty slice.
func (p *PriceList) Search(q string) []Row {
	needle := strings.ToLower(q)
	out := make([]Row, 0)
	for _, row := range p.rows {
		if strings.Contains(strings.ToLower(row.Name), needle) {
			out = append(out, row)
		}
	}
	return out
}
