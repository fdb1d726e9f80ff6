package export

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/pricemachine/internal/core"
)

// ReportTitle is the title of the HTML report.
const ReportTitle = "Позиции продуктов"

var htmlHeaders = []string{"Номер", "Название", "Цена", "Фасовка", "Файл", "Цена за кг."}

func init() {
	Register(Format{
		Key:         "html",
		Extension:   ".html",
		ContentType: "text/html; charset=utf-8",
		Write: func(ctx context.Context, w io.Writer, rows []core.Row) error {
			return ReportPage(rows).Render(ctx, w)
		},
	})
}

// ReportPage is the standalone HTML document listing rows in rank order.
func ReportPage(rows []core.Row) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>"+
			templ.EscapeString(ReportTitle)+
			"</title>\n<style>\ntable { border-spacing: 16px 0px; }\n</style>\n</head>\n<body>\n"); err != nil {
			return err
		}
		if err := PriceTable(rows).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

// PriceTable renders rows as a table with numeric cells right-aligned.
// The web page embeds it as well.
func PriceTable(rows []core.Row) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<table>\n<tr>"); err != nil {
			return err
		}
		for _, h := range htmlHeaders {
			if _, err := io.WriteString(w, "<th>"+templ.EscapeString(h)+"</th>"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</tr>\n"); err != nil {
			return err
		}

		for _, r := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			cells := record(r)
			var line string
			for i, c := range cells {
				if numericColumn(i) {
					line += `<td align="right">` + templ.EscapeString(c) + "</td>"
				} else {
					line += "<td>" + templ.EscapeString(c) + "</td>"
				}
			}
			if _, err := io.WriteString(w, "<tr>"+line+"</tr>\n"); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</table>\n")
		return err
	})
}

// numericColumn reports whether column i of record holds a number.
func numericColumn(i int) bool {
	switch i {
	case 0, 2, 3, 5:
		return true
	}
	return false
}
