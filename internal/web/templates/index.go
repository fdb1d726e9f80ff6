// Package templates holds the templ components of the web UI.
package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/pricemachine/internal/core"
	"github.com/JonMunkholm/pricemachine/internal/export"
)

// IndexData is what the index page shows.
type IndexData struct {
	Query   string
	Rows    []core.Row
	Summary core.Summary
	Formats []string
	Loaded  string
}

// Index renders the searchable price list page.
func Index(data IndexData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>" +
			templ.EscapeString(export.ReportTitle) +
			"</title>\n<style>\ntable { border-spacing: 16px 0px; }\nform, p { margin: 8px 16px; }\n</style>\n</head>\n<body>\n"
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}

		form := "<form method=\"get\" action=\"/\">" +
			"<input type=\"search\" name=\"q\" placeholder=\"Введите наименование продукта\" value=\"" +
			templ.EscapeString(data.Query) + "\">" +
			"<button type=\"submit\">Найти</button></form>\n"
		if _, err := io.WriteString(w, form); err != nil {
			return err
		}

		if err := summaryLine(data).Render(ctx, w); err != nil {
			return err
		}

		if len(data.Rows) == 0 {
			msg := fmt.Sprintf("Продукта с наименованием: %s, не найдено.", data.Query)
			if _, err := io.WriteString(w, "<p class=\"not-found\">"+templ.EscapeString(msg)+"</p>\n"); err != nil {
				return err
			}
		} else if err := export.PriceTable(data.Rows).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

// summaryLine shows the load time, row counts and download links.
func summaryLine(data IndexData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		line := fmt.Sprintf("Найдено %d из %d позиций, файлов: %d. Загружено: %s.",
			len(data.Rows), data.Summary.Rows, data.Summary.Files, data.Loaded)
		out := "<p class=\"summary\">" + templ.EscapeString(line)

		q := url.Values{}
		if data.Query != "" {
			q.Set("q", data.Query)
		}
		for _, f := range data.Formats {
			href := "/export/" + url.PathEscape(f)
			if enc := q.Encode(); enc != "" {
				href += "?" + enc
			}
			out += " <a class=\"export\" href=\"" + templ.EscapeString(href) + "\">" + templ.EscapeString(f) + "</a>"
		}
		out += "</p>\n"

		_, err := io.WriteString(w, out)
		return err
	})
}
