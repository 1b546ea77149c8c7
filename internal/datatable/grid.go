package datatable

import (
	"html/template"
	"io"
)

// Grid 是可直接展示的表格：表头 + 单元格文本
type Grid struct {
	Columns []Field    `json:"columns"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func (t Table) Grid() Grid {
	headers := make([]string, len(t.Columns))
	for i, f := range t.Columns {
		headers[i] = HeaderLabel(f)
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for j, f := range t.Columns {
			if v, ok := row.Value(f); ok {
				cells[j] = v
			} else {
				cells[j] = Placeholder
			}
		}
		rows[i] = cells
	}

	return Grid{Columns: slicesOrEmpty(t.Columns), Headers: headers, Rows: rows}
}

func slicesOrEmpty(fields []Field) []Field {
	if fields == nil {
		return []Field{}
	}
	return fields
}

var gridTemplate = template.Must(template.New("grid").Parse(
	`<table><thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead><tbody>` +
		`{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody></table>`))

// WriteHTML 空表只输出表头行（没有任何单元格）
func (g Grid) WriteHTML(w io.Writer) error {
	return gridTemplate.Execute(w, g)
}
