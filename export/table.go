package export

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/xuri/excelize/v2"

	jsontool "github.com/useManner/json-tool"
)

// ErrNotTabular is returned for values that are not a mapping or a sequence
// of mappings.
var ErrNotTabular = errors.New("export: value is not a record or a list of records")

// Table flattens records into a header and rows. The header is the union of
// record keys in first-seen order; absent keys yield nil cells.
func Table(v any) ([]string, [][]any, error) {
	var recs []*jsontool.Map
	switch t := v.(type) {
	case *jsontool.Map:
		recs = []*jsontool.Map{t}
	case []any:
		for _, it := range t {
			m, ok := it.(*jsontool.Map)
			if !ok {
				return nil, nil, ErrNotTabular
			}
			recs = append(recs, m)
		}
	default:
		return nil, nil, ErrNotTabular
	}
	var header []string
	seen := map[string]bool{}
	for _, m := range recs {
		for _, k := range m.Keys() {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	rows := make([][]any, len(recs))
	for i, m := range recs {
		row := make([]any, len(header))
		for c, k := range header {
			row[c], _ = m.Get(k)
		}
		rows[i] = row
	}
	return header, rows, nil
}

// CSV writes records as comma-separated text with a header row. Null cells
// are empty; nested values are written as compact JSON.
func CSV(w io.Writer, v any) error {
	header, rows, err := Table(v)
	if err != nil {
		return exportError("csv", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return exportError("csv", err)
	}
	rec := make([]string, len(header))
	for _, row := range rows {
		for i, cell := range row {
			rec[i] = cellText(cell)
		}
		if err := cw.Write(rec); err != nil {
			return exportError("csv", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return exportError("csv", err)
	}
	return nil
}

func cellText(v any) string {
	if v == nil {
		return ""
	}
	return jsontool.FormatScalar(v)
}

// Excel writes records to the first sheet of a new workbook: the header in
// row 1, one record per row after it. Numbers and booleans keep their cell
// types.
func Excel(w io.Writer, v any) error {
	header, rows, err := Table(v)
	if err != nil {
		return exportError("xlsx", err)
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return exportError("xlsx", err)
	}
	for r, row := range rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = excelCell(c)
		}
		addr, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return exportError("xlsx", err)
		}
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return exportError("xlsx", err)
		}
	}
	if err := f.Write(w); err != nil {
		return exportError("xlsx", err)
	}
	return nil
}

func excelCell(v any) any {
	switch v.(type) {
	case nil, bool, int64, float64, string:
		return v
	}
	return jsontool.FormatScalar(v)
}
