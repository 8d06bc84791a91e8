// Package excel reads the first worksheet of an XLSX workbook into a sequence
// of mappings keyed by the header row.
package excel

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	jsontool "github.com/useManner/json-tool"
)

// ErrNoSheet is returned for a workbook without worksheets.
var ErrNoSheet = errors.New("excel: workbook has no sheets")

// Decode reads an XLSX stream.
func Decode(r io.Reader) (any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeFile(f)
}

// DecodeFile reads an XLSX file from disk.
func DecodeFile(path string) (any, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeFile(f)
}

func decodeFile(f *excelize.File) (any, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	sheet := sheets[0]
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	out := []any{}
	if len(rows) == 0 {
		return out, nil
	}
	header := rows[0]
	for r, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := jsontool.NewMap(len(header))
		for c, name := range header {
			if c >= len(row) || row[c] == "" {
				rec.Set(name, nil)
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			typ, _ := f.GetCellType(sheet, cell)
			rec.Set(name, cellValue(row[c], typ))
		}
		out = append(out, rec)
	}
	return out, nil
}

func cellValue(raw string, typ excelize.CellType) any {
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeInlineString, excelize.CellTypeSharedString, excelize.CellTypeFormula:
		return raw
	}
	if n, err := jsontool.ParseNumber(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return jsontool.Number(f)
	}
	return raw
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
