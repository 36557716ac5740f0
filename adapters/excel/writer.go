package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is a header plus rows of cell values ready to be written
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// Write picks CSV or XLSX from the path extension
func Write(path string, sheets ...Sheet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		if len(sheets) != 1 {
			return fmt.Errorf("CSV output holds exactly one sheet, got %d", len(sheets))
		}
		return WriteCSV(path, sheets[0])
	}
	return WriteXLSX(path, sheets...)
}

// WriteXLSX writes each sheet to its own worksheet, the first one active
func WriteXLSX(path string, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		// Header row
		for c, h := range s.Headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellValue(name, cell, h); err != nil {
				return err
			}
		}

		// Data rows
		for r, row := range s.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellValue(name, cell, v); err != nil {
					return err
				}
			}
		}
	}
	f.SetActiveSheet(0)

	return f.SaveAs(path)
}

// WriteCSV writes one sheet as CSV
func WriteCSV(path string, s Sheet) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(s.Headers); err != nil {
		return err
	}
	record := make([]string, len(s.Headers))
	for _, row := range s.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = cellString(row[i])
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// num leaves undefined values as empty cells
func num(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func numPtr(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return num(*v)
}

func joinSeries(values []float64) interface{} {
	if len(values) == 0 {
		return nil
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
