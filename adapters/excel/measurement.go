package excel

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"

	"distsim/domain/core"
	"distsim/domain/measurement"
	"distsim/domain/similarity"
	"distsim/internal"
)

// Row keys of a measurement sheet. The first header cell is NumberKey and
// the remaining headers are test numbers; the first cell of each row is
// either a metadata key or a unit identifier.
const (
	NumberKey = "<+ParameterNumber>"
	NameKey   = "<+ParameterName>"
	LSLKey    = "<+LSL>"
	USLKey    = "<+USL>"
)

// ReadMeasurementTable reads a CSV or XLSX measurement sheet. A file that
// cannot be opened is returned as its *fs.PathError; only content problems
// are ErrMalformedTable.
func ReadMeasurementTable(path string, logger *internal.Logger) (*measurement.Frame, error) {
	data, err := NewDataReader(path, logger).ReadData()
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedTable, err)
	}
	frame, err := ToFrame(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// ToFrame converts a parsed measurement sheet into a frame. Empty or
// non-numeric value cells become NaN; a test without a name row entry is
// named after its number.
func ToFrame(data *ExcelData) (*measurement.Frame, error) {
	if data == nil || len(data.Headers) < 2 || data.Headers[0] != NumberKey {
		return nil, fmt.Errorf("%w: first header must be %s followed by test numbers", core.ErrMalformedTable, NumberKey)
	}
	numbers := data.Headers[1:]

	var names, lsl, usl RawRowData
	var units []RawRowData
	for _, row := range data.Rows {
		switch row[NumberKey] {
		case NameKey:
			names = row
		case LSLKey:
			lsl = row
		case USLKey:
			usl = row
		default:
			units = append(units, row)
		}
	}

	frame := measurement.NewFrame()
	for _, number := range numbers {
		if number == "" {
			continue
		}
		name := number
		if names != nil && names[number] != "" {
			name = names[number]
		}

		values := make([]float64, len(units))
		for i, unit := range units {
			values[i] = parseCell(unit[number])
		}
		limits := measurement.Limits{LSL: limitCell(lsl, number), USL: limitCell(usl, number)}
		if err := frame.AddTest(similarity.TestIdentity{Name: name, Number: number}, values, limits); err != nil {
			return nil, err
		}
	}
	if frame.Len() == 0 {
		return nil, fmt.Errorf("%w: no test columns", core.ErrMalformedTable)
	}
	return frame, nil
}

func parseCell(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func limitCell(row RawRowData, number string) *float64 {
	if row == nil {
		return nil
	}
	v := parseCell(row[number])
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
