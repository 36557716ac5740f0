package excel

import (
	"bytes"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"distsim/domain/core"
	"distsim/domain/features"
	"distsim/domain/similarity"
	"distsim/internal"
	"distsim/internal/analysis"
	"distsim/internal/feedback"
	"distsim/internal/labeling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *internal.Logger {
	return internal.NewLoggerTo(internal.LogLevelError, &bytes.Buffer{})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const measurementCSV = `<+ParameterNumber>,20001,10001
<+ParameterName>,Vdd,Idd
<+LSL>,1.1,
<+USL>,1.3,80
unit1,1.21,50.5
unit2,,51
unit3,1.19,bad
`

func TestReadMeasurementTable_CSV(t *testing.T) {
	frame, err := ReadMeasurementTable(writeFile(t, "input.csv", measurementCSV), quietLogger())
	require.NoError(t, err)

	assert.Equal(t, []similarity.TestIdentity{{Name: "Vdd", Number: "20001"}, {Name: "Idd", Number: "10001"}}, frame.Tests())

	vdd, ok := frame.Column("20001")
	require.True(t, ok)
	require.Len(t, vdd, 3)
	assert.Equal(t, 1.21, vdd[0])
	assert.True(t, math.IsNaN(vdd[1]))

	idd, _ := frame.Column("10001")
	assert.True(t, math.IsNaN(idd[2]))

	lsl, usl := frame.Limits("20001")
	require.NotNil(t, lsl)
	assert.Equal(t, 1.1, *lsl)
	assert.Equal(t, 1.3, *usl)

	lsl, usl = frame.Limits("10001")
	assert.Nil(t, lsl)
	assert.Equal(t, 80.0, *usl)
}

func TestToFrame_Malformed(t *testing.T) {
	_, err := ToFrame(&ExcelData{Headers: []string{"id", "1"}})
	assert.True(t, errors.Is(err, core.ErrMalformedTable))

	_, err = ToFrame(&ExcelData{Headers: []string{NumberKey}})
	assert.True(t, errors.Is(err, core.ErrMalformedTable))

	dup := &ExcelData{
		Headers: []string{NumberKey, "1", "2"},
		Rows:    []RawRowData{{NumberKey: NameKey, "1": "Same", "2": "Same"}},
	}
	_, err = ToFrame(dup)
	assert.True(t, errors.Is(err, core.ErrMalformedTable))

	dir := t.TempDir()
	short := filepath.Join(dir, "short.csv")
	require.NoError(t, os.WriteFile(short, []byte(NumberKey+",1001\n"), 0o644))
	_, err = ReadMeasurementTable(short, quietLogger())
	assert.True(t, errors.Is(err, core.ErrMalformedTable))
}

func TestReadMeasurementTable_MissingFileIsNotMalformed(t *testing.T) {
	_, err := ReadMeasurementTable(filepath.Join(t.TempDir(), "missing.csv"), quietLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, errors.Is(err, core.ErrMalformedTable))

	_, err = ReadMeasurementTable(filepath.Join(t.TempDir(), "missing.xlsx"), quietLogger())
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, errors.Is(err, core.ErrMalformedTable))
}

func TestToFrame_NamesDefaultToNumbers(t *testing.T) {
	data := &ExcelData{
		Headers: []string{NumberKey, "7001"},
		Rows:    []RawRowData{{NumberKey: "u1", "7001": "3"}},
	}
	frame, err := ToFrame(data)
	require.NoError(t, err)
	test, ok := frame.LookupTest("7001")
	require.True(t, ok)
	assert.Equal(t, "7001", test.Number)
}

func TestProcessRows_DuplicateHeaders(t *testing.T) {
	_, err := NewDataReader("x.csv", quietLogger()).processRows([][]string{{"a", "a"}, {"1", "2"}})
	assert.Error(t, err)
}

func TestMeasurementSheet_XLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.xlsx")
	sheet := Sheet{
		Name:    "Data",
		Headers: []string{NumberKey, "30001"},
		Rows: [][]interface{}{
			{NameKey, "GPIO_leak"},
			{LSLKey, -0.5},
			{"unit1", 0.25},
			{"unit2", 0.75},
		},
	}
	require.NoError(t, Write(path, sheet))

	frame, err := ReadMeasurementTable(path, quietLogger())
	require.NoError(t, err)
	test, ok := frame.LookupTest("GPIO_leak")
	require.True(t, ok)
	values, _ := frame.Column(test.Number)
	assert.Equal(t, []float64{0.25, 0.75}, values)
	lsl, usl := frame.Limits(test.Number)
	assert.Equal(t, -0.5, *lsl)
	assert.Nil(t, usl)
}

func sampleResults() *analysis.ResultTable {
	nan := math.NaN()
	vec := features.NewVector(similarity.TestIdentity{Name: "Vdd", Number: "20001"})
	vec.Set(features.KSStatistic, 0.1)
	return &analysis.ResultTable{
		RunID:       core.NewRunID(),
		Sensitivity: 0.5,
		Rows: []analysis.ResultRow{
			{
				Test:        similarity.TestIdentity{Name: "Vdd", Number: "20001"},
				Module:      "VAMOS_PMU",
				Sensitivity: 0.5,
				Outcome:     analysis.FallbackResult{Label: similarity.SimilarDistribution, Confidence: 0.8},
				Describe:    analysis.Describe{Min: 1, Max: 2, Mean: 1.5, Std: 0.5},
				Cpk:         1.33,
				Yield:       analysis.YieldStats{Yield: 100},
				Features:    &vec,
				InputSample: []float64{1, 2},
			},
			{
				Test:        similarity.TestIdentity{Name: "Idd", Number: "10001"},
				Module:      "VAMOS_IDD",
				Sensitivity: 0.5,
				Outcome:     analysis.Unavailable{Reason: core.ErrDataAbsent},
				Describe:    analysis.Describe{Min: nan, Max: nan, Mean: nan, Std: nan},
				Cpk:         nan,
			},
		},
	}
}

func TestWriteResults_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.xlsx")
	require.NoError(t, WriteResults(path, sampleResults()))

	data, err := NewDataReader(path, quietLogger()).ReadData()
	require.NoError(t, err)
	assert.Equal(t, ResultsSheet(sampleResults()).Headers, data.Headers)
	require.Len(t, data.Rows, 2)

	assert.Equal(t, "Vdd", data.Rows[0]["Test Name"])
	assert.Equal(t, "Similar distribution", data.Rows[0]["Status"])
	assert.Equal(t, "rule_based", data.Rows[0]["Model Version"])
	assert.Equal(t, "[1, 2]", data.Rows[0]["input_data"])
	assert.Equal(t, "Idd", data.Rows[1]["Test Name"])
	assert.Equal(t, "", data.Rows[1]["Status"])
	assert.Equal(t, "", data.Rows[1]["Cpk"])
}

func TestWriteResults_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, WriteResults(path, sampleResults()))

	data, err := NewDataReader(path, quietLogger()).ReadData()
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "1.33", data.Rows[0]["Cpk"])
	assert.Equal(t, "VAMOS_IDD", data.Rows[1]["Module"])
	assert.Equal(t, "false", data.Rows[1]["ML Prediction"])
}

func TestWriteTrainingSet(t *testing.T) {
	vec := features.NewVector(similarity.TestIdentity{Name: "Vdd", Number: "20001"})
	vec.Set(features.MeanInput, 1.2)
	examples := []labeling.Example{{
		Vector:     vec,
		Assessment: labeling.Assessment{Label: similarity.ModeratelySimilar, LimitsMatch: true},
	}}

	path := filepath.Join(t.TempDir(), "training.csv")
	require.NoError(t, WriteTrainingSet(path, examples))

	data, err := NewDataReader(path, quietLogger()).ReadData()
	require.NoError(t, err)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "1.2", data.Rows[0]["mean_input"])
	assert.Equal(t, "", data.Rows[0]["std_input"])
	assert.Equal(t, "Moderately similar", data.Rows[0]["target"])
	assert.Equal(t, "true", data.Rows[0]["limits_match"])
}

func TestReadFeedback(t *testing.T) {
	path := writeFile(t, "feedback.csv", `test_name,feedback_type,comment,confidence,created_at
Vdd,correct,,0.9,2024-03-14T10:00:00Z
Idd,Incorrect,wrong bucket,0.6,2024-03-13 08:30:00
Iddq,uncertain,,,2024-03-01
`)
	records, err := ReadFeedback(path, quietLogger())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, feedback.Correct, records[0].Verdict)
	assert.Equal(t, time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC), records[0].CreatedAt)
	assert.Equal(t, feedback.Incorrect, records[1].Verdict)
	assert.Equal(t, "wrong bucket", records[1].Comment)
	assert.Equal(t, 0.0, records[2].Confidence)

	bad := writeFile(t, "bad.csv", "test_name,feedback_type,created_at\nVdd,great,2024-01-01\n")
	_, err = ReadFeedback(bad, quietLogger())
	assert.Error(t, err)

	missing := writeFile(t, "missing.csv", "test_name,comment\nVdd,x\n")
	_, err = ReadFeedback(missing, quietLogger())
	assert.Error(t, err)
}
