package sample

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wexeljose/perfgate/internal/analyzer"
)

// ReadJTL reads a JMeter JTL results file. The first row must be a header
// naming at least the timeStamp, elapsed, and success columns; the label
// column is optional. Column order is taken from the header, so truncated or
// column-reordered exports still parse.
func ReadJTL(r io.Reader) (analyzer.Set, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// JMeter pads failure rows with assertion columns; tolerate ragged rows
	// and validate field counts per row instead.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return analyzer.Set{}, fmt.Errorf("read JTL: %w", err)
	}
	if len(rows) == 0 {
		return analyzer.Set{}, fmt.Errorf("JTL file is empty")
	}

	cols, err := mapHeader(rows[0])
	if err != nil {
		return analyzer.Set{}, err
	}

	set := analyzer.Set{}
	for _, row := range rows[1:] {
		s, ok := parseJTLRow(row, cols)
		if !ok {
			set.Malformed++
			continue
		}
		set.Samples = append(set.Samples, s)
	}
	return set, nil
}

type jtlColumns struct {
	timestamp int
	elapsed   int
	success   int
	label     int
}

func mapHeader(header []string) (jtlColumns, error) {
	cols := jtlColumns{timestamp: -1, elapsed: -1, success: -1, label: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "timestamp":
			cols.timestamp = i
		case "elapsed":
			cols.elapsed = i
		case "success":
			cols.success = i
		case "label":
			cols.label = i
		}
	}

	var missing []string
	if cols.timestamp == -1 {
		missing = append(missing, "timeStamp")
	}
	if cols.elapsed == -1 {
		missing = append(missing, "elapsed")
	}
	if cols.success == -1 {
		missing = append(missing, "success")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("JTL header missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseJTLRow(row []string, cols jtlColumns) (analyzer.Sample, bool) {
	need := cols.timestamp
	if cols.elapsed > need {
		need = cols.elapsed
	}
	if cols.success > need {
		need = cols.success
	}
	if len(row) <= need {
		return analyzer.Sample{}, false
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(row[cols.timestamp]), 10, 64)
	if err != nil {
		return analyzer.Sample{}, false
	}
	elapsed, err := strconv.ParseFloat(strings.TrimSpace(row[cols.elapsed]), 64)
	if err != nil || elapsed < 0 {
		return analyzer.Sample{}, false
	}
	success, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(row[cols.success])))
	if err != nil {
		return analyzer.Sample{}, false
	}

	s := analyzer.Sample{
		TimestampMS: ts,
		ElapsedMS:   elapsed,
		Success:     success,
	}
	if cols.label != -1 && cols.label < len(row) {
		s.Label = strings.TrimSpace(row[cols.label])
	}
	return s, true
}
