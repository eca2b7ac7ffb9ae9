package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/san-kum/dartsim/internal/dynamo"
)

// Columns is the header of the sample table.
var Columns = []string{
	"time",
	"rx", "ry", "rz",
	"vx", "vy", "vz",
	"q0", "q1", "q2", "q3",
	"wx", "wy", "wz",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per sample at full precision.
func WriteCSV(w io.Writer, s *dynamo.Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return err
	}

	row := make([]string, len(Columns))
	for i := range s.Len() {
		t, x := s.At(i)
		if len(x) != dynamo.StateDim {
			return fmt.Errorf("sample %d has %d components: %w", i, len(x), dynamo.ErrDimensionMismatch)
		}
		row[0] = formatFloat(t)
		for j, v := range x {
			row[j+1] = formatFloat(v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) (*dynamo.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err == io.EOF {
		return dynamo.NewSeries(0), nil
	}
	if err != nil {
		return nil, err
	}
	if !slices.Equal(header, Columns) {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	series := dynamo.NewSeries(len(records))
	for i, record := range records {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		x := make(dynamo.State, dynamo.StateDim)
		for j := range x {
			x[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, Columns[j+1], err)
			}
		}
		series.Append(t, x)
	}
	return series, nil
}
