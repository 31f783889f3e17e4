package signal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// exportHeader is the column layout of exported filtered recordings.
var exportHeader = []string{"time_sec", "original", "filtered"}

// Write saves the original and filtered amplitude sequences side by side,
// dispatching on the file extension (.csv or .xlsx).
func Write(path string, sig *Signal, filtered []float64) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSV(path, sig, filtered)
	case ".xlsx":
		return WriteXLSX(path, sig, filtered)
	default:
		return fmt.Errorf("%w: %q (use .csv or .xlsx)", ErrUnsupportedFormat, path)
	}
}

// WriteCSV saves time, original and filtered columns as delimited text.
func WriteCSV(path string, sig *Signal, filtered []float64) error {
	if err := checkExport(sig, filtered); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("signal: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return fmt.Errorf("signal: write %s: %w", path, err)
	}

	row := make([]string, 3)
	for i := range sig.Samples {
		row[0] = strconv.FormatFloat(sig.Timestamps[i], 'g', -1, 64)
		row[1] = strconv.FormatFloat(sig.Samples[i], 'g', -1, 64)
		row[2] = strconv.FormatFloat(filtered[i], 'g', -1, 64)

		if err := w.Write(row); err != nil {
			return fmt.Errorf("signal: write %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("signal: flush %s: %w", path, err)
	}

	return f.Close()
}

// WriteXLSX saves time, original and filtered columns as a workbook with a
// single "filtered" worksheet.
func WriteXLSX(path string, sig *Signal, filtered []float64) error {
	if err := checkExport(sig, filtered); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "filtered"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("signal: prepare %s: %w", path, err)
	}

	for col, name := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("signal: prepare %s: %w", path, err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("signal: write %s: %w", path, err)
		}
	}

	for i := range sig.Samples {
		values := [3]float64{sig.Timestamps[i], sig.Samples[i], filtered[i]}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("signal: prepare %s: %w", path, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("signal: write %s: %w", path, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("signal: save %s: %w", path, err)
	}

	return nil
}

func checkExport(sig *Signal, filtered []float64) error {
	if sig.Len() == 0 {
		return fmt.Errorf("%w: nothing to export", ErrEmptyData)
	}

	if len(filtered) != sig.Len() {
		return fmt.Errorf("signal: filtered length %d does not match signal length %d",
			len(filtered), sig.Len())
	}

	return nil
}
