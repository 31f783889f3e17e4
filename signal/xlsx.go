package signal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads a signal from a spreadsheet. The contract matches LoadCSV;
// use WithSheet to read a worksheet other than the first one.
func LoadXLSX(path string, cols ColumnSpec, opts ...LoadOption) (*Signal, error) {
	cfg := applyLoadOptions(opts)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("signal: open %s: %w", path, err)
	}
	defer f.Close()

	sheet := cfg.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: %s has no worksheets", ErrBadHeader, path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("signal: read sheet %q of %s: %w", sheet, path, err)
	}

	return buildSignal(path, rows, cols, cfg)
}
