package ingest

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// decodeXLSX reads the first sheet. Numeric and boolean cells keep their
// typed values; everything else is read as text.
func decodeXLSX(ctx context.Context, data []byte) ([]string, []record, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, nil, eris.Wrap(err, "xlsx: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.New("xlsx: workbook has no sheets")
	}
	sheet := f.Sheets[0]

	var header []string
	var headerRow int
	var records []record
	for i, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return nil, nil, eris.Wrap(err, "xlsx: context cancelled")
		}
		if row == nil {
			continue
		}

		if header == nil {
			cells := make([]string, len(row.Cells))
			for j, cell := range row.Cells {
				cells[j] = cell.String()
			}
			if blank(cells) {
				continue
			}
			header = cells
			headerRow = i
			continue
		}

		cells := make([]any, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cellValue(cell)
		}
		records = append(records, record{line: i - headerRow, cells: cells})
	}
	return header, records, nil
}

func cellValue(cell *xlsx.Cell) any {
	if cell == nil {
		return nil
	}
	switch cell.Type() {
	case xlsx.CellTypeNumeric:
		if v, err := cell.Float(); err == nil {
			return v
		}
	case xlsx.CellTypeBool:
		return cell.Bool()
	}
	return cell.String()
}
