package ingest

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// decodeCSV returns the header and the data records. Record lines are
// counted from the header line, so empty lines skipped by the reader still
// advance the numbering.
func decodeCSV(ctx context.Context, r io.Reader) ([]string, []record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var header []string
	var headerLine int
	var records []record
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, eris.Wrap(err, "csv: context cancelled")
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "csv: read row")
		}

		if header == nil {
			if blank(fields) {
				continue
			}
			header = fields
			headerLine, _ = reader.FieldPos(0)
			continue
		}

		line, _ := reader.FieldPos(0)
		cells := make([]any, len(fields))
		for i, field := range fields {
			cells[i] = field
		}
		records = append(records, record{line: line - headerLine, cells: cells})
	}
	return header, records, nil
}
