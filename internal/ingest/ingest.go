// Package ingest decodes uploaded CSV and XLSX lead files into raw rows.
package ingest

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/revenueradar/radar/internal/model"
)

// Supported file extensions.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

var (
	ErrUnsupported = eris.New("unsupported file type")
	ErrNoHeader    = eris.New("missing header row")
	ErrNoIdentity  = eris.New("header has neither company_name nor contact_email")
)

// record is one decoded data row and its line below the header.
type record struct {
	line  int
	cells []any
}

// ReadFile opens path and decodes it by extension.
func ReadFile(ctx context.Context, path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &model.IngestionError{Source: path, Err: eris.Wrap(err, "ingest: open file")}
	}
	defer f.Close() //nolint:errcheck

	return Read(ctx, filepath.Base(path), f)
}

// Read decodes r according to the extension of name. The first row is the
// header and blank rows are ignored. Each record keeps its row number below
// the header so later errors can point at the right line.
func Read(ctx context.Context, name string, r io.Reader) ([]model.Record, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ExtCSV && ext != ExtXLSX {
		return nil, &model.IngestionError{Source: name, Err: eris.Wrapf(ErrUnsupported, "%q", ext)}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &model.IngestionError{Source: name, Err: eris.Wrap(err, "ingest: read upload")}
	}

	var header []string
	var records []record
	switch ext {
	case ExtCSV:
		header, records, err = decodeCSV(ctx, bytes.NewReader(data))
	case ExtXLSX:
		header, records, err = decodeXLSX(ctx, data)
	}
	if err != nil {
		return nil, &model.IngestionError{Source: name, Err: err}
	}

	rows, err := toRows(header, records)
	if err != nil {
		return nil, &model.IngestionError{Source: name, Err: err}
	}

	zap.L().Debug("ingest: decoded file",
		zap.String("file", name),
		zap.Int("columns", len(header)),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

func toRows(header []string, records []record) ([]model.Record, error) {
	if len(header) == 0 || blank(header) {
		return nil, ErrNoHeader
	}

	cols := make([]string, len(header))
	hasIdentity := false
	for i, h := range header {
		cols[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch model.CanonicalColumn(cols[i]) {
		case "company_name", "contact_email":
			hasIdentity = true
		}
	}
	if !hasIdentity {
		return nil, ErrNoIdentity
	}

	rows := make([]model.Record, 0, len(records))
	for _, rec := range records {
		row := make(model.RawRow, len(cols))
		empty := true
		for i, col := range cols {
			if col == "" || i >= len(rec.cells) {
				continue
			}
			v := rec.cells[i]
			if s, ok := v.(string); ok {
				v = strings.TrimSpace(s)
				if v == "" {
					continue
				}
			}
			if _, exists := row[col]; exists {
				continue
			}
			row[col] = v
			empty = false
		}
		if !empty {
			rows = append(rows, model.Record{Line: rec.line, Row: row})
		}
	}
	return rows, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
