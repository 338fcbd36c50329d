package ingest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/revenueradar/radar/internal/model"
)

func requireIngestionError(t *testing.T, err error, target error) {
	t.Helper()
	require.Error(t, err)
	var ierr *model.IngestionError
	require.True(t, errors.As(err, &ierr), "want IngestionError, got %T", err)
	if target != nil {
		assert.ErrorIs(t, err, target)
	}
}

func TestRead_CSV(t *testing.T) {
	input := "\ufeffCompany Name,contact_email,Employee Count,demo_requested\n" +
		"Acme, jo@acme.com ,250,yes\n" +
		",,,\n" +
		"Globex,hank@globex.com,,\n"

	rows, err := Read(context.Background(), "leads.CSV", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	v, ok := rows[0].Row.Get("company_name")
	require.True(t, ok)
	assert.Equal(t, "Acme", v)
	v, _ = rows[0].Row.Get("contact_email")
	assert.Equal(t, "jo@acme.com", v)
	v, _ = rows[0].Row.Get("employee_count")
	assert.Equal(t, "250", v)

	_, ok = rows[1].Row.Get("employee_count")
	assert.False(t, ok, "empty cells are omitted")

	assert.Equal(t, 1, rows[0].Line)
	assert.Equal(t, 3, rows[1].Line, "blank rows still count")
}

func TestRead_CSVLinesAfterBlankRows(t *testing.T) {
	input := "\n" +
		"company_name,contact_email\n" +
		"A,a@a.co\n" +
		",,\n" +
		"\n" +
		"B,\n" +
		"\"C\nCorp\",c@c.co\n" +
		"D,d@d.co\n"

	rows, err := Read(context.Background(), "leads.csv", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	var lines []int
	for _, r := range rows {
		lines = append(lines, r.Line)
	}
	assert.Equal(t, []int{1, 4, 5, 7}, lines)
	assert.Equal(t, "C\nCorp", rows[2].Row["company_name"])
}

func TestRead_CSVShortRows(t *testing.T) {
	rows, err := Read(context.Background(), "x.csv", strings.NewReader("company_name,industry,country\nAcme\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.RawRow{"company_name": "Acme"}, rows[0].Row)
}

func TestRead_HeaderErrors(t *testing.T) {
	_, err := Read(context.Background(), "empty.csv", strings.NewReader(""))
	requireIngestionError(t, err, ErrNoHeader)

	_, err = Read(context.Background(), "blank.csv", strings.NewReader(",,\n,,\n"))
	requireIngestionError(t, err, ErrNoHeader)

	_, err = Read(context.Background(), "noid.csv", strings.NewReader("industry,country\nRetail,US\n"))
	requireIngestionError(t, err, ErrNoIdentity)
}

func TestRead_HeaderOnly(t *testing.T) {
	rows, err := Read(context.Background(), "h.csv", strings.NewReader("company_name,contact_email\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRead_UnsupportedExtension(t *testing.T) {
	_, err := Read(context.Background(), "leads.json", strings.NewReader("[]"))
	requireIngestionError(t, err, ErrUnsupported)

	_, err = Read(context.Background(), "leads", strings.NewReader("a"))
	requireIngestionError(t, err, ErrUnsupported)
}

func TestRead_CorruptXLSX(t *testing.T) {
	_, err := Read(context.Background(), "bad.xlsx", strings.NewReader("definitely not a zip"))
	requireIngestionError(t, err, nil)
	assert.Contains(t, err.Error(), "bad.xlsx")
}

func TestRead_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Read(ctx, "x.csv", strings.NewReader("company_name\nAcme\n"))
	requireIngestionError(t, err, context.Canceled)
}

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, h := range []string{"company_name", "contact_email", "employee_count", "annual_revenue", "email_verified", "country"} {
		header.AddCell().SetString(h)
	}

	row := sheet.AddRow()
	row.AddCell().SetString("Initech")
	row.AddCell().SetString("bill@initech.com")
	row.AddCell().SetInt(1200)
	row.AddCell().SetFloat(12500000.5)
	row.AddCell().SetBool(true)
	row.AddCell().SetString("germany")

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestRead_XLSXTypedCells(t *testing.T) {
	rows, err := Read(context.Background(), "leads.xlsx", bytes.NewReader(buildWorkbook(t)))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 1, rows[0].Line)
	r := rows[0].Row
	assert.Equal(t, "Initech", r["company_name"])
	assert.Equal(t, 1200.0, r["employee_count"])
	assert.Equal(t, 12500000.5, r["annual_revenue"])
	assert.Equal(t, true, r["email_verified"])
	assert.Equal(t, "germany", r["country"])
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	require.NoError(t, os.WriteFile(path, buildWorkbook(t), 0o644))

	rows, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	requireIngestionError(t, err, os.ErrNotExist)
}
