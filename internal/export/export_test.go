package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/revenueradar/radar/internal/model"
	"github.com/revenueradar/radar/pkg/salesforce"
)

func sampleAnalyses() []model.LeadAnalysis {
	return []model.LeadAnalysis{
		{
			CustomerName: "Acme",
			Score:        86,
			Tier:         model.TierHot,
			RuleScore:    81.25,
			AIAdjustment: 5,
			Reasoning:    "Ready to buy.",
			Actions:      []string{"Call today", "Send contract"},
			Lead: model.Lead{
				CompanyName:      "Acme",
				Industry:         "Manufacturing",
				Country:          "Germany",
				City:             "Berlin",
				EmployeeCount:    1200,
				ContactName:      "Jo Ann Smith",
				ContactEmail:     "jo@acme.com",
				ContactPhone:     "+49 30 1234",
				JobTitle:         "CTO",
				BudgetRange:      model.Budget100Kto500K,
				PurchaseTimeline: model.TimelineImmediate,
			},
		},
		{
			CustomerName: "Globex",
			Score:        42,
			Tier:         model.TierCold,
			RuleScore:    42,
			Degraded:     true,
			Reasoning:    "AI analysis unavailable.",
			Actions:      []string{},
			Lead:         model.Lead{CompanyName: "Globex", ContactEmail: "hank@globex.com"},
		},
	}
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, sampleAnalyses()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := f.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	header := make([]string, len(sheet.Rows[0].Cells))
	for i, c := range sheet.Rows[0].Cells {
		header[i] = c.String()
	}
	assert.Equal(t, ExcelColumns, header)

	row := sheet.Rows[1].Cells
	assert.Equal(t, "Acme", row[0].String())
	assert.Equal(t, "86", row[1].String())
	assert.Equal(t, "Hot", row[2].String())
	assert.Equal(t, "1200", row[7].String())
	assert.Equal(t, "$100K-$500K", row[11].String())
	assert.Equal(t, "Call today | Send contract", row[14].String())
}

func TestWriteExcel_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, nil))
	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, f.Sheet[SheetName].Rows, 1)
}

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "revenueradar_export_20250307_140509.xlsx", Filename(ts))
}

func TestMapCRM_HubSpot(t *testing.T) {
	out, err := MapCRM("HubSpot", sampleAnalyses())
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, 2, out.Records)
	assert.Equal(t, TargetHubSpot, out.CRMType)

	props := out.Data[0]["properties"].(map[string]any)
	assert.Equal(t, "Acme", props["company"])
	assert.Equal(t, "NEW", props["hs_lead_status"])
	assert.Equal(t, "86", props["lead_score"])
	assert.Equal(t, "1200", props["numberofemployees"])
	assert.Equal(t, "Berlin", props["city"])

	props = out.Data[1]["properties"].(map[string]any)
	assert.Equal(t, "OPEN", props["hs_lead_status"])
}

func TestMapCRM_Salesforce(t *testing.T) {
	out, err := MapCRM("salesforce", sampleAnalyses())
	require.NoError(t, err)
	rec := out.Data[0]
	assert.Equal(t, "Acme", rec["Company"])
	assert.Equal(t, "Hot", rec["Status"])
	assert.Equal(t, 86, rec["LeadScore__c"])
	assert.Equal(t, 1200, rec["NumberOfEmployees"])
	assert.Equal(t, "Cold", out.Data[1]["Status"])
}

func TestMapCRM_Unsupported(t *testing.T) {
	_, err := MapCRM("pipedrive", sampleAnalyses())
	require.Error(t, err)
	var eerr *model.ExportError
	require.True(t, errors.As(err, &eerr))
	assert.Equal(t, "pipedrive", eerr.Target)
	assert.ErrorIs(t, err, ErrUnsupportedTarget)
}

type fakeSF struct {
	existing []salesforce.Lead
	inserted [][]map[string]any
	fail     map[int]bool
	err      error
}

func (f *fakeSF) Query(_ context.Context, _ string, out any) error {
	*out.(*[]salesforce.Lead) = append(*out.(*[]salesforce.Lead), f.existing...)
	return nil
}

func (f *fakeSF) InsertCollection(_ context.Context, obj string, records []map[string]any) ([]salesforce.CollectionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if obj != "Lead" {
		return nil, fmt.Errorf("unexpected sobject %s", obj)
	}
	f.inserted = append(f.inserted, records)
	results := make([]salesforce.CollectionResult, len(records))
	for i := range records {
		if f.fail[i] {
			results[i] = salesforce.CollectionResult{Errors: []string{"REQUIRED_FIELD_MISSING"}}
			continue
		}
		results[i] = salesforce.CollectionResult{ID: fmt.Sprintf("00Q%d", i), Success: true}
	}
	return results, nil
}

func TestPushSalesforce(t *testing.T) {
	sf := &fakeSF{existing: []salesforce.Lead{{ID: "00Qold", Email: "HANK@globex.com"}}}

	res, err := PushSalesforce(context.Background(), sf, sampleAnalyses())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Duplicate)
	assert.Equal(t, 0, res.Failed)

	require.Len(t, sf.inserted, 1)
	rec := sf.inserted[0][0]
	assert.Equal(t, "Jo Ann", rec["FirstName"])
	assert.Equal(t, "Smith", rec["LastName"])
	assert.Equal(t, 86, rec["LeadScore__c"])
}

func TestPushSalesforce_DuplicateEmailsInOnePush(t *testing.T) {
	analyses := sampleAnalyses()
	repeat := analyses[0]
	repeat.Lead.ContactEmail = "  " + strings.ToUpper(repeat.Lead.ContactEmail)
	analyses = append(analyses, repeat)

	sf := &fakeSF{}
	res, err := PushSalesforce(context.Background(), sf, analyses)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.Duplicate)
	require.Len(t, sf.inserted, 1)
	assert.Len(t, sf.inserted[0], 2)
}

func TestPushSalesforce_RecordFailures(t *testing.T) {
	sf := &fakeSF{fail: map[int]bool{1: true}}
	res, err := PushSalesforce(context.Background(), sf, sampleAnalyses())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"REQUIRED_FIELD_MISSING"}, res.Errors)
	assert.Equal(t, "Unknown", sf.inserted[0][1]["LastName"])
}

func TestPushSalesforce_InsertError(t *testing.T) {
	sf := &fakeSF{err: errors.New("INVALID_SESSION_ID")}
	_, err := PushSalesforce(context.Background(), sf, sampleAnalyses())
	require.Error(t, err)
	var eerr *model.ExportError
	require.True(t, errors.As(err, &eerr))
	assert.True(t, strings.Contains(err.Error(), "INVALID_SESSION_ID"))
}

func TestPushSalesforce_Empty(t *testing.T) {
	res, err := PushSalesforce(context.Background(), &fakeSF{}, nil)
	require.NoError(t, err)
	assert.Equal(t, &PushResult{}, res)
}

func TestSplitName(t *testing.T) {
	f, l := splitName("")
	assert.Equal(t, "", f)
	assert.Equal(t, "Unknown", l)
	f, l = splitName("Cher")
	assert.Equal(t, "", f)
	assert.Equal(t, "Cher", l)
}
