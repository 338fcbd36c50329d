package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/revenueradar/radar/internal/model"
)

// CRM targets accepted by MapCRM.
const (
	TargetHubSpot    = "hubspot"
	TargetSalesforce = "salesforce"
)

// ErrUnsupportedTarget is wrapped in the ExportError for an unknown CRM.
var ErrUnsupportedTarget = eris.New("unsupported crm target")

// CRMExport is the mapped payload for one CRM.
type CRMExport struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	CRMType string           `json:"crm_type"`
	Records int              `json:"records"`
	Data    []map[string]any `json:"data"`
}

// MapCRM converts analyses into records shaped for target.
func MapCRM(target string, analyses []model.LeadAnalysis) (*CRMExport, error) {
	t := strings.ToLower(strings.TrimSpace(target))

	var mapFn func(model.LeadAnalysis) map[string]any
	switch t {
	case TargetHubSpot:
		mapFn = hubSpotRecord
	case TargetSalesforce:
		mapFn = salesforceRecord
	default:
		return nil, &model.ExportError{Target: target, Err: eris.Wrapf(ErrUnsupportedTarget, "%q", target)}
	}

	data := make([]map[string]any, len(analyses))
	for i, a := range analyses {
		data[i] = mapFn(a)
	}

	return &CRMExport{
		Success: true,
		Message: fmt.Sprintf("Prepared %d records for %s", len(data), t),
		CRMType: t,
		Records: len(data),
		Data:    data,
	}, nil
}

func hubSpotRecord(a model.LeadAnalysis) map[string]any {
	status := "OPEN"
	if a.Tier == model.TierHot {
		status = "NEW"
	}
	return map[string]any{
		"properties": map[string]any{
			"company":           a.CustomerName,
			"email":             a.Lead.ContactEmail,
			"phone":             a.Lead.ContactPhone,
			"jobtitle":          a.Lead.JobTitle,
			"industry":          a.Lead.Industry,
			"city":              a.Lead.City,
			"country":           a.Lead.Country,
			"numberofemployees": strconv.Itoa(a.Lead.EmployeeCount),
			"hs_lead_status":    status,
			"lead_score":        strconv.Itoa(a.Score),
		},
	}
}

func salesforceRecord(a model.LeadAnalysis) map[string]any {
	return map[string]any{
		"Company":           a.CustomerName,
		"Email":             a.Lead.ContactEmail,
		"Phone":             a.Lead.ContactPhone,
		"Title":             a.Lead.JobTitle,
		"Industry":          a.Lead.Industry,
		"NumberOfEmployees": a.Lead.EmployeeCount,
		"Status":            string(a.Tier),
		"LeadScore__c":      a.Score,
	}
}
