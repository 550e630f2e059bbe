package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/caretrackhq/assettrack_backend/models/analytics"
)

// ComplianceExport is one snapshot of the compliance dashboard, serialized
// to CSV/HTML/XLSX with no formatting logic of its own: every exporter
// walks the same rows in the same order.
type ComplianceExport struct {
	GeneratedAt time.Time                   `json:"generatedAt"`
	Summary     analytics.ComplianceSummary `json:"summary"`
	Rows        []analytics.AssetRisk       `json:"rows"`
}

var complianceCSVHeader = []string{
	"Asset", "Department", "Missed Maintenance", "Overdue Calibration", "Recall", "Risk Score",
}

func BuildComplianceExport(ctx context.Context, engine *analytics.Engine, rng *rand.Rand) (*ComplianceExport, error) {
	report, err := engine.ComplianceDashboard(ctx, rng)
	if err != nil {
		return nil, err
	}
	return &ComplianceExport{
		GeneratedAt: time.Now(),
		Summary:     report.Summary,
		Rows:        report.AssetRisks,
	}, nil
}

func (e *ComplianceExport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(complianceCSVHeader); err != nil {
		return err
	}
	for i := range e.Rows {
		r := &e.Rows[i]
		record := []string{
			r.AssetName,
			r.DepartmentName,
			strconv.Itoa(r.MissedMaintenance),
			strconv.FormatBool(r.OverdueCalibration),
			strconv.FormatBool(r.RecallFlag),
			strconv.Itoa(r.RiskScore),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var complianceHTMLTemplate = template.Must(template.New("compliance").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Compliance Risk Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f4f4f4; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>Compliance Risk Report</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04"}} &mdash; overall score {{.Summary.OverallScore}}%,
{{.Summary.FullyCompliant}}/{{.Summary.TotalAssets}} assets fully compliant.</p>
<table>
<tr><th>Asset</th><th>Department</th><th>Missed Maintenance</th><th>Overdue Calibration</th><th>Recall</th><th>Risk Score</th></tr>
{{range .Rows}}<tr><td>{{.AssetName}}</td><td>{{.DepartmentName}}</td><td>{{.MissedMaintenance}}</td><td>{{.OverdueCalibration}}</td><td>{{.RecallFlag}}</td><td>{{.RiskScore}}</td></tr>
{{end}}</table>
</body>
</html>
`))

func (e *ComplianceExport) WriteHTML(w io.Writer) error {
	return complianceHTMLTemplate.Execute(w, e)
}

func (e *ComplianceExport) Filename(ext string) string {
	return fmt.Sprintf("compliance-report-%s.%s", e.GeneratedAt.Format("20060102-1504"), ext)
}
