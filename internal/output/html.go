package output

import (
	"fmt"
	"html/template"
	"io"

	"github.com/wexeljose/perfgate/internal/analyzer"
	"github.com/wexeljose/perfgate/internal/threshold"
)

// htmlReportData is the template context for the standalone HTML report.
type htmlReportData struct {
	Report           analyzer.Report
	SuccessRateLevel threshold.Level
	AvgLatencyLevel  threshold.Level
	VerdictClass     string
}

// GenerateHTMLReport renders a standalone HTML document for the report. It is
// pure formatting: every value, including the per-metric coloring, comes from
// the report and its embedded bands.
func GenerateHTMLReport(w io.Writer, report analyzer.Report) error {
	data := htmlReportData{
		Report:           report,
		SuccessRateLevel: report.Bands.SuccessRateLevel(report.SuccessRatePct),
		AvgLatencyLevel:  report.Bands.AvgLatencyLevel(report.AvgResponseMS),
		VerdictClass:     verdictClass(report.Verdict),
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"formatFloat": func(f float64) string {
			return fmt.Sprintf("%.2f", f)
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

func verdictClass(v threshold.Verdict) string {
	switch v {
	case threshold.VerdictPass:
		return "pass"
	case threshold.VerdictUnstable:
		return "unstable"
	default:
		return "fail"
	}
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Perfgate Performance Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
            padding: 20px;
        }
        .container {
            max-width: 1100px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 30px 40px;
        }
        header h1 { font-size: 2rem; margin-bottom: 10px; }
        header .meta { opacity: 0.9; font-size: 0.9rem; }
        .content { padding: 40px; }
        .verdict {
            border-radius: 8px;
            padding: 20px;
            margin-bottom: 40px;
            font-size: 1.5rem;
            font-weight: bold;
            text-align: center;
            color: white;
        }
        .verdict.pass { background: #10b981; }
        .verdict.unstable { background: #f59e0b; }
        .verdict.fail { background: #ef4444; }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
            gap: 20px;
            margin-bottom: 40px;
        }
        .card {
            background: #f8f9fa;
            border-radius: 8px;
            padding: 20px;
            border-left: 4px solid #667eea;
        }
        .card h3 {
            font-size: 0.9rem;
            color: #6c757d;
            text-transform: uppercase;
            letter-spacing: 0.5px;
            margin-bottom: 10px;
        }
        .card .value { font-size: 2rem; font-weight: bold; color: #2c3e50; }
        .card .subvalue { font-size: 0.85rem; color: #6c757d; margin-top: 5px; }
        .card.ok { border-left-color: #10b981; }
        .card.warn { border-left-color: #f59e0b; }
        .card.bad { border-left-color: #ef4444; }
        .section { margin-bottom: 40px; }
        .section h2 { font-size: 1.3rem; margin-bottom: 20px; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 10px 12px; border-bottom: 1px solid #e9ecef; }
        th { color: #6c757d; font-size: 0.85rem; text-transform: uppercase; }
        .note {
            background: #fff7ed;
            border-left: 4px solid #f59e0b;
            border-radius: 8px;
            padding: 15px 20px;
            margin-bottom: 40px;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Performance Report</h1>
            <div class="meta">Run {{.Report.RunID}} &middot; generated {{.Report.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</div>
        </header>
        <div class="content">
            <div class="verdict {{.VerdictClass}}">{{.Report.Verdict}}</div>

            {{if gt .Report.Malformed 0}}
            <div class="note">
                {{.Report.Malformed}} malformed sample row(s) were skipped during ingest.
                They are excluded from every figure below; investigate the test harness output.
            </div>
            {{end}}

            <div class="grid">
                <div class="card">
                    <h3>Total Samples</h3>
                    <div class="value">{{.Report.Total}}</div>
                    <div class="subvalue">{{.Report.Successes}} ok / {{.Report.Failures}} failed</div>
                </div>
                <div class="card {{.SuccessRateLevel}}">
                    <h3>Success Rate</h3>
                    <div class="value">{{formatFloat .Report.SuccessRatePct}}%</div>
                    <div class="subvalue">error rate {{formatFloat .Report.ErrorRatePct}}%</div>
                </div>
                <div class="card {{.AvgLatencyLevel}}">
                    <h3>Avg Response</h3>
                    <div class="value">{{formatFloat .Report.AvgResponseMS}}ms</div>
                    <div class="subvalue">min {{formatFloat .Report.MinResponseMS}}ms / max {{formatFloat .Report.MaxResponseMS}}ms</div>
                </div>
                <div class="card">
                    <h3>Throughput</h3>
                    <div class="value">{{formatFloat .Report.ThroughputRPS}} rps</div>
                    <div class="subvalue">{{if gt .Report.DurationSec 0.0}}over {{formatFloat .Report.DurationSec}}s{{else}}degenerate sample span{{end}}</div>
                </div>
            </div>

            <div class="section">
                <h2>Response Time Percentiles</h2>
                <table>
                    <tr><th>P50</th><th>P90</th><th>P95</th><th>P99</th></tr>
                    <tr>
                        <td>{{formatFloat .Report.P50ResponseMS}}ms</td>
                        <td>{{formatFloat .Report.P90ResponseMS}}ms</td>
                        <td>{{formatFloat .Report.P95ResponseMS}}ms</td>
                        <td>{{formatFloat .Report.P99ResponseMS}}ms</td>
                    </tr>
                </table>
            </div>

            <div class="section">
                <h2>Verdict Thresholds</h2>
                <table>
                    <tr><th>Tier</th><th>Min Success Rate</th><th>Max Avg Response</th></tr>
                    <tr>
                        <td>PASS</td>
                        <td>{{formatFloat .Report.Bands.PassMinSuccessRate}}%</td>
                        <td>{{formatFloat .Report.Bands.PassMaxAvgLatencyMS}}ms</td>
                    </tr>
                    <tr>
                        <td>UNSTABLE</td>
                        <td>{{formatFloat .Report.Bands.UnstableMinSuccessRate}}%</td>
                        <td>{{formatFloat .Report.Bands.UnstableMaxAvgLatencyMS}}ms</td>
                    </tr>
                    <tr><td>FAIL</td><td colspan="2">anything below the UNSTABLE tier</td></tr>
                </table>
            </div>
        </div>
    </div>
</body>
</html>
`
