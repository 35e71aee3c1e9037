package alert

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/praeto/tendertrack/internal/model"
)

// Subject formats the alert subject line. The buyer is truncated so
// subjects stay scannable in a crowded inbox.
func Subject(t *model.Tender) string {
	buyer := t.Buyer
	if len(buyer) > 50 {
		buyer = buyer[:50]
	}
	return fmt.Sprintf("[TENDER ALERT] %s: %s", strings.ToUpper(t.Category), buyer)
}

var bodyTmpl = template.Must(template.New("alert").Parse(`<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; }
  .header { background: #003366; color: white; padding: 20px; }
  .content { padding: 20px; }
  .highlight { background: #fff3cd; padding: 10px; border-left: 4px solid #ffc107; }
  .footer { background: #f8f9fa; padding: 10px; font-size: 12px; }
  table { border-collapse: collapse; width: 100%; }
  td { padding: 8px; border-bottom: 1px solid #ddd; }
  .label { font-weight: bold; color: #003366; }
</style>
</head>
<body>
  <div class="header"><h2>New Tender Alert</h2></div>
  <div class="content">
    <div class="highlight">
      <strong>Category:</strong> {{.Category}}<br>
      <strong>Priority Buyer:</strong> {{if .PriorityBuyer}}&#9733; YES{{else}}No{{end}}
    </div>
    <br>
    <table>
      <tr><td class="label">Buyer/Entity:</td><td>{{.Buyer}}</td></tr>
      <tr><td class="label">Tender Title:</td><td>{{.Title}}</td></tr>
      <tr><td class="label">Closing Date:</td><td>{{.Closing}}</td></tr>
      <tr><td class="label">Estimated Value:</td><td>{{.Value}}</td></tr>
      <tr><td class="label">Source:</td><td>{{.Source}}</td></tr>
    </table>
    {{if .Description}}<br><p><strong>Description:</strong><br>{{.Description}}</p>{{end}}
    {{if .DocumentLink}}<br><p><a href="{{.DocumentLink}}" style="background: #003366; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View Tender Documents</a></p>{{end}}
    {{if .DashboardURL}}<br><p><a href="{{.DashboardURL}}" style="color: #003366;">View All Tenders in Dashboard</a></p>{{end}}
  </div>
  <div class="footer"><p>This is an automated alert from tendertrack.</p></div>
</body>
</html>`))

type bodyData struct {
	Category      string
	PriorityBuyer bool
	Buyer         string
	Title         string
	Closing       string
	Value         string
	Source        string
	Description   string
	DocumentLink  string
	DashboardURL  string
}

// RenderBody produces the HTML alert body for one tender.
func RenderBody(t *model.Tender, dashboardURL string) (string, error) {
	closing := "unknown"
	if t.ClosingDate != nil {
		closing = fmt.Sprintf("%s (%d days remaining)",
			t.ClosingDate.Format("2006-01-02"), t.DaysRemaining)
	}

	value := "unknown"
	if t.Value > 0 {
		value = "R" + formatZAR(t.Value)
	}

	desc := t.Description
	if len(desc) > 300 {
		desc = desc[:300] + "..."
	}

	var sb strings.Builder
	err := bodyTmpl.Execute(&sb, bodyData{
		Category:      strings.ReplaceAll(t.Category, "_", " "),
		PriorityBuyer: t.PriorityBuyer,
		Buyer:         t.Buyer,
		Title:         t.Title,
		Closing:       closing,
		Value:         value,
		Source:        string(t.Source),
		Description:   desc,
		DocumentLink:  t.DocumentLink,
		DashboardURL:  dashboardURL,
	})
	if err != nil {
		return "", fmt.Errorf("alert: render body: %w", err)
	}
	return sb.String(), nil
}

// formatZAR renders an amount with thousands separators and two
// decimals, e.g. 1234567.5 -> "1,234,567.50".
func formatZAR(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]

	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sb.String() + frac
}
