// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package analytics

import (
	"fmt"
	"net/url"
	"strings"
	"text/template"
	"time"
)

// ReportInput is everything the text report is built from.
type ReportInput struct {
	ProfileName string
	GeneratedAt time.Time
	Stats       Stats
}

var reportTmpl = template.Must(template.New("report").Parse(`BIOLINK ANALYTICS REPORT
Profile: {{.ProfileName}}
Generated: {{.GeneratedAt.UTC.Format "2006-01-02 15:04 MST"}}

Total visits: {{.Stats.TotalVisits}}
{{with .Top}}Top link: {{.Title}} ({{.Count}} clicks){{else}}Top link: none{{end}}

Referrers:
{{range .Stats.Referrers}}  - {{.Name}}: {{.Count}} ({{.Percent}}%)
{{end}}
Platforms:
{{range .Stats.Platforms}}  - {{.}}
{{end}}
Browsers:
{{range .Stats.Browsers}}  - {{.Name}}: {{.Count}} ({{.Percent}}%)
{{else}}  - {{$.Placeholder}}
{{end}}
Resolutions:
{{range .Stats.Resolutions}}  - {{.Name}}: {{.Count}} ({{.Percent}}%)
{{else}}  - {{$.Placeholder}}
{{end}}`))

// Report renders the plain-text analytics report. The output depends only
// on in.
func Report(in ReportInput) (string, error) {
	data := struct {
		ReportInput
		Top         *LinkBar
		Placeholder string
	}{ReportInput: in, Placeholder: Placeholder}
	if top, ok := in.Stats.TopLink(); ok {
		data.Top = &top
	}

	var b strings.Builder
	if err := reportTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}

// MailtoURL builds a mailto: link with a pre-filled subject and body.
func MailtoURL(to, subject, body string) string {
	q := "subject=" + escape(subject) + "&body=" + escape(body)
	return "mailto:" + url.PathEscape(to) + "?" + q
}

// escape percent-encodes for mailto, where '+' is not a space.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
