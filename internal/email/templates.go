package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type leadsAssignedEmailData struct {
	baseEmailData
	ModeratorName string
	AssignedDate  string
	Reassigned    int
	Created       int
	Total         int
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderLeadsAssigned(data LeadsAssigned) (string, string, error) {
	content, err := renderEmailTemplate("leads_assigned.html", leadsAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:      "New calls assigned",
			Heading:    "New calls assigned",
			Subheading: "Your calling queue for " + data.AssignedDate,
		},
		ModeratorName: data.ModeratorName,
		AssignedDate:  data.AssignedDate,
		Reassigned:    data.Reassigned,
		Created:       data.Created,
		Total:         data.Total(),
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectLeadsAssignedFmt, data.Total(), data.AssignedDate), content, nil
}
