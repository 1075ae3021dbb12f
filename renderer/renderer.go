// Package renderer turns portfolio views into markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/points/date"
)

//go:embed templates/*.md
var embedded embed.FS

var templates = must(fs.Sub(embedded, "templates"))

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// funcs are available in all templates.
var funcs = template.FuncMap{
	"sub": func(a, b int) int { return a - b },
	"pct": func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	// orNever prints a date, or "Never" for the zero date.
	"orNever": func(d date.Date) string {
		if d.IsZero() {
			return "Never"
		}
		return d.String()
	},
	"days": func(from, to date.Date) int { return from.DaysUntil(to) },
}

// RenderDashboard renders the dashboard to a markdown string.
func RenderDashboard(d *Dashboard) string {
	partials := map[string]string{
		"dashboard_expiring":   "dashboard_expiring.md",
		"dashboard_allocation": "dashboard_allocation.md",
		"dashboard_highlights": "dashboard_highlights.md",
	}
	return renderTemplate("dashboard", "dashboard.md", partials, d)
}

// RenderPrograms renders a list of programs.
func RenderPrograms(l *ProgramList) string {
	return renderTemplate("programs", "programs.md", nil, l)
}

// RenderProgram renders the detail of one program.
func RenderProgram(p *ProgramDetail) string {
	return renderTemplate("program", "program.md", nil, p)
}

// RenderExpiring renders the expiration report.
func RenderExpiring(e *ExpiringReport) string {
	return renderTemplate("expiring", "expiring.md", nil, e)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
