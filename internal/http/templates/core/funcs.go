package core

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
)

// Deps holds dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers shared by every page.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"initials": Initials,
		"upper":    strings.ToUpper,
	}

	// renderSection is the layout's outlet: it executes the nested route's
	// content template against the same data the layout received.
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		if deps.ContentTemplateFor == nil {
			return "", errors.New("content template mapping not configured")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - output comes from our own html/template set and is already escaped.
		return template.HTML(buf.String()), nil
	}

	return funcs
}

// Initials returns up to two upper-case initials for an avatar badge.
func Initials(name string) string {
	var out []rune
	for _, field := range strings.Fields(name) {
		for _, r := range field {
			out = append(out, r)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}
