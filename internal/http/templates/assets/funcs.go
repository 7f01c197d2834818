package assets

import (
	"html/template"
)

// Options configures asset-related template helpers.
type Options struct {
	CriticalCSS func() string
}

// Funcs returns the template helper that inlines critical CSS.
func Funcs(opts Options) template.FuncMap {
	return template.FuncMap{
		"criticalCSS": func() template.CSS {
			if opts.CriticalCSS == nil {
				return ""
			}
			// #nosec G203 - critical CSS is read from our own static bundle.
			return template.CSS(opts.CriticalCSS())
		},
	}
}
