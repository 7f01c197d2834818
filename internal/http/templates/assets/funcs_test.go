package assets

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncs(t *testing.T) {
	tmpl := template.Must(template.New("t").Funcs(Funcs(Options{
		CriticalCSS: func() string { return "body{margin:0}" },
	})).Parse(`<style>{{criticalCSS}}</style>`))

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, nil))
	assert.Equal(t, `<style>body{margin:0}</style>`, buf.String())
}

func TestFuncs_NoCriticalCSS(t *testing.T) {
	tmpl := template.Must(template.New("t").Funcs(Funcs(Options{})).Parse(`<style>{{criticalCSS}}</style>`))

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, nil))
	assert.Equal(t, `<style></style>`, buf.String())
}
