// Package renderer turns reference data into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var embedded embed.FS

// templates is rooted in the templates directory.
var templates = mustSub(embedded, "templates")

func mustSub(f fs.FS, dir string) fs.ReadDirFS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub.(fs.ReadDirFS)
}

var funcs = template.FuncMap{
	// rate prints a rate with all its significant digits.
	"rate": func(v float64) string { return decimal.NewFromFloat(v).String() },
}

// readTemplate returns the content of a template file, empty for an empty name.
func readTemplate(file string) (string, error) {
	if file == "" {
		return "", nil
	}
	content, err := fs.ReadFile(templates, file)
	if err != nil {
		return "", fmt.Errorf("reading template %q: %w", file, err)
	}
	return string(content), nil
}

// renderTemplate executes mainFile as templateName, after defining each partial name from its file.
// An empty partial file defines an empty template.
//
// Errors are rendered in place of the document, starting with "error ".
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	tmpl := template.New(templateName).Funcs(funcs)
	files := map[string]string{templateName: mainFile}
	for name, file := range partials {
		files[name] = file
	}
	for name, file := range files {
		content, err := readTemplate(file)
		if err != nil {
			return "error " + err.Error()
		}
		if _, err := tmpl.New(name).Parse(content); err != nil {
			return fmt.Sprintf("error parsing template %q as %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
