package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// ParseTemplates parses the embedded page and partial templates. Each
// template is named after its file.
func ParseTemplates() (*template.Template, error) {
	// Custom template functions
	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) map[string]interface{} {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
		"inc": func(i int) int {
			return i + 1
		},
	}

	tmpl := template.New("").Funcs(funcMap)

	// Parse all templates
	patterns := []string{
		"templates/*.html",
		"templates/partials/*.html",
	}

	for _, pattern := range patterns {
		matches, err := fs.Glob(templatesFS, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			content, err := templatesFS.ReadFile(match)
			if err != nil {
				return nil, fmt.Errorf("failed to read template %s: %w", match, err)
			}

			name := path.Base(match)
			_, err = tmpl.New(name).Parse(string(content))
			if err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
			}
		}
	}

	return tmpl, nil
}

// staticHandler serves the embedded stylesheet and scripts.
func staticHandler() http.Handler {
	staticSub, _ := fs.Sub(staticFS, "static")
	return http.FileServer(http.FS(staticSub))
}
