package services

import (
	"fmt"
	"html/template"
	"places-autocomplete/internal/autocomplete"
	"places-autocomplete/internal/domain"
	"strings"
)

// TemplateRenderer builds a suggestion renderer from an html/template body
// executed against domain.Place, e.g. "<h5>{{.PlaceName}}</h5>". Output is
// HTML-escaped so it can be inserted into the preview page as markup.
func TemplateRenderer(body string) (autocomplete.RenderFunc, error) {
	tmpl, err := template.New("suggestion").Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse suggestion template: %w", err)
	}

	return func(place domain.Place) string {
		var b strings.Builder
		if err := tmpl.Execute(&b, place); err != nil {
			return template.HTMLEscapeString(place.PlaceName)
		}
		return b.String()
	}, nil
}
