// Package templates provides link element rendering
package templates

import (
	"bytes"
	"html/template"
	"log"
	"regexp"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
)

var linkTmpl = template.Must(template.New("link").Parse(
	`<div class="flow-link {{.AlignClass}}"><a class="{{.SizeClass}}" href="{{.Href}}"{{if .Color}} style="color: {{.Color}}"{{end}} target="_blank" rel="noopener noreferrer">{{.Text}}</a></div>`,
))

// hexColorPattern allowlists link colors. Anything else is dropped so
// user-provided settings cannot inject style declarations.
var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

type linkData struct {
	AlignClass string
	SizeClass  string
	Href       string
	Color      template.CSS
	Text       string
}

// RenderLink renders a link component
func RenderLink(content *flow.Content, settings *flow.Settings) string {
	data := linkData{
		AlignClass: AlignmentClass(settings, "center"),
		SizeClass:  sizeClass(settings, paragraphSizeClasses, "medium"),
		Href:       strValue(content.LinkURL),
		Text:       strValue(content.ButtonText),
	}
	if data.Href == "" {
		data.Href = "#"
	}
	if settings != nil && settings.Color != nil && hexColorPattern.MatchString(*settings.Color) {
		data.Color = template.CSS(*settings.Color)
	}

	var buf bytes.Buffer
	if err := linkTmpl.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to execute link template: %v", err)
		return `<!-- template error -->`
	}
	return buf.String()
}
