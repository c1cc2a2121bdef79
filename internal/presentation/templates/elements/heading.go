// Package templates provides heading element rendering
package templates

import (
	"bytes"
	"html/template"
	"log"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
)

var headingTmpl = template.Must(template.New("heading").Parse(
	`<h2 class="flow-heading {{.AlignClass}} {{.SizeClass}}">{{.Text}}</h2>`,
))

type headingData struct {
	AlignClass string
	SizeClass  string
	Text       string
}

// RenderHeading renders a heading component
func RenderHeading(content *flow.Content, settings *flow.Settings) string {
	data := headingData{
		AlignClass: AlignmentClass(settings, "center"),
		SizeClass:  sizeClass(settings, headingSizeClasses, "large"),
		Text:       strValue(content.Text),
	}

	var buf bytes.Buffer
	if err := headingTmpl.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to execute heading template: %v", err)
		return `<!-- template error -->`
	}
	return buf.String()
}
