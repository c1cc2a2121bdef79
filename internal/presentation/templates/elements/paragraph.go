// Package templates provides paragraph element rendering
package templates

import (
	"bytes"
	"html/template"
	"log"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
)

var paragraphTmpl = template.Must(template.New("paragraph").Parse(
	`<p class="flow-paragraph {{.AlignClass}} {{.SizeClass}}">{{.Text}}</p>`,
))

type paragraphData struct {
	AlignClass string
	SizeClass  string
	Text       string
}

// RenderParagraph renders a paragraph component
func RenderParagraph(content *flow.Content, settings *flow.Settings) string {
	data := paragraphData{
		AlignClass: AlignmentClass(settings, "left"),
		SizeClass:  sizeClass(settings, paragraphSizeClasses, "medium"),
		Text:       strValue(content.Text),
	}

	var buf bytes.Buffer
	if err := paragraphTmpl.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to execute paragraph template: %v", err)
		return `<!-- template error -->`
	}
	return buf.String()
}
