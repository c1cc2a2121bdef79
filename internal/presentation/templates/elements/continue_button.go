// Package templates provides continue button element rendering
package templates

import (
	"bytes"
	"html/template"
	"log"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
)

var continueButtonTmpl = template.Must(template.New("continueButton").Parse(
	`<div class="flow-continue {{.AlignClass}}"><button type="button" class="flow-continue-button {{.SizeClass}}" data-action="advance">{{.Text}}</button></div>`,
))

type continueButtonData struct {
	AlignClass string
	SizeClass  string
	Text       string
}

// RenderContinueButton renders the screen-advance button
func RenderContinueButton(content *flow.Content, settings *flow.Settings) string {
	text := strValue(content.Text)
	if text == "" {
		text = "Continue"
	}

	data := continueButtonData{
		AlignClass: AlignmentClass(settings, "center"),
		SizeClass:  sizeClass(settings, paragraphSizeClasses, "medium"),
		Text:       text,
	}

	var buf bytes.Buffer
	if err := continueButtonTmpl.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to execute continue button template: %v", err)
		return `<!-- template error -->`
	}
	return buf.String()
}
