// Package templates provides image and gif element rendering
package templates

import (
	"bytes"
	"html/template"
	"log"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
)

var imageTmpl = template.Must(template.New("image").Parse(
	`<div class="flow-image {{.AlignClass}}"><img src="{{.Src}}" class="{{.SizeClass}}" alt=""></div>`,
))

type imageData struct {
	AlignClass string
	SizeClass  string
	Src        string
}

// RenderImage renders an image component, or the empty-state placeholder
// when no image has been set.
func RenderImage(content *flow.Content, settings *flow.Settings) string {
	src := strValue(content.ImageURL)
	if src == "" {
		return RenderEmptyState("🖼", "Add an image", AlignmentClass(settings, "center"))
	}

	data := imageData{
		AlignClass: AlignmentClass(settings, "center"),
		SizeClass:  sizeClass(settings, mediaSizeClasses, "medium"),
		Src:        src,
	}

	var buf bytes.Buffer
	if err := imageTmpl.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to execute image template: %v", err)
		return `<!-- template error -->`
	}
	return buf.String()
}

// RenderGif renders a gif component. Gifs share the image markup but keep
// their own empty state.
func RenderGif(content *flow.Content, settings *flow.Settings) string {
	src := strValue(content.GifURL)
	if src == "" {
		return RenderEmptyState("🎞", "Add a GIF", AlignmentClass(settings, "center"))
	}

	data := imageData{
		AlignClass: AlignmentClass(settings, "center"),
		SizeClass:  sizeClass(settings, mediaSizeClasses, "medium"),
		Src:        src,
	}

	var buf bytes.Buffer
	if err := imageTmpl.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to execute gif template: %v", err)
		return `<!-- template error -->`
	}
	return buf.String()
}
