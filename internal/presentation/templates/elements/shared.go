// Package templates provides element rendering for flow components
package templates

import (
	"bytes"
	"html/template"
	"log"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
)

// alignmentClasses maps a component alignment setting to its layout class.
var alignmentClasses = map[string]string{
	"left":   "text-left",
	"center": "text-center",
	"right":  "text-right",
}

var headingSizeClasses = map[string]string{
	"small":  "text-2xl",
	"medium": "text-3xl",
	"large":  "text-4xl",
}

var paragraphSizeClasses = map[string]string{
	"small":  "text-sm",
	"medium": "text-base",
	"large":  "text-lg",
}

var mediaSizeClasses = map[string]string{
	"small":  "max-w-xs",
	"medium": "max-w-md",
	"large":  "max-w-full",
}

// AlignmentClass resolves the alignment class for a component, falling back
// to the given default when the setting is unset or unknown.
func AlignmentClass(settings *flow.Settings, fallback string) string {
	if settings != nil && settings.Alignment != nil {
		if class, ok := alignmentClasses[*settings.Alignment]; ok {
			return class
		}
	}
	return alignmentClasses[fallback]
}

func sizeClass(settings *flow.Settings, classes map[string]string, fallback string) string {
	if settings != nil && settings.Size != nil {
		if class, ok := classes[*settings.Size]; ok {
			return class
		}
	}
	return classes[fallback]
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var emptyStateTmpl = template.Must(template.New("emptyState").Parse(
	`<div class="component-empty-state {{.AlignClass}}"><span class="component-empty-icon">{{.Icon}}</span><span class="component-empty-caption">{{.Caption}}</span></div>`,
))

type emptyStateData struct {
	AlignClass string
	Icon       string
	Caption    string
}

// RenderEmptyState renders the placeholder shown for media components whose
// source URL has not been set yet.
func RenderEmptyState(icon, caption, alignClass string) string {
	data := emptyStateData{
		AlignClass: alignClass,
		Icon:       icon,
		Caption:    caption,
	}

	var buf bytes.Buffer
	if err := emptyStateTmpl.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to execute empty state template: %v", err)
		return `<!-- template error -->`
	}
	return buf.String()
}
