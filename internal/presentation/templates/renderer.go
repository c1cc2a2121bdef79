// Package templates provides component rendering for onboarding flows
package templates

import (
	"html/template"
	"log"
	"strings"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"

	elements "github.com/journeykit/journeykit-go/internal/presentation/templates/elements"
)

// RenderMode selects between the builder canvas markup and the bare preview
// markup.
type RenderMode string

const (
	// ModeEditable wraps each component in a selection and drag affordance
	// for the builder canvas.
	ModeEditable RenderMode = "editable"
	// ModeReadOnly renders bare content for preview and published views.
	ModeReadOnly RenderMode = "readonly"
)

var editableWrapperTmpl = template.Must(template.New("editableWrapper").Parse(
	`{{define "open"}}<div class="canvas-component" data-component-id="{{.ID}}" data-component-type="{{.Type}}" draggable="true"><span class="canvas-drag-handle" aria-hidden="true">⠿</span>{{end}}` +
		`{{define "close"}}</div>{{end}}`,
))

var screenSectionTmpl = template.Must(template.New("screenSection").Parse(
	`{{define "open"}}<section class="flow-screen" data-screen-id="{{.ID}}" data-screen-name="{{.Name}}">{{end}}` +
		`{{define "close"}}</section>{{end}}`,
))

type editableWrapperData struct {
	ID   string
	Type flow.ComponentType
}

type screenSectionData struct {
	ID   string
	Name string
}

// RenderComponent renders a single component. Unknown component types render
// as an empty string rather than an error so a stale document never breaks a
// whole screen.
func RenderComponent(component *flow.Component, mode RenderMode) string {
	if component == nil {
		return ""
	}

	inner := renderByType(component)
	if inner == "" {
		return ""
	}

	if mode != ModeEditable {
		return inner
	}

	var html strings.Builder
	data := editableWrapperData{ID: component.ID, Type: component.Type}
	if err := editableWrapperTmpl.ExecuteTemplate(&html, "open", data); err != nil {
		log.Printf("ERROR: Failed to execute editable wrapper template: %v", err)
		return inner
	}
	html.WriteString(inner)
	if err := editableWrapperTmpl.ExecuteTemplate(&html, "close", nil); err != nil {
		log.Printf("ERROR: Failed to execute editable wrapper template: %v", err)
	}
	return html.String()
}

func renderByType(component *flow.Component) string {
	content := &component.Content
	settings := &component.Settings

	switch component.Type {
	case flow.TypeHeading:
		return elements.RenderHeading(content, settings)
	case flow.TypeParagraph:
		return elements.RenderParagraph(content, settings)
	case flow.TypeImage:
		return elements.RenderImage(content, settings)
	case flow.TypeVideo:
		return renderVideo(content, settings)
	case flow.TypeGif:
		return elements.RenderGif(content, settings)
	case flow.TypeLink:
		return elements.RenderLink(content, settings)
	case flow.TypeContinueButton:
		return elements.RenderContinueButton(content, settings)
	default:
		return ""
	}
}

// renderVideo resolves the component's source before delegating: an embed
// URL wins over an uploaded file, a malformed embed renders the inline
// placeholder, and neither set renders the empty state.
func renderVideo(content *flow.Content, settings *flow.Settings) string {
	alignClass := elements.AlignmentClass(settings, "center")
	autoplay := settings.Autoplay != nil && *settings.Autoplay

	if content.VideoEmbedURL != nil && *content.VideoEmbedURL != "" {
		src, err := NormalizeEmbedURL(*content.VideoEmbedURL)
		if err != nil {
			return elements.RenderVideoError(alignClass)
		}
		return elements.RenderVideoEmbed(src, autoplay, alignClass)
	}

	if content.VideoURL != nil && *content.VideoURL != "" {
		return elements.RenderVideoNative(*content.VideoURL, autoplay, alignClass)
	}

	return elements.RenderEmptyState("🎬", "Add a video", alignClass)
}

// RenderScreen renders a screen's components inside a section wrapper.
func RenderScreen(screen *flow.Screen, mode RenderMode) string {
	if screen == nil {
		return ""
	}

	var html strings.Builder
	data := screenSectionData{ID: screen.ID, Name: screen.Name}
	if err := screenSectionTmpl.ExecuteTemplate(&html, "open", data); err != nil {
		log.Printf("ERROR: Failed to execute screen section template: %v", err)
		return ""
	}
	for _, component := range screen.Components {
		html.WriteString(RenderComponent(component, mode))
	}
	if err := screenSectionTmpl.ExecuteTemplate(&html, "close", nil); err != nil {
		log.Printf("ERROR: Failed to execute screen section template: %v", err)
	}
	return html.String()
}

// RenderExperience renders every screen of an experience in order.
func RenderExperience(experience *flow.Experience, mode RenderMode) string {
	if experience == nil {
		return ""
	}

	var html strings.Builder
	for _, screen := range experience.Screens {
		html.WriteString(RenderScreen(screen, mode))
	}
	return html.String()
}
