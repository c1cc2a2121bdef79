// Package templates provides video element rendering
package templates

import (
	"bytes"
	"html/template"
	"log"
)

var videoEmbedTmpl = template.Must(template.New("videoEmbed").Parse(
	`<div class="flow-video {{.AlignClass}}"><iframe src="{{.Src}}" frameborder="0" allow="accelerometer; {{if .Autoplay}}autoplay; {{end}}clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen></iframe></div>`,
))

var videoNativeTmpl = template.Must(template.New("videoNative").Parse(
	`<div class="flow-video {{.AlignClass}}"><video src="{{.Src}}" controls{{if .Autoplay}} autoplay muted{{end}} playsinline></video></div>`,
))

var videoErrorTmpl = template.Must(template.New("videoError").Parse(
	`<div class="flow-video-error {{.AlignClass}}">Invalid video URL</div>`,
))

type videoData struct {
	AlignClass string
	Src        string
	Autoplay   bool
}

type videoErrorData struct {
	AlignClass string
}

// RenderVideoEmbed renders an embedded video iframe. The src must already be
// a resolved embed URL.
func RenderVideoEmbed(src string, autoplay bool, alignClass string) string {
	data := videoData{AlignClass: alignClass, Src: src, Autoplay: autoplay}

	var buf bytes.Buffer
	if err := videoEmbedTmpl.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to execute video embed template: %v", err)
		return `<!-- template error -->`
	}
	return buf.String()
}

// RenderVideoNative renders an uploaded video file with a native player.
func RenderVideoNative(src string, autoplay bool, alignClass string) string {
	data := videoData{AlignClass: alignClass, Src: src, Autoplay: autoplay}

	var buf bytes.Buffer
	if err := videoNativeTmpl.Execute(&buf, data); err != nil {
		log.Printf("ERROR: Failed to execute native video template: %v", err)
		return `<!-- template error -->`
	}
	return buf.String()
}

// RenderVideoError renders the inline placeholder for an embed URL that
// could not be resolved to a playable source.
func RenderVideoError(alignClass string) string {
	var buf bytes.Buffer
	if err := videoErrorTmpl.Execute(&buf, videoErrorData{AlignClass: alignClass}); err != nil {
		log.Printf("ERROR: Failed to execute video error template: %v", err)
		return `<!-- template error -->`
	}
	return buf.String()
}
