package flow

// ComponentType tags a component with its content block kind. Which content
// and settings fields are meaningful depends on this tag.
type ComponentType string

const (
	TypeHeading        ComponentType = "heading"
	TypeParagraph      ComponentType = "paragraph"
	TypeImage          ComponentType = "image"
	TypeVideo          ComponentType = "video"
	TypeGif            ComponentType = "gif"
	TypeLink           ComponentType = "link"
	TypeContinueButton ComponentType = "continueButton"
)

// KnownComponentTypes returns every valid component type tag.
func KnownComponentTypes() []ComponentType {
	return []ComponentType{
		TypeHeading, TypeParagraph, TypeImage, TypeVideo,
		TypeGif, TypeLink, TypeContinueButton,
	}
}

// IsValid reports whether the tag is one of the known component types.
func (t ComponentType) IsValid() bool {
	switch t {
	case TypeHeading, TypeParagraph, TypeImage, TypeVideo,
		TypeGif, TypeLink, TypeContinueButton:
		return true
	}
	return false
}

// Content is the type-dependent content payload of a component. Fields not
// applicable to the component's type stay nil.
type Content struct {
	Text          *string `json:"text,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
	VideoURL      *string `json:"videoUrl,omitempty"`
	VideoEmbedURL *string `json:"videoEmbedUrl,omitempty"`
	GifURL        *string `json:"gifUrl,omitempty"`
	ButtonText    *string `json:"buttonText,omitempty"`
	LinkURL       *string `json:"linkUrl,omitempty"`
}

// Settings is the type-dependent display settings payload of a component.
type Settings struct {
	Alignment *string `json:"alignment,omitempty"`
	Autoplay  *bool   `json:"autoplay,omitempty"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a deep copy of the content payload.
func (c Content) Clone() Content {
	return Content{
		Text:          clonePtr(c.Text),
		ImageURL:      clonePtr(c.ImageURL),
		VideoURL:      clonePtr(c.VideoURL),
		VideoEmbedURL: clonePtr(c.VideoEmbedURL),
		GifURL:        clonePtr(c.GifURL),
		ButtonText:    clonePtr(c.ButtonText),
		LinkURL:       clonePtr(c.LinkURL),
	}
}

// Clone returns a deep copy of the settings payload.
func (s Settings) Clone() Settings {
	return Settings{
		Alignment: clonePtr(s.Alignment),
		Autoplay:  clonePtr(s.Autoplay),
		Size:      clonePtr(s.Size),
		Color:     clonePtr(s.Color),
	}
}

// Merge shallow-merges the patch into c: only fields set on the patch
// overwrite. VideoURL and VideoEmbedURL are mutually exclusive, so setting
// one clears the other. Patch pointers are copied, never aliased into c.
func (c *Content) Merge(patch Content) {
	if patch.Text != nil {
		c.Text = clonePtr(patch.Text)
	}
	if patch.ImageURL != nil {
		c.ImageURL = clonePtr(patch.ImageURL)
	}
	if patch.VideoURL != nil {
		c.VideoURL = clonePtr(patch.VideoURL)
		c.VideoEmbedURL = nil
	}
	if patch.VideoEmbedURL != nil {
		c.VideoEmbedURL = clonePtr(patch.VideoEmbedURL)
		c.VideoURL = nil
	}
	if patch.GifURL != nil {
		c.GifURL = clonePtr(patch.GifURL)
	}
	if patch.ButtonText != nil {
		c.ButtonText = clonePtr(patch.ButtonText)
	}
	if patch.LinkURL != nil {
		c.LinkURL = clonePtr(patch.LinkURL)
	}
}

// Merge shallow-merges the patch into s: only fields set on the patch
// overwrite. Patch pointers are copied, never aliased into s.
func (s *Settings) Merge(patch Settings) {
	if patch.Alignment != nil {
		s.Alignment = clonePtr(patch.Alignment)
	}
	if patch.Autoplay != nil {
		s.Autoplay = clonePtr(patch.Autoplay)
	}
	if patch.Size != nil {
		s.Size = clonePtr(patch.Size)
	}
	if patch.Color != nil {
		s.Color = clonePtr(patch.Color)
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// DefaultContent returns the initial content payload for a freshly added
// component of the given type.
func DefaultContent(t ComponentType) Content {
	switch t {
	case TypeHeading:
		return Content{Text: strPtr("New Heading")}
	case TypeParagraph:
		return Content{Text: strPtr("New paragraph text...")}
	case TypeImage:
		return Content{ImageURL: strPtr("")}
	case TypeVideo:
		return Content{VideoURL: strPtr(""), VideoEmbedURL: strPtr("")}
	case TypeGif:
		return Content{GifURL: strPtr("")}
	case TypeLink:
		return Content{ButtonText: strPtr("Click Here"), LinkURL: strPtr("")}
	case TypeContinueButton:
		return Content{Text: strPtr("Continue")}
	}
	return Content{}
}

// DefaultSettings returns the initial settings payload for a freshly added
// component of the given type.
func DefaultSettings(t ComponentType) Settings {
	switch t {
	case TypeHeading:
		return Settings{Alignment: strPtr("center"), Size: strPtr("large")}
	case TypeParagraph:
		return Settings{Alignment: strPtr("left"), Size: strPtr("medium")}
	case TypeImage:
		return Settings{Alignment: strPtr("center"), Size: strPtr("medium")}
	case TypeVideo:
		return Settings{Alignment: strPtr("center"), Autoplay: boolPtr(false)}
	case TypeGif:
		return Settings{Alignment: strPtr("center"), Size: strPtr("medium")}
	case TypeLink:
		return Settings{Alignment: strPtr("center"), Color: strPtr("#4a7fff")}
	case TypeContinueButton:
		return Settings{Alignment: strPtr("center"), Size: strPtr("medium")}
	}
	return Settings{}
}
