// Package flow defines the application's core onboarding-flow domain entities.
package flow

import "time"

// Experience is the top-level published/editable onboarding flow owned by an
// organization. Screens are ordered by their position in the slice.
type Experience struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	IsPublished bool       `json:"isPublished"`
	CompanyID   string     `json:"companyId"`
	CreatedBy   string     `json:"createdBy"`
	Screens     []*Screen  `json:"screens"`
	Created     time.Time  `json:"created"`
	Changed     *time.Time `json:"changed,omitempty"`
}

// Screen is one ordered step of an Experience. Position within the owning
// experience is the slice index; the persisted order_index is reassigned
// densely from it on every save.
type Screen struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Components []*Component `json:"components"`
}

// Component is a typed content block owned by exactly one Screen.
type Component struct {
	ID       string        `json:"id"`
	Type     ComponentType `json:"type"`
	Content  Content       `json:"content"`
	Settings Settings      `json:"settings"`
}

// Clone returns a deep copy of the component.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	return &Component{
		ID:       c.ID,
		Type:     c.Type,
		Content:  c.Content.Clone(),
		Settings: c.Settings.Clone(),
	}
}

// Clone returns a deep copy of the screen and its components.
func (s *Screen) Clone() *Screen {
	if s == nil {
		return nil
	}
	components := make([]*Component, len(s.Components))
	for i, component := range s.Components {
		components[i] = component.Clone()
	}
	return &Screen{ID: s.ID, Name: s.Name, Components: components}
}

// CloneScreens deep-copies a screen list.
func CloneScreens(screens []*Screen) []*Screen {
	if screens == nil {
		return nil
	}
	out := make([]*Screen, len(screens))
	for i, screen := range screens {
		out[i] = screen.Clone()
	}
	return out
}
