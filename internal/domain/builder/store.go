// Package builder holds the in-memory screen/component tree and session
// state behind named mutation operations. All mutations are synchronous and
// atomic with respect to the store's own state.
package builder

import (
	"errors"
	"fmt"
	"sync"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
	"github.com/journeykit/journeykit-go/internal/infrastructure/security"
)

// Tab identifies which surface the session is showing.
type Tab string

const (
	TabBuilder Tab = "builder"
	TabPreview Tab = "preview"
)

// ErrSaveInFlight is returned when a save or publish is attempted while
// another persistence call for the same store is still running.
var ErrSaveInFlight = errors.New("a save or publish is already in flight")

// Store is the single source of truth for one builder session. Precondition
// violations (deleting the last screen, touching an unknown component,
// out-of-range reorders) are uniform silent no-ops.
type Store struct {
	mu sync.Mutex

	screens             []*flow.Screen
	currentScreenID     string
	selectedComponentID string
	activeTab           Tab
	boundExperienceID   string
	dirty               bool
	loading             bool
}

// NewStore creates a store seeded with a single empty screen, selected, on
// the builder tab.
func NewStore() *Store {
	s := &Store{activeTab: TabBuilder}
	first := newScreen("Screen 1")
	s.screens = []*flow.Screen{first}
	s.currentScreenID = first.ID
	return s
}

func newScreen(name string) *flow.Screen {
	return &flow.Screen{
		ID:         security.GenerateULID(),
		Name:       name,
		Components: []*flow.Component{},
	}
}

// AddScreen appends a new screen named "Screen N", selects it and marks the
// store dirty. Returns a copy of the new screen.
func (s *Store) AddScreen() *flow.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()

	screen := newScreen(fmt.Sprintf("Screen %d", len(s.screens)+1))
	s.screens = append(s.screens, screen)
	s.currentScreenID = screen.ID
	s.selectedComponentID = ""
	s.dirty = true
	return screen.Clone()
}

// RenameScreen updates a screen's display name.
func (s *Store) RenameScreen(screenID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, screen := range s.screens {
		if screen.ID == screenID {
			screen.Name = name
			s.dirty = true
			return
		}
	}
}

// DeleteScreen removes a screen and its components. Deleting the last
// remaining screen is a no-op. If the deleted screen was selected, selection
// falls back to the first remaining screen.
func (s *Store) DeleteScreen(screenID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.screens) <= 1 {
		return
	}

	idx := -1
	for i, screen := range s.screens {
		if screen.ID == screenID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	s.screens = append(s.screens[:idx], s.screens[idx+1:]...)
	if s.currentScreenID == screenID {
		s.currentScreenID = s.screens[0].ID
	}
	s.selectedComponentID = ""
	s.dirty = true
}

// ReorderScreens moves a screen from one ordinal position to another via
// removal then insertion. Out-of-range indices no-op.
func (s *Store) ReorderScreens(fromIndex, toIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fromIndex < 0 || fromIndex >= len(s.screens) ||
		toIndex < 0 || toIndex >= len(s.screens) {
		return
	}

	moved := s.screens[fromIndex]
	s.screens = append(s.screens[:fromIndex], s.screens[fromIndex+1:]...)
	s.screens = append(s.screens[:toIndex], append([]*flow.Screen{moved}, s.screens[toIndex:]...)...)
	s.dirty = true
}

// AddComponent appends a component with type-specific defaults to the
// currently selected screen and selects it. No-op when no screen is selected
// or the type tag is unknown. Returns a copy of the new component.
func (s *Store) AddComponent(t flow.ComponentType) *flow.Component {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !t.IsValid() {
		return nil
	}
	screen := s.currentScreenLocked()
	if screen == nil {
		return nil
	}

	component := &flow.Component{
		ID:       security.GenerateULID(),
		Type:     t,
		Content:  flow.DefaultContent(t),
		Settings: flow.DefaultSettings(t),
	}
	screen.Components = append(screen.Components, component)
	s.selectedComponentID = component.ID
	s.dirty = true
	return component.Clone()
}

// ComponentPatch carries the optional partial payloads for UpdateComponent.
type ComponentPatch struct {
	Content  *flow.Content  `json:"content,omitempty"`
	Settings *flow.Settings `json:"settings,omitempty"`
}

// UpdateComponent shallow-merges the patch into the matching component,
// searched across all screens since component ids are globally unique.
// Unknown ids no-op.
func (s *Store) UpdateComponent(componentID string, patch ComponentPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, screen := range s.screens {
		for _, component := range screen.Components {
			if component.ID != componentID {
				continue
			}
			if patch.Content != nil {
				component.Content.Merge(*patch.Content)
			}
			if patch.Settings != nil {
				component.Settings.Merge(*patch.Settings)
			}
			s.dirty = true
			return
		}
	}
}

// DeleteComponent removes a component from its owning screen and clears the
// selection if it was selected.
func (s *Store) DeleteComponent(componentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, screen := range s.screens {
		for i, component := range screen.Components {
			if component.ID != componentID {
				continue
			}
			screen.Components = append(screen.Components[:i], screen.Components[i+1:]...)
			if s.selectedComponentID == componentID {
				s.selectedComponentID = ""
			}
			s.dirty = true
			return
		}
	}
}

// ReorderComponents reorders within the currently selected screen only.
// Out-of-range indices or no selected screen no-op.
func (s *Store) ReorderComponents(fromIndex, toIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	screen := s.currentScreenLocked()
	if screen == nil {
		return
	}
	if fromIndex < 0 || fromIndex >= len(screen.Components) ||
		toIndex < 0 || toIndex >= len(screen.Components) {
		return
	}

	moved := screen.Components[fromIndex]
	screen.Components = append(screen.Components[:fromIndex], screen.Components[fromIndex+1:]...)
	screen.Components = append(screen.Components[:toIndex], append([]*flow.Component{moved}, screen.Components[toIndex:]...)...)
	s.dirty = true
}

// SelectScreen changes the screen cursor and clears component selection.
// Pure selection change, no dirty flag.
func (s *Store) SelectScreen(screenID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, screen := range s.screens {
		if screen.ID == screenID {
			s.currentScreenID = screenID
			s.selectedComponentID = ""
			return
		}
	}
}

// SelectComponent changes the component selection pointer. Empty string
// clears it.
func (s *Store) SelectComponent(componentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedComponentID = componentID
}

// SetActiveTab switches surfaces. Switching to preview always resets the
// screen cursor to the first screen and clears component selection;
// switching back to builder leaves the screen selection untouched.
func (s *Store) SetActiveTab(tab Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tab != TabBuilder && tab != TabPreview {
		return
	}
	if tab == TabPreview && len(s.screens) > 0 {
		s.currentScreenID = s.screens[0].ID
	}
	s.selectedComponentID = ""
	s.activeTab = tab
}

// CurrentScreen returns a copy of the currently selected screen, or nil.
func (s *Store) CurrentScreen() *flow.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentScreenLocked().Clone()
}

func (s *Store) currentScreenLocked() *flow.Screen {
	for _, screen := range s.screens {
		if screen.ID == s.currentScreenID {
			return screen
		}
	}
	return nil
}

// SelectedComponent returns a copy of the currently selected component, or
// nil.
func (s *Store) SelectedComponent() *flow.Component {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedComponentID == "" {
		return nil
	}
	for _, screen := range s.screens {
		for _, component := range screen.Components {
			if component.ID == s.selectedComponentID {
				return component.Clone()
			}
		}
	}
	return nil
}

// ActiveTab returns the current surface.
func (s *Store) ActiveTab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTab
}

// IsDirty reports whether any local mutation happened since the last
// successful save.
func (s *Store) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// IsLoading reports whether a persistence call is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// BoundExperienceID returns the bound experience identifier, empty until the
// first save or load.
func (s *Store) BoundExperienceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundExperienceID
}

// BeginPersist marks a persistence call in flight. A second call before
// EndPersist fails with ErrSaveInFlight so two full-replace writes can never
// interleave.
func (s *Store) BeginPersist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return ErrSaveInFlight
	}
	s.loading = true
	return nil
}

// EndPersist clears the loading flag. On success it also binds the saved
// experience id and clears the dirty flag; on failure the tree and dirty
// flag stay untouched.
func (s *Store) EndPersist(experienceID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	if ok {
		if experienceID != "" {
			s.boundExperienceID = experienceID
		}
		s.dirty = false
	}
}

// HydrateFromExperience replaces the tree from a loaded experience. An
// experience with zero screens falls back to a single empty default screen,
// so the store never holds an empty screen list. Resets dirty, binds the
// experience id and selects the first screen. The experience's screens are
// copied, so the caller's tree never aliases the store's.
func (s *Store) HydrateFromExperience(exp *flow.Experience) {
	s.mu.Lock()
	defer s.mu.Unlock()

	screens := flow.CloneScreens(exp.Screens)
	if len(screens) == 0 {
		screens = []*flow.Screen{newScreen("Screen 1")}
	}

	s.screens = screens
	s.currentScreenID = screens[0].ID
	s.selectedComponentID = ""
	s.boundExperienceID = exp.ID
	s.dirty = false
}

// Screens returns a deep copy of the screen list. No live pointer into the
// tree ever leaves the lock; all mutation goes through the named operations.
func (s *Store) Screens() []*flow.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return flow.CloneScreens(s.screens)
}
