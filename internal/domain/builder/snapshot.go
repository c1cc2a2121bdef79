package builder

import (
	"encoding/json"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
)

// Snapshot is the persisted subset of the store's state. The loading flag is
// transient and never serialized; the active tab always restores to builder.
type Snapshot struct {
	Screens           []*flow.Screen `json:"screens"`
	CurrentScreenID   string         `json:"currentScreenId"`
	SelectedComponent string         `json:"selectedComponentId,omitempty"`
	ActiveTab         Tab            `json:"activeTab"`
	BoundExperienceID string         `json:"currentExperienceId,omitempty"`
	Dirty             bool           `json:"isDirty"`
}

// Snapshot captures the persisted subset of the store's state. The screen
// tree is deep-copied so the snapshot can be marshalled or inspected while
// other operations keep mutating the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Screens:           flow.CloneScreens(s.screens),
		CurrentScreenID:   s.currentScreenID,
		SelectedComponent: s.selectedComponentID,
		ActiveTab:         s.activeTab,
		BoundExperienceID: s.boundExperienceID,
		Dirty:             s.dirty,
	}
}

// Restore rebuilds the store from a snapshot. A snapshot with no screens
// falls back to a single default screen, preserving the never-empty
// invariant. An unknown tab value restores to builder.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	screens := flow.CloneScreens(snap.Screens)
	if len(screens) == 0 {
		screens = []*flow.Screen{newScreen("Screen 1")}
	}
	s.screens = screens

	s.currentScreenID = snap.CurrentScreenID
	if s.currentScreenLocked() == nil {
		s.currentScreenID = screens[0].ID
	}

	s.selectedComponentID = snap.SelectedComponent
	s.activeTab = snap.ActiveTab
	if s.activeTab != TabBuilder && s.activeTab != TabPreview {
		s.activeTab = TabBuilder
	}
	s.boundExperienceID = snap.BoundExperienceID
	s.dirty = snap.Dirty
	s.loading = false
}

// MarshalState serializes the persisted subset as JSON.
func (s *Store) MarshalState() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// UnmarshalState restores the persisted subset from JSON.
func (s *Store) UnmarshalState(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	s.Restore(snap)
	return nil
}
