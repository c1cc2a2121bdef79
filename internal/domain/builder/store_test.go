package builder

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
)

func strPtr(s string) *string { return &s }

func TestNewStoreSeedsSingleScreen(t *testing.T) {
	store := NewStore()

	screens := store.Screens()
	require.Len(t, screens, 1)
	assert.Equal(t, "Screen 1", screens[0].Name)
	assert.Equal(t, screens[0].ID, store.CurrentScreen().ID)
	assert.Equal(t, TabBuilder, store.ActiveTab())
	assert.False(t, store.IsDirty())
}

func TestAddScreenAppendsAndSelects(t *testing.T) {
	store := NewStore()

	added := store.AddScreen()

	screens := store.Screens()
	require.Len(t, screens, 2)
	assert.Equal(t, added.ID, screens[1].ID)
	assert.Equal(t, "Screen 2", added.Name)
	assert.Equal(t, added.ID, store.CurrentScreen().ID)
	assert.True(t, store.IsDirty())
}

func TestDeleteLastScreenIsNoOp(t *testing.T) {
	store := NewStore()
	only := store.Screens()[0]

	store.DeleteScreen(only.ID)

	require.Len(t, store.Screens(), 1)
	assert.Equal(t, only.ID, store.Screens()[0].ID)
	assert.False(t, store.IsDirty())
}

func TestDeleteSelectedScreenFallsBackToFirst(t *testing.T) {
	store := NewStore()
	first := store.Screens()[0]
	second := store.AddScreen()

	store.DeleteScreen(second.ID)

	require.Len(t, store.Screens(), 1)
	assert.Equal(t, first.ID, store.CurrentScreen().ID)
}

func TestReorderScreensIsInvertible(t *testing.T) {
	store := NewStore()
	store.AddScreen()
	store.AddScreen()

	original := make([]string, 0, 3)
	for _, screen := range store.Screens() {
		original = append(original, screen.ID)
	}

	store.ReorderScreens(0, 2)
	store.ReorderScreens(2, 0)

	restored := make([]string, 0, 3)
	for _, screen := range store.Screens() {
		restored = append(restored, screen.ID)
	}
	assert.Equal(t, original, restored)
}

func TestReorderScreensOutOfRangeIsNoOp(t *testing.T) {
	store := NewStore()
	store.AddScreen()
	before := store.Screens()[0].ID

	store.ReorderScreens(-1, 1)
	store.ReorderScreens(0, 5)

	assert.Equal(t, before, store.Screens()[0].ID)
}

func TestAddComponentUsesTypeDefaultsAndSelects(t *testing.T) {
	store := NewStore()

	component := store.AddComponent(flow.TypeHeading)

	require.NotNil(t, component)
	require.NotNil(t, component.Content.Text)
	assert.Equal(t, "New Heading", *component.Content.Text)
	require.NotNil(t, component.Settings.Alignment)
	assert.Equal(t, "center", *component.Settings.Alignment)

	selected := store.SelectedComponent()
	require.NotNil(t, selected)
	assert.Equal(t, component.ID, selected.ID)
	assert.True(t, store.IsDirty())
}

func TestAddComponentUnknownTypeIsNoOp(t *testing.T) {
	store := NewStore()

	component := store.AddComponent(flow.ComponentType("carousel"))

	assert.Nil(t, component)
	assert.Empty(t, store.CurrentScreen().Components)
	assert.False(t, store.IsDirty())
}

func TestUpdateComponentMergesInsteadOfReplacing(t *testing.T) {
	store := NewStore()
	component := store.AddComponent(flow.TypeHeading)
	require.NotNil(t, component)

	store.UpdateComponent(component.ID, ComponentPatch{
		Content: &flow.Content{Text: strPtr("Welcome")},
	})

	updated := store.SelectedComponent()
	require.NotNil(t, updated)
	require.NotNil(t, updated.Content.Text)
	assert.Equal(t, "Welcome", *updated.Content.Text)
	// untouched fields survive the patch
	require.NotNil(t, updated.Settings.Alignment)
	assert.Equal(t, "center", *updated.Settings.Alignment)
	require.NotNil(t, updated.Settings.Size)
	assert.Equal(t, "large", *updated.Settings.Size)
}

func TestUpdateComponentUnknownIDIsNoOp(t *testing.T) {
	store := NewStore()
	store.AddComponent(flow.TypeParagraph)

	dirtyBefore := store.IsDirty()
	store.UpdateComponent("missing", ComponentPatch{
		Content: &flow.Content{Text: strPtr("ignored")},
	})

	assert.Equal(t, dirtyBefore, store.IsDirty())
	require.NotNil(t, store.SelectedComponent().Content.Text)
	assert.Equal(t, "New paragraph text...", *store.SelectedComponent().Content.Text)
}

func TestVideoSourcesAreMutuallyExclusive(t *testing.T) {
	store := NewStore()
	component := store.AddComponent(flow.TypeVideo)
	require.NotNil(t, component)

	store.UpdateComponent(component.ID, ComponentPatch{
		Content: &flow.Content{VideoURL: strPtr("/media/uploads/clip.mp4")},
	})
	store.UpdateComponent(component.ID, ComponentPatch{
		Content: &flow.Content{VideoEmbedURL: strPtr("https://www.youtube.com/embed/abc123")},
	})

	updated := store.SelectedComponent()
	require.NotNil(t, updated)
	require.NotNil(t, updated.Content.VideoEmbedURL)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", *updated.Content.VideoEmbedURL)
	assert.Nil(t, updated.Content.VideoURL)
}

func TestDeleteComponentClearsSelection(t *testing.T) {
	store := NewStore()
	component := store.AddComponent(flow.TypeImage)
	require.NotNil(t, component)

	store.DeleteComponent(component.ID)

	assert.Nil(t, store.SelectedComponent())
	assert.Empty(t, store.CurrentScreen().Components)
}

func TestReorderComponentsWithinCurrentScreen(t *testing.T) {
	store := NewStore()
	first := store.AddComponent(flow.TypeHeading)
	second := store.AddComponent(flow.TypeParagraph)

	store.ReorderComponents(0, 1)

	components := store.CurrentScreen().Components
	require.Len(t, components, 2)
	assert.Equal(t, second.ID, components[0].ID)
	assert.Equal(t, first.ID, components[1].ID)
}

func TestPreviewTabResetsCursorAndSelection(t *testing.T) {
	store := NewStore()
	first := store.Screens()[0]
	store.AddScreen()
	store.AddComponent(flow.TypeHeading)

	store.SetActiveTab(TabPreview)

	assert.Equal(t, TabPreview, store.ActiveTab())
	assert.Equal(t, first.ID, store.CurrentScreen().ID)
	assert.Nil(t, store.SelectedComponent())
}

func TestSelectionChangesDoNotDirty(t *testing.T) {
	store := NewStore()
	second := store.AddScreen()
	component := store.AddComponent(flow.TypeHeading)
	store.EndPersist("exp-1", true) // clear dirty

	store.SelectScreen(second.ID)
	store.SelectComponent(component.ID)
	store.SetActiveTab(TabPreview)

	assert.False(t, store.IsDirty())
}

func TestHydrateNeverLeavesZeroScreens(t *testing.T) {
	store := NewStore()

	store.HydrateFromExperience(&flow.Experience{ID: "exp-empty"})

	screens := store.Screens()
	require.Len(t, screens, 1)
	assert.Equal(t, "Screen 1", screens[0].Name)
	assert.Equal(t, "exp-empty", store.BoundExperienceID())
	assert.False(t, store.IsDirty())
}

func TestHydrateSelectsFirstScreen(t *testing.T) {
	store := NewStore()
	store.AddComponent(flow.TypeHeading)

	exp := &flow.Experience{
		ID: "exp-1",
		Screens: []*flow.Screen{
			{ID: "s1", Name: "Intro", Components: []*flow.Component{}},
			{ID: "s2", Name: "Details", Components: []*flow.Component{}},
		},
	}
	store.HydrateFromExperience(exp)

	assert.Equal(t, "s1", store.CurrentScreen().ID)
	assert.Nil(t, store.SelectedComponent())
	assert.Equal(t, "exp-1", store.BoundExperienceID())
}

func TestConcurrentPersistIsRejected(t *testing.T) {
	store := NewStore()

	require.NoError(t, store.BeginPersist())
	assert.ErrorIs(t, store.BeginPersist(), ErrSaveInFlight)

	store.EndPersist("exp-1", true)
	assert.NoError(t, store.BeginPersist())
	store.EndPersist("", false)
}

func TestFailedPersistKeepsDirtyAndBinding(t *testing.T) {
	store := NewStore()
	store.AddComponent(flow.TypeHeading)
	require.True(t, store.IsDirty())

	require.NoError(t, store.BeginPersist())
	store.EndPersist("", false)

	assert.True(t, store.IsDirty())
	assert.Empty(t, store.BoundExperienceID())
	assert.False(t, store.IsLoading())
}

func TestSnapshotIsDetachedFromLiveTree(t *testing.T) {
	store := NewStore()
	component := store.AddComponent(flow.TypeHeading)
	require.NotNil(t, component)

	snap := store.Snapshot()
	store.UpdateComponent(component.ID, ComponentPatch{
		Content: &flow.Content{Text: strPtr("Mutated after snapshot")},
	})
	store.AddScreen()

	require.Len(t, snap.Screens, 1)
	require.Len(t, snap.Screens[0].Components, 1)
	require.NotNil(t, snap.Screens[0].Components[0].Content.Text)
	assert.Equal(t, "New Heading", *snap.Screens[0].Components[0].Content.Text)
}

func TestScreensReturnsDetachedCopies(t *testing.T) {
	store := NewStore()
	component := store.AddComponent(flow.TypeParagraph)
	require.NotNil(t, component)

	screens := store.Screens()
	require.Len(t, screens, 1)
	require.Len(t, screens[0].Components, 1)

	// writing through the returned tree must not touch the store
	screens[0].Name = "Scribbled"
	*screens[0].Components[0].Content.Text = "Scribbled"
	screens[0].Components = nil

	assert.Equal(t, "Screen 1", store.CurrentScreen().Name)
	require.Len(t, store.CurrentScreen().Components, 1)
	assert.Equal(t, "New paragraph text...", *store.SelectedComponent().Content.Text)
}

func TestConcurrentMutationAndSnapshotMarshal(t *testing.T) {
	store := NewStore()
	component := store.AddComponent(flow.TypeHeading)
	require.NotNil(t, component)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			store.UpdateComponent(component.ID, ComponentPatch{
				Content: &flow.Content{Text: strPtr("Iteration")},
			})
			store.AddComponent(flow.TypeParagraph)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, err := json.Marshal(store.Snapshot()); err != nil {
				t.Errorf("snapshot marshal failed: %v", err)
				return
			}
		}
	}()
	wg.Wait()
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := NewStore()
	store.AddScreen()
	store.AddComponent(flow.TypeLink)

	data, err := store.MarshalState()
	require.NoError(t, err)

	restored := NewStore()
	require.NoError(t, restored.UnmarshalState(data))

	assert.Equal(t, len(store.Screens()), len(restored.Screens()))
	assert.Equal(t, store.CurrentScreen().ID, restored.CurrentScreen().ID)
	assert.Equal(t, store.ActiveTab(), restored.ActiveTab())
	assert.Equal(t, store.IsDirty(), restored.IsDirty())
}
