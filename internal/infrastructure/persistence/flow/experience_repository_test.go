package flow

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
	infradb "github.com/journeykit/journeykit-go/internal/infrastructure/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, infradb.NewTableCreator().CreateSchema(db))
	return db
}

func strPtr(s string) *string { return &s }

func sampleExperience(id string) *flow.Experience {
	return &flow.Experience{
		ID:        id,
		Name:      "Welcome Flow",
		CompanyID: "biz_1",
		CreatedBy: "user_1",
		Created:   time.Now().UTC(),
		Screens: []*flow.Screen{
			{
				ID:   id + "-s1",
				Name: "Intro",
				Components: []*flow.Component{
					{
						ID:       id + "-c1",
						Type:     flow.TypeHeading,
						Content:  flow.Content{Text: strPtr("Hello")},
						Settings: flow.Settings{Alignment: strPtr("center"), Size: strPtr("large")},
					},
					{
						ID:       id + "-c2",
						Type:     flow.TypeContinueButton,
						Content:  flow.Content{Text: strPtr("Continue")},
						Settings: flow.Settings{Alignment: strPtr("center"), Size: strPtr("medium")},
					},
				},
			},
			{
				ID:         id + "-s2",
				Name:       "Details",
				Components: []*flow.Component{},
			},
		},
	}
}

func TestCreateAndFindRoundTrip(t *testing.T) {
	repo := NewExperienceRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleExperience("exp1")))

	got, err := repo.FindByID(ctx, "exp1", "biz_1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Welcome Flow", got.Name)
	assert.False(t, got.IsPublished)
	require.Len(t, got.Screens, 2)
	assert.Equal(t, "Intro", got.Screens[0].Name)
	assert.Equal(t, "Details", got.Screens[1].Name)

	components := got.Screens[0].Components
	require.Len(t, components, 2)
	assert.Equal(t, flow.TypeHeading, components[0].Type)
	require.NotNil(t, components[0].Content.Text)
	assert.Equal(t, "Hello", *components[0].Content.Text)
	require.NotNil(t, components[0].Settings.Size)
	assert.Equal(t, "large", *components[0].Settings.Size)
	assert.Equal(t, flow.TypeContinueButton, components[1].Type)
}

func TestFindByIDMissingReturnsNil(t *testing.T) {
	repo := NewExperienceRepository(newTestDB(t))

	got, err := repo.FindByID(context.Background(), "missing", "biz_1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindByIDWrongCompanyReturnsNil(t *testing.T) {
	repo := NewExperienceRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleExperience("exp1")))

	got, err := repo.FindByID(ctx, "exp1", "biz_other")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateReplacesScreenTreeWholesale(t *testing.T) {
	repo := NewExperienceRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleExperience("exp1")))

	now := time.Now().UTC()
	replacement := &flow.Experience{
		ID:        "exp1",
		Name:      "Welcome Flow v2",
		CompanyID: "biz_1",
		Changed:   &now,
		Screens: []*flow.Screen{
			{
				ID:   "new-s1",
				Name: "Fresh Start",
				Components: []*flow.Component{
					{
						ID:       "new-c1",
						Type:     flow.TypeParagraph,
						Content:  flow.Content{Text: strPtr("Rewritten")},
						Settings: flow.Settings{Alignment: strPtr("left")},
					},
				},
			},
		},
	}
	require.NoError(t, repo.Update(ctx, replacement))

	got, err := repo.FindByID(ctx, "exp1", "biz_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Welcome Flow v2", got.Name)
	require.Len(t, got.Screens, 1)
	assert.Equal(t, "new-s1", got.Screens[0].ID)
	require.Len(t, got.Screens[0].Components, 1)

	// old components must be gone, not orphaned
	var orphans int
	require.NoError(t, repo.db.QueryRow(`SELECT COUNT(*) FROM components WHERE screen_id LIKE 'exp1-%'`).Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestUpdatePreservesPublicationState(t *testing.T) {
	repo := NewExperienceRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleExperience("exp1")))
	require.NoError(t, repo.Publish(ctx, "exp1", "biz_1"))

	now := time.Now().UTC()
	require.NoError(t, repo.Update(ctx, &flow.Experience{
		ID: "exp1", Name: "Renamed", CompanyID: "biz_1", Changed: &now,
	}))

	got, err := repo.FindByID(ctx, "exp1", "biz_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsPublished)
	assert.Equal(t, "Renamed", got.Name)
}

func TestUpdateUnknownExperienceReturnsNoRows(t *testing.T) {
	repo := NewExperienceRepository(newTestDB(t))

	err := repo.Update(context.Background(), &flow.Experience{ID: "ghost", Name: "x", CompanyID: "biz_1"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPublishIsIdempotent(t *testing.T) {
	repo := NewExperienceRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleExperience("exp1")))

	require.NoError(t, repo.Publish(ctx, "exp1", "biz_1"))
	require.NoError(t, repo.Publish(ctx, "exp1", "biz_1"))

	got, err := repo.FindByID(ctx, "exp1", "biz_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsPublished)
}

func TestPublishUnknownExperienceReturnsNoRows(t *testing.T) {
	repo := NewExperienceRepository(newTestDB(t))

	err := repo.Publish(context.Background(), "ghost", "biz_1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteCascades(t *testing.T) {
	repo := NewExperienceRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleExperience("exp1")))

	require.NoError(t, repo.Delete(ctx, "exp1", "biz_1"))

	got, err := repo.FindByID(ctx, "exp1", "biz_1")
	require.NoError(t, err)
	assert.Nil(t, got)

	var screens int
	require.NoError(t, repo.db.QueryRow(`SELECT COUNT(*) FROM screens`).Scan(&screens))
	assert.Zero(t, screens)
}

func TestFindAllByCompanyFiltersPublished(t *testing.T) {
	repo := NewExperienceRepository(newTestDB(t))
	ctx := context.Background()

	first := sampleExperience("exp1")
	first.Created = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, first))

	second := sampleExperience("exp2")
	second.Name = "Second Flow"
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Publish(ctx, "exp2", "biz_1"))

	all, err := repo.FindAllByCompany(ctx, "biz_1", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// newest first
	assert.Equal(t, "exp2", all[0].ID)

	published, err := repo.FindAllByCompany(ctx, "biz_1", true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "exp2", published[0].ID)
}
