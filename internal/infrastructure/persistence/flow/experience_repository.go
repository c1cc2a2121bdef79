// Package flow provides the experiences repository
package flow

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
)

// ExperienceRepository translates between the experience/screen/component
// tree and its relational representation. Saves are full-replace writes: the
// prior screens and components are wiped and reinserted with dense
// order_index values assigned from array order, all inside one transaction.
type ExperienceRepository struct {
	db *sql.DB
}

func NewExperienceRepository(db *sql.DB) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

// FindByID loads an experience with its screens and components ordered by
// their persisted position. Returns nil, nil when the id does not exist.
func (r *ExperienceRepository) FindByID(ctx context.Context, id, companyID string) (*flow.Experience, error) {
	query := `SELECT id, name, description, is_published, company_id, created_by, created_at, updated_at
              FROM experiences WHERE id = ? AND company_id = ?`

	exp, err := r.scanExperience(r.db.QueryRowContext(ctx, query, id, companyID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query experience: %w", err)
	}

	if err := r.loadScreens(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// FindAllByCompany returns a company's experiences newest first, with nested
// screens and components. With publishedOnly set, unpublished experiences
// are excluded.
func (r *ExperienceRepository) FindAllByCompany(ctx context.Context, companyID string, publishedOnly bool) ([]*flow.Experience, error) {
	query := `SELECT id, name, description, is_published, company_id, created_by, created_at, updated_at
              FROM experiences WHERE company_id = ?`
	if publishedOnly {
		query += ` AND is_published = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query experiences: %w", err)
	}
	defer rows.Close()

	var experiences []*flow.Experience
	for rows.Next() {
		exp, err := r.scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		experiences = append(experiences, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, exp := range experiences {
		if err := r.loadScreens(ctx, exp); err != nil {
			return nil, err
		}
	}
	return experiences, nil
}

// Create inserts a new experience together with its screens and components
// in one transaction.
func (r *ExperienceRepository) Create(ctx context.Context, exp *flow.Experience) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO experiences (id, name, description, is_published, company_id, created_by, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query, exp.ID, exp.Name, exp.Description, exp.IsPublished,
		exp.CompanyID, exp.CreatedBy, exp.Created, exp.Changed)
	if err != nil {
		return fmt.Errorf("failed to insert experience: %w", err)
	}

	if err := r.insertScreens(ctx, tx, exp); err != nil {
		return err
	}

	return tx.Commit()
}

// Update rewrites the experience row and, when the screens slice is non-nil,
// replaces the prior screens and components wholesale. The whole replace
// runs in one transaction, so a mid-write failure rolls everything back.
func (r *ExperienceRepository) Update(ctx context.Context, exp *flow.Experience) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Publication state is untouched here; it only changes through Publish.
	query := `UPDATE experiences SET name = ?, description = ?, updated_at = ?
              WHERE id = ? AND company_id = ?`
	result, err := tx.ExecContext(ctx, query, exp.Name, exp.Description,
		exp.Changed, exp.ID, exp.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to update experience: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	if exp.Screens != nil {
		// Components go with their screens via cascade.
		if _, err := tx.ExecContext(ctx, `DELETE FROM screens WHERE experience_id = ?`, exp.ID); err != nil {
			return fmt.Errorf("failed to delete prior screens: %w", err)
		}
		if err := r.insertScreens(ctx, tx, exp); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Publish sets the publication flag and refreshes the update timestamp.
// Idempotent: publishing an already-published experience is a no-op state
// transition, not an error.
func (r *ExperienceRepository) Publish(ctx context.Context, id, companyID string) error {
	query := `UPDATE experiences SET is_published = 1, updated_at = ? WHERE id = ? AND company_id = ?`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id, companyID)
	if err != nil {
		return fmt.Errorf("failed to publish experience: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read publish result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an experience; screens and components cascade.
func (r *ExperienceRepository) Delete(ctx context.Context, id, companyID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = ? AND company_id = ?`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete experience: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ExperienceRepository) insertScreens(ctx context.Context, tx *sql.Tx, exp *flow.Experience) error {
	screenQuery := `INSERT INTO screens (id, experience_id, name, order_index) VALUES (?, ?, ?, ?)`
	componentQuery := `INSERT INTO components (id, screen_id, type, content, settings, order_index)
                       VALUES (?, ?, ?, ?, ?, ?)`

	for screenIndex, screen := range exp.Screens {
		if _, err := tx.ExecContext(ctx, screenQuery, screen.ID, exp.ID, screen.Name, screenIndex); err != nil {
			return fmt.Errorf("failed to insert screen %s: %w", screen.ID, err)
		}

		for componentIndex, component := range screen.Components {
			contentJSON, err := json.Marshal(component.Content)
			if err != nil {
				return fmt.Errorf("failed to marshal component content: %w", err)
			}
			settingsJSON, err := json.Marshal(component.Settings)
			if err != nil {
				return fmt.Errorf("failed to marshal component settings: %w", err)
			}

			_, err = tx.ExecContext(ctx, componentQuery, component.ID, screen.ID,
				string(component.Type), string(contentJSON), string(settingsJSON), componentIndex)
			if err != nil {
				return fmt.Errorf("failed to insert component %s: %w", component.ID, err)
			}
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ExperienceRepository) scanExperience(row rowScanner) (*flow.Experience, error) {
	var exp flow.Experience
	var description sql.NullString
	var changed sql.NullTime

	err := row.Scan(&exp.ID, &exp.Name, &description, &exp.IsPublished,
		&exp.CompanyID, &exp.CreatedBy, &exp.Created, &changed)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		exp.Description = &description.String
	}
	if changed.Valid {
		exp.Changed = &changed.Time
	}
	exp.Screens = []*flow.Screen{}
	return &exp, nil
}

func (r *ExperienceRepository) loadScreens(ctx context.Context, exp *flow.Experience) error {
	query := `SELECT id, name FROM screens WHERE experience_id = ? ORDER BY order_index`

	rows, err := r.db.QueryContext(ctx, query, exp.ID)
	if err != nil {
		return fmt.Errorf("failed to query screens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		screen := &flow.Screen{Components: []*flow.Component{}}
		if err := rows.Scan(&screen.ID, &screen.Name); err != nil {
			return fmt.Errorf("failed to scan screen: %w", err)
		}
		exp.Screens = append(exp.Screens, screen)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	for _, screen := range exp.Screens {
		if err := r.loadComponents(ctx, screen); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExperienceRepository) loadComponents(ctx context.Context, screen *flow.Screen) error {
	query := `SELECT id, type, content, settings FROM components WHERE screen_id = ? ORDER BY order_index`

	rows, err := r.db.QueryContext(ctx, query, screen.ID)
	if err != nil {
		return fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var component flow.Component
		var typeTag, contentJSON, settingsJSON string

		if err := rows.Scan(&component.ID, &typeTag, &contentJSON, &settingsJSON); err != nil {
			return fmt.Errorf("failed to scan component: %w", err)
		}
		component.Type = flow.ComponentType(typeTag)

		if err := json.Unmarshal([]byte(contentJSON), &component.Content); err != nil {
			return fmt.Errorf("failed to unmarshal component content: %w", err)
		}
		if err := json.Unmarshal([]byte(settingsJSON), &component.Settings); err != nil {
			return fmt.Errorf("failed to unmarshal component settings: %w", err)
		}

		screen.Components = append(screen.Components, &component)
	}
	return rows.Err()
}
