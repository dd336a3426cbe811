package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/database"
)

type RoadmapRepository struct {
	db *database.DB
}

func NewRoadmapRepository(db *database.DB) *RoadmapRepository {
	return &RoadmapRepository{db: db}
}

// List returns published roadmaps without node content, optionally filtered
// by category.
func (r *RoadmapRepository) List(category string) ([]models.Roadmap, error) {
	query := `
		SELECT id, slug, title, description, category, is_official, view_count, created_at
		FROM roadmaps
		WHERE is_published = TRUE AND ($1 = '' OR category = $1)
		ORDER BY view_count DESC
	`

	rows, err := r.db.Query(query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query roadmaps: %w", err)
	}
	defer rows.Close()

	roadmaps := []models.Roadmap{}
	for rows.Next() {
		var rm models.Roadmap
		err := rows.Scan(&rm.ID, &rm.Slug, &rm.Title, &rm.Description, &rm.Category,
			&rm.IsOfficial, &rm.ViewCount, &rm.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roadmap: %w", err)
		}
		roadmaps = append(roadmaps, rm)
	}
	return roadmaps, rows.Err()
}

// FindBySlug returns the full roadmap and bumps its view counter.
// Returns nil without error when no roadmap matches.
func (r *RoadmapRepository) FindBySlug(slug string) (*models.Roadmap, error) {
	query := `
		UPDATE roadmaps
		SET view_count = view_count + 1
		WHERE slug = $1 AND is_published = TRUE
		RETURNING id, slug, title, description, category, nodes, connections, faqs,
		          is_official, view_count, created_at
	`

	rm := &models.Roadmap{}
	err := r.db.QueryRow(query, slug).Scan(
		&rm.ID, &rm.Slug, &rm.Title, &rm.Description, &rm.Category,
		&rm.Nodes, &rm.Connections, &rm.FAQs,
		&rm.IsOfficial, &rm.ViewCount, &rm.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find roadmap: %w", err)
	}
	return rm, nil
}

// Categories returns the distinct categories of published roadmaps.
func (r *RoadmapRepository) Categories() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT category FROM roadmaps WHERE is_published = TRUE ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type UserRoadmapRepository struct {
	db *database.DB
}

func NewUserRoadmapRepository(db *database.DB) *UserRoadmapRepository {
	return &UserRoadmapRepository{db: db}
}

const userRoadmapColumns = `id, user_id, COALESCE(roadmap_id, ''), title, description, nodes, connections, completed_nodes, is_ai_generated, generation_params, created_at, updated_at`

func scanUserRoadmap(scan func(dest ...interface{}) error) (*models.UserRoadmap, error) {
	rm := &models.UserRoadmap{}
	var completed pq.StringArray

	err := scan(
		&rm.ID, &rm.UserID, &rm.RoadmapID, &rm.Title, &rm.Description,
		&rm.Nodes, &rm.Connections, &completed,
		&rm.IsAIGenerated, &rm.GenerationParams, &rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rm.CompletedNodes = []string(completed)
	return rm, nil
}

// Create saves a user roadmap and fills in the generated id and timestamps.
func (r *UserRoadmapRepository) Create(rm *models.UserRoadmap) error {
	query := `
		INSERT INTO user_roadmaps
			(user_id, roadmap_id, title, description, nodes, connections, is_ai_generated, generation_params)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		rm.UserID, rm.RoadmapID, rm.Title, rm.Description,
		rm.Nodes, rm.Connections, rm.IsAIGenerated, rm.GenerationParams,
	).Scan(&rm.ID, &rm.CreatedAt, &rm.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user roadmap: %w", err)
	}
	return nil
}

// FindByUser returns all roadmaps saved by the user, newest first.
func (r *UserRoadmapRepository) FindByUser(userID string) ([]models.UserRoadmap, error) {
	query := `SELECT ` + userRoadmapColumns + ` FROM user_roadmaps WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roadmaps: %w", err)
	}
	defer rows.Close()

	roadmaps := []models.UserRoadmap{}
	for rows.Next() {
		rm, err := scanUserRoadmap(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user roadmap: %w", err)
		}
		roadmaps = append(roadmaps, *rm)
	}
	return roadmaps, rows.Err()
}

// FindByID scopes the lookup to the owner. Returns nil without error when
// no roadmap matches.
func (r *UserRoadmapRepository) FindByID(id, userID string) (*models.UserRoadmap, error) {
	query := `SELECT ` + userRoadmapColumns + ` FROM user_roadmaps WHERE id = $1 AND user_id = $2`

	rm, err := scanUserRoadmap(r.db.QueryRow(query, id, userID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user roadmap: %w", err)
	}
	return rm, nil
}

// Update writes back the editable roadmap fields.
func (r *UserRoadmapRepository) Update(rm *models.UserRoadmap) error {
	query := `
		UPDATE user_roadmaps
		SET title = $3, description = $4, nodes = $5, connections = $6,
		    completed_nodes = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	_, err := r.db.Exec(
		query,
		rm.ID, rm.UserID, rm.Title, rm.Description,
		rm.Nodes, rm.Connections, pq.Array(rm.CompletedNodes),
	)
	if err != nil {
		return fmt.Errorf("failed to update user roadmap: %w", err)
	}
	return nil
}

// SaveCompletedNodes persists the per-node completion list.
func (r *UserRoadmapRepository) SaveCompletedNodes(id, userID string, completed []string) error {
	query := `
		UPDATE user_roadmaps
		SET completed_nodes = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	_, err := r.db.Exec(query, id, userID, pq.Array(completed))
	if err != nil {
		return fmt.Errorf("failed to update completed nodes: %w", err)
	}
	return nil
}

// Delete removes a user roadmap. Returns false when nothing was deleted.
func (r *UserRoadmapRepository) Delete(id, userID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM user_roadmaps WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user roadmap: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete user roadmap: %w", err)
	}
	return n > 0, nil
}
