package repository

import (
	"fmt"

	"github.com/lib/pq"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/database"
)

type ProgressRepository struct {
	db *database.DB
}

func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetOrCreate returns the user's progress row, creating an empty one on
// first access.
func (r *ProgressRepository) GetOrCreate(userID string) (*models.UserProgress, error) {
	query := `
		INSERT INTO user_progress (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, total_roadmaps_started, total_roadmaps_completed,
		          total_nodes_completed, total_quizzes_taken, skills,
		          current_streak, longest_streak, last_activity_date,
		          recent_activity, created_at, updated_at
	`

	p := &models.UserProgress{}
	err := r.db.QueryRow(query, userID).Scan(
		&p.UserID,
		&p.TotalRoadmapsStarted,
		&p.TotalRoadmapsCompleted,
		&p.TotalNodesCompleted,
		&p.TotalQuizzesTaken,
		&p.Skills,
		&p.CurrentStreak,
		&p.LongestStreak,
		&p.LastActivityDate,
		&p.RecentActivity,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user progress: %w", err)
	}
	return p, nil
}

// Save writes back the full progress row.
func (r *ProgressRepository) Save(p *models.UserProgress) error {
	query := `
		UPDATE user_progress
		SET total_roadmaps_started = $2, total_roadmaps_completed = $3,
		    total_nodes_completed = $4, total_quizzes_taken = $5,
		    skills = $6, current_streak = $7, longest_streak = $8,
		    last_activity_date = $9, recent_activity = $10, updated_at = NOW()
		WHERE user_id = $1
	`

	_, err := r.db.Exec(
		query,
		p.UserID,
		p.TotalRoadmapsStarted,
		p.TotalRoadmapsCompleted,
		p.TotalNodesCompleted,
		p.TotalQuizzesTaken,
		pq.Array([]string(p.Skills)),
		p.CurrentStreak,
		p.LongestStreak,
		p.LastActivityDate,
		p.RecentActivity,
	)
	if err != nil {
		return fmt.Errorf("failed to save user progress: %w", err)
	}
	return nil
}

// ProgressLeaderboardEntry is a row on the learning-progress leaderboard.
type ProgressLeaderboardEntry struct {
	UserID              string `json:"userId"`
	Name                string `json:"name"`
	TotalNodesCompleted int    `json:"totalNodesCompleted"`
	TotalQuizzesTaken   int    `json:"totalQuizzesTaken"`
	CurrentStreak       int    `json:"currentStreak"`
}

// TopByNodesCompleted ranks users by completed roadmap nodes.
func (r *ProgressRepository) TopByNodesCompleted(limit int) ([]ProgressLeaderboardEntry, error) {
	query := `
		SELECT p.user_id, u.name, p.total_nodes_completed, p.total_quizzes_taken, p.current_streak
		FROM user_progress p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.total_nodes_completed DESC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []ProgressLeaderboardEntry{}
	for rows.Next() {
		var e ProgressLeaderboardEntry
		err := rows.Scan(&e.UserID, &e.Name, &e.TotalNodesCompleted, &e.TotalQuizzesTaken, &e.CurrentStreak)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
