package repository

import (
	"fmt"

	"github.com/lib/pq"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/database"
)

type QuizRepository struct {
	db *database.DB
}

func NewQuizRepository(db *database.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// Create saves a graded quiz attempt.
func (r *QuizRepository) Create(result *models.QuizResult) error {
	query := `
		INSERT INTO quiz_results
			(user_id, category, quiz_type, answers, score, total_questions, percentage,
			 strong_skills, weak_skills, skill_gaps, recommendations, time_taken_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		query,
		result.UserID,
		result.Category,
		result.QuizType,
		result.Answers,
		result.Score,
		result.TotalQuestions,
		result.Percentage,
		pq.Array([]string(result.StrongSkills)),
		pq.Array([]string(result.WeakSkills)),
		pq.Array([]string(result.SkillGaps)),
		pq.Array([]string(result.Recommendations)),
		result.TimeTakenSeconds,
	).Scan(&result.ID, &result.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create quiz result: %w", err)
	}
	return nil
}

// FindByUser returns the user's quiz attempts, newest first.
func (r *QuizRepository) FindByUser(userID string, limit int) ([]models.QuizResult, error) {
	query := `
		SELECT id, category, quiz_type, score, total_questions, percentage,
		       strong_skills, weak_skills, skill_gaps, recommendations,
		       COALESCE(time_taken_seconds, 0), created_at
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz results: %w", err)
	}
	defer rows.Close()

	results := []models.QuizResult{}
	for rows.Next() {
		var q models.QuizResult
		err := rows.Scan(
			&q.ID, &q.Category, &q.QuizType, &q.Score, &q.TotalQuestions, &q.Percentage,
			&q.StrongSkills, &q.WeakSkills, &q.SkillGaps, &q.Recommendations,
			&q.TimeTakenSeconds, &q.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz result: %w", err)
		}
		results = append(results, q)
	}
	return results, rows.Err()
}
