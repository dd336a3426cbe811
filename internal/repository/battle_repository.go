package repository

import (
	"database/sql"
	"fmt"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/database"
)

type BattleRepository struct {
	db *database.DB
}

func NewBattleRepository(db *database.DB) *BattleRepository {
	return &BattleRepository{db: db}
}

// Create persists a new waiting battle with its question set.
func (r *BattleRepository) Create(battle *models.BattleSession) error {
	query := `
		INSERT INTO battles (id, challenger_id, topic, total_questions, status, questions, is_ai_opponent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		query,
		battle.ID,
		battle.ChallengerID,
		battle.Topic,
		battle.TotalQuestions,
		battle.Status,
		battle.Questions,
		battle.IsAIOpponent,
	).Scan(&battle.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create battle: %w", err)
	}
	return nil
}

// FindByID returns nil without error when no battle matches.
func (r *BattleRepository) FindByID(id string) (*models.BattleSession, error) {
	query := `
		SELECT id, challenger_id, COALESCE(opponent_id, ''), topic,
		       challenger_score, opponent_score, total_questions,
		       COALESCE(winner_id, ''), is_draw, status, questions,
		       is_ai_opponent, created_at, completed_at
		FROM battles
		WHERE id = $1
	`

	battle := &models.BattleSession{}
	var completedAt sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&battle.ID,
		&battle.ChallengerID,
		&battle.OpponentID,
		&battle.Topic,
		&battle.ChallengerScore,
		&battle.OpponentScore,
		&battle.TotalQuestions,
		&battle.WinnerID,
		&battle.IsDraw,
		&battle.Status,
		&battle.Questions,
		&battle.IsAIOpponent,
		&battle.CreatedAt,
		&completedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find battle: %w", err)
	}

	if completedAt.Valid {
		battle.CompletedAt = &completedAt.Time
	}
	return battle, nil
}

// SetInProgress attaches the opponent and moves the battle out of waiting.
// Returns false when the battle is gone or already started.
func (r *BattleRepository) SetInProgress(id, opponentID string) (bool, error) {
	query := `
		UPDATE battles
		SET opponent_id = $2, status = $3
		WHERE id = $1 AND status = $4
	`

	res, err := r.db.Exec(query, id, opponentID, models.BattleStatusInProgress, models.BattleStatusWaiting)
	if err != nil {
		return false, fmt.Errorf("failed to start battle: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to start battle: %w", err)
	}
	return n > 0, nil
}

// StartSolo marks a waiting battle as an in-progress AI-opponent battle.
// Returns false when the battle is gone or already started.
func (r *BattleRepository) StartSolo(id string) (bool, error) {
	query := `
		UPDATE battles
		SET is_ai_opponent = TRUE, status = $2
		WHERE id = $1 AND status = $3
	`

	res, err := r.db.Exec(query, id, models.BattleStatusInProgress, models.BattleStatusWaiting)
	if err != nil {
		return false, fmt.Errorf("failed to start solo battle: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to start solo battle: %w", err)
	}
	return n > 0, nil
}

// Finalize records the outcome and completes the battle. Battles are never
// deleted; completed rows are the battle history.
func (r *BattleRepository) Finalize(result *models.BattleResult) error {
	query := `
		UPDATE battles
		SET challenger_score = $2, opponent_score = $3,
		    winner_id = NULLIF($4, ''), is_draw = $5,
		    status = $6, completed_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Exec(
		query,
		result.BattleID,
		result.ChallengerScore,
		result.OpponentScore,
		result.WinnerID,
		result.IsDraw,
		models.BattleStatusCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize battle: %w", err)
	}
	return nil
}

const battleSummaryQuery = `
	SELECT b.id, b.challenger_id, cu.name,
	       COALESCE(b.opponent_id, ''), COALESCE(ou.name, ''),
	       b.topic, b.challenger_score, b.opponent_score, b.total_questions,
	       COALESCE(b.winner_id, ''), b.is_draw, b.status, b.is_ai_opponent,
	       b.created_at, b.completed_at
	FROM battles b
	JOIN users cu ON cu.id = b.challenger_id
	LEFT JOIN users ou ON ou.id = b.opponent_id
`

func (r *BattleRepository) scanSummaries(rows *sql.Rows) ([]models.BattleSummary, error) {
	defer rows.Close()

	summaries := []models.BattleSummary{}
	for rows.Next() {
		var s models.BattleSummary
		var challenger, opponent models.BattleParticipant
		var completedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&challenger.ID,
			&challenger.Name,
			&opponent.ID,
			&opponent.Name,
			&s.Topic,
			&s.ChallengerScore,
			&s.OpponentScore,
			&s.TotalQuestions,
			&s.WinnerID,
			&s.IsDraw,
			&s.Status,
			&s.IsAIOpponent,
			&s.CreatedAt,
			&completedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan battle: %w", err)
		}

		s.Challenger = &challenger
		if opponent.ID != "" {
			s.Opponent = &opponent
		} else {
			s.Opponent = &models.BattleParticipant{Name: "AI Opponent"}
		}
		if completedAt.Valid {
			s.CompletedAt = &completedAt.Time
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// HistoryByUser returns the user's most recent completed battles.
func (r *BattleRepository) HistoryByUser(userID string, limit int) ([]models.BattleSummary, error) {
	query := battleSummaryQuery + `
		WHERE b.status = $1 AND (b.challenger_id = $2 OR b.opponent_id = $2)
		ORDER BY b.completed_at DESC
		LIMIT $3
	`

	rows, err := r.db.Query(query, models.BattleStatusCompleted, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query battle history: %w", err)
	}
	return r.scanSummaries(rows)
}

// FindWaiting returns joinable battles, excluding the caller's own.
func (r *BattleRepository) FindWaiting(excludeUserID string, limit int) ([]models.BattleSummary, error) {
	query := battleSummaryQuery + `
		WHERE b.status = $1 AND b.challenger_id <> $2
		ORDER BY b.created_at DESC
		LIMIT $3
	`

	rows, err := r.db.Query(query, models.BattleStatusWaiting, excludeUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query waiting battles: %w", err)
	}
	return r.scanSummaries(rows)
}
