package repository

import (
	"fmt"

	"github.com/lib/pq"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/database"
)

type BattleStatsRepository struct {
	db *database.DB
}

func NewBattleStatsRepository(db *database.DB) *BattleStatsRepository {
	return &BattleStatsRepository{db: db}
}

const statsColumns = `user_id, total_battles, wins, losses, draws, rating, badges, win_streak, best_streak, updated_at`

// GetOrCreate returns the user's stats row, creating it at the default
// rating on first access.
func (r *BattleStatsRepository) GetOrCreate(userID string) (*models.BattleStats, error) {
	query := `
		INSERT INTO battle_stats (user_id, rating)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + statsColumns

	stats := &models.BattleStats{}
	err := r.db.QueryRow(query, userID, models.DefaultRating).Scan(
		&stats.UserID,
		&stats.TotalBattles,
		&stats.Wins,
		&stats.Losses,
		&stats.Draws,
		&stats.Rating,
		&stats.Badges,
		&stats.WinStreak,
		&stats.BestStreak,
		&stats.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get battle stats: %w", err)
	}
	return stats, nil
}

// Save writes back the full stats row. The rating floor is enforced here so
// no code path can persist a rating below it.
func (r *BattleStatsRepository) Save(stats *models.BattleStats) error {
	if stats.Rating < models.RatingFloor {
		stats.Rating = models.RatingFloor
	}

	query := `
		UPDATE battle_stats
		SET total_battles = $2, wins = $3, losses = $4, draws = $5,
		    rating = $6, badges = $7, win_streak = $8, best_streak = $9,
		    updated_at = NOW()
		WHERE user_id = $1
	`

	_, err := r.db.Exec(
		query,
		stats.UserID,
		stats.TotalBattles,
		stats.Wins,
		stats.Losses,
		stats.Draws,
		stats.Rating,
		pq.Array([]string(stats.Badges)),
		stats.WinStreak,
		stats.BestStreak,
	)
	if err != nil {
		return fmt.Errorf("failed to save battle stats: %w", err)
	}
	return nil
}

// TopByRating returns the global leaderboard, highest rating first.
func (r *BattleStatsRepository) TopByRating(limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT s.user_id, u.name, s.rating, s.wins, s.losses, s.total_battles, s.badges
		FROM battle_stats s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.rating DESC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		err := rows.Scan(&e.UserID, &e.Name, &e.Rating, &e.Wins, &e.Losses, &e.TotalBattles, &e.Badges)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		if e.TotalBattles > 0 {
			rate := float64(e.Wins) / float64(e.TotalBattles) * 100
			e.WinRate = float64(int(rate*10+0.5)) / 10
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
