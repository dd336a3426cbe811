package repository

import (
	"fmt"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/database"
)

// FriendRepository stores mutual friendships as ordered pairs; both
// directions are written when a friendship forms.
type FriendRepository struct {
	db *database.DB
}

func NewFriendRepository(db *database.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// List returns the user's friends, without presence (the service fills
// that in from the hub).
func (r *FriendRepository) List(userID string) ([]models.Friend, error) {
	query := `
		SELECT u.id, u.name, u.email
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY u.name
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query friends: %w", err)
	}
	defer rows.Close()

	friends := []models.Friend{}
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.Name, &f.Email); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

// AreFriends reports whether a friendship already exists.
func (r *FriendRepository) AreFriends(userID, friendID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)`,
		userID, friendID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}

// Add creates the mutual friendship, ignoring duplicates.
func (r *FriendRepository) Add(userID, friendID string) error {
	query := `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.Exec(query, userID, friendID); err != nil {
		return fmt.Errorf("failed to add friendship: %w", err)
	}
	return nil
}

// Remove deletes both directions of the friendship.
func (r *FriendRepository) Remove(userID, friendID string) error {
	query := `
		DELETE FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`
	if _, err := r.db.Exec(query, userID, friendID); err != nil {
		return fmt.Errorf("failed to remove friendship: %w", err)
	}
	return nil
}
