package repository

import (
	"database/sql"
	"fmt"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/database"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists a notification and resolves the sender name for the
// realtime payload.
func (r *NotificationRepository) Create(n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, from_user_id, type, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(query, n.UserID, n.FromUserID, n.Type, n.Data).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	var name string
	err = r.db.QueryRow(`SELECT name FROM users WHERE id = $1`, n.FromUserID).Scan(&name)
	if err == nil {
		n.FromUser = &models.BattleParticipant{ID: n.FromUserID, Name: name}
	}
	return nil
}

// FindByUser returns the user's most recent notifications with sender names
// resolved, plus the unread count.
func (r *NotificationRepository) FindByUser(userID string, limit int) ([]models.Notification, int, error) {
	query := `
		SELECT n.id, n.user_id, n.from_user_id, u.name, n.type, n.data, n.read, n.created_at
		FROM notifications n
		JOIN users u ON u.id = n.from_user_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var fromName string
		err := rows.Scan(&n.ID, &n.UserID, &n.FromUserID, &fromName, &n.Type, &n.Data, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.FromUser = &models.BattleParticipant{ID: n.FromUserID, Name: fromName}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var unread int
	err = r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID).
		Scan(&unread)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return notifications, unread, nil
}

// FindPendingFriendRequest returns an unread friend request from one user to
// another, or nil when none exists.
func (r *NotificationRepository) FindPendingFriendRequest(toUserID, fromUserID string) (*models.Notification, error) {
	query := `
		SELECT id, user_id, from_user_id, type, data, read, created_at
		FROM notifications
		WHERE user_id = $1 AND from_user_id = $2 AND type = $3 AND read = FALSE
		LIMIT 1
	`

	n := &models.Notification{}
	err := r.db.QueryRow(query, toUserID, fromUserID, models.NotificationFriendRequest).
		Scan(&n.ID, &n.UserID, &n.FromUserID, &n.Type, &n.Data, &n.Read, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %w", err)
	}
	return n, nil
}

// FindFriendRequestByID scopes the lookup to the recipient. Returns nil
// without error when no request matches.
func (r *NotificationRepository) FindFriendRequestByID(id, userID string) (*models.Notification, error) {
	query := `
		SELECT id, user_id, from_user_id, type, data, read, created_at
		FROM notifications
		WHERE id = $1 AND user_id = $2 AND type = $3
	`

	n := &models.Notification{}
	err := r.db.QueryRow(query, id, userID, models.NotificationFriendRequest).
		Scan(&n.ID, &n.UserID, &n.FromUserID, &n.Type, &n.Data, &n.Read, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %w", err)
	}
	return n, nil
}

// MarkRead marks one notification read, or all of the user's when id is
// empty.
func (r *NotificationRepository) MarkRead(userID, id string) error {
	var err error
	if id != "" {
		_, err = r.db.Exec(`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	} else {
		_, err = r.db.Exec(`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
