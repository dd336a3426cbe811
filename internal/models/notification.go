package models

import "time"

const (
	NotificationFriendRequest = "friend_request"
	NotificationBattleInvite  = "battle_invite"
	NotificationBattleResult  = "battle_result"
)

// Notification is a persisted event for a user (friend requests, battle
// invites and results).
type Notification struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"-" db:"user_id"`
	FromUserID string    `json:"-" db:"from_user_id"`
	Type       string    `json:"type" db:"type"`
	Data       JSONMap   `json:"data" db:"data"`
	Read       bool      `json:"read" db:"read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	// Resolved for API payloads, not a column.
	FromUser *BattleParticipant `json:"fromUser,omitempty" db:"-"`
}
