package service

import (
	"fmt"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/logger"
)

type friendStore interface {
	List(userID string) ([]models.Friend, error)
	AreFriends(userID, friendID string) (bool, error)
	Add(userID, friendID string) error
	Remove(userID, friendID string) error
}

type notificationStore interface {
	Create(n *models.Notification) error
	FindByUser(userID string, limit int) ([]models.Notification, int, error)
	FindPendingFriendRequest(toUserID, fromUserID string) (*models.Notification, error)
	FindFriendRequestByID(id, userID string) (*models.Notification, error)
	MarkRead(userID, id string) error
}

type userFinder interface {
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
}

// FriendService manages friendships and the notifications that drive them.
type FriendService struct {
	friends       friendStore
	notifications notificationStore
	users         userFinder
	notifier      Notifier
}

func NewFriendService(friends friendStore, notifications notificationStore, users userFinder, notifier Notifier) *FriendService {
	return &FriendService{friends: friends, notifications: notifications, users: users, notifier: notifier}
}

// List returns the user's friends with live presence.
func (s *FriendService) List(userID string) ([]models.Friend, error) {
	friends, err := s.friends.List(userID)
	if err != nil {
		return nil, err
	}
	for i := range friends {
		friends[i].Online = s.notifier.IsOnline(friends[i].ID)
	}
	return friends, nil
}

// SendRequest creates a friend-request notification for the target,
// located by id or email, and pushes it if they are online.
func (s *FriendService) SendRequest(userID, targetID, targetEmail string) (*models.Notification, error) {
	var target *models.User
	var err error
	if targetID != "" {
		target, err = s.users.FindByID(targetID)
	} else {
		target, err = s.users.FindByEmail(targetEmail)
	}
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.ID == userID {
		return nil, ErrSelfFriend
	}

	already, err := s.friends.AreFriends(userID, target.ID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyFriends
	}

	pending, err := s.notifications.FindPendingFriendRequest(target.ID, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrFriendRequestPending
	}

	sender, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrUserNotFound
	}

	n := &models.Notification{
		UserID:     target.ID,
		FromUserID: userID,
		Type:       models.NotificationFriendRequest,
		Data:       models.JSONMap{"message": fmt.Sprintf("%s wants to be your friend", sender.Name)},
	}
	if err := s.notifications.Create(n); err != nil {
		return nil, err
	}

	s.notifier.SendToUser(target.ID, EventNotification, n)
	return n, nil
}

// AcceptRequest turns a pending friend request into a mutual friendship
// and notifies the requester.
func (s *FriendService) AcceptRequest(userID, notificationID string) error {
	request, err := s.notifications.FindFriendRequestByID(notificationID, userID)
	if err != nil {
		return err
	}
	if request == nil {
		return ErrRequestNotFound
	}

	me, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	them, err := s.users.FindByID(request.FromUserID)
	if err != nil {
		return err
	}
	if me == nil || them == nil {
		return ErrUserNotFound
	}

	if err := s.friends.Add(userID, them.ID); err != nil {
		return err
	}
	if err := s.notifications.MarkRead(userID, notificationID); err != nil {
		logger.Warn("Failed to mark friend request read", "notificationId", notificationID, "error", err)
	}

	accept := &models.Notification{
		UserID:     them.ID,
		FromUserID: userID,
		Type:       models.NotificationFriendRequest,
		Data: models.JSONMap{
			"message":  fmt.Sprintf("%s accepted your friend request", me.Name),
			"accepted": true,
		},
	}
	if err := s.notifications.Create(accept); err != nil {
		return err
	}

	s.notifier.SendToUser(them.ID, EventNotification, accept)
	s.notifier.SendToUser(them.ID, EventFriendListUpdated, map[string]interface{}{})
	return nil
}

// RemoveFriend deletes the friendship in both directions.
func (s *FriendService) RemoveFriend(userID, friendID string) error {
	me, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	them, err := s.users.FindByID(friendID)
	if err != nil {
		return err
	}
	if me == nil || them == nil {
		return ErrUserNotFound
	}
	return s.friends.Remove(userID, friendID)
}

// Notifications returns the user's recent notifications and unread count.
func (s *FriendService) Notifications(userID string) ([]models.Notification, int, error) {
	return s.notifications.FindByUser(userID, 20)
}

// MarkNotificationsRead marks one notification read, or all when id is
// empty.
func (s *FriendService) MarkNotificationsRead(userID, id string) error {
	return s.notifications.MarkRead(userID, id)
}
