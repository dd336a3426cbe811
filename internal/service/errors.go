package service

import "errors"

var (
	// auth / users
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	// battles
	ErrBattleNotJoinable = errors.New("battle not found or already started")
	ErrOwnBattle         = errors.New("cannot join your own battle")

	// roadmaps
	ErrRoadmapNotFound = errors.New("roadmap not found")
	ErrNotTechTopic    = errors.New("topic is not technology related")

	// quizzes
	ErrQuizCategoryUnknown = errors.New("unknown quiz category")

	// friends
	ErrAlreadyFriends       = errors.New("already friends")
	ErrSelfFriend           = errors.New("cannot add yourself")
	ErrFriendRequestPending = errors.New("friend request already sent")
	ErrRequestNotFound      = errors.New("request not found")
)
