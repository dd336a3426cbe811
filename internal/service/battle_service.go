package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/logger"
)

// Outbound battle event names.
const (
	EventBattleGenerating    = "battle_generating"
	EventBattleCreated       = "battle_created"
	EventNewBattleAvailable  = "new_battle_available"
	EventBattleStart         = "battle_start"
	EventAnswerResult        = "answer_result"
	EventOpponentProgress    = "opponent_progress"
	EventBattleResult        = "battle_result"
	EventOpponentDisconnect  = "opponent_disconnected"
	EventNotification        = "notification"
	EventFriendListUpdated   = "friend_list_updated"
	EventError               = "error"
)

// Notifier delivers events to live websocket connections. Implemented by
// the websocket hub.
type Notifier interface {
	SendToUser(userID, event string, payload interface{})
	Broadcast(event string, payload interface{})
	IsOnline(userID string) bool
}

type battleStore interface {
	Create(battle *models.BattleSession) error
	FindByID(id string) (*models.BattleSession, error)
	SetInProgress(id, opponentID string) (bool, error)
	StartSolo(id string) (bool, error)
	Finalize(result *models.BattleResult) error
	HistoryByUser(userID string, limit int) ([]models.BattleSummary, error)
	FindWaiting(excludeUserID string, limit int) ([]models.BattleSummary, error)
}

type statsStore interface {
	GetOrCreate(userID string) (*models.BattleStats, error)
	Save(stats *models.BattleStats) error
	TopByRating(limit int) ([]models.LeaderboardEntry, error)
}

type userStore interface {
	FindByID(id string) (*models.User, error)
}

type progressStore interface {
	GetOrCreate(userID string) (*models.UserProgress, error)
	Save(p *models.UserProgress) error
}

type questionGenerator interface {
	Generate(ctx context.Context, topic string) models.QuestionList
}

// BattleService coordinates the full battle lifecycle: creation, joining,
// answer grading, completion and rating/badge updates. Live state lives in
// the registry; the database row is the durable record.
type BattleService struct {
	battles       battleStore
	stats         statsStore
	users         userStore
	progress      progressStore
	notifications notificationStore
	questions     questionGenerator
	rating        *RatingService
	registry      *LiveRegistry
	notifier      Notifier

	randMu sync.Mutex
	rng    *rand.Rand
}

func NewBattleService(
	battles battleStore,
	stats statsStore,
	users userStore,
	progress progressStore,
	notifications notificationStore,
	questions questionGenerator,
	rating *RatingService,
	registry *LiveRegistry,
	notifier Notifier,
) *BattleService {
	return &BattleService{
		battles:       battles,
		stats:         stats,
		users:         users,
		progress:      progress,
		notifications: notifications,
		questions:     questions,
		rating:        rating,
		registry:      registry,
		notifier:      notifier,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRandSource replaces the synthetic-opponent random source.
func (s *BattleService) SetRandSource(src rand.Source) {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	s.rng = rand.New(src)
}

func (s *BattleService) randIntn(n int) int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rng.Intn(n)
}

func (s *BattleService) userName(userID string) string {
	user, err := s.users.FindByID(userID)
	if err != nil || user == nil {
		return "Unknown"
	}
	return user.Name
}

// CreateBattle generates questions, persists a waiting session and
// registers the live room. Question generation can take tens of seconds
// against the LLM, so the caller gets battle_generating immediately.
func (s *BattleService) CreateBattle(ctx context.Context, userID, topic string) error {
	if topic == "" {
		topic = "General Programming"
	}

	s.notifier.SendToUser(userID, EventBattleGenerating, map[string]interface{}{
		"message": "Generating questions...",
		"topic":   topic,
	})

	questions := s.questions.Generate(ctx, topic)

	battle := &models.BattleSession{
		ID:             uuid.NewString(),
		ChallengerID:   userID,
		Topic:          topic,
		TotalQuestions: len(questions),
		Status:         models.BattleStatusWaiting,
		Questions:      questions,
	}
	if err := s.battles.Create(battle); err != nil {
		return fmt.Errorf("failed to create battle: %w", err)
	}

	s.registry.Put(&LiveRoom{
		BattleID:      battle.ID,
		ChallengerUID: userID,
		Questions:     questions,
		Total:         len(questions),
	})

	s.notifier.SendToUser(userID, EventBattleCreated, map[string]interface{}{
		"battle_id":       battle.ID,
		"topic":           topic,
		"questions":       questions.Public(),
		"total_questions": len(questions),
		"status":          models.BattleStatusWaiting,
	})

	s.notifier.Broadcast(EventNewBattleAvailable, map[string]interface{}{
		"id":    battle.ID,
		"topic": topic,
		"challenger": map[string]interface{}{
			"id":   userID,
			"name": s.userName(userID),
		},
	})

	logger.Info("Battle created", "battleId", battle.ID, "userId", userID, "topic", topic)
	return nil
}

// JoinBattle attaches the user as opponent to a waiting battle and starts
// it for both sides.
func (s *BattleService) JoinBattle(userID, battleID string) error {
	battle, err := s.battles.FindByID(battleID)
	if err != nil {
		return err
	}
	if battle == nil || battle.Status != models.BattleStatusWaiting {
		return ErrBattleNotJoinable
	}
	if battle.ChallengerID == userID {
		return ErrOwnBattle
	}

	ok, err := s.battles.SetInProgress(battleID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBattleNotJoinable
	}

	room := s.registry.Get(battleID)
	if room == nil {
		// Server may have restarted since creation; rebuild from the row.
		room = &LiveRoom{
			BattleID:      battleID,
			ChallengerUID: battle.ChallengerID,
			Questions:     battle.Questions,
			Total:         battle.TotalQuestions,
		}
		s.registry.Put(room)
	}
	room.Lock()
	room.OpponentUID = userID
	room.Unlock()

	safeQuestions := battle.Questions.Public()
	challengerName := s.userName(battle.ChallengerID)
	opponentName := s.userName(userID)

	s.notifier.SendToUser(battle.ChallengerID, EventBattleStart, map[string]interface{}{
		"battle_id":       battleID,
		"topic":           battle.Topic,
		"questions":       safeQuestions,
		"total_questions": battle.TotalQuestions,
		"opponent":        map[string]interface{}{"name": opponentName},
		"role":            "challenger",
	})

	s.notifier.SendToUser(userID, EventBattleStart, map[string]interface{}{
		"battle_id":       battleID,
		"topic":           battle.Topic,
		"questions":       safeQuestions,
		"total_questions": battle.TotalQuestions,
		"opponent":        map[string]interface{}{"name": challengerName},
		"role":            "opponent",
	})

	logger.Info("Battle joined", "battleId", battleID, "userId", userID)
	return nil
}

// StartSolo switches a waiting battle to an AI opponent. Invalid battles
// are silently ignored, matching the join-or-give-up flow on the client.
func (s *BattleService) StartSolo(userID, battleID string) {
	if battleID == "" {
		return
	}

	ok, err := s.battles.StartSolo(battleID)
	if err != nil {
		logger.Error("Failed to start solo battle", "battleId", battleID, "error", err)
		return
	}
	if !ok {
		return
	}

	battle, err := s.battles.FindByID(battleID)
	if err != nil || battle == nil {
		return
	}

	if room := s.registry.Get(battleID); room != nil {
		room.Lock()
		room.IsSolo = true
		room.Unlock()
	}

	s.notifier.SendToUser(userID, EventBattleStart, map[string]interface{}{
		"battle_id":       battleID,
		"topic":           battle.Topic,
		"questions":       battle.Questions.Public(),
		"total_questions": battle.TotalQuestions,
		"opponent":        map[string]interface{}{"name": "AI Opponent"},
		"role":            "challenger",
		"is_solo":         true,
	})

	logger.Info("Solo battle started", "battleId", battleID, "userId", userID)
}

// SubmitAnswer grades one answer and advances the battle. Unknown battles
// and question ids are silently ignored; duplicate submissions after
// completion hit a missing room and are dropped the same way.
func (s *BattleService) SubmitAnswer(userID, battleID string, questionID, answer int) {
	room := s.registry.Get(battleID)
	if room == nil {
		return
	}

	room.Lock()

	question := room.FindQuestion(questionID)
	if question == nil {
		room.Unlock()
		return
	}

	isCorrect := answer == question.Correct
	isChallenger := room.ChallengerUID == userID

	if isChallenger {
		room.ChallengerAnswered++
		if isCorrect {
			room.ChallengerScore++
		}
	} else {
		room.OpponentAnswered++
		if isCorrect {
			room.OpponentScore++
		}
	}

	myScore := room.OpponentScore
	myAnswered := room.OpponentAnswered
	otherUID := room.ChallengerUID
	if isChallenger {
		myScore = room.ChallengerScore
		myAnswered = room.ChallengerAnswered
		otherUID = room.OpponentUID
	}

	challengerDone := room.ChallengerAnswered >= room.Total
	opponentDone := room.OpponentAnswered >= room.Total
	isSolo := room.IsSolo
	total := room.Total

	room.Unlock()

	s.notifier.SendToUser(userID, EventAnswerResult, map[string]interface{}{
		"question_id":    questionID,
		"is_correct":     isCorrect,
		"correct_answer": question.Correct,
		"your_score":     myScore,
	})

	if otherUID != "" {
		s.notifier.SendToUser(otherUID, EventOpponentProgress, map[string]interface{}{
			"opponent_score":    myScore,
			"opponent_answered": myAnswered,
		})
	}

	if isSolo {
		if challengerDone {
			s.completeSolo(battleID, total)
		}
		return
	}
	if challengerDone && opponentDone {
		s.completePaired(battleID)
	}
}

// completeSolo draws the synthetic opponent score and finalizes. The AI
// lands between 40% and 80% of the total, inclusive.
func (s *BattleService) completeSolo(battleID string, total int) {
	room, owned := s.registry.Remove(battleID)
	if !owned {
		return
	}

	low := int(float64(total) * 0.4)
	high := int(float64(total) * 0.8)
	aiScore := low + s.randIntn(high-low+1)

	room.Lock()
	room.OpponentScore = aiScore
	challengerScore := room.ChallengerScore
	room.Unlock()

	result, err := s.finalize(battleID, challengerScore, aiScore)
	if err != nil {
		logger.Error("Failed to finalize solo battle", "battleId", battleID, "error", err)
		return
	}

	s.notifier.SendToUser(room.ChallengerUID, EventBattleResult, result)
}

func (s *BattleService) completePaired(battleID string) {
	room, owned := s.registry.Remove(battleID)
	if !owned {
		return
	}

	room.Lock()
	challengerScore := room.ChallengerScore
	opponentScore := room.OpponentScore
	challengerUID := room.ChallengerUID
	opponentUID := room.OpponentUID
	room.Unlock()

	result, err := s.finalize(battleID, challengerScore, opponentScore)
	if err != nil {
		logger.Error("Failed to finalize battle", "battleId", battleID, "error", err)
		return
	}

	s.notifier.SendToUser(challengerUID, EventBattleResult, result)
	if opponentUID != "" {
		s.notifier.SendToUser(opponentUID, EventBattleResult, result)
	}
}

// HandleDisconnect force-finalizes any battle the user is playing, with
// the scores as they stand.
func (s *BattleService) HandleDisconnect(userID string) {
	room := s.registry.FindByParticipant(userID)
	if room == nil {
		return
	}

	room.Lock()
	battleID := room.BattleID
	challengerUID := room.ChallengerUID
	opponentUID := room.OpponentUID
	challengerScore := room.ChallengerScore
	opponentScore := room.OpponentScore
	room.Unlock()

	other := challengerUID
	if userID == challengerUID {
		other = opponentUID
	}
	if other != "" {
		s.notifier.SendToUser(other, EventOpponentDisconnect, map[string]interface{}{
			"message": "Opponent left the battle",
		})
	}

	if _, owned := s.registry.Remove(battleID); !owned {
		return
	}

	battle, err := s.battles.FindByID(battleID)
	if err != nil || battle == nil || battle.Status != models.BattleStatusInProgress {
		return
	}

	result, err := s.finalize(battleID, challengerScore, opponentScore)
	if err != nil {
		logger.Error("Failed to finalize after disconnect", "battleId", battleID, "error", err)
		return
	}
	if other != "" {
		s.notifier.SendToUser(other, EventBattleResult, result)
	}

	logger.Info("Battle finalized after disconnect", "battleId", battleID, "userId", userID)
}

// finalize computes the winner, applies rating and badge updates to both
// stats rows and persists the completed session. Session and stats writes
// are separate statements; a crash in between can leave stats behind the
// session, which the next finalize does not retry.
func (s *BattleService) finalize(battleID string, challengerScore, opponentScore int) (map[string]interface{}, error) {
	battle, err := s.battles.FindByID(battleID)
	if err != nil {
		return nil, err
	}
	if battle == nil {
		return nil, fmt.Errorf("battle %s not found", battleID)
	}

	battle.ChallengerScore = challengerScore
	battle.OpponentScore = opponentScore

	cStats, err := s.stats.GetOrCreate(battle.ChallengerID)
	if err != nil {
		return nil, err
	}
	cStats.TotalBattles++

	var newBadgesChallenger, newBadgesOpponent []string
	var opponentRating interface{}

	if battle.IsAIOpponent {
		switch {
		case challengerScore > opponentScore:
			battle.WinnerID = battle.ChallengerID
			cStats.Wins++
			cStats.WinStreak++
			if cStats.WinStreak > cStats.BestStreak {
				cStats.BestStreak = cStats.WinStreak
			}
			cStats.Rating += 15
		case challengerScore < opponentScore:
			cStats.Losses++
			cStats.WinStreak = 0
			cStats.Rating -= 10
			if cStats.Rating < models.RatingFloor {
				cStats.Rating = models.RatingFloor
			}
		default:
			battle.IsDraw = true
			cStats.Draws++
		}

		newBadgesChallenger = appendNewBadges(cStats)
		if err := s.stats.Save(cStats); err != nil {
			return nil, err
		}
	} else {
		oStats, err := s.stats.GetOrCreate(battle.OpponentID)
		if err != nil {
			return nil, err
		}
		oStats.TotalBattles++

		switch {
		case challengerScore > opponentScore:
			battle.WinnerID = battle.ChallengerID
			winDelta, lossDelta := s.rating.Delta(cStats.Rating, oStats.Rating, false)
			cStats.Wins++
			cStats.WinStreak++
			if cStats.WinStreak > cStats.BestStreak {
				cStats.BestStreak = cStats.WinStreak
			}
			cStats.Rating += winDelta
			oStats.Losses++
			oStats.WinStreak = 0
			oStats.Rating += lossDelta

		case opponentScore > challengerScore:
			battle.WinnerID = battle.OpponentID
			winDelta, lossDelta := s.rating.Delta(oStats.Rating, cStats.Rating, false)
			oStats.Wins++
			oStats.WinStreak++
			if oStats.WinStreak > oStats.BestStreak {
				oStats.BestStreak = oStats.WinStreak
			}
			oStats.Rating += winDelta
			cStats.Losses++
			cStats.WinStreak = 0
			cStats.Rating += lossDelta

		default:
			battle.IsDraw = true
			drawC, drawO := s.rating.Delta(cStats.Rating, oStats.Rating, true)
			cStats.Draws++
			oStats.Draws++
			cStats.Rating += drawC
			oStats.Rating += drawO
		}

		newBadgesChallenger = appendNewBadges(cStats)
		newBadgesOpponent = appendNewBadges(oStats)
		if err := s.stats.Save(cStats); err != nil {
			return nil, err
		}
		if err := s.stats.Save(oStats); err != nil {
			return nil, err
		}
		opponentRating = oStats.Rating
	}

	err = s.battles.Finalize(&models.BattleResult{
		BattleID:        battleID,
		WinnerID:        battle.WinnerID,
		IsDraw:          battle.IsDraw,
		ChallengerScore: challengerScore,
		OpponentScore:   opponentScore,
	})
	if err != nil {
		return nil, err
	}

	s.recordBattleActivity(battle)

	now := time.Now().UTC()
	battle.Status = models.BattleStatusCompleted
	battle.CompletedAt = &now

	return map[string]interface{}{
		"battle":                battle,
		"challenger_new_badges": stringsOrEmpty(newBadgesChallenger),
		"opponent_new_badges":   stringsOrEmpty(newBadgesOpponent),
		"challenger_rating":     cStats.Rating,
		"opponent_rating":       opponentRating,
	}, nil
}

// appendNewBadges evaluates badge rules, appends the fresh ones and returns
// them. Already-held badges are never re-granted.
func appendNewBadges(stats *models.BattleStats) []string {
	fresh := stats.NewBadges()
	for _, b := range fresh {
		stats.Badges = append(stats.Badges, b)
	}
	return fresh
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *BattleService) recordBattleActivity(battle *models.BattleSession) {
	p, err := s.progress.GetOrCreate(battle.ChallengerID)
	if err != nil {
		logger.Warn("Failed to load progress for battle activity", "userId", battle.ChallengerID, "error", err)
		return
	}

	resultText := "Lost"
	if battle.WinnerID == battle.ChallengerID {
		resultText = "Won"
	} else if battle.IsDraw {
		resultText = "Draw"
	}

	p.AddActivity("battle", fmt.Sprintf("Battle %s: %s (%d/%d)",
		resultText, battle.Topic, battle.ChallengerScore, battle.TotalQuestions), nil)

	if err := s.progress.Save(p); err != nil {
		logger.Warn("Failed to save battle activity", "userId", battle.ChallengerID, "error", err)
	}
}

// Leaderboard returns the top rated players.
func (s *BattleService) Leaderboard() ([]models.LeaderboardEntry, error) {
	return s.stats.TopByRating(20)
}

// Stats returns the caller's stats row with their display name attached.
func (s *BattleService) Stats(userID string) (*models.BattleStats, string, error) {
	stats, err := s.stats.GetOrCreate(userID)
	if err != nil {
		return nil, "", err
	}
	return stats, s.userName(userID), nil
}

// History returns the caller's recent completed battles.
func (s *BattleService) History(userID string) ([]models.BattleSummary, error) {
	return s.battles.HistoryByUser(userID, 20)
}

// ActiveBattle is a joinable waiting battle with the challenger's rating.
type ActiveBattle struct {
	ID         string                 `json:"id"`
	Topic      string                 `json:"topic"`
	Challenger map[string]interface{} `json:"challenger"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// ActiveBattles returns waiting battles the caller could join.
func (s *BattleService) ActiveBattles(userID string) ([]ActiveBattle, error) {
	waiting, err := s.battles.FindWaiting(userID, 10)
	if err != nil {
		return nil, err
	}

	battles := make([]ActiveBattle, 0, len(waiting))
	for _, b := range waiting {
		stats, err := s.stats.GetOrCreate(b.Challenger.ID)
		if err != nil {
			return nil, err
		}
		battles = append(battles, ActiveBattle{
			ID:    b.ID,
			Topic: b.Topic,
			Challenger: map[string]interface{}{
				"name":   b.Challenger.Name,
				"rating": stats.Rating,
			},
			CreatedAt: b.CreatedAt,
		})
	}
	return battles, nil
}

// SendBattleInvite persists a battle-invite notification and pushes it to
// the target if online.
func (s *BattleService) SendBattleInvite(fromUserID, toUserID, battleID, topic string) {
	if fromUserID == "" || toUserID == "" {
		return
	}
	sender, err := s.users.FindByID(fromUserID)
	if err != nil || sender == nil {
		return
	}

	n := &models.Notification{
		UserID:     toUserID,
		FromUserID: fromUserID,
		Type:       models.NotificationBattleInvite,
		Data: models.JSONMap{
			"message":   fmt.Sprintf("%s invited you to a battle!", sender.Name),
			"battle_id": battleID,
			"topic":     topic,
		},
	}
	if err := s.notifications.Create(n); err != nil {
		logger.Error("Failed to create battle invite", "error", err)
		return
	}

	s.notifier.SendToUser(toUserID, EventNotification, n)
}
