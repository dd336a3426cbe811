package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careersage/careersage-backend/internal/models"
)

// --- fakes ---

type fakeBattleStore struct {
	mu      sync.Mutex
	battles map[string]*models.BattleSession
}

func newFakeBattleStore() *fakeBattleStore {
	return &fakeBattleStore{battles: make(map[string]*models.BattleSession)}
}

func (f *fakeBattleStore) Create(battle *models.BattleSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	battle.CreatedAt = time.Now()
	cp := *battle
	f.battles[battle.ID] = &cp
	return nil
}

func (f *fakeBattleStore) FindByID(id string) (*models.BattleSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.battles[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBattleStore) SetInProgress(id, opponentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.battles[id]
	if !ok || b.Status != models.BattleStatusWaiting {
		return false, nil
	}
	b.OpponentID = opponentID
	b.Status = models.BattleStatusInProgress
	return true, nil
}

func (f *fakeBattleStore) StartSolo(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.battles[id]
	if !ok || b.Status != models.BattleStatusWaiting {
		return false, nil
	}
	b.IsAIOpponent = true
	b.Status = models.BattleStatusInProgress
	return true, nil
}

func (f *fakeBattleStore) Finalize(result *models.BattleResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.battles[result.BattleID]
	if !ok {
		return fmt.Errorf("battle %s not found", result.BattleID)
	}
	b.ChallengerScore = result.ChallengerScore
	b.OpponentScore = result.OpponentScore
	b.WinnerID = result.WinnerID
	b.IsDraw = result.IsDraw
	b.Status = models.BattleStatusCompleted
	now := time.Now()
	b.CompletedAt = &now
	return nil
}

func (f *fakeBattleStore) HistoryByUser(userID string, limit int) ([]models.BattleSummary, error) {
	return []models.BattleSummary{}, nil
}

func (f *fakeBattleStore) FindWaiting(excludeUserID string, limit int) ([]models.BattleSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.BattleSummary
	for _, b := range f.battles {
		if b.Status == models.BattleStatusWaiting && b.ChallengerID != excludeUserID {
			out = append(out, models.BattleSummary{
				ID:         b.ID,
				Topic:      b.Topic,
				Challenger: &models.BattleParticipant{ID: b.ChallengerID},
				CreatedAt:  b.CreatedAt,
			})
		}
	}
	return out, nil
}

func (f *fakeBattleStore) get(id string) *models.BattleSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.battles[id]
}

type fakeStatsStore struct {
	mu    sync.Mutex
	stats map[string]*models.BattleStats
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{stats: make(map[string]*models.BattleStats)}
}

func (f *fakeStatsStore) GetOrCreate(userID string) (*models.BattleStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.stats[userID]; ok {
		cp := *s
		cp.Badges = append([]string(nil), s.Badges...)
		return &cp, nil
	}
	s := &models.BattleStats{UserID: userID, Rating: models.DefaultRating}
	f.stats[userID] = s
	cp := *s
	return &cp, nil
}

func (f *fakeStatsStore) Save(stats *models.BattleStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stats.Rating < models.RatingFloor {
		stats.Rating = models.RatingFloor
	}
	cp := *stats
	f.stats[stats.UserID] = &cp
	return nil
}

func (f *fakeStatsStore) TopByRating(limit int) ([]models.LeaderboardEntry, error) {
	return []models.LeaderboardEntry{}, nil
}

func (f *fakeStatsStore) get(userID string) *models.BattleStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats[userID]
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) FindByID(id string) (*models.User, error) {
	return f.users[id], nil
}

type fakeProgressStore struct {
	mu   sync.Mutex
	rows map[string]*models.UserProgress
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{rows: make(map[string]*models.UserProgress)}
}

func (f *fakeProgressStore) GetOrCreate(userID string) (*models.UserProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.rows[userID]; ok {
		return p, nil
	}
	p := &models.UserProgress{UserID: userID}
	f.rows[userID] = p
	return p, nil
}

func (f *fakeProgressStore) Save(p *models.UserProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[p.UserID] = p
	return nil
}

type fakeNotificationStore struct {
	mu      sync.Mutex
	created []*models.Notification
}

func (f *fakeNotificationStore) Create(n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = fmt.Sprintf("n-%d", len(f.created)+1)
	n.CreatedAt = time.Now()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationStore) FindByUser(userID string, limit int) ([]models.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	unread := 0
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, *n)
			if !n.Read {
				unread++
			}
		}
	}
	return out, unread, nil
}

func (f *fakeNotificationStore) FindPendingFriendRequest(toUserID, fromUserID string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.created {
		if n.UserID == toUserID && n.FromUserID == fromUserID &&
			n.Type == models.NotificationFriendRequest && !n.Read {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationStore) FindFriendRequestByID(id, userID string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.created {
		if n.ID == id && n.UserID == userID && n.Type == models.NotificationFriendRequest && !n.Read {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationStore) MarkRead(userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.created {
		if n.UserID == userID && (id == "" || n.ID == id) {
			n.Read = true
		}
	}
	return nil
}

type sentEvent struct {
	UserID  string
	Event   string
	Payload interface{}
}

type fakeNotifier struct {
	mu         sync.Mutex
	sent       []sentEvent
	broadcasts []sentEvent
	online     map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{online: make(map[string]bool)}
}

func (f *fakeNotifier) SendToUser(userID, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEvent{UserID: userID, Event: event, Payload: payload})
}

func (f *fakeNotifier) Broadcast(event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, sentEvent{Event: event, Payload: payload})
}

func (f *fakeNotifier) IsOnline(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online[userID]
}

func (f *fakeNotifier) eventsFor(userID, event string) []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentEvent
	for _, e := range f.sent {
		if e.UserID == userID && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type fakeQuestionGen struct {
	questions models.QuestionList
}

func (f *fakeQuestionGen) Generate(ctx context.Context, topic string) models.QuestionList {
	return f.questions
}

// --- harness ---

type battleFixture struct {
	service  *BattleService
	battles  *fakeBattleStore
	stats    *fakeStatsStore
	progress *fakeProgressStore
	notifs   *fakeNotificationStore
	notifier *fakeNotifier
	registry *LiveRegistry
}

func testQuestions(n int) models.QuestionList {
	qs := make(models.QuestionList, 0, n)
	for i := 1; i <= n; i++ {
		qs = append(qs, models.Question{
			ID:       i,
			Question: fmt.Sprintf("Question %d", i),
			Options:  []string{"a", "b", "c", "d"},
			Correct:  i % 4,
		})
	}
	return qs
}

func newBattleFixture(t *testing.T, questionCount int) *battleFixture {
	t.Helper()

	battles := newFakeBattleStore()
	stats := newFakeStatsStore()
	progress := newFakeProgressStore()
	notifs := &fakeNotificationStore{}
	notifier := newFakeNotifier()
	registry := NewLiveRegistry()

	users := &fakeUserStore{users: map[string]*models.User{
		"alice": {ID: "alice", Name: "Alice"},
		"bob":   {ID: "bob", Name: "Bob"},
	}}

	svc := NewBattleService(
		battles,
		stats,
		users,
		progress,
		notifs,
		&fakeQuestionGen{questions: testQuestions(questionCount)},
		NewRatingService(),
		registry,
		notifier,
	)

	return &battleFixture{
		service:  svc,
		battles:  battles,
		stats:    stats,
		progress: progress,
		notifs:   notifs,
		notifier: notifier,
		registry: registry,
	}
}

// createAndJoin sets up an in-progress battle between alice and bob and
// returns the battle id.
func (fx *battleFixture) createAndJoin(t *testing.T) string {
	t.Helper()

	require.NoError(t, fx.service.CreateBattle(context.Background(), "alice", "Go"))
	created := fx.notifier.eventsFor("alice", EventBattleCreated)
	require.Len(t, created, 1)
	battleID := created[0].Payload.(map[string]interface{})["battle_id"].(string)

	require.NoError(t, fx.service.JoinBattle("bob", battleID))
	return battleID
}

// answerAll submits every question for the user with the given number of
// correct answers.
func (fx *battleFixture) answerAll(userID, battleID string, correct, total int) {
	for i := 1; i <= total; i++ {
		answer := i % 4
		if i > correct {
			answer = (i + 1) % 4 // wrong on purpose
		}
		fx.service.SubmitAnswer(userID, battleID, i, answer)
	}
}

// --- tests ---

func TestBattleService_CreateBattle(t *testing.T) {
	fx := newBattleFixture(t, 5)

	err := fx.service.CreateBattle(context.Background(), "alice", "")
	require.NoError(t, err)

	// Empty topic falls back to the default.
	created := fx.notifier.eventsFor("alice", EventBattleCreated)
	require.Len(t, created, 1)
	payload := created[0].Payload.(map[string]interface{})
	assert.Equal(t, "General Programming", payload["topic"])
	assert.Equal(t, 5, payload["total_questions"])

	battleID := payload["battle_id"].(string)
	battle := fx.battles.get(battleID)
	require.NotNil(t, battle)
	assert.Equal(t, models.BattleStatusWaiting, battle.Status)
	assert.Equal(t, "alice", battle.ChallengerID)

	assert.NotNil(t, fx.registry.Get(battleID))
	assert.Len(t, fx.notifier.eventsFor("alice", EventBattleGenerating), 1)
	assert.Len(t, fx.notifier.broadcasts, 1)
	assert.Equal(t, EventNewBattleAvailable, fx.notifier.broadcasts[0].Event)
}

func TestBattleService_CreateBattle_SanitizesQuestions(t *testing.T) {
	fx := newBattleFixture(t, 3)

	require.NoError(t, fx.service.CreateBattle(context.Background(), "alice", "Go"))

	payload := fx.notifier.eventsFor("alice", EventBattleCreated)[0].Payload.(map[string]interface{})
	public := payload["questions"].([]models.PublicQuestion)
	require.Len(t, public, 3)
	for _, q := range public {
		assert.NotEmpty(t, q.Question)
		assert.Len(t, q.Options, 4)
	}
}

func TestBattleService_JoinBattle_Validation(t *testing.T) {
	fx := newBattleFixture(t, 3)

	err := fx.service.JoinBattle("bob", "missing")
	assert.ErrorIs(t, err, ErrBattleNotJoinable)

	require.NoError(t, fx.service.CreateBattle(context.Background(), "alice", "Go"))
	battleID := fx.notifier.eventsFor("alice", EventBattleCreated)[0].
		Payload.(map[string]interface{})["battle_id"].(string)

	err = fx.service.JoinBattle("alice", battleID)
	assert.ErrorIs(t, err, ErrOwnBattle)

	require.NoError(t, fx.service.JoinBattle("bob", battleID))

	// Already started.
	err = fx.service.JoinBattle("bob", battleID)
	assert.ErrorIs(t, err, ErrBattleNotJoinable)
}

func TestBattleService_JoinBattle_StartsBothSides(t *testing.T) {
	fx := newBattleFixture(t, 3)
	fx.createAndJoin(t)

	aliceStart := fx.notifier.eventsFor("alice", EventBattleStart)
	bobStart := fx.notifier.eventsFor("bob", EventBattleStart)
	require.Len(t, aliceStart, 1)
	require.Len(t, bobStart, 1)

	alicePayload := aliceStart[0].Payload.(map[string]interface{})
	bobPayload := bobStart[0].Payload.(map[string]interface{})
	assert.Equal(t, "challenger", alicePayload["role"])
	assert.Equal(t, "opponent", bobPayload["role"])
	assert.Equal(t, map[string]interface{}{"name": "Bob"}, alicePayload["opponent"])
	assert.Equal(t, map[string]interface{}{"name": "Alice"}, bobPayload["opponent"])
}

func TestBattleService_PairedBattle_ChallengerWins(t *testing.T) {
	fx := newBattleFixture(t, 3)
	battleID := fx.createAndJoin(t)

	fx.answerAll("alice", battleID, 3, 3)
	fx.answerAll("bob", battleID, 1, 3)

	battle := fx.battles.get(battleID)
	require.NotNil(t, battle)
	assert.Equal(t, models.BattleStatusCompleted, battle.Status)
	assert.Equal(t, "alice", battle.WinnerID)
	assert.False(t, battle.IsDraw)
	assert.Equal(t, 3, battle.ChallengerScore)
	assert.Equal(t, 1, battle.OpponentScore)

	// Equal starting ratings move by 16 each way.
	aliceStats := fx.stats.get("alice")
	bobStats := fx.stats.get("bob")
	assert.Equal(t, models.DefaultRating+16, aliceStats.Rating)
	assert.Equal(t, models.DefaultRating-16, bobStats.Rating)
	assert.Equal(t, 1, aliceStats.Wins)
	assert.Equal(t, 1, aliceStats.WinStreak)
	assert.Equal(t, 1, bobStats.Losses)
	assert.Equal(t, 0, bobStats.WinStreak)

	// First win earns First Blood for the winner only.
	assert.Contains(t, []string(aliceStats.Badges), "First Blood")
	assert.NotContains(t, []string(bobStats.Badges), "First Blood")

	// Both players receive the result; the payload carries both ratings.
	aliceResults := fx.notifier.eventsFor("alice", EventBattleResult)
	bobResults := fx.notifier.eventsFor("bob", EventBattleResult)
	require.Len(t, aliceResults, 1)
	require.Len(t, bobResults, 1)
	result := aliceResults[0].Payload.(map[string]interface{})
	assert.Equal(t, models.DefaultRating+16, result["challenger_rating"])
	assert.Equal(t, models.DefaultRating-16, result["opponent_rating"])
	assert.Equal(t, []string{"First Blood"}, result["challenger_new_badges"])
	assert.Equal(t, []string{}, result["opponent_new_badges"])

	// Activity is recorded for the challenger only.
	aliceProgress, _ := fx.progress.GetOrCreate("alice")
	require.Len(t, aliceProgress.RecentActivity, 1)
	entry := aliceProgress.RecentActivity[0]
	assert.Equal(t, "Battle Won: Go (3/3)", entry["description"])

	bobProgress, _ := fx.progress.GetOrCreate("bob")
	assert.Empty(t, bobProgress.RecentActivity)
}

func TestBattleService_PairedBattle_Draw(t *testing.T) {
	fx := newBattleFixture(t, 3)
	battleID := fx.createAndJoin(t)

	fx.answerAll("alice", battleID, 2, 3)
	fx.answerAll("bob", battleID, 2, 3)

	battle := fx.battles.get(battleID)
	assert.True(t, battle.IsDraw)
	assert.Empty(t, battle.WinnerID)

	// Equal ratings, draw: nobody moves.
	assert.Equal(t, models.DefaultRating, fx.stats.get("alice").Rating)
	assert.Equal(t, models.DefaultRating, fx.stats.get("bob").Rating)
	assert.Equal(t, 1, fx.stats.get("alice").Draws)
	assert.Equal(t, 1, fx.stats.get("bob").Draws)
}

func TestBattleService_CounterInvariant(t *testing.T) {
	fx := newBattleFixture(t, 3)
	battleID := fx.createAndJoin(t)

	fx.answerAll("alice", battleID, 3, 3)
	fx.answerAll("bob", battleID, 0, 3)

	for _, userID := range []string{"alice", "bob"} {
		s := fx.stats.get(userID)
		assert.Equal(t, s.TotalBattles, s.Wins+s.Losses+s.Draws,
			"wins+losses+draws must equal total battles for %s", userID)
	}
}

func TestBattleService_SubmitAnswer_IgnoresUnknown(t *testing.T) {
	fx := newBattleFixture(t, 3)
	battleID := fx.createAndJoin(t)

	before := len(fx.notifier.sent)
	fx.service.SubmitAnswer("alice", "missing-battle", 1, 0)
	fx.service.SubmitAnswer("alice", battleID, 99, 0)
	assert.Equal(t, before, len(fx.notifier.sent))
}

func TestBattleService_OpponentProgressEvents(t *testing.T) {
	fx := newBattleFixture(t, 3)
	battleID := fx.createAndJoin(t)

	fx.service.SubmitAnswer("alice", battleID, 1, 1%4)

	// Alice gets her grade, Bob sees her progress.
	results := fx.notifier.eventsFor("alice", EventAnswerResult)
	require.Len(t, results, 1)
	payload := results[0].Payload.(map[string]interface{})
	assert.Equal(t, true, payload["is_correct"])
	assert.Equal(t, 1, payload["your_score"])

	progress := fx.notifier.eventsFor("bob", EventOpponentProgress)
	require.Len(t, progress, 1)
	progressPayload := progress[0].Payload.(map[string]interface{})
	assert.Equal(t, 1, progressPayload["opponent_score"])
	assert.Equal(t, 1, progressPayload["opponent_answered"])
}

func TestBattleService_SoloBattle_Win(t *testing.T) {
	fx := newBattleFixture(t, 5)

	require.NoError(t, fx.service.CreateBattle(context.Background(), "alice", "Go"))
	battleID := fx.notifier.eventsFor("alice", EventBattleCreated)[0].
		Payload.(map[string]interface{})["battle_id"].(string)

	fx.service.StartSolo("alice", battleID)

	start := fx.notifier.eventsFor("alice", EventBattleStart)
	require.Len(t, start, 1)
	payload := start[0].Payload.(map[string]interface{})
	assert.Equal(t, true, payload["is_solo"])
	assert.Equal(t, map[string]interface{}{"name": "AI Opponent"}, payload["opponent"])

	// All five correct beats the AI ceiling of 80%.
	fx.answerAll("alice", battleID, 5, 5)

	battle := fx.battles.get(battleID)
	assert.Equal(t, models.BattleStatusCompleted, battle.Status)
	assert.Equal(t, "alice", battle.WinnerID)
	assert.True(t, battle.IsAIOpponent)
	assert.GreaterOrEqual(t, battle.OpponentScore, 2) // 40% of 5
	assert.LessOrEqual(t, battle.OpponentScore, 4)    // 80% of 5

	// Solo wins are a flat +15 with no opponent rating in the payload.
	stats := fx.stats.get("alice")
	assert.Equal(t, models.DefaultRating+15, stats.Rating)
	assert.Equal(t, 1, stats.Wins)

	result := fx.notifier.eventsFor("alice", EventBattleResult)[0].Payload.(map[string]interface{})
	assert.Nil(t, result["opponent_rating"])
}

func TestBattleService_SoloBattle_LossFloorsAtMinimum(t *testing.T) {
	fx := newBattleFixture(t, 5)

	// Start near the floor so the flat -10 would cross it.
	fx.stats.stats["alice"] = &models.BattleStats{UserID: "alice", Rating: 105}

	require.NoError(t, fx.service.CreateBattle(context.Background(), "alice", "Go"))
	battleID := fx.notifier.eventsFor("alice", EventBattleCreated)[0].
		Payload.(map[string]interface{})["battle_id"].(string)
	fx.service.StartSolo("alice", battleID)

	// Zero correct loses against any AI score (minimum 40% of 5 = 2).
	fx.answerAll("alice", battleID, 0, 5)

	stats := fx.stats.get("alice")
	assert.Equal(t, models.RatingFloor, stats.Rating)
	assert.Equal(t, 1, stats.Losses)
}

func TestBattleService_SoloBattle_DeterministicAIScore(t *testing.T) {
	fx := newBattleFixture(t, 5)
	fx.service.SetRandSource(rand.NewSource(42))

	// Same seed, same draw: reproduce the expected synthetic score.
	low, high := 2, 4
	expected := low + rand.New(rand.NewSource(42)).Intn(high-low+1)

	require.NoError(t, fx.service.CreateBattle(context.Background(), "alice", "Go"))
	battleID := fx.notifier.eventsFor("alice", EventBattleCreated)[0].
		Payload.(map[string]interface{})["battle_id"].(string)
	fx.service.StartSolo("alice", battleID)
	fx.answerAll("alice", battleID, 0, 5)

	assert.Equal(t, expected, fx.battles.get(battleID).OpponentScore)
}

func TestBattleService_StartSolo_IgnoresInvalidBattles(t *testing.T) {
	fx := newBattleFixture(t, 3)

	fx.service.StartSolo("alice", "")
	fx.service.StartSolo("alice", "missing")
	assert.Empty(t, fx.notifier.eventsFor("alice", EventBattleStart))

	// Joined battles can no longer go solo.
	battleID := fx.createAndJoin(t)
	before := len(fx.notifier.eventsFor("alice", EventBattleStart))
	fx.service.StartSolo("alice", battleID)
	assert.Equal(t, before, len(fx.notifier.eventsFor("alice", EventBattleStart)))
}

func TestBattleService_Disconnect_ForceFinalizes(t *testing.T) {
	fx := newBattleFixture(t, 3)
	battleID := fx.createAndJoin(t)

	fx.service.SubmitAnswer("alice", battleID, 1, 1%4)
	fx.service.SubmitAnswer("bob", battleID, 1, (1+1)%4) // wrong

	fx.service.HandleDisconnect("bob")

	// Alice is told, gets the result, and wins on current score 1-0.
	assert.Len(t, fx.notifier.eventsFor("alice", EventOpponentDisconnect), 1)
	require.Len(t, fx.notifier.eventsFor("alice", EventBattleResult), 1)

	battle := fx.battles.get(battleID)
	assert.Equal(t, models.BattleStatusCompleted, battle.Status)
	assert.Equal(t, "alice", battle.WinnerID)

	// The room is gone, late answers are dropped.
	assert.Nil(t, fx.registry.Get(battleID))
	fx.service.SubmitAnswer("alice", battleID, 2, 2%4)
	assert.Len(t, fx.notifier.eventsFor("alice", EventAnswerResult), 1)

	// A second disconnect is a no-op.
	fx.service.HandleDisconnect("alice")
	assert.Len(t, fx.notifier.eventsFor("alice", EventBattleResult), 1)
}

func TestBattleService_Disconnect_WaitingBattleNotFinalized(t *testing.T) {
	fx := newBattleFixture(t, 3)

	require.NoError(t, fx.service.CreateBattle(context.Background(), "alice", "Go"))
	battleID := fx.notifier.eventsFor("alice", EventBattleCreated)[0].
		Payload.(map[string]interface{})["battle_id"].(string)

	fx.service.HandleDisconnect("alice")

	// Nobody joined yet, so the battle stays waiting with no stats change.
	assert.Equal(t, models.BattleStatusWaiting, fx.battles.get(battleID).Status)
	assert.Nil(t, fx.stats.get("alice"))
}

func TestBattleService_BadgesAreNotRegranted(t *testing.T) {
	fx := newBattleFixture(t, 3)
	fx.stats.stats["alice"] = &models.BattleStats{
		UserID: "alice", Rating: models.DefaultRating,
		TotalBattles: 9, Wins: 9,
		Badges: []string{"First Blood"},
	}

	battleID := fx.createAndJoin(t)
	fx.answerAll("alice", battleID, 3, 3)
	fx.answerAll("bob", battleID, 0, 3)

	stats := fx.stats.get("alice")
	count := 0
	for _, b := range stats.Badges {
		if b == "First Blood" {
			count++
		}
	}
	assert.Equal(t, 1, count, "First Blood must not be granted twice")
	assert.Contains(t, []string(stats.Badges), "Warrior") // 10th win

	result := fx.notifier.eventsFor("alice", EventBattleResult)[0].Payload.(map[string]interface{})
	assert.Equal(t, []string{"Warrior"}, result["challenger_new_badges"])
}

func TestBattleService_SendBattleInvite(t *testing.T) {
	fx := newBattleFixture(t, 3)

	fx.service.SendBattleInvite("alice", "bob", "battle-1", "Go")

	require.Len(t, fx.notifs.created, 1)
	n := fx.notifs.created[0]
	assert.Equal(t, "bob", n.UserID)
	assert.Equal(t, models.NotificationBattleInvite, n.Type)
	assert.Equal(t, "Alice invited you to a battle!", n.Data["message"])
	assert.Len(t, fx.notifier.eventsFor("bob", EventNotification), 1)

	// Missing sender drops the invite silently.
	fx.service.SendBattleInvite("ghost", "bob", "battle-1", "Go")
	assert.Len(t, fx.notifs.created, 1)
}
