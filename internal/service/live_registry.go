package service

import (
	"sync"

	"github.com/careersage/careersage-backend/internal/models"
)

// LiveRoom is the in-memory state of one running battle. It keeps the
// private question copy (with correct answers) and the live counters.
// All field access goes through the room mutex.
type LiveRoom struct {
	mu sync.Mutex

	BattleID      string
	ChallengerUID string
	OpponentUID   string
	IsSolo        bool

	ChallengerScore    int
	OpponentScore      int
	ChallengerAnswered int
	OpponentAnswered   int

	Questions models.QuestionList
	Total     int
}

// Lock acquires the room mutex. Callers must Unlock when done.
func (r *LiveRoom) Lock() { r.mu.Lock() }

// Unlock releases the room mutex.
func (r *LiveRoom) Unlock() { r.mu.Unlock() }

// FindQuestion returns the question with the given id, or nil.
func (r *LiveRoom) FindQuestion(questionID int) *models.Question {
	for i := range r.Questions {
		if r.Questions[i].ID == questionID {
			return &r.Questions[i]
		}
	}
	return nil
}

// HasParticipant reports whether the user plays in this room.
func (r *LiveRoom) HasParticipant(userID string) bool {
	return r.ChallengerUID == userID || (r.OpponentUID != "" && r.OpponentUID == userID)
}

// LiveRegistry holds every battle currently in memory, keyed by battle id.
// Removal doubles as the finalize guard: whichever caller removes the room
// first owns finalization, any later caller finds nothing and backs off.
type LiveRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*LiveRoom
}

func NewLiveRegistry() *LiveRegistry {
	return &LiveRegistry{rooms: make(map[string]*LiveRoom)}
}

// Put registers a room, replacing any previous room for the battle.
func (reg *LiveRegistry) Put(room *LiveRoom) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.rooms[room.BattleID] = room
}

// Get returns the room for the battle, or nil.
func (reg *LiveRegistry) Get(battleID string) *LiveRoom {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[battleID]
}

// Remove deletes the room and reports whether this caller removed it.
// Only the caller that gets true may finalize the battle.
func (reg *LiveRegistry) Remove(battleID string) (*LiveRoom, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[battleID]
	if !ok {
		return nil, false
	}
	delete(reg.rooms, battleID)
	return room, true
}

// FindByParticipant returns the first room the user is playing in, or nil.
func (reg *LiveRegistry) FindByParticipant(userID string) *LiveRoom {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, room := range reg.rooms {
		if room.HasParticipant(userID) {
			return room
		}
	}
	return nil
}
