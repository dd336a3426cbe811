package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type BattleStatus string

const (
	BattleStatusWaiting    BattleStatus = "waiting"
	BattleStatusInProgress BattleStatus = "in_progress"
	BattleStatusCompleted  BattleStatus = "completed"
)

// Question is a single multiple-choice trivia question. The Correct index
// never leaves the server; clients only ever see PublicQuestion.
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// PublicQuestion is the client-facing projection with the answer stripped.
type PublicQuestion struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:       q.ID,
		Question: q.Question,
		Options:  q.Options,
	}
}

// QuestionList supports storing the question set as a JSONB column.
type QuestionList []Question

func (q QuestionList) Value() (driver.Value, error) {
	return json.Marshal(q)
}

func (q *QuestionList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	case nil:
		*q = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for QuestionList: %T", src)
	}
}

// Public returns the sanitized projection of every question.
func (q QuestionList) Public() []PublicQuestion {
	out := make([]PublicQuestion, len(q))
	for i, question := range q {
		out[i] = question.Public()
	}
	return out
}

// BattleSession is one 1v1 (or solo) trivia battle. OpponentID is empty
// while the session is waiting, and stays empty for AI-opponent battles.
type BattleSession struct {
	ID              string       `json:"id" db:"id"`
	ChallengerID    string       `json:"challengerId" db:"challenger_id"`
	OpponentID      string       `json:"opponentId,omitempty" db:"opponent_id"`
	Topic           string       `json:"topic" db:"topic"`
	ChallengerScore int          `json:"challengerScore" db:"challenger_score"`
	OpponentScore   int          `json:"opponentScore" db:"opponent_score"`
	TotalQuestions  int          `json:"totalQuestions" db:"total_questions"`
	WinnerID        string       `json:"winnerId,omitempty" db:"winner_id"`
	IsDraw          bool         `json:"isDraw" db:"is_draw"`
	Status          BattleStatus `json:"status" db:"status"`
	Questions       QuestionList `json:"-" db:"questions"`
	IsAIOpponent    bool         `json:"isAiOpponent" db:"is_ai_opponent"`
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`
	CompletedAt     *time.Time   `json:"completedAt,omitempty" db:"completed_at"`
}

// BattleResult is the finalized outcome persisted when a battle completes.
type BattleResult struct {
	BattleID        string
	WinnerID        string
	IsDraw          bool
	ChallengerScore int
	OpponentScore   int
}

// BattleParticipant is the embedded player view used in history payloads.
type BattleParticipant struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// BattleSummary is the API projection of a battle, with participant names
// resolved and questions omitted.
type BattleSummary struct {
	ID              string             `json:"id"`
	Challenger      *BattleParticipant `json:"challenger"`
	Opponent        *BattleParticipant `json:"opponent"`
	Topic           string             `json:"topic"`
	ChallengerScore int                `json:"challengerScore"`
	OpponentScore   int                `json:"opponentScore"`
	TotalQuestions  int                `json:"totalQuestions"`
	WinnerID        string             `json:"winnerId,omitempty"`
	IsDraw          bool               `json:"isDraw"`
	Status          BattleStatus       `json:"status"`
	IsAIOpponent    bool               `json:"isAiOpponent"`
	CreatedAt       time.Time          `json:"createdAt"`
	CompletedAt     *time.Time         `json:"completedAt,omitempty"`
}
