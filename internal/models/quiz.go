package models

import (
	"time"

	"github.com/lib/pq"
)

// QuizResult is one graded skill-assessment attempt.
type QuizResult struct {
	ID               string         `json:"id" db:"id"`
	UserID           string         `json:"-" db:"user_id"`
	Category         string         `json:"category" db:"category"`
	QuizType         string         `json:"quizType" db:"quiz_type"`
	Answers          JSONList       `json:"-" db:"answers"`
	Score            int            `json:"score" db:"score"`
	TotalQuestions   int            `json:"totalQuestions" db:"total_questions"`
	Percentage       float64        `json:"percentage" db:"percentage"`
	StrongSkills     pq.StringArray `json:"strongSkills" db:"strong_skills"`
	WeakSkills       pq.StringArray `json:"weakSkills" db:"weak_skills"`
	SkillGaps        pq.StringArray `json:"skillGaps" db:"skill_gaps"`
	Recommendations  pq.StringArray `json:"recommendations" db:"recommendations"`
	TimeTakenSeconds int            `json:"timeTakenSeconds" db:"time_taken_seconds"`
	CreatedAt        time.Time      `json:"createdAt" db:"created_at"`
}

// CalculatePercentage sets and returns the score percentage, rounded to
// one decimal place.
func (q *QuizResult) CalculatePercentage() float64 {
	if q.TotalQuestions > 0 {
		rate := float64(q.Score) / float64(q.TotalQuestions) * 100
		q.Percentage = float64(int(rate*10+0.5)) / 10
	}
	return q.Percentage
}
