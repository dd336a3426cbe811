package models

import (
	"time"

	"github.com/lib/pq"
)

const recentActivityLimit = 20

// UserProgress tracks a user's overall learning progress and streaks.
type UserProgress struct {
	UserID                 string         `json:"-" db:"user_id"`
	TotalRoadmapsStarted   int            `json:"totalRoadmapsStarted" db:"total_roadmaps_started"`
	TotalRoadmapsCompleted int            `json:"totalRoadmapsCompleted" db:"total_roadmaps_completed"`
	TotalNodesCompleted    int            `json:"totalNodesCompleted" db:"total_nodes_completed"`
	TotalQuizzesTaken      int            `json:"totalQuizzesTaken" db:"total_quizzes_taken"`
	Skills                 pq.StringArray `json:"skills" db:"skills"`
	CurrentStreak          int            `json:"currentStreak" db:"current_streak"`
	LongestStreak          int            `json:"longestStreak" db:"longest_streak"`
	LastActivityDate       *time.Time     `json:"lastActivityDate,omitempty" db:"last_activity_date"`
	RecentActivity         JSONList       `json:"recentActivity" db:"recent_activity"`
	CreatedAt              time.Time      `json:"-" db:"created_at"`
	UpdatedAt              time.Time      `json:"-" db:"updated_at"`
}

// UpdateStreak advances the daily learning streak. Same-day activity is a
// no-op, a one-day gap extends the streak, anything longer resets it.
func (p *UserProgress) UpdateStreak(now time.Time) {
	today := now.Truncate(24 * time.Hour)

	if p.LastActivityDate == nil {
		p.CurrentStreak = 1
	} else {
		last := p.LastActivityDate.Truncate(24 * time.Hour)
		switch int(today.Sub(last).Hours() / 24) {
		case 0:
			// already counted today
		case 1:
			p.CurrentStreak++
		default:
			p.CurrentStreak = 1
		}
	}

	p.LastActivityDate = &now

	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
}

// AddActivity prepends an entry to the recent-activity log, keeping the
// newest entries only, and updates the streak.
func (p *UserProgress) AddActivity(activityType, description string, metadata map[string]interface{}) {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	entry := map[string]interface{}{
		"type":        activityType,
		"description": description,
		"metadata":    metadata,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}

	activities := append(JSONList{entry}, p.RecentActivity...)
	if len(activities) > recentActivityLimit {
		activities = activities[:recentActivityLimit]
	}
	p.RecentActivity = activities

	p.UpdateStreak(time.Now().UTC())
}

// AddSkill records a skill once.
func (p *UserProgress) AddSkill(skill string) {
	for _, s := range p.Skills {
		if s == skill {
			return
		}
	}
	p.Skills = append(p.Skills, skill)
}
