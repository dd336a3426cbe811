package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	DefaultRating = 1000
	RatingFloor   = 100
)

// BattleStats tracks a user's lifetime battle record and rating.
type BattleStats struct {
	UserID       string         `json:"userId" db:"user_id"`
	TotalBattles int            `json:"totalBattles" db:"total_battles"`
	Wins         int            `json:"wins" db:"wins"`
	Losses       int            `json:"losses" db:"losses"`
	Draws        int            `json:"draws" db:"draws"`
	Rating       int            `json:"rating" db:"rating"`
	Badges       pq.StringArray `json:"badges" db:"badges"`
	WinStreak    int            `json:"winStreak" db:"win_streak"`
	BestStreak   int            `json:"bestStreak" db:"best_streak"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`
}

// WinRate returns the win percentage rounded to one decimal place.
func (s *BattleStats) WinRate() float64 {
	if s.TotalBattles == 0 {
		return 0
	}
	rate := float64(s.Wins) / float64(s.TotalBattles) * 100
	return float64(int(rate*10+0.5)) / 10
}

type badgeRule struct {
	name string
	met  func(*BattleStats) bool
}

var badgeRules = []badgeRule{
	{"First Blood", func(s *BattleStats) bool { return s.Wins >= 1 }},
	{"Warrior", func(s *BattleStats) bool { return s.Wins >= 10 }},
	{"Champion", func(s *BattleStats) bool { return s.Wins >= 25 }},
	{"On Fire", func(s *BattleStats) bool { return s.BestStreak >= 5 }},
	{"Diamond", func(s *BattleStats) bool { return s.Rating >= 1500 }},
	{"Legend", func(s *BattleStats) bool { return s.Rating >= 2000 }},
}

// NewBadges evaluates all badge rules against the current stats and returns
// the ones not yet earned. Badges are append-only; earned badges never
// disappear even if the underlying stat later drops.
func (s *BattleStats) NewBadges() []string {
	earned := make(map[string]bool, len(s.Badges))
	for _, b := range s.Badges {
		earned[b] = true
	}

	var fresh []string
	for _, rule := range badgeRules {
		if !earned[rule.name] && rule.met(s) {
			fresh = append(fresh, rule.name)
		}
	}
	return fresh
}

// LeaderboardEntry is a row on the global battle leaderboard.
type LeaderboardEntry struct {
	UserID       string         `json:"userId"`
	Name         string         `json:"name"`
	Rating       int            `json:"rating"`
	Wins         int            `json:"wins"`
	Losses       int            `json:"losses"`
	TotalBattles int            `json:"totalBattles"`
	WinRate      float64        `json:"winRate"`
	Badges       pq.StringArray `json:"badges"`
}
