package service

import (
	"math"
	"time"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/internal/repository"
)

type progressLeaderboard interface {
	TopByNodesCompleted(limit int) ([]repository.ProgressLeaderboardEntry, error)
}

// DashboardService aggregates the user's learning data for the dashboard.
type DashboardService struct {
	progress    progressStore
	roadmaps    userRoadmapStore
	quizzes     quizStore
	leaderboard progressLeaderboard
}

func NewDashboardService(progress progressStore, roadmaps userRoadmapStore, quizzes quizStore, leaderboard progressLeaderboard) *DashboardService {
	return &DashboardService{progress: progress, roadmaps: roadmaps, quizzes: quizzes, leaderboard: leaderboard}
}

// DashboardStats is the headline-number block on the dashboard.
type DashboardStats struct {
	TotalProgress  int `json:"totalProgress"`
	ActiveRoadmaps int `json:"activeRoadmaps"`
	SkillsAcquired int `json:"skillsAcquired"`
	QuizzesTaken   int `json:"quizzesTaken"`
	AvgQuizScore   int `json:"avgQuizScore"`
	CurrentStreak  int `json:"currentStreak"`
	LongestStreak  int `json:"longestStreak"`
	NodesCompleted int `json:"nodesCompleted"`
}

// Stats computes average roadmap progress, quiz averages and streaks.
func (s *DashboardService) Stats(userID string) (*DashboardStats, error) {
	p, err := s.progress.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	roadmaps, err := s.roadmaps.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	avgProgress := 0
	if len(roadmaps) > 0 {
		total := 0
		for i := range roadmaps {
			total += roadmaps[i].Progress()
		}
		avgProgress = int(math.Round(float64(total) / float64(len(roadmaps))))
	}

	quizzes, err := s.quizzes.FindByUser(userID, 1000)
	if err != nil {
		return nil, err
	}
	avgQuizScore := 0
	if len(quizzes) > 0 {
		total := 0.0
		for i := range quizzes {
			total += quizzes[i].Percentage
		}
		avgQuizScore = int(math.Round(total / float64(len(quizzes))))
	}

	return &DashboardStats{
		TotalProgress:  avgProgress,
		ActiveRoadmaps: len(roadmaps),
		SkillsAcquired: len(p.Skills),
		QuizzesTaken:   len(quizzes),
		AvgQuizScore:   avgQuizScore,
		CurrentStreak:  p.CurrentStreak,
		LongestStreak:  p.LongestStreak,
		NodesCompleted: p.TotalNodesCompleted,
	}, nil
}

// DashboardRoadmap is the compact roadmap card on the dashboard.
type DashboardRoadmap struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Progress      int    `json:"progress"`
	IsAIGenerated bool   `json:"isAiGenerated"`
	UpdatedAt     string `json:"updatedAt"`
}

// Roadmaps returns the user's most recently touched roadmaps.
func (s *DashboardService) Roadmaps(userID string) ([]DashboardRoadmap, error) {
	roadmaps, err := s.roadmaps.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(roadmaps) > 5 {
		roadmaps = roadmaps[:5]
	}

	cards := make([]DashboardRoadmap, 0, len(roadmaps))
	for i := range roadmaps {
		r := &roadmaps[i]
		cards = append(cards, DashboardRoadmap{
			ID:            r.ID,
			Title:         r.Title,
			Progress:      r.Progress(),
			IsAIGenerated: r.IsAIGenerated,
			UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
		})
	}
	return cards, nil
}

// Activity returns the user's recent-activity log.
func (s *DashboardService) Activity(userID string) (models.JSONList, error) {
	p, err := s.progress.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if p.RecentActivity == nil {
		return models.JSONList{}, nil
	}
	return p.RecentActivity, nil
}

// Skills returns the user's acquired skills.
func (s *DashboardService) Skills(userID string) ([]string, error) {
	p, err := s.progress.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	return []string(p.Skills), nil
}

// Progress returns the full progress row.
func (s *DashboardService) Progress(userID string) (*models.UserProgress, error) {
	return s.progress.GetOrCreate(userID)
}

// Leaderboard ranks the top users by completed nodes.
func (s *DashboardService) Leaderboard() ([]repository.ProgressLeaderboardEntry, error) {
	return s.leaderboard.TopByNodesCompleted(10)
}
