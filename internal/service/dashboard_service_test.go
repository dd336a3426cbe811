package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/internal/repository"
)

type fakeProgressLeaderboard struct {
	entries []repository.ProgressLeaderboardEntry
}

func (f *fakeProgressLeaderboard) TopByNodesCompleted(limit int) ([]repository.ProgressLeaderboardEntry, error) {
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func TestDashboardService_Stats(t *testing.T) {
	progress := newFakeProgressStore()
	roadmaps := newFakeUserRoadmapStore()
	quizzes := &fakeQuizStore{}
	svc := NewDashboardService(progress, roadmaps, quizzes, &fakeProgressLeaderboard{})

	p, _ := progress.GetOrCreate("u1")
	p.TotalNodesCompleted = 7
	p.CurrentStreak = 3
	p.LongestStreak = 5
	p.Skills = []string{"HTML", "CSS"}

	// Two roadmaps at 50% and 100%.
	require.NoError(t, roadmaps.Create(&models.UserRoadmap{
		UserID:         "u1",
		Nodes:          models.JSONList{{"id": "a"}, {"id": "b"}},
		CompletedNodes: []string{"a"},
	}))
	require.NoError(t, roadmaps.Create(&models.UserRoadmap{
		UserID:         "u1",
		Nodes:          models.JSONList{{"id": "a"}},
		CompletedNodes: []string{"a"},
	}))

	quizzes.results = []models.QuizResult{
		{UserID: "u1", Percentage: 80},
		{UserID: "u1", Percentage: 60},
	}

	stats, err := svc.Stats("u1")
	require.NoError(t, err)

	assert.Equal(t, 75, stats.TotalProgress)
	assert.Equal(t, 2, stats.ActiveRoadmaps)
	assert.Equal(t, 2, stats.SkillsAcquired)
	assert.Equal(t, 2, stats.QuizzesTaken)
	assert.Equal(t, 70, stats.AvgQuizScore)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 5, stats.LongestStreak)
	assert.Equal(t, 7, stats.NodesCompleted)
}

func TestDashboardService_Stats_EmptyUser(t *testing.T) {
	svc := NewDashboardService(newFakeProgressStore(), newFakeUserRoadmapStore(), &fakeQuizStore{}, &fakeProgressLeaderboard{})

	stats, err := svc.Stats("fresh")
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{}, stats)
}

func TestDashboardService_Roadmaps(t *testing.T) {
	roadmaps := newFakeUserRoadmapStore()
	svc := NewDashboardService(newFakeProgressStore(), roadmaps, &fakeQuizStore{}, &fakeProgressLeaderboard{})

	require.NoError(t, roadmaps.Create(&models.UserRoadmap{
		UserID:         "u1",
		Title:          "Go Path",
		Nodes:          models.JSONList{{"id": "a"}, {"id": "b"}},
		CompletedNodes: []string{"a"},
		IsAIGenerated:  true,
	}))

	cards, err := svc.Roadmaps("u1")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Go Path", cards[0].Title)
	assert.Equal(t, 50, cards[0].Progress)
	assert.True(t, cards[0].IsAIGenerated)
}

func TestDashboardService_ActivityAndSkills(t *testing.T) {
	progress := newFakeProgressStore()
	svc := NewDashboardService(progress, newFakeUserRoadmapStore(), &fakeQuizStore{}, &fakeProgressLeaderboard{})

	// A user with no history gets empty, non-nil results.
	activity, err := svc.Activity("fresh")
	require.NoError(t, err)
	assert.NotNil(t, activity)
	assert.Empty(t, activity)

	p, _ := progress.GetOrCreate("u1")
	p.AddActivity("quiz_completed", "Frontend Quiz: 80.0%", nil)
	p.Skills = []string{"React"}

	activity, err = svc.Activity("u1")
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, "quiz_completed", activity[0]["type"])

	skills, err := svc.Skills("u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"React"}, skills)
}

func TestDashboardService_Leaderboard(t *testing.T) {
	board := &fakeProgressLeaderboard{}
	for i := 0; i < 15; i++ {
		board.entries = append(board.entries, repository.ProgressLeaderboardEntry{
			UserID:              "u",
			TotalNodesCompleted: 100 - i,
		})
	}
	svc := NewDashboardService(newFakeProgressStore(), newFakeUserRoadmapStore(), &fakeQuizStore{}, board)

	entries, err := svc.Leaderboard()
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}
