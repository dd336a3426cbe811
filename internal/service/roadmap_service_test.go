package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careersage/careersage-backend/internal/models"
)

type fakeCatalogStore struct {
	roadmaps []models.Roadmap
}

func (f *fakeCatalogStore) List(category string) ([]models.Roadmap, error) {
	if category == "" {
		return f.roadmaps, nil
	}
	var out []models.Roadmap
	for _, rm := range f.roadmaps {
		if rm.Category == category {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) FindBySlug(slug string) (*models.Roadmap, error) {
	for i := range f.roadmaps {
		if f.roadmaps[i].Slug == slug {
			return &f.roadmaps[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogStore) Categories() ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, rm := range f.roadmaps {
		if !seen[rm.Category] {
			seen[rm.Category] = true
			out = append(out, rm.Category)
		}
	}
	return out, nil
}

func newRoadmapFixture() (*RoadmapService, *fakeUserRoadmapStore, *fakeProgressStore) {
	catalog := &fakeCatalogStore{roadmaps: []models.Roadmap{
		{ID: "r1", Slug: "frontend-developer", Title: "Frontend Developer", Category: "web"},
		{ID: "r2", Slug: "data-scientist", Title: "Data Scientist", Category: "data"},
	}}
	saved := newFakeUserRoadmapStore()
	progress := newFakeProgressStore()
	return NewRoadmapService(catalog, saved, progress), saved, progress
}

func TestRoadmapService_Catalog(t *testing.T) {
	svc, _, _ := newRoadmapFixture()

	all, err := svc.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	web, err := svc.List("web")
	require.NoError(t, err)
	require.Len(t, web, 1)
	assert.Equal(t, "frontend-developer", web[0].Slug)

	categories, err := svc.Categories()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"web", "data"}, categories)

	rm, err := svc.GetBySlug("data-scientist")
	require.NoError(t, err)
	assert.Equal(t, "Data Scientist", rm.Title)

	_, err = svc.GetBySlug("nope")
	assert.ErrorIs(t, err, ErrRoadmapNotFound)
}

func TestRoadmapService_SaveRecordsActivity(t *testing.T) {
	svc, saved, progress := newRoadmapFixture()

	rm := &models.UserRoadmap{
		UserID: "u1",
		Title:  "My Path",
		Nodes:  models.JSONList{{"id": "a"}, {"id": "b"}},
	}
	require.NoError(t, svc.Save(rm))
	assert.NotEmpty(t, rm.ID)
	assert.Len(t, saved.roadmaps, 1)

	p, _ := progress.GetOrCreate("u1")
	assert.Equal(t, 1, p.TotalRoadmapsStarted)
	require.Len(t, p.RecentActivity, 1)
	assert.Equal(t, "roadmap_saved", p.RecentActivity[0]["type"])
	assert.Equal(t, "Saved roadmap: My Path", p.RecentActivity[0]["description"])
}

func TestRoadmapService_Update(t *testing.T) {
	svc, _, _ := newRoadmapFixture()

	rm := &models.UserRoadmap{UserID: "u1", Title: "Old", Description: "old desc"}
	require.NoError(t, svc.Save(rm))

	newTitle := "New"
	updated, err := svc.Update(rm.ID, "u1", UpdateUserRoadmapInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "old desc", updated.Description)

	// Another user cannot touch it.
	_, err = svc.Update(rm.ID, "u2", UpdateUserRoadmapInput{Title: &newTitle})
	assert.Error(t, err)
}

func TestRoadmapService_Delete(t *testing.T) {
	svc, _, _ := newRoadmapFixture()

	rm := &models.UserRoadmap{UserID: "u1", Title: "Path"}
	require.NoError(t, svc.Save(rm))

	require.NoError(t, svc.Delete(rm.ID, "u1"))
	assert.ErrorIs(t, svc.Delete(rm.ID, "u1"), ErrRoadmapNotFound)
}

func TestRoadmapService_ToggleNode(t *testing.T) {
	svc, _, progress := newRoadmapFixture()

	rm := &models.UserRoadmap{
		UserID: "u1",
		Title:  "Path",
		Nodes:  models.JSONList{{"id": "a"}, {"id": "b"}, {"id": "c"}, {"id": "d"}},
	}
	require.NoError(t, svc.Save(rm))

	nodes, pct, err := svc.ToggleNode(rm.ID, "u1", "a", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, nodes)
	assert.Equal(t, 25, pct)

	// Completing the same node twice does not duplicate it.
	nodes, pct, err = svc.ToggleNode(rm.ID, "u1", "a", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, nodes)
	assert.Equal(t, 25, pct)

	nodes, pct, err = svc.ToggleNode(rm.ID, "u1", "b", true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, nodes)
	assert.Equal(t, 50, pct)

	nodes, pct, err = svc.ToggleNode(rm.ID, "u1", "a", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, nodes)
	assert.Equal(t, 25, pct)

	p, _ := progress.GetOrCreate("u1")
	// Three completions minus one uncompletion.
	assert.Equal(t, 2, p.TotalNodesCompleted)
}

func TestRoadmapService_ToggleNode_UnknownRoadmap(t *testing.T) {
	svc, _, _ := newRoadmapFixture()

	_, _, err := svc.ToggleNode("missing", "u1", "a", true)
	assert.Error(t, err)
}
