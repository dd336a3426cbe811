package service

import (
	"fmt"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/logger"
)

type roadmapStore interface {
	List(category string) ([]models.Roadmap, error)
	FindBySlug(slug string) (*models.Roadmap, error)
	Categories() ([]string, error)
}

type userRoadmapStore interface {
	Create(rm *models.UserRoadmap) error
	FindByUser(userID string) ([]models.UserRoadmap, error)
	FindByID(id, userID string) (*models.UserRoadmap, error)
	Update(rm *models.UserRoadmap) error
	SaveCompletedNodes(id, userID string, completed []string) error
	Delete(id, userID string) (bool, error)
}

// RoadmapService serves the official catalog and the user's saved roadmaps.
type RoadmapService struct {
	catalog  roadmapStore
	saved    userRoadmapStore
	progress progressStore
}

func NewRoadmapService(catalog roadmapStore, saved userRoadmapStore, progress progressStore) *RoadmapService {
	return &RoadmapService{catalog: catalog, saved: saved, progress: progress}
}

// List returns published roadmaps, most viewed first.
func (s *RoadmapService) List(category string) ([]models.Roadmap, error) {
	return s.catalog.List(category)
}

// Categories returns all roadmap categories.
func (s *RoadmapService) Categories() ([]string, error) {
	return s.catalog.Categories()
}

// GetBySlug returns the full roadmap; every read counts a view.
func (s *RoadmapService) GetBySlug(slug string) (*models.Roadmap, error) {
	rm, err := s.catalog.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, ErrRoadmapNotFound
	}
	return rm, nil
}

// UserRoadmaps returns the user's saved roadmaps.
func (s *RoadmapService) UserRoadmaps(userID string) ([]models.UserRoadmap, error) {
	return s.saved.FindByUser(userID)
}

// GetUserRoadmap returns one of the user's saved roadmaps.
func (s *RoadmapService) GetUserRoadmap(id, userID string) (*models.UserRoadmap, error) {
	rm, err := s.saved.FindByID(id, userID)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, ErrRoadmapNotFound
	}
	return rm, nil
}

// Save stores a roadmap for the user and records the activity.
func (s *RoadmapService) Save(rm *models.UserRoadmap) error {
	if err := s.saved.Create(rm); err != nil {
		return err
	}

	p, err := s.progress.GetOrCreate(rm.UserID)
	if err == nil {
		p.TotalRoadmapsStarted++
		p.AddActivity("roadmap_saved", fmt.Sprintf("Saved roadmap: %s", rm.Title), nil)
		if err := s.progress.Save(p); err != nil {
			logger.Warn("Failed to record roadmap activity", "userId", rm.UserID, "error", err)
		}
	}
	return nil
}

// UpdateUserRoadmapInput carries the editable fields; nil means unchanged.
type UpdateUserRoadmapInput struct {
	Title          *string
	Description    *string
	Nodes          models.JSONList
	Connections    models.JSONList
	CompletedNodes []string
}

// Update applies the changed fields to a saved roadmap.
func (s *RoadmapService) Update(id, userID string, in UpdateUserRoadmapInput) (*models.UserRoadmap, error) {
	rm, err := s.saved.FindByID(id, userID)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, ErrRoadmapNotFound
	}

	if in.Title != nil {
		rm.Title = *in.Title
	}
	if in.Description != nil {
		rm.Description = *in.Description
	}
	if in.Nodes != nil {
		rm.Nodes = in.Nodes
	}
	if in.Connections != nil {
		rm.Connections = in.Connections
	}
	if in.CompletedNodes != nil {
		rm.CompletedNodes = in.CompletedNodes
	}

	if err := s.saved.Update(rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// Delete removes a saved roadmap.
func (s *RoadmapService) Delete(id, userID string) error {
	ok, err := s.saved.Delete(id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRoadmapNotFound
	}
	return nil
}

// ToggleNode marks a node complete or incomplete and updates the user's
// progress counters and streak.
func (s *RoadmapService) ToggleNode(id, userID, nodeID string, completed bool) ([]string, int, error) {
	rm, err := s.saved.FindByID(id, userID)
	if err != nil {
		return nil, 0, err
	}
	if rm == nil {
		return nil, 0, ErrRoadmapNotFound
	}

	nodes := rm.CompletedNodes
	has := false
	for _, n := range nodes {
		if n == nodeID {
			has = true
			break
		}
	}

	if completed && !has {
		nodes = append(nodes, nodeID)
	} else if !completed && has {
		filtered := nodes[:0]
		for _, n := range nodes {
			if n != nodeID {
				filtered = append(filtered, n)
			}
		}
		nodes = filtered
	}
	rm.CompletedNodes = nodes

	p, err := s.progress.GetOrCreate(userID)
	if err == nil {
		if completed {
			p.TotalNodesCompleted++
			p.AddActivity("node_completed", fmt.Sprintf("Completed: %s", nodeID),
				map[string]interface{}{"roadmap_id": id})
		} else if p.TotalNodesCompleted > 0 {
			p.TotalNodesCompleted--
		}
		if err := s.progress.Save(p); err != nil {
			logger.Warn("Failed to record node progress", "userId", userID, "error", err)
		}
	}

	if err := s.saved.SaveCompletedNodes(id, userID, nodes); err != nil {
		return nil, 0, err
	}
	return nodes, rm.Progress(), nil
}
