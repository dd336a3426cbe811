package models

import "time"

// Roadmap is an official roadmap template from the catalog.
type Roadmap struct {
	ID          string    `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Nodes       JSONList  `json:"nodes,omitempty" db:"nodes"`
	Connections JSONList  `json:"connections,omitempty" db:"connections"`
	FAQs        JSONList  `json:"faqs,omitempty" db:"faqs"`
	IsOfficial  bool      `json:"isOfficial" db:"is_official"`
	IsPublished bool      `json:"-" db:"is_published"`
	ViewCount   int       `json:"viewCount" db:"view_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
}

// UserRoadmap is a user's saved or AI-generated roadmap, with per-node
// completion tracking.
type UserRoadmap struct {
	ID               string    `json:"id" db:"id"`
	UserID           string    `json:"-" db:"user_id"`
	RoadmapID        string    `json:"roadmapId,omitempty" db:"roadmap_id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	Nodes            JSONList  `json:"nodes" db:"nodes"`
	Connections      JSONList  `json:"connections" db:"connections"`
	CompletedNodes   []string  `json:"completedNodes" db:"completed_nodes"`
	IsAIGenerated    bool      `json:"isAiGenerated" db:"is_ai_generated"`
	GenerationParams JSONMap   `json:"generationParams,omitempty" db:"generation_params"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// Progress returns the completion percentage, rounded to the nearest int.
func (r *UserRoadmap) Progress() int {
	total := len(r.Nodes)
	if total == 0 {
		return 0
	}
	completed := len(r.CompletedNodes)
	return int(float64(completed)/float64(total)*100 + 0.5)
}
