package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/llm"
	"github.com/careersage/careersage-backend/pkg/logger"
)

// AIService generates personalized learning roadmaps. Topics must be
// technology related; generation degrades to a career-goal template when
// the LLM fails.
type AIService struct {
	client   Completer
	saved    userRoadmapStore
	progress progressStore
}

func NewAIService(client Completer, saved userRoadmapStore, progress progressStore) *AIService {
	return &AIService{client: client, saved: saved, progress: progress}
}

var blockedTopicKeywords = []string{
	"pornstar", "porn", "adult", "sex", "escort",
	"movie star", "actor", "actress", "singer", "musician",
	"athlete", "football", "soccer", "basketball", "sport",
}

var techTopicKeywords = []string{
	"developer", "engineer", "programmer", "software", "web", "mobile",
	"data", "ai", "machine learning", "ml", "deep learning",
	"devops", "cloud", "aws", "azure", "gcp",
	"frontend", "backend", "fullstack", "full stack",
	"python", "java", "javascript", "react", "angular", "vue",
	"node", "django", "flask", "spring",
	"database", "sql", "nosql", "mongodb", "postgresql",
	"embedded", "iot", "robotics", "firmware",
	"cyber", "security", "hacking", "penetration",
	"blockchain", "crypto", "smart contract",
	"game", "unity", "unreal",
	"android", "ios", "flutter", "react native",
	"ui", "ux", "design", "product",
	"qa", "testing", "automation",
	"tech", "it", "computer", "coding", "programming",
}

// IsTechTopic gates generation to technology careers. "Ethical hacking"
// passes despite the blocked-keyword overlap.
func IsTechTopic(topic string) bool {
	lower := strings.ToLower(strings.TrimSpace(topic))

	for _, blocked := range blockedTopicKeywords {
		if strings.Contains(lower, blocked) {
			if strings.Contains(lower, "ethical") && strings.Contains(lower, "hack") {
				continue
			}
			logger.Warn("Blocked topic", "topic", topic)
			return false
		}
	}

	for _, keyword := range techTopicKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	logger.Warn("Non-tech topic rejected", "topic", topic)
	return false
}

const roadmapSystemPrompt = "You are an expert career roadmap generator. Output ONLY valid JSON."

func roadmapPrompt(topic string, skills []string, experienceLevel, careerGoal string) string {
	skillsText := "None specified"
	if len(skills) > 0 {
		skillsText = strings.Join(skills, ", ")
	}

	return fmt.Sprintf(`Generate a personalized learning roadmap for: **%s**

**User Profile:**
- Current Skills: %s
- Experience Level: %s
- Career Goal: %s

**Requirements:**
1. Create 12-15 learning nodes covering the complete journey
2. Each node must have:
   - Unique ID (lowercase-with-hyphens)
   - Clear title (keep it short, max 4-5 words)
   - Description (2-3 sentences)
   - Topics list (3-5 key concepts)
   - Estimated time
   - 3 FREE resources with REAL, working URLs
   - Type: "required" or "recommended"

3. **CRITICAL - Create a proper DAG (Directed Acyclic Graph) flow:**
   - Start with 1 foundation node at the top
   - Branch into 2-3 parallel paths for related skills
   - Merge branches back into a single node before branching again
   - Every node must have at least one incoming and one outgoing edge (except first/last)

4. Edges define the learning dependency flow

**Output ONLY valid JSON** in this exact format:
{
  "title": "%s - Complete Learning Path",
  "description": "Comprehensive roadmap for %s...",
  "nodes": [
    {
      "id": "node-id",
      "title": "Node Title",
      "description": "What you'll learn...",
      "type": "required",
      "estimatedTime": "2 weeks",
      "topics": ["Topic 1", "Topic 2", "Topic 3"],
      "resources": [
        {"title": "Video Title", "url": "https://youtube.com/...", "type": "video"},
        {"title": "Article Title", "url": "https://...", "type": "article"},
        {"title": "Docs Title", "url": "https://...", "type": "docs"}
      ]
    }
  ],
  "edges": [
    {"source": "node1-id", "target": "node2-id"}
  ]
}

IMPORTANT: Use real, working URLs. Create branching and merging edges for a proper flowchart structure, NOT a purely linear chain.

Generate the roadmap now.`, topic, skillsText, experienceLevel, careerGoal, topic, topic)
}

// GenerateRoadmapInput carries the generation parameters.
type GenerateRoadmapInput struct {
	Topic           string
	Skills          []string
	ExperienceLevel string
	CareerGoal      string
}

// GenerateRoadmap produces and saves an AI roadmap for the user. The
// topic gate rejects non-tech topics; LLM or parse failures fall back to
// the career-goal template.
func (s *AIService) GenerateRoadmap(ctx context.Context, userID string, in GenerateRoadmapInput) (*models.UserRoadmap, error) {
	if in.Topic == "" {
		return nil, ErrRoadmapNotFound
	}
	if !IsTechTopic(in.Topic) {
		return nil, ErrNotTechTopic
	}
	if in.ExperienceLevel == "" {
		in.ExperienceLevel = "beginner"
	}
	if in.CareerGoal == "" {
		in.CareerGoal = "frontend-developer"
	}

	title, description, nodes, connections := s.generate(ctx, in)

	rm := &models.UserRoadmap{
		UserID:        userID,
		Title:         title,
		Description:   description,
		Nodes:         nodes,
		Connections:   connections,
		IsAIGenerated: true,
		GenerationParams: models.JSONMap{
			"topic":            in.Topic,
			"skills":           in.Skills,
			"experience_level": in.ExperienceLevel,
			"career_goal":      in.CareerGoal,
		},
	}
	if err := s.saved.Create(rm); err != nil {
		return nil, err
	}

	p, err := s.progress.GetOrCreate(userID)
	if err == nil {
		p.TotalRoadmapsStarted++
		p.AddActivity("ai_roadmap_generated", fmt.Sprintf("Generated: %s", title),
			map[string]interface{}{"topic": in.Topic, "career_goal": in.CareerGoal})
		if err := s.progress.Save(p); err != nil {
			logger.Warn("Failed to record roadmap generation", "userId", userID, "error", err)
		}
	}

	return rm, nil
}

func (s *AIService) generate(ctx context.Context, in GenerateRoadmapInput) (string, string, models.JSONList, models.JSONList) {
	if s.client != nil {
		content, err := s.client.Complete(ctx, roadmapSystemPrompt,
			roadmapPrompt(in.Topic, in.Skills, in.ExperienceLevel, in.CareerGoal))
		if err == nil {
			var data struct {
				Title       string          `json:"title"`
				Description string          `json:"description"`
				Nodes       models.JSONList `json:"nodes"`
				Edges       models.JSONList `json:"edges"`
				Connections models.JSONList `json:"connections"`
			}
			if err := llm.ExtractJSON(content, &data); err == nil && len(data.Nodes) > 0 {
				connections := data.Connections
				if len(connections) == 0 {
					connections = data.Edges
				}
				nodes, connections := validateRoadmap(data.Nodes, connections)
				title := fmt.Sprintf("%s - Complete Path", titleCase(in.Topic))
				description := fmt.Sprintf("Comprehensive learning path for %s covering all key concepts.", in.Topic)
				logger.Info("AI roadmap generated", "topic", in.Topic, "nodes", len(nodes))
				return title, description, nodes, connections
			}
		}
		logger.Warn("AI roadmap generation fell back to template", "topic", in.Topic)
	}

	return fallbackRoadmap(in.Topic, in.ExperienceLevel, in.CareerGoal)
}

// validateRoadmap fills missing node fields and lays the graph out on a
// hierarchical grid.
func validateRoadmap(nodes, connections models.JSONList) (models.JSONList, models.JSONList) {
	if connections == nil {
		connections = models.JSONList{}
	}

	for i, node := range nodes {
		if _, ok := node["id"]; !ok {
			node["id"] = fmt.Sprintf("node-%d", i+1)
		}
		if _, ok := node["title"]; !ok {
			node["title"] = fmt.Sprintf("Learning Step %d", i+1)
		}
		if _, ok := node["description"]; !ok {
			node["description"] = "Important learning milestone"
		}
		if _, ok := node["type"]; !ok {
			node["type"] = "custom"
		}
		if _, ok := node["topics"]; !ok {
			node["topics"] = []interface{}{}
		}
		if _, ok := node["resources"]; !ok {
			node["resources"] = []interface{}{}
		}
		if _, ok := node["estimatedTime"]; !ok {
			node["estimatedTime"] = "2 weeks"
		}
	}

	applyHierarchicalLayout(nodes, connections)
	return nodes, connections
}

// applyHierarchicalLayout positions nodes on ranked rows: BFS from the
// roots assigns ranks, each row is centered and ordered by the average
// position of its parents.
func applyHierarchicalLayout(nodes, connections models.JSONList) {
	const (
		nodeWidth  = 220
		nodeHeight = 80
		rankSep    = 100
		nodeSep    = 80
	)

	if len(nodes) == 0 {
		return
	}

	nodeID := func(n map[string]interface{}) string {
		id, _ := n["id"].(string)
		return id
	}
	edgeEnds := func(c map[string]interface{}) (string, string) {
		from, _ := c["from"].(string)
		if from == "" {
			from, _ = c["source"].(string)
		}
		to, _ := c["to"].(string)
		if to == "" {
			to, _ = c["target"].(string)
		}
		return from, to
	}

	nodeMap := map[string]map[string]interface{}{}
	for _, n := range nodes {
		nodeMap[nodeID(n)] = n
	}

	adj := map[string][]string{}
	revAdj := map[string][]string{}
	inDegree := map[string]int{}
	for _, n := range nodes {
		inDegree[nodeID(n)] = 0
	}
	for _, c := range connections {
		u, v := edgeEnds(c)
		if _, uok := nodeMap[u]; !uok {
			continue
		}
		if _, vok := nodeMap[v]; !vok {
			continue
		}
		adj[u] = append(adj[u], v)
		revAdj[v] = append(revAdj[v], u)
		inDegree[v]++
	}

	ranks := map[string]int{}
	var queue []string
	for _, n := range nodes {
		if inDegree[nodeID(n)] == 0 {
			queue = append(queue, nodeID(n))
		}
	}
	if len(queue) == 0 {
		queue = []string{nodeID(nodes[0])}
	}
	type item struct {
		id   string
		rank int
	}
	var process []item
	for _, root := range queue {
		ranks[root] = 0
		process = append(process, item{root, 0})
	}
	for len(process) > 0 {
		cur := process[0]
		process = process[1:]
		if cur.rank > ranks[cur.id] {
			ranks[cur.id] = cur.rank
		}
		for _, next := range adj[cur.id] {
			if r, ok := ranks[next]; (!ok || r < cur.rank+1) && cur.rank < 50 {
				ranks[next] = cur.rank + 1
				process = append(process, item{next, cur.rank + 1})
			}
		}
	}

	maxRank := 0
	for _, r := range ranks {
		if r > maxRank {
			maxRank = r
		}
	}
	for _, n := range nodes {
		if _, ok := ranks[nodeID(n)]; !ok {
			maxRank++
			ranks[nodeID(n)] = maxRank
		}
	}

	rankGroups := map[int][]string{}
	for id, r := range ranks {
		rankGroups[r] = append(rankGroups[r], id)
	}
	sortedRanks := make([]int, 0, len(rankGroups))
	for r := range rankGroups {
		sortedRanks = append(sortedRanks, r)
	}
	sort.Ints(sortedRanks)
	for _, r := range sortedRanks {
		sort.Strings(rankGroups[r])
	}

	// Order each row by the average position of its parents in the row
	// above, reducing edge crossings.
	for i := 1; i < len(sortedRanks); i++ {
		r := sortedRanks[i]
		prevOrder := map[string]int{}
		for idx, id := range rankGroups[sortedRanks[i-1]] {
			prevOrder[id] = idx
		}
		sort.SliceStable(rankGroups[r], func(a, b int) bool {
			return avgParentPos(rankGroups[r][a], revAdj, prevOrder) < avgParentPos(rankGroups[r][b], revAdj, prevOrder)
		})
	}

	for _, r := range sortedRanks {
		group := rankGroups[r]
		rowWidth := len(group)*nodeWidth + (len(group)-1)*nodeSep
		x := 600 - rowWidth/2
		y := r * (nodeHeight + rankSep)
		for _, id := range group {
			node := nodeMap[id]
			node["targetPosition"] = "top"
			node["sourcePosition"] = "bottom"
			node["x"] = x
			node["y"] = y
			x += nodeWidth + nodeSep
		}
	}
}

func avgParentPos(id string, revAdj map[string][]string, prevOrder map[string]int) float64 {
	sum, count := 0, 0
	for _, p := range revAdj[id] {
		if pos, ok := prevOrder[p]; ok {
			sum += pos
			count++
		}
	}
	if count == 0 {
		return 9999
	}
	return float64(sum) / float64(count)
}
