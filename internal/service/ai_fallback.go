package service

import (
	"fmt"
	"strings"

	"github.com/careersage/careersage-backend/internal/models"
)

func node(id, title string, x, y int, nodeType string, topics ...string) map[string]interface{} {
	topicList := make([]interface{}, len(topics))
	for i, t := range topics {
		topicList[i] = t
	}
	return map[string]interface{}{
		"id":     id,
		"title":  title,
		"x":      x,
		"y":      y,
		"type":   nodeType,
		"topics": topicList,
	}
}

func edge(from, to string) map[string]interface{} {
	return map[string]interface{}{"from": from, "to": to}
}

// fallbackRoadmap returns the deterministic career-goal template used when
// the LLM is unavailable.
func fallbackRoadmap(topic, experienceLevel, careerGoal string) (string, string, models.JSONList, models.JSONList) {
	level := titleCase(experienceLevel)

	switch careerGoal {
	case "backend-developer":
		return fmt.Sprintf("Backend Developer - %s Path", level),
			fmt.Sprintf("Personalized learning path for %s focusing on backend development", topic),
			models.JSONList{
				node("language", "Programming Language", 500, 0, "required", "Python", "Node.js", "or Java"),
				node("database", "Databases", 500, 120, "required", "PostgreSQL", "MongoDB"),
				node("api", "API Development", 500, 240, "required", "REST", "GraphQL"),
				node("auth", "Authentication", 300, 360, "required", "JWT", "OAuth"),
				node("cache", "Caching", 700, 360, "recommended", "Redis", "Memcached"),
				node("docker", "Containerization", 500, 480, "required", "Docker", "Docker Compose"),
				node("cloud", "Cloud Services", 500, 600, "required", "AWS", "GCP", "Azure"),
			},
			models.JSONList{
				edge("language", "database"),
				edge("database", "api"),
				edge("api", "auth"),
				edge("api", "cache"),
				edge("auth", "docker"),
				edge("cache", "docker"),
				edge("docker", "cloud"),
			}

	case "fullstack-developer":
		return fmt.Sprintf("Full Stack Developer - %s Path", level),
			fmt.Sprintf("Personalized learning path for %s covering full stack development", topic),
			models.JSONList{
				node("html-css", "HTML & CSS", 500, 0, "required", "Semantic HTML", "CSS3", "Responsive"),
				node("js", "JavaScript", 500, 120, "required", "ES6+", "Async", "DOM"),
				node("react", "React", 300, 240, "required", "Components", "Hooks", "State"),
				node("node", "Node.js", 700, 240, "required", "Express", "NPM", "APIs"),
				node("database", "Databases", 500, 360, "required", "PostgreSQL", "MongoDB"),
				node("auth", "Authentication", 500, 480, "required", "JWT", "Sessions"),
				node("deploy", "Deployment", 500, 600, "required", "Docker", "Vercel", "AWS"),
			},
			models.JSONList{
				edge("html-css", "js"),
				edge("js", "react"),
				edge("js", "node"),
				edge("react", "database"),
				edge("node", "database"),
				edge("database", "auth"),
				edge("auth", "deploy"),
			}

	case "data-scientist":
		return fmt.Sprintf("Data Scientist - %s Path", level),
			fmt.Sprintf("Personalized learning path for %s in data science", topic),
			models.JSONList{
				node("python", "Python", 500, 0, "required", "Basics", "NumPy", "Pandas"),
				node("stats", "Statistics", 500, 120, "required", "Descriptive", "Inferential", "Probability"),
				node("ml", "Machine Learning", 500, 240, "required", "Scikit-learn", "Regression", "Classification"),
				node("viz", "Data Visualization", 300, 360, "required", "Matplotlib", "Seaborn", "Plotly"),
				node("dl", "Deep Learning", 700, 360, "recommended", "TensorFlow", "PyTorch"),
				node("sql", "SQL & Databases", 500, 480, "required", "SQL", "PostgreSQL"),
			},
			models.JSONList{
				edge("python", "stats"),
				edge("stats", "ml"),
				edge("ml", "viz"),
				edge("ml", "dl"),
				edge("viz", "sql"),
				edge("dl", "sql"),
			}

	default:
		return fmt.Sprintf("Frontend Developer - %s Path", level),
			fmt.Sprintf("Personalized learning path for %s focusing on frontend development", topic),
			models.JSONList{
				node("html", "HTML Fundamentals", 500, 0, "required", "Semantic HTML", "Forms", "Accessibility"),
				node("css", "CSS Styling", 500, 120, "required", "Flexbox", "Grid", "Responsive Design"),
				node("js", "JavaScript", 500, 240, "required", "ES6+", "DOM", "Async/Await"),
				node("framework", "Frontend Framework", 500, 360, "required", "React", "Vue", "or Angular"),
				node("state", "State Management", 300, 480, "recommended", "Redux", "Zustand", "Context"),
				node("testing", "Testing", 700, 480, "recommended", "Jest", "React Testing Library"),
				node("build", "Build Tools", 500, 600, "required", "Vite", "Webpack"),
				node("deploy", "Deployment", 500, 720, "required", "Vercel", "Netlify", "AWS"),
			},
			models.JSONList{
				edge("html", "css"),
				edge("css", "js"),
				edge("js", "framework"),
				edge("framework", "state"),
				edge("framework", "testing"),
				edge("state", "build"),
				edge("testing", "build"),
				edge("build", "deploy"),
			}
	}
}

// AIChat returns the canned tutor response for a chat message.
func AIChat(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "help"):
		return "I can help you with:\n1. Explaining technical concepts\n2. Suggesting learning resources\n3. Answering coding questions\n4. Providing career guidance"
	case strings.Contains(lower, "roadmap"), strings.Contains(lower, "next"):
		return "Based on your current progress, I recommend focusing on the fundamentals first. Master the basics before moving to advanced topics!"
	default:
		return "I'm your AI learning assistant! I can help you with questions about your learning path, explain concepts, or suggest resources. What would you like to know?"
	}
}

// Resource is a suggested learning resource.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

var resourceCatalog = map[string][]Resource{
	"html": {
		{"MDN HTML Guide", "https://developer.mozilla.org/en-US/docs/Learn/HTML", "documentation"},
		{"freeCodeCamp HTML", "https://www.freecodecamp.org/learn/responsive-web-design/", "course"},
	},
	"css": {
		{"CSS-Tricks", "https://css-tricks.com/", "blog"},
		{"Flexbox Froggy", "https://flexboxfroggy.com/", "interactive"},
	},
	"javascript": {
		{"JavaScript.info", "https://javascript.info/", "tutorial"},
		{"Eloquent JavaScript", "https://eloquentjavascript.net/", "book"},
	},
	"react": {
		{"React Official Docs", "https://react.dev/", "documentation"},
		{"React Tutorial", "https://react.dev/learn", "tutorial"},
	},
}

var defaultResources = []Resource{
	{"freeCodeCamp", "https://www.freecodecamp.org/", "course"},
	{"Codecademy", "https://www.codecademy.com/", "course"},
}

// SuggestResources returns curated resources for a topic.
func SuggestResources(topic string) []Resource {
	if resources, ok := resourceCatalog[strings.ToLower(strings.TrimSpace(topic))]; ok {
		return resources
	}
	return defaultResources
}
