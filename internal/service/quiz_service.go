package service

import (
	"fmt"
	"strings"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/logger"
)

// SkillQuestion is a quiz-bank question tagged with the skill it tests.
type SkillQuestion struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"-"`
	Skill    string   `json:"skill"`
}

// quizBanks are the built-in skill-assessment question sets.
var quizBanks = map[string][]SkillQuestion{
	"frontend": {
		{ID: 1, Question: "What does HTML stand for?",
			Options: []string{"Hyper Text Markup Language", "High Tech Modern Language", "Hyper Transfer Markup Language", "Home Tool Markup Language"},
			Correct: 0, Skill: "HTML"},
		{ID: 2, Question: "Which CSS property is used to change text color?",
			Options: []string{"font-color", "text-color", "color", "foreground-color"},
			Correct: 2, Skill: "CSS"},
		{ID: 3, Question: "What is the correct way to declare a JavaScript variable?",
			Options: []string{"variable x = 5", "v x = 5", "let x = 5", "var: x = 5"},
			Correct: 2, Skill: "JavaScript"},
		{ID: 4, Question: "Which command initializes a new Git repository?",
			Options: []string{"git start", "git init", "git create", "git new"},
			Correct: 1, Skill: "Git"},
		{ID: 5, Question: "What is React primarily used for?",
			Options: []string{"Database management", "Building user interfaces", "Server-side scripting", "Mobile app development only"},
			Correct: 1, Skill: "React"},
		{ID: 6, Question: "Which hook is used to manage state in React functional components?",
			Options: []string{"useEffect", "useState", "useContext", "useReducer"},
			Correct: 1, Skill: "React"},
		{ID: 7, Question: "What does CSS Flexbox primarily help with?",
			Options: []string{"Adding animations", "Layout and alignment", "Adding colors", "Form validation"},
			Correct: 1, Skill: "CSS"},
		{ID: 8, Question: "Which method is used to fetch data from an API in JavaScript?",
			Options: []string{"getData()", "fetch()", "request()", "api()"},
			Correct: 1, Skill: "JavaScript"},
		{ID: 9, Question: "What is npm?",
			Options: []string{"Node Package Manager", "New Programming Method", "Network Protocol Manager", "Node Process Monitor"},
			Correct: 0, Skill: "Tools"},
		{ID: 10, Question: "Which HTML tag is used for the largest heading?",
			Options: []string{"<heading>", "<h6>", "<h1>", "<head>"},
			Correct: 2, Skill: "HTML"},
	},
	"backend": {
		{ID: 1, Question: "What does REST stand for?",
			Options: []string{"Representational State Transfer", "Remote Execution Service Technology", "Request State Transfer", "Remote State Technology"},
			Correct: 0, Skill: "APIs"},
		{ID: 2, Question: "Which HTTP method is used to create a new resource?",
			Options: []string{"GET", "POST", "PUT", "DELETE"},
			Correct: 1, Skill: "APIs"},
		{ID: 3, Question: "What is SQL used for?",
			Options: []string{"Styling web pages", "Managing databases", "Building APIs", "Running servers"},
			Correct: 1, Skill: "Databases"},
		{ID: 4, Question: "Which of these is a NoSQL database?",
			Options: []string{"MySQL", "PostgreSQL", "MongoDB", "SQLite"},
			Correct: 2, Skill: "Databases"},
		{ID: 5, Question: "What does JWT stand for?",
			Options: []string{"JavaScript Web Token", "JSON Web Token", "Java Web Transfer", "JSON Web Transfer"},
			Correct: 1, Skill: "Authentication"},
	},
}

type quizStore interface {
	Create(result *models.QuizResult) error
	FindByUser(userID string, limit int) ([]models.QuizResult, error)
}

// QuizService serves the static question banks and grades submissions.
type QuizService struct {
	results  quizStore
	progress progressStore
}

func NewQuizService(results quizStore, progress progressStore) *QuizService {
	return &QuizService{results: results, progress: progress}
}

// Questions returns the bank for the category with correct answers
// stripped. Unknown categories fall back to frontend.
func (s *QuizService) Questions(category string) (string, []SkillQuestion) {
	bank, ok := quizBanks[category]
	if !ok {
		category = "frontend"
		bank = quizBanks[category]
	}
	return category, bank
}

// QuizAnswer is one submitted answer.
type QuizAnswer struct {
	QuestionID int `json:"question_id"`
	Answer     int `json:"answer"`
}

// Submit grades the answers, derives strong/weak skills, saves the result
// and updates the user's progress.
func (s *QuizService) Submit(userID, category string, answers []QuizAnswer, timeTaken int) (*models.QuizResult, error) {
	bank := quizBanks[category]
	if bank == nil {
		return nil, ErrQuizCategoryUnknown
	}

	score := 0
	strong := map[string]bool{}
	weak := map[string]bool{}
	detailed := models.JSONList{}

	for _, a := range answers {
		var question *SkillQuestion
		for i := range bank {
			if bank[i].ID == a.QuestionID {
				question = &bank[i]
				break
			}
		}
		if question == nil {
			continue
		}

		isCorrect := a.Answer == question.Correct
		if isCorrect {
			score++
			strong[question.Skill] = true
		} else {
			weak[question.Skill] = true
		}

		detailed = append(detailed, map[string]interface{}{
			"question_id":    a.QuestionID,
			"user_answer":    a.Answer,
			"correct_answer": question.Correct,
			"is_correct":     isCorrect,
			"skill":          question.Skill,
		})
	}

	// A skill that is both strong and weak is neither.
	finalStrong := []string{}
	for skill := range strong {
		if !weak[skill] {
			finalStrong = append(finalStrong, skill)
		}
	}
	finalWeak := []string{}
	skillGaps := []string{}
	for skill := range weak {
		skillGaps = append(skillGaps, skill)
		if !strong[skill] {
			finalWeak = append(finalWeak, skill)
		}
	}

	recommendations := make([]string, 0, len(skillGaps))
	for _, skill := range skillGaps {
		recommendations = append(recommendations, fmt.Sprintf("Practice more %s fundamentals", skill))
	}

	result := &models.QuizResult{
		UserID:           userID,
		Category:         category,
		QuizType:         "skill_assessment",
		Answers:          detailed,
		Score:            score,
		TotalQuestions:   len(bank),
		StrongSkills:     finalStrong,
		WeakSkills:       finalWeak,
		SkillGaps:        skillGaps,
		Recommendations:  recommendations,
		TimeTakenSeconds: timeTaken,
	}
	result.CalculatePercentage()

	if err := s.results.Create(result); err != nil {
		return nil, err
	}

	p, err := s.progress.GetOrCreate(userID)
	if err == nil {
		p.TotalQuizzesTaken++
		p.AddActivity("quiz_completed",
			fmt.Sprintf("%s Quiz: %.1f%%", titleCase(category), result.Percentage),
			map[string]interface{}{"category": category, "score": score})
		for _, skill := range finalStrong {
			p.AddSkill(skill)
		}
		if err := s.progress.Save(p); err != nil {
			logger.Warn("Failed to record quiz activity", "userId", userID, "error", err)
		}
	}

	return result, nil
}

// Results returns the user's quiz history, newest first.
func (s *QuizService) Results(userID string) ([]models.QuizResult, error) {
	return s.results.FindByUser(userID, 50)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
