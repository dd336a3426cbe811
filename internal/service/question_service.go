package service

import (
	"context"
	"fmt"

	"github.com/careersage/careersage-backend/internal/models"
	"github.com/careersage/careersage-backend/pkg/llm"
	"github.com/careersage/careersage-backend/pkg/logger"
)

// Completer is the slice of the LLM client the question generator needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// QuestionService produces the 10-question set for a battle. It asks the
// LLM first and falls back to a topic-parameterized template on any
// failure, so callers always get a full, valid set.
type QuestionService struct {
	client Completer
	count  int
}

func NewQuestionService(client Completer, count int) *QuestionService {
	if count <= 0 {
		count = 10
	}
	return &QuestionService{client: client, count: count}
}

const questionSystemPrompt = "You are a quiz generator for a rapid-fire programming skill battle. Respond with JSON only."

func questionPrompt(topic, format string, count int) string {
	return fmt.Sprintf(`Generate exactly %d multiple-choice quiz questions about %q for a rapid-fire skill battle.

Return ONLY valid JSON in this exact format:
%s

Rules:
- "correct" is the 0-based index of the right answer
- Questions should range from easy to hard
- Keep questions concise (rapid-fire style)
- Cover different aspects of %s
- Exactly 4 options per question
- Exactly %d questions`, count, topic, format, topic, count)
}

const questionFormat = `{
  "questions": [
    {
      "id": 1,
      "question": "What is ...?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct": 0
    }
  ]
}`

// Generate returns exactly the configured number of questions with 4
// options each. It never returns an error: generation failures degrade
// to the fallback set.
func (s *QuestionService) Generate(ctx context.Context, topic string) models.QuestionList {
	if s.client != nil {
		questions, err := s.generateFromLLM(ctx, topic)
		if err == nil {
			return questions
		}
		logger.Warn("Question generation fell back to templates", "topic", topic, "error", err)
	}
	return s.fallbackQuestions(topic)
}

func (s *QuestionService) generateFromLLM(ctx context.Context, topic string) (models.QuestionList, error) {
	content, err := s.client.Complete(ctx, questionSystemPrompt, questionPrompt(topic, questionFormat, s.count))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions []models.Question `json:"questions"`
	}
	if err := llm.ExtractJSON(content, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Questions) < s.count {
		return nil, fmt.Errorf("expected %d questions, got %d", s.count, len(parsed.Questions))
	}

	questions := parsed.Questions[:s.count]
	for i := range questions {
		questions[i].ID = i + 1
		if questions[i].Correct < 0 || questions[i].Correct > 3 {
			questions[i].Correct = 0
		}
		if len(questions[i].Options) != 4 {
			options := append(questions[i].Options, "A", "B", "C", "D")
			questions[i].Options = options[:4]
		}
	}
	return questions, nil
}

// fallbackQuestions is the deterministic template set used when the LLM is
// unavailable or returns garbage.
func (s *QuestionService) fallbackQuestions(topic string) models.QuestionList {
	templates := []models.Question{
		{Question: fmt.Sprintf("Which of the following is a core concept in %s?", topic),
			Options: []string{"Abstraction", "Recursion", "Polymorphism", "All of the above"}, Correct: 3},
		{Question: fmt.Sprintf("What is the primary purpose of %s?", topic),
			Options: []string{"Data storage", "Problem solving", "User interface", "Networking"}, Correct: 1},
		{Question: fmt.Sprintf("Which tool is commonly used in %s?", topic),
			Options: []string{"VS Code", "Photoshop", "Excel", "PowerPoint"}, Correct: 0},
		{Question: fmt.Sprintf("What skill is most important for %s?", topic),
			Options: []string{"Communication", "Logical thinking", "Drawing", "Singing"}, Correct: 1},
		{Question: fmt.Sprintf("Which language is often associated with %s?", topic),
			Options: []string{"Python", "Latin", "French", "Mandarin"}, Correct: 0},
		{Question: fmt.Sprintf("What does debugging mean in %s?", topic),
			Options: []string{"Adding features", "Finding and fixing errors", "Deleting code", "Writing docs"}, Correct: 1},
		{Question: fmt.Sprintf("Which is a best practice in %s?", topic),
			Options: []string{"Skip testing", "Write clean code", "Avoid comments", "Use one variable"}, Correct: 1},
		{Question: fmt.Sprintf("What is version control used for in %s?", topic),
			Options: []string{"Tracking changes", "Sending emails", "Designing UI", "Database queries"}, Correct: 0},
		{Question: fmt.Sprintf("Which of these helps learn %s faster?", topic),
			Options: []string{"Practice projects", "Memorizing syntax", "Watching only", "Copying code"}, Correct: 0},
		{Question: fmt.Sprintf("What is an API in the context of %s?", topic),
			Options: []string{"A programming interface", "A database", "A frontend", "A design tool"}, Correct: 0},
	}

	questions := make(models.QuestionList, 0, s.count)
	for i := 0; i < s.count; i++ {
		q := templates[i%len(templates)]
		q.ID = i + 1
		questions = append(questions, q)
	}
	return questions
}
