package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.prompts = append(f.prompts, userPrompt)
	return f.response, f.err
}

func TestQuestionService_GenerateFromLLM(t *testing.T) {
	client := &fakeCompleter{response: `{
		"questions": [
			{"id": 7, "question": "Q1", "options": ["a", "b", "c", "d"], "correct": 2},
			{"id": 9, "question": "Q2", "options": ["a", "b", "c", "d"], "correct": 9},
			{"id": 0, "question": "Q3", "options": ["a", "b"], "correct": 1}
		]
	}`}

	svc := NewQuestionService(client, 3)
	questions := svc.Generate(context.Background(), "Go")

	require.Len(t, questions, 3)

	// IDs are always renumbered 1..n regardless of what the model returns.
	for i, q := range questions {
		assert.Equal(t, i+1, q.ID)
		assert.Len(t, q.Options, 4)
		assert.GreaterOrEqual(t, q.Correct, 0)
		assert.LessOrEqual(t, q.Correct, 3)
	}

	// Out-of-range correct index resets to 0, short option lists are padded.
	assert.Equal(t, 2, questions[0].Correct)
	assert.Equal(t, 0, questions[1].Correct)
	assert.Equal(t, []string{"a", "b", "A", "B"}, questions[2].Options)
}

func TestQuestionService_FallbackOnError(t *testing.T) {
	client := &fakeCompleter{err: errors.New("connection refused")}

	svc := NewQuestionService(client, 10)
	questions := svc.Generate(context.Background(), "Kubernetes")

	require.Len(t, questions, 10)
	for i, q := range questions {
		assert.Equal(t, i+1, q.ID)
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Question, "Kubernetes")
	}
}

func TestQuestionService_FallbackOnGarbage(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I'm sorry, I can't do that"},
		{"wrong shape", `{"data": 42}`},
		{"too few questions", `{"questions": [{"id": 1, "question": "only one", "options": ["a","b","c","d"], "correct": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQuestionService(&fakeCompleter{response: tt.response}, 5)
			questions := svc.Generate(context.Background(), "Go")
			require.Len(t, questions, 5)
		})
	}
}

func TestQuestionService_NilClientUsesFallback(t *testing.T) {
	svc := NewQuestionService(nil, 10)
	questions := svc.Generate(context.Background(), "Rust")
	require.Len(t, questions, 10)
}

func TestQuestionService_PromptMentionsTopicAndCount(t *testing.T) {
	client := &fakeCompleter{err: errors.New("skip")}
	svc := NewQuestionService(client, 10)
	svc.Generate(context.Background(), "GraphQL")

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], `"GraphQL"`)
	assert.True(t, strings.Contains(client.prompts[0], "exactly 10"))
}

func TestQuestionService_PublicStripsAnswers(t *testing.T) {
	svc := NewQuestionService(nil, 3)
	questions := svc.Generate(context.Background(), "Go")

	public := questions.Public()
	require.Len(t, public, 3)
	for i, q := range public {
		assert.Equal(t, questions[i].ID, q.ID)
		assert.Equal(t, questions[i].Options, q.Options)
	}
}
