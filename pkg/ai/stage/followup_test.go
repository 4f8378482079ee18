package stage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/pkg/llm/llmtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordWithDiscrepancy() *entity.AnalysisRecord {
	return &entity.AnalysisRecord{
		Id:          uuid.New(),
		UserId:      "u1",
		CompanyName: "Acme Robotics",
		Summary:     "s",
		Claims:      *acmeClaims(),
		Annotations: []entity.Annotation{
			{Field: "company_name", Claim: "Acme Robotics", Checked: true, Outcome: entity.OutcomeAgree, Verified: true},
			{Field: "market.tam", Claim: "$1B TAM", Checked: true, Outcome: entity.OutcomeDiscrepancy, Note: "Analysts size it at $300M"},
		},
		Recommendation: entity.Recommendation{Outcome: entity.RecommendPass, Rationale: "r"},
	}
}

func TestFollowupCoversDiscrepancyField(t *testing.T) {
	provider := llmtest.New(llmtest.Reply{Match: "Investment analysis", Text: `{
		"questions": [{"question": "Who are your first three customers?", "category": "traction", "context": ""}],
		"overall_assessment": "Early",
		"priority_concerns": ["market size"]
	}`})
	f := NewFollowupGenerator(provider, "", logger.NewNop())

	out, err := f.Generate(context.Background(), recordWithDiscrepancy())
	require.NoError(t, err)
	require.Len(t, out.Questions, 2)

	added := out.Questions[1]
	assert.Equal(t, "market.tam", added.Category)
	assert.Equal(t, "Analysts size it at $300M", added.Context)
	assert.True(t, strings.Contains(added.Question, "$1B TAM"))
}

func TestFollowupKeepsModelQuestionForField(t *testing.T) {
	provider := llmtest.New(llmtest.Reply{Text: `{"questions":[{"question":"Where does $1B come from?","category":"Market.TAM","context":""}],"overall_assessment":"","priority_concerns":[]}`})
	out, err := NewFollowupGenerator(provider, "", logger.NewNop()).Generate(context.Background(), recordWithDiscrepancy())
	require.NoError(t, err)
	assert.Len(t, out.Questions, 1)
}

func TestCoverFlaggedMatchesWholeFieldPaths(t *testing.T) {
	flagged := []entity.Annotation{{Field: "team.founders[1]", Claim: "Bob", Outcome: entity.OutcomeUnknown}}

	tests := []struct {
		category  string
		wantAdded int
	}{
		{"team.founders[1]", 0},
		{"Team.Founders[1]", 0},
		{"team.founders[1].background", 0},
		{"team, team.founders[1]", 0},
		{"team.founders[10]", 1},
		{"team.founders[1]x", 1},
		{"xteam.founders[1]", 1},
		{"team", 1},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			out := &entity.FollowupQuestions{Questions: []entity.FollowupQuestion{{Question: "q", Category: tt.category}}}
			assert.Equal(t, tt.wantAdded, CoverFlagged(out, flagged))
		})
	}
}

func TestFollowupRejectsInvalidOutput(t *testing.T) {
	tests := []string{
		`{"questions":[],"overall_assessment":"","priority_concerns":[]}`,
		`{"questions":[{"question":"q","category":"c"}],"priority_concerns":["a","b","c","d"]}`,
		`["just", "a", "list"]`,
	}
	for _, text := range tests {
		f := NewFollowupGenerator(llmtest.New(llmtest.Reply{Text: text}), "", logger.NewNop())
		_, err := f.Generate(context.Background(), recordWithDiscrepancy())
		assert.True(t, errors.Is(err, apperror.ErrSchemaValidation), "%s: got %v", text, err)
	}
}

func TestAnswer(t *testing.T) {
	provider := llmtest.New(llmtest.Reply{Match: "Investor question: What is the TAM?", Text: "  The deck claims a $1B TAM, which research contradicts.  "})
	a := NewAnswerer(provider, "", logger.NewNop())

	answer, err := a.Answer(context.Background(), recordWithDiscrepancy(), "What is the TAM?")
	require.NoError(t, err)
	assert.Equal(t, "The deck claims a $1B TAM, which research contradicts.", answer)
	assert.Contains(t, provider.Calls[0].Prompt, `"market.tam"`)
	assert.False(t, provider.Calls[0].Options.JSONOutput)
}

func TestAnswerFailures(t *testing.T) {
	record := recordWithDiscrepancy()

	_, err := NewAnswerer(llmtest.New(llmtest.Reply{Text: "   "}), "", logger.NewNop()).Answer(context.Background(), record, "q?")
	assert.True(t, errors.Is(err, apperror.ErrSchemaValidation))

	_, err = NewAnswerer(llmtest.New(llmtest.Reply{Err: errors.New("down")}), "", logger.NewNop()).Answer(context.Background(), record, "q?")
	assert.True(t, errors.Is(err, apperror.ErrCollaboratorOutage))

	_, err = NewAnswerer(llmtest.New(), "", logger.NewNop()).Answer(context.Background(), record, " ")
	assert.True(t, errors.Is(err, apperror.ErrInvalidRequest))
}
