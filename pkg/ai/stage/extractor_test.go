package stage

import (
	"context"
	"errors"
	"testing"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/pkg/content"
	"venture-ai-be/pkg/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var deck = &content.Document{Ref: "file:///deck.txt", Text: "Acme Robotics. Team: Alice & Bob. Market: $1B TAM."}

func TestExtractPopulatesExactValues(t *testing.T) {
	provider := llmtest.New(llmtest.Reply{Match: "Pitch deck content", Text: "```json\n" + acmeClaimsJSON + "\n```"})
	e := NewExtractor(provider, "", logger.NewNop())

	claims, err := e.Extract(context.Background(), deck)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice & Bob"}, claims.Team.Founders)
	assert.Equal(t, "$1B TAM", claims.Market.TAM)
	assert.Nil(t, claims.StatedRecommendation)

	require.Len(t, provider.Calls, 1)
	assert.True(t, provider.Calls[0].Options.JSONOutput)
	assert.Contains(t, provider.Calls[0].Prompt, "Alice & Bob")
}

func TestExtractRejectsInvalidOutput(t *testing.T) {
	tests := []struct {
		name  string
		reply llmtest.Reply
		kind  apperror.Kind
	}{
		{"missing company", llmtest.Reply{Text: `{"problem":"p","solution":"s","team":{"founders":["A"]},"market":{"tam":"$1B"}}`}, apperror.KindSchemaValidation},
		{"no founders", llmtest.Reply{Text: `{"company_name":"A","problem":"p","solution":"s","team":{"founders":[]},"market":{"tam":"$1B"}}`}, apperror.KindSchemaValidation},
		{"freeform", llmtest.Reply{Text: "The company looks promising."}, apperror.KindSchemaValidation},
		{"model down", llmtest.Reply{Err: errors.New("503")}, apperror.KindCollaboratorOutage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(llmtest.New(tt.reply), "", logger.NewNop())
			claims, err := e.Extract(context.Background(), deck)
			assert.Nil(t, claims)
			assert.Equal(t, tt.kind, apperror.KindOf(err), "got %v", err)
		})
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	e := NewExtractor(llmtest.New(), "", logger.NewNop())
	_, err := e.Extract(context.Background(), &content.Document{Text: "  "})
	assert.True(t, errors.Is(err, apperror.ErrContentUnavailable))
}
