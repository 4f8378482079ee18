package stage

import (
	"errors"
	"testing"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding space", "  \n```json\n{\"a\":1}```  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}

func TestDecodeStrict(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid fenced", "```json\n{\"question\":\"Why?\",\"category\":\"market.tam\",\"context\":\"\"}\n```", false},
		{"unknown field", `{"question":"Why?","category":"market","extra":1}`, true},
		{"missing required", `{"question":"Why?"}`, true},
		{"trailing object", `{"question":"Why?","category":"market"} {"x":1}`, true},
		{"prose", `Here are my questions`, true},
		{"empty", "   ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q entity.FollowupQuestion
			err := decodeStrict(tt.raw, &q)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "market.tam", q.Category)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrSchemaValidation), "got %v", err)
		})
	}
}
