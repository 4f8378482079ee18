// Package llmtest provides a scripted LLMProvider for tests.
package llmtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"venture-ai-be/pkg/llm"
)

// Reply answers one call. Match is tested against the last user message.
type Reply struct {
	Match string
	Text  string
	Err   error
}

// Scripted returns the first reply whose Match is contained in the prompt.
// An empty Match matches everything.
type Scripted struct {
	mu      sync.Mutex
	replies []Reply
	Calls   []Call
}

type Call struct {
	Prompt  string
	Options llm.Options
}

var _ llm.LLMProvider = &Scripted{}

func New(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

func (s *Scripted) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prompt := ""
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, Call{Prompt: prompt, Options: llm.Apply(llm.Options{}, options...)})

	for _, r := range s.replies {
		if r.Match == "" || strings.Contains(prompt, r.Match) {
			return r.Text, r.Err
		}
	}
	return "", fmt.Errorf("llmtest: no scripted reply for prompt %.60q", prompt)
}

func (s *Scripted) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

// CallCount returns how many calls contained match.
func (s *Scripted) CallCount(match string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.Calls {
		if strings.Contains(c.Prompt, match) {
			n++
		}
	}
	return n
}
