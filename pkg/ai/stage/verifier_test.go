package stage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/metrics"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/pkg/llm/llmtest"
	"venture-ai-be/pkg/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func acmeClaims() *entity.Claims {
	return &entity.Claims{
		CompanyName: "Acme Robotics",
		Team:        entity.TeamClaims{Founders: []string{"Alice & Bob"}},
		Problem:     "Manual picking is slow",
		Solution:    "Autonomous picking robots",
		Market:      entity.MarketClaims{TAM: "$1B TAM"},
	}
}

func newVerifier(s search.Searcher, judge *llmtest.Scripted, cfg VerifierConfig) *Verifier {
	return NewVerifier(s, judge, "", cfg, logger.NewNop(), metrics.NewNop())
}

func byField(anns []entity.Annotation) map[string]entity.Annotation {
	out := make(map[string]entity.Annotation, len(anns))
	for _, a := range anns {
		out[a.Field] = a
	}
	return out
}

func TestVerifiableClaims(t *testing.T) {
	checks := VerifiableClaims(acmeClaims())
	fields := make([]string, 0, len(checks))
	for _, c := range checks {
		fields = append(fields, c.Field)
	}
	assert.Equal(t, []string{"company_name", "team.founders[0]", "market.tam"}, fields)
	assert.Equal(t, "$1B TAM", checks[2].Claim)
}

func TestVerifiableClaimsQueriesStayValidUTF8(t *testing.T) {
	claims := acmeClaims()
	claims.Solution = strings.Repeat("ロボットによる倉庫ピッキング", 8)

	for _, c := range VerifiableClaims(claims) {
		assert.True(t, utf8.ValidString(c.Query), "%s query %q", c.Field, c.Query)
	}
}

func TestVerifyPartialFailureDegradesToUnknown(t *testing.T) {
	defer goleak.VerifyNone(t)

	searcher := &fakeSearcher{
		results: map[string][]search.Result{
			`"Acme Robotics" startup`: {{Title: "Acme raises seed", URL: "https://news.example.com/acme"}},
		},
		errs: map[string]error{
			"founder":     errors.New("instance rate limited"),
			"market size": errors.New("timeout"),
		},
	}
	judge := llmtest.New(llmtest.Reply{Match: "Claim (company_name)", Text: `{"outcome":"agree","note":"Covered by press"}`})

	anns, err := newVerifier(searcher, judge, VerifierConfig{Concurrency: 2}).Verify(context.Background(), acmeClaims())
	require.NoError(t, err)
	require.Len(t, anns, 3)
	assert.Equal(t, "company_name", anns[0].Field, "annotations keep claim order")

	got := byField(anns)
	company := got["company_name"]
	assert.True(t, company.Checked)
	assert.True(t, company.Verified)
	assert.Equal(t, entity.OutcomeAgree, company.Outcome)
	assert.Equal(t, []string{"https://news.example.com/acme"}, company.Evidence)

	for _, field := range []string{"team.founders[0]", "market.tam"} {
		a := got[field]
		assert.False(t, a.Checked, field)
		assert.Equal(t, entity.OutcomeUnknown, a.Outcome, field)
		assert.Empty(t, a.Evidence, field)
	}
}

func TestVerifyNoCorroboratingSource(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string][]search.Result{
			"startup": {{URL: "https://news.example.com/acme"}},
			"founder": {{URL: "https://linkedin.example.com/alice"}, {URL: "not a url"}},
		},
	}
	judge := llmtest.New(
		llmtest.Reply{Match: "Claim (company_name)", Text: `{"outcome":"agree","note":""}`},
		llmtest.Reply{Match: "Claim (team.founders[0])", Text: `{"outcome":"discrepancy","note":"Only Alice is listed"}`},
	)

	anns, err := newVerifier(searcher, judge, VerifierConfig{}).Verify(context.Background(), acmeClaims())
	require.NoError(t, err)

	got := byField(anns)
	tam := got["market.tam"]
	assert.True(t, tam.Checked)
	assert.Equal(t, entity.OutcomeUnknown, tam.Outcome)
	assert.False(t, tam.Verified)
	assert.Equal(t, 0, judge.CallCount("Claim (market.tam)"), "no results means nothing to judge")

	founder := got["team.founders[0]"]
	assert.Equal(t, entity.OutcomeDiscrepancy, founder.Outcome)
	assert.Equal(t, "Only Alice is listed", founder.Note)
	assert.Equal(t, []string{"https://linkedin.example.com/alice"}, founder.Evidence)

	for _, a := range anns {
		assert.NoError(t, entity.Validate(a))
	}
}

func TestVerifyJudgeFailureIsUnknown(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]search.Result{"": {{URL: "https://example.com"}}}}
	judge := llmtest.New(llmtest.Reply{Text: "I think it agrees"})

	anns, err := newVerifier(searcher, judge, VerifierConfig{}).Verify(context.Background(), acmeClaims())
	require.NoError(t, err)
	for _, a := range anns {
		assert.True(t, a.Checked)
		assert.Equal(t, entity.OutcomeUnknown, a.Outcome)
		assert.Equal(t, "assessment unavailable", a.Note)
	}
}

func TestVerifyTotalOutage(t *testing.T) {
	searcher := &fakeSearcher{errs: map[string]error{"": errors.New("all SearXNG instances failed")}}

	anns, err := newVerifier(searcher, llmtest.New(), VerifierConfig{}).Verify(context.Background(), acmeClaims())
	assert.Nil(t, anns)
	assert.True(t, errors.Is(err, apperror.ErrCollaboratorOutage), "got %v", err)
}

func TestVerifyNothingToCheck(t *testing.T) {
	anns, err := newVerifier(&fakeSearcher{}, llmtest.New(), VerifierConfig{}).Verify(context.Background(), &entity.Claims{})
	require.NoError(t, err)
	assert.NotNil(t, anns)
	assert.Empty(t, anns)
}

func TestVerifyStageBudget(t *testing.T) {
	defer goleak.VerifyNone(t)

	searcher := &fakeSearcher{block: true}
	v := newVerifier(searcher, llmtest.New(), VerifierConfig{StageTimeout: 50 * time.Millisecond, LookupTimeout: time.Minute})

	start := time.Now()
	_, err := v.Verify(context.Background(), acmeClaims())
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, errors.Is(err, apperror.ErrCollaboratorOutage), "every lookup timed out, got %v", err)
}

func TestVerifyCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newVerifier(&fakeSearcher{block: true}, llmtest.New(), VerifierConfig{}).Verify(ctx, acmeClaims())
	assert.ErrorIs(t, err, context.Canceled)
}
