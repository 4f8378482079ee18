package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/constant"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/metrics"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/pkg/llm"
	"venture-ai-be/pkg/search"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

type VerifierConfig struct {
	StageTimeout  time.Duration
	LookupTimeout time.Duration
	Concurrency   int
}

// ClaimCheck is one verifiable claim and the query used to check it.
type ClaimCheck struct {
	Field string
	Claim string
	Query string
}

// Verifier cross-checks claims against web search. Individual lookup
// failures degrade to outcome=unknown; only a total outage fails the stage.
type Verifier struct {
	searcher search.Searcher
	judge    llm.LLMProvider
	model    string
	cfg      VerifierConfig
	logger   logger.ILogger
	metrics  *metrics.Metrics
}

func NewVerifier(searcher search.Searcher, judge llm.LLMProvider, model string, cfg VerifierConfig, log logger.ILogger, m *metrics.Metrics) *Verifier {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = 60 * time.Second
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 15 * time.Second
	}
	return &Verifier{searcher: searcher, judge: judge, model: model, cfg: cfg, logger: log, metrics: m}
}

// VerifiableClaims lists the claims worth a lookup, in a stable order.
func VerifiableClaims(c *entity.Claims) []ClaimCheck {
	var checks []ClaimCheck
	add := func(field, claim, query string) {
		if strings.TrimSpace(claim) == "" {
			return
		}
		checks = append(checks, ClaimCheck{Field: field, Claim: claim, Query: strings.TrimSpace(query)})
	}

	add("company_name", c.CompanyName, fmt.Sprintf("%q startup", c.CompanyName))
	for i, founder := range c.Team.Founders {
		add(fmt.Sprintf("team.founders[%d]", i), founder, fmt.Sprintf("%s %s founder", founder, c.CompanyName))
	}
	add("market.tam", c.Market.TAM, fmt.Sprintf("%s market size %s", truncate(c.Solution, 60), c.Market.TAM))
	add("market.growth_rate", c.Market.GrowthRate, fmt.Sprintf("%s market growth rate %s", truncate(c.Solution, 60), c.Market.GrowthRate))
	add("traction.metrics", c.Traction.Metrics, fmt.Sprintf("%s traction customers", c.CompanyName))
	add("competitive_position", c.CompetitivePosition, fmt.Sprintf("%s competitors", c.CompanyName))
	return checks
}

func (v *Verifier) Verify(ctx context.Context, claims *entity.Claims) ([]entity.Annotation, error) {
	checks := VerifiableClaims(claims)
	if len(checks) == 0 {
		v.logger.Info("VERIFY", "No verifiable claims", nil)
		return []entity.Annotation{}, nil
	}

	stageCtx, cancel := context.WithTimeout(ctx, v.cfg.StageTimeout)
	defer cancel()

	annotations := make([]entity.Annotation, len(checks))
	var failed int32

	var g errgroup.Group
	g.SetLimit(v.cfg.Concurrency)
	for i, chk := range checks {
		g.Go(func() error {
			ann, ok := v.check(stageCtx, chk)
			annotations[i] = ann
			if !ok {
				atomic.AddInt32(&failed, 1)
			}
			// lookup failures never cancel sibling lookups
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if int(failed) == len(checks) {
		return nil, apperror.New(apperror.KindCollaboratorOutage, fmt.Sprintf("all %d lookups failed", len(checks)))
	}

	v.logger.Info("VERIFY", "Verification complete", map[string]interface{}{
		"claims": len(checks),
		"failed": failed,
	})
	return annotations, nil
}

// check runs one lookup and assessment. ok is false when the lookup itself failed.
func (v *Verifier) check(ctx context.Context, chk ClaimCheck) (entity.Annotation, bool) {
	ctx, span := stageTracer().Start(ctx, "verify.lookup")
	span.SetAttributes(attribute.String("claim.field", chk.Field))
	defer span.End()

	ann := entity.Annotation{
		Field:    chk.Field,
		Claim:    chk.Claim,
		Outcome:  entity.OutcomeUnknown,
		Evidence: []string{},
	}

	lookupCtx, cancel := context.WithTimeout(ctx, v.cfg.LookupTimeout)
	results, err := v.searcher.Search(lookupCtx, chk.Query)
	cancel()
	if err != nil {
		span.RecordError(err)
		v.metrics.RecordLookup("failed")
		v.logger.Warn("VERIFY", "Lookup failed", map[string]interface{}{
			"field": chk.Field,
			"error": err.Error(),
		})
		ann.Note = "lookup failed"
		return ann, false
	}

	ann.Checked = true
	ann.Evidence = evidenceURLs(results)
	if len(results) == 0 {
		ann.Note = "no corroborating source found"
		v.metrics.RecordLookup(string(entity.OutcomeUnknown))
		return ann, true
	}

	verdict, err := v.assess(ctx, chk, results)
	if err != nil {
		v.logger.Warn("VERIFY", "Assessment failed, outcome unknown", map[string]interface{}{
			"field": chk.Field,
			"error": err.Error(),
		})
		ann.Note = "assessment unavailable"
		v.metrics.RecordLookup(string(entity.OutcomeUnknown))
		return ann, true
	}

	ann.Outcome = verdict.Outcome
	ann.Verified = verdict.Outcome == entity.OutcomeAgree
	ann.Note = verdict.Note
	v.metrics.RecordLookup(string(verdict.Outcome))
	return ann, true
}

type verdict struct {
	Outcome entity.VerificationOutcome `json:"outcome" validate:"required,oneof=agree discrepancy unknown"`
	Note    string                     `json:"note"`
}

func (v *Verifier) assess(ctx context.Context, chk ClaimCheck, results []search.Result) (*verdict, error) {
	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("Claim (%s): %s\n\nSearch results:\n%s", chk.Field, chk.Claim, payload)

	opts := []llm.Option{
		llm.WithSystemPrompt(constant.VerificationJudgeSystemPrompt),
		llm.WithJSONOutput(),
		llm.WithTemperature(0),
	}
	if v.model != "" {
		opts = append(opts, llm.WithModel(v.model))
	}

	raw, err := v.judge.Generate(ctx, prompt, opts...)
	if err != nil {
		return nil, err
	}
	var out verdict
	if err := decodeStrict(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// evidenceURLs keeps absolute http(s) URLs in search order.
func evidenceURLs(results []search.Result) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		u, err := url.Parse(r.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			continue
		}
		urls = append(urls, r.URL)
	}
	return urls
}
