package stage

import (
	"context"
	"strings"
	"sync"

	"venture-ai-be/pkg/search"
)

const acmeClaimsJSON = `{
  "company_name": "Acme Robotics",
  "summary": "Robotic picking for mid-size warehouses",
  "team": {"founders": ["Alice & Bob"], "background_summary": "Ex-logistics engineers", "strengths": ["robotics"]},
  "problem": "Manual picking is slow and error prone",
  "solution": "Autonomous picking robots",
  "market": {"tam": "$1B TAM", "sam": "", "growth_rate": "", "analysis": ""},
  "traction": {"metrics": "", "customer_feedback": ""},
  "business_model": "Robots as a service",
  "competitive_position": "",
  "financials": {"funding_ask": "$2M seed", "funding_ask_inr": null, "use_of_funds": "Hiring", "projections_summary": ""},
  "stated_recommendation": null
}`

// fakeSearcher answers by query substring. Unmatched queries return no results.
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]search.Result
	errs    map[string]error
	block   bool
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]search.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	for match, err := range f.errs {
		if strings.Contains(query, match) {
			return nil, err
		}
	}
	for match, res := range f.results {
		if strings.Contains(query, match) {
			return res, nil
		}
	}
	return nil, nil
}
