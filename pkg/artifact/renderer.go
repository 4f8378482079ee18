package artifact

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"venture-ai-be/internal/entity"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	MemoContentType = "text/html; charset=utf-8"
	memoDir         = "investment_memos"
)

// MemoPath is the storage path of the memo for an analysis.
func MemoPath(analysisID string) string {
	return fmt.Sprintf("%s/%s.html", memoDir, analysisID)
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// RenderMemo renders an analysis record as a standalone HTML memo.
func RenderMemo(record *entity.AnalysisRecord) ([]byte, error) {
	var htmlBuf bytes.Buffer
	if err := markdown.Convert([]byte(MemoMarkdown(record)), &htmlBuf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}

	title := html.EscapeString("Investment Memo: " + record.CompanyName)
	full := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body { font-family: 'Segoe UI', Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 0 auto; padding: 40px 20px; color: #333; }
        h1, h2, h3 { color: #2c3e50; }
        table { border-collapse: collapse; width: 100%%; margin: 20px 0; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #3498db; color: white; }
    </style>
</head>
<body>
%s
</body>
</html>`, title, htmlBuf.String())

	return []byte(full), nil
}

// MemoMarkdown lays out the memo sections in reading order.
func MemoMarkdown(r *entity.AnalysisRecord) string {
	var sb strings.Builder
	c := r.Claims

	fmt.Fprintf(&sb, "# Investment Memo: %s\n\n", r.CompanyName)
	fmt.Fprintf(&sb, "*Analysis %s, generated %s*\n\n", r.Id, r.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(&sb, "## Recommendation: %s\n\n%s\n\n", strings.ToUpper(string(r.Recommendation.Outcome)), r.Recommendation.Rationale)
	writeList(&sb, "### Key risks", r.Recommendation.Risks)

	fmt.Fprintf(&sb, "## Summary\n\n%s\n\n", r.Summary)

	if flagged := r.FlaggedAnnotations(); len(flagged) > 0 {
		sb.WriteString("## Flagged claims\n\n| Field | Claim | Outcome | Note |\n|---|---|---|---|\n")
		for _, a := range flagged {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", cell(a.Field), cell(a.Claim), a.Outcome, cell(a.Note))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Founder claims\n\n")
	section(&sb, "Team", strings.Join(c.Team.Founders, ", ")+"\n\n"+c.Team.BackgroundSummary)
	section(&sb, "Problem", c.Problem)
	section(&sb, "Solution", c.Solution)
	section(&sb, "Market", fmt.Sprintf("TAM: %s\n\nSAM: %s\n\nGrowth: %s\n\n%s", c.Market.TAM, c.Market.SAM, c.Market.GrowthRate, c.Market.Analysis))
	section(&sb, "Traction", c.Traction.Metrics)
	section(&sb, "Business model", c.BusinessModel)
	section(&sb, "Competitive position", c.CompetitivePosition)
	section(&sb, "Financials", fmt.Sprintf("Ask: %s\n\nUse of funds: %s", c.Financials.FundingAsk, c.Financials.UseOfFunds))

	if len(r.Annotations) > 0 {
		sb.WriteString("## Verification\n\n")
		for _, a := range r.Annotations {
			fmt.Fprintf(&sb, "- **%s** (%s): %s\n", a.Field, a.Outcome, a.Claim)
			for _, url := range a.Evidence {
				fmt.Fprintf(&sb, "  - <%s>\n", url)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func section(sb *strings.Builder, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(sb, "### %s\n\n%s\n\n", title, strings.TrimSpace(body))
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + "\n\n")
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "\\|"), "\n", " ")
}
