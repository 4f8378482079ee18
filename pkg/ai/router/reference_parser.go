package router

import (
	"regexp"
	"strings"

	"venture-ai-be/internal/apperror"
)

// ReferenceType indicates how the analysis reference was specified
type ReferenceType string

const (
	ReferenceTypeUUID    ReferenceType = "uuid"
	ReferenceTypeCompany ReferenceType = "company"
)

// ParsedReference is one analysis reference found in a question
type ParsedReference struct {
	Type        ReferenceType
	Value       string // analysis id or company name
	OriginalRaw string
}

// ReferenceParseResult contains all parsed references and the cleaned prompt
type ReferenceParseResult struct {
	References  []ParsedReference
	CleanPrompt string // Prompt with all references removed
	HasRefs     bool
}

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Reference patterns:
// @analysis:uuid            - Direct analysis id
// @analysis:"Company Name"  - Latest analysis of a company
// @analysis:Company         - Latest analysis of a single-word company
// [[Company Name]]          - Wiki-style company reference
var (
	atAnalysisQuotedPattern = regexp.MustCompile(`@analysis:"([^"]+)"`)
	atAnalysisPlainPattern  = regexp.MustCompile(`@analysis:(\S+)`)
	wikiLinkPattern         = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	whitespacePattern       = regexp.MustCompile(`\s+`)
)

// ParseReferences extracts analysis references from a question and returns
// the question with them removed.
func ParseReferences(prompt string) *ReferenceParseResult {
	result := &ReferenceParseResult{
		References:  make([]ParsedReference, 0),
		CleanPrompt: strings.TrimSpace(prompt),
	}
	if !strings.Contains(prompt, "@analysis:") && !strings.Contains(prompt, "[[") {
		return result
	}

	var allMatches []string

	// 1. Quoted first so the plain pattern does not split them
	for _, match := range atAnalysisQuotedPattern.FindAllStringSubmatch(prompt, -1) {
		result.References = append(result.References, ParsedReference{
			Type:        ReferenceTypeCompany,
			Value:       match[1],
			OriginalRaw: match[0],
		})
		allMatches = append(allMatches, match[0])
	}

	tempPrompt := prompt
	for _, match := range allMatches {
		tempPrompt = strings.Replace(tempPrompt, match, "", 1)
	}

	// 2. @analysis:value
	for _, match := range atAnalysisPlainPattern.FindAllStringSubmatch(tempPrompt, -1) {
		result.References = append(result.References, ParsedReference{
			Type:        determineReferenceType(match[1]),
			Value:       match[1],
			OriginalRaw: match[0],
		})
		allMatches = append(allMatches, match[0])
	}

	// 3. [[Company]]
	for _, match := range wikiLinkPattern.FindAllStringSubmatch(prompt, -1) {
		result.References = append(result.References, ParsedReference{
			Type:        ReferenceTypeCompany,
			Value:       strings.TrimSpace(match[1]),
			OriginalRaw: match[0],
		})
		allMatches = append(allMatches, match[0])
	}

	cleanPrompt := prompt
	for _, match := range allMatches {
		cleanPrompt = strings.Replace(cleanPrompt, match, "", 1)
	}

	result.CleanPrompt = whitespacePattern.ReplaceAllString(strings.TrimSpace(cleanPrompt), " ")
	result.HasRefs = len(result.References) > 0
	return result
}

func determineReferenceType(value string) ReferenceType {
	if uuidPattern.MatchString(value) {
		return ReferenceTypeUUID
	}
	return ReferenceTypeCompany
}

// MaxReferences is the limit for references in a single request; a
// query or follow-up runs against exactly one analysis.
const MaxReferences = 1

func ValidateReferences(refs []ParsedReference) error {
	if len(refs) > MaxReferences {
		return apperror.New(apperror.KindInvalidRequest, "a request may reference at most one analysis")
	}
	return nil
}
