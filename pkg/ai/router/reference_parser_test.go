package router

import (
	"errors"
	"testing"

	"venture-ai-be/internal/apperror"
)

func TestParseReferences(t *testing.T) {
	tests := []struct {
		name            string
		prompt          string
		wantRefCount    int
		wantCleanPrompt string
		wantHasRefs     bool
		wantType        ReferenceType
	}{
		{
			name:            "no references",
			prompt:          "What is the burn rate?",
			wantRefCount:    0,
			wantCleanPrompt: "What is the burn rate?",
			wantHasRefs:     false,
		},
		{
			name:            "uuid reference",
			prompt:          "@analysis:abc12345-1234-1234-1234-123456789abc What is the TAM?",
			wantRefCount:    1,
			wantCleanPrompt: "What is the TAM?",
			wantHasRefs:     true,
			wantType:        ReferenceTypeUUID,
		},
		{
			name:            "quoted company",
			prompt:          "@analysis:\"Acme Robotics\" Who are the founders?",
			wantRefCount:    1,
			wantCleanPrompt: "Who are the founders?",
			wantHasRefs:     true,
			wantType:        ReferenceTypeCompany,
		},
		{
			name:            "wiki-link company",
			prompt:          "How big is the market for [[Acme Robotics]]?",
			wantRefCount:    1,
			wantCleanPrompt: "How big is the market for ?",
			wantHasRefs:     true,
			wantType:        ReferenceTypeCompany,
		},
		{
			name:            "multiple references",
			prompt:          "@analysis:acme @analysis:\"Beta Labs\" [[Gamma]] Compare",
			wantRefCount:    3,
			wantCleanPrompt: "Compare",
			wantHasRefs:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseReferences(tt.prompt)

			if len(result.References) != tt.wantRefCount {
				t.Errorf("RefCount = %d, want %d", len(result.References), tt.wantRefCount)
			}
			if result.CleanPrompt != tt.wantCleanPrompt {
				t.Errorf("CleanPrompt = %q, want %q", result.CleanPrompt, tt.wantCleanPrompt)
			}
			if result.HasRefs != tt.wantHasRefs {
				t.Errorf("HasRefs = %v, want %v", result.HasRefs, tt.wantHasRefs)
			}
			if tt.wantType != "" && result.References[0].Type != tt.wantType {
				t.Errorf("Type = %v, want %v", result.References[0].Type, tt.wantType)
			}
		})
	}
}

func TestDetermineReferenceType(t *testing.T) {
	tests := []struct {
		value    string
		wantType ReferenceType
	}{
		{"abc12345-1234-1234-1234-123456789abc", ReferenceTypeUUID},
		{"ABC12345-1234-1234-1234-123456789ABC", ReferenceTypeUUID},
		{"acme", ReferenceTypeCompany},
		{"abc12345-1234", ReferenceTypeCompany},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := determineReferenceType(tt.value); got != tt.wantType {
				t.Errorf("determineReferenceType(%q) = %v, want %v", tt.value, got, tt.wantType)
			}
		})
	}
}

func TestValidateReferences(t *testing.T) {
	if err := ValidateReferences(make([]ParsedReference, 1)); err != nil {
		t.Errorf("one reference should not error, got: %v", err)
	}
	err := ValidateReferences(make([]ParsedReference, 2))
	if !errors.Is(err, apperror.ErrInvalidRequest) {
		t.Errorf("two references should be InvalidRequest, got: %v", err)
	}
}
