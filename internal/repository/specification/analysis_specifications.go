package specification

import (
	"strings"

	"gorm.io/gorm"
)

// ByCompanyName matches company names case-insensitively.
type ByCompanyName struct {
	Name string
}

func (s ByCompanyName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(company_name) = ?", strings.ToLower(strings.TrimSpace(s.Name)))
}

// ByAnalysisID filters artifacts by their analysis.
type ByAnalysisID struct {
	AnalysisId interface{}
}

func (s ByAnalysisID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("analysis_id = ?", s.AnalysisId)
}
