package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Analysis struct {
	Id                      uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	UserId                  string                      `gorm:"type:text;not null;index"`
	SessionId               string                      `gorm:"type:text;index"`
	CompanyName             string                      `gorm:"type:text;not null;index"`
	TechField               string                      `gorm:"type:text"`
	CompanyWebsite          string                      `gorm:"type:text"`
	ContentRef              string                      `gorm:"type:text"`
	Summary                 string                      `gorm:"type:text;not null"`
	Claims                  datatypes.JSON              `gorm:"type:jsonb;not null"`
	Annotations             datatypes.JSON              `gorm:"type:jsonb;not null;default:'[]'"`
	RecommendationOutcome   string                      `gorm:"type:varchar(16);not null;index"`
	RecommendationRationale string                      `gorm:"type:text;not null"`
	RecommendationRisks     datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	ArtifactURL             string                      `gorm:"type:text"`
	CreatedAt               time.Time                   `gorm:"autoCreateTime;index"`
}

func (Analysis) TableName() string {
	return "analyses"
}

// Artifacts are write-once; there is no UpdatedAt.
type Artifact struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AnalysisId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	URL         string    `gorm:"type:text;not null"`
	Path        string    `gorm:"type:text;not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	Size        int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Analysis *Analysis `gorm:"foreignKey:AnalysisId;constraint:OnDelete:CASCADE"`
}

func (Artifact) TableName() string {
	return "artifacts"
}
