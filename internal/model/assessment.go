package model

import (
	"dream_site_backend/internal/scoring"
	"encoding/json"
	"time"
)

type AssessmentStatus string

const (
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentCompleted  AssessmentStatus = "completed"
)

type StrategyStatus string

const (
	StrategyNone    StrategyStatus = ""
	StrategyPending StrategyStatus = "pending"
	StrategyReady   StrategyStatus = "ready"
	StrategyFailed  StrategyStatus = "failed"
)

// DreamAssessment 一次 DREAM AI Audit 测评，Responses 保存原始答案
// swagger:model DreamAssessment
type DreamAssessment struct {
	BaseModel
	PublicToken    string           `gorm:"size:36;uniqueIndex;not null" json:"token"`
	Name           string           `gorm:"size:100" json:"name"`
	Email          string           `gorm:"size:150;index;not null" json:"email"`
	Company        string           `gorm:"size:150" json:"company"`
	Tier           scoring.Tier     `gorm:"size:20;index;not null" json:"tier"`
	Status         AssessmentStatus `gorm:"size:20;index;default:'in_progress'" json:"status"`
	Responses      json.RawMessage  `gorm:"type:json" json:"responses"`
	Completion     int              `gorm:"default:0" json:"completion"`
	DemandScore    float64          `gorm:"type:decimal(3,1);default:0" json:"demandScore"`
	RevenueScore   float64          `gorm:"type:decimal(3,1);default:0" json:"revenueScore"`
	EngineScore    float64          `gorm:"type:decimal(3,1);default:0" json:"engineScore"`
	AdminScore     float64          `gorm:"type:decimal(3,1);default:0" json:"adminScore"`
	MarketingScore float64          `gorm:"type:decimal(3,1);default:0" json:"marketingScore"`
	OverallScore   float64          `gorm:"type:decimal(3,1);default:0;index" json:"overallScore"`
	AffiliateCode  string           `gorm:"size:50;index" json:"affiliateCode,omitempty"`
	Strategy       string           `gorm:"type:text" json:"strategy,omitempty"`
	StrategyStatus StrategyStatus   `gorm:"size:20" json:"strategyStatus,omitempty"`
	IPAddress      string           `gorm:"size:64" json:"-"`
	UserAgent      string           `gorm:"size:255" json:"-"`
	CompletedAt    *time.Time       `json:"completedAt,omitempty"`
	EmailSentAt    *time.Time       `json:"emailSentAt,omitempty"`
}

func (DreamAssessment) TableName() string {
	return "dream_assessments"
}

func (a *DreamAssessment) Scores() scoring.DreamScores {
	return scoring.DreamScores{
		Demand:    a.DemandScore,
		Revenue:   a.RevenueScore,
		Engine:    a.EngineScore,
		Admin:     a.AdminScore,
		Marketing: a.MarketingScore,
		Overall:   a.OverallScore,
	}
}

func (a *DreamAssessment) SetScores(s scoring.DreamScores) {
	a.DemandScore = s.Demand
	a.RevenueScore = s.Revenue
	a.EngineScore = s.Engine
	a.AdminScore = s.Admin
	a.MarketingScore = s.Marketing
	a.OverallScore = s.Overall
}

// RawResponses 解析已保存的答案，数据损坏时视为空
func (a *DreamAssessment) RawResponses() map[string]json.RawMessage {
	raw := map[string]json.RawMessage{}
	if len(a.Responses) == 0 {
		return raw
	}
	if err := json.Unmarshal(a.Responses, &raw); err != nil {
		return map[string]json.RawMessage{}
	}
	return raw
}
