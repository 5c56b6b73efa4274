package model

// Affiliate 推广伙伴，Code 出现在推广链接 /api/r/:code 中
// swagger:model Affiliate
type Affiliate struct {
	BaseModel
	Code   string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Email  string `gorm:"size:150" json:"email"`
	Active bool   `gorm:"not null" json:"active"`
	Notes  string `gorm:"type:text" json:"notes"`
}

func (Affiliate) TableName() string {
	return "affiliates"
}

// AffiliateStats 推广统计：点击来自 Redis，线索与完成数来自数据库
type AffiliateStats struct {
	AffiliateID  uint    `json:"affiliateId"`
	Code         string  `json:"code"`
	Clicks       int64   `json:"clicks"`
	ClicksToday  int64   `json:"clicksToday"`
	Leads        int64   `json:"leads"`
	Completed    int64   `json:"completed"`
	AverageScore float64 `json:"averageScore"`
}
