package model

// DashboardStats 后台首页统计
type DashboardStats struct {
	AssessmentsTotal     int64            `json:"assessmentsTotal"`
	AssessmentsCompleted int64            `json:"assessmentsCompleted"`
	AssessmentsByTier    map[string]int64 `json:"assessmentsByTier"`
	AverageOverallScore  float64          `json:"averageOverallScore"`
	ContactsNew          int64            `json:"contactsNew"`
	SubscribersActive    int64            `json:"subscribersActive"`
	AffiliatesActive     int64            `json:"affiliatesActive"`
}
