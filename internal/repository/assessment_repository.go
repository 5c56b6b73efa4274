package repository

import (
	"database/sql"
	"dream_site_backend/internal/model"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

// AssessmentFilter 后台列表筛选条件，空值表示不过滤
type AssessmentFilter struct {
	Tier          string
	Status        string
	AffiliateCode string
	Email         string
	Strategy      string
}

func (r *AssessmentRepository) Create(a *model.DreamAssessment) error {
	return r.DB.Create(a).Error
}

func (r *AssessmentRepository) FindByID(id uint) (*model.DreamAssessment, error) {
	var a model.DreamAssessment
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AssessmentRepository) FindByToken(token string) (*model.DreamAssessment, error) {
	var a model.DreamAssessment
	err := r.DB.Where("public_token = ?", token).First(&a).Error
	return &a, err
}

// UpdateResponses 仅更新答案与完成度，避免覆盖并发写入的评分字段
func (r *AssessmentRepository) UpdateResponses(id uint, responses json.RawMessage, completion int) error {
	return r.DB.Model(&model.DreamAssessment{}).
		Where("id = ? AND status = ?", id, model.AssessmentInProgress).
		Updates(map[string]interface{}{
			"responses":  responses,
			"completion": completion,
		}).Error
}

// MarkCompleted 仅当测评仍在进行中时写入评分并标记完成，返回是否由本次调用完成。
// 不写 responses，避免覆盖期间保存的答案
func (r *AssessmentRepository) MarkCompleted(a *model.DreamAssessment) (bool, error) {
	result := r.DB.Model(&model.DreamAssessment{}).
		Where("id = ? AND status = ?", a.ID, model.AssessmentInProgress).
		Updates(map[string]interface{}{
			"status":          model.AssessmentCompleted,
			"completion":      a.Completion,
			"demand_score":    a.DemandScore,
			"revenue_score":   a.RevenueScore,
			"engine_score":    a.EngineScore,
			"admin_score":     a.AdminScore,
			"marketing_score": a.MarketingScore,
			"overall_score":   a.OverallScore,
			"strategy_status": a.StrategyStatus,
			"completed_at":    a.CompletedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *AssessmentRepository) UpdateStrategy(id uint, strategy string, status model.StrategyStatus) error {
	return r.DB.Model(&model.DreamAssessment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"strategy":        strategy,
			"strategy_status": status,
		}).Error
}

func (r *AssessmentRepository) MarkEmailSent(id uint, at time.Time) error {
	return r.DB.Model(&model.DreamAssessment{}).Where("id = ?", id).Update("email_sent_at", at).Error
}

func (r *AssessmentRepository) List(filter AssessmentFilter, page, limit int) ([]model.DreamAssessment, int64, error) {
	var list []model.DreamAssessment
	var total int64

	query := r.DB.Model(&model.DreamAssessment{})
	if filter.Tier != "" {
		query = query.Where("tier = ?", filter.Tier)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AffiliateCode != "" {
		query = query.Where("affiliate_code = ?", filter.AffiliateCode)
	}
	if filter.Email != "" {
		query = query.Where("email LIKE ?", "%"+filter.Email+"%")
	}
	if filter.Strategy != "" {
		query = query.Where("strategy_status = ?", filter.Strategy)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *AssessmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.DreamAssessment{}, id).Error
}

func (r *AssessmentRepository) CountAll() (int64, error) {
	var count int64
	err := r.DB.Model(&model.DreamAssessment{}).Count(&count).Error
	return count, err
}

func (r *AssessmentRepository) CountByStatus(status model.AssessmentStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.DreamAssessment{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

type tierCount struct {
	Tier  string
	Count int64
}

func (r *AssessmentRepository) CountByTier() (map[string]int64, error) {
	var rows []tierCount
	err := r.DB.Model(&model.DreamAssessment{}).
		Select("tier, COUNT(*) as count").
		Group("tier").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Tier] = row.Count
	}
	return result, nil
}

// AverageOverall 已完成测评的平均总分
func (r *AssessmentRepository) AverageOverall() (float64, error) {
	var avg sql.NullFloat64
	err := r.DB.Model(&model.DreamAssessment{}).
		Where("status = ?", model.AssessmentCompleted).
		Select("AVG(overall_score)").
		Row().Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

// AffiliateSummary 推广码对应的线索数、完成数和平均分
type AffiliateSummary struct {
	Leads        int64
	Completed    int64
	AverageScore float64
}

func (r *AssessmentRepository) AffiliateSummary(code string) (AffiliateSummary, error) {
	var summary AffiliateSummary
	err := r.DB.Model(&model.DreamAssessment{}).
		Where("affiliate_code = ?", code).
		Select("COUNT(*) as leads, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) as completed, "+
			"COALESCE(AVG(CASE WHEN status = ? THEN overall_score END), 0) as average_score",
			model.AssessmentCompleted, model.AssessmentCompleted).
		Scan(&summary).Error
	return summary, err
}
