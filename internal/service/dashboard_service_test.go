package service

import (
	"dream_site_backend/internal/repository"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDashboardService(t *testing.T) (*DashboardService, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	svc := NewDashboardService(
		repository.NewAssessmentRepository(db),
		repository.NewContactRepository(db),
		repository.NewNewsletterRepository(db),
		repository.NewAffiliateRepository(db),
	)
	return svc, mock
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestDashboardService_Stats(t *testing.T) {
	svc, mock := newDashboardService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `dream_assessments`").WillReturnRows(countRows(12))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `dream_assessments` WHERE status = \\?").
		WithArgs("completed").
		WillReturnRows(countRows(7))
	mock.ExpectQuery("SELECT tier, COUNT\\(\\*\\) as count FROM `dream_assessments`.*GROUP BY `?tier`?").
		WillReturnRows(sqlmock.NewRows([]string{"tier", "count"}).
			AddRow("mini", 5).
			AddRow("medium", 7))
	mock.ExpectQuery("SELECT AVG\\(overall_score\\) FROM `dream_assessments` WHERE status = \\?").
		WithArgs("completed").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(6.26))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `contacts` WHERE status = \\?").
		WithArgs("new").
		WillReturnRows(countRows(3))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `newsletter_subscribers` WHERE status = \\?").
		WithArgs("active").
		WillReturnRows(countRows(40))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `affiliates` WHERE active = \\?").
		WithArgs(true).
		WillReturnRows(countRows(2))

	stats, err := svc.Stats()
	require.NoError(t, err)

	assert.EqualValues(t, 12, stats.AssessmentsTotal)
	assert.EqualValues(t, 7, stats.AssessmentsCompleted)
	assert.Equal(t, map[string]int64{"mini": 5, "medium": 7}, stats.AssessmentsByTier)
	assert.Equal(t, 6.3, stats.AverageOverallScore)
	assert.EqualValues(t, 3, stats.ContactsNew)
	assert.EqualValues(t, 40, stats.SubscribersActive)
	assert.EqualValues(t, 2, stats.AffiliatesActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardService_StatsError(t *testing.T) {
	svc, mock := newDashboardService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `dream_assessments`").
		WillReturnError(errors.New("connection reset"))

	_, err := svc.Stats()
	assert.Error(t, err)
}
