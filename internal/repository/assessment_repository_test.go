package repository

import (
	"dream_site_backend/internal/model"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestAssessmentRepository_FindByToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `dream_assessments` WHERE public_token = ?")).
		WithArgs("tok-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "public_token", "email", "tier", "status"}).
			AddRow(4, "tok-1", "lead@example.com", "mini", "in_progress"))

	a, err := repo.FindByToken("tok-1")
	require.NoError(t, err)
	assert.Equal(t, uint(4), a.ID)
	assert.Equal(t, "lead@example.com", a.Email)
	assert.Equal(t, model.AssessmentInProgress, a.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepository_FindByTokenMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `dream_assessments` WHERE public_token = ?")).
		WithArgs("nope", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByToken("nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAssessmentRepository_UpdateResponsesOnlyInProgress(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `dream_assessments` SET .*`completion`=.*`responses`=.*WHERE \\(id = \\? AND status = \\?\\)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateResponses(4, json.RawMessage(`{"q":"a"}`), 50)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepository_MarkCompleted(t *testing.T) {
	cases := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"in progress row is completed", 1, true},
		{"already completed by another request", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewAssessmentRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec("UPDATE `dream_assessments` SET .*`overall_score`=.*`status`=.*WHERE \\(id = \\? AND status = \\?\\)").
				WillReturnResult(sqlmock.NewResult(0, tc.affected))
			mock.ExpectCommit()

			now := time.Now()
			a := &model.DreamAssessment{Status: model.AssessmentCompleted, OverallScore: 6.1, Completion: 100, CompletedAt: &now}
			a.ID = 4

			won, err := repo.MarkCompleted(a)
			require.NoError(t, err)
			assert.Equal(t, tc.want, won)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAssessmentRepository_CountByTier(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT tier, COUNT(*) as count FROM `dream_assessments`")).
		WillReturnRows(sqlmock.NewRows([]string{"tier", "count"}).
			AddRow("mini", 5).
			AddRow("indepth", 2))

	counts, err := repo.CountByTier()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"mini": 5, "indepth": 2}, counts)
}

func TestAssessmentRepository_AffiliateSummary(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) as leads.*FROM `dream_assessments` WHERE affiliate_code = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"leads", "completed", "average_score"}).AddRow(10, 4, 6.5))

	summary, err := repo.AffiliateSummary("partner")
	require.NoError(t, err)
	assert.Equal(t, int64(10), summary.Leads)
	assert.Equal(t, int64(4), summary.Completed)
	assert.Equal(t, 6.5, summary.AverageScore)
}
