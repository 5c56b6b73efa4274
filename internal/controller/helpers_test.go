package controller

import (
	"bytes"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/repository"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

// memAssessments 内存版测评存储
type memAssessments struct {
	mu   sync.Mutex
	rows map[uint]*model.DreamAssessment
}

func newMemAssessments() *memAssessments {
	return &memAssessments{rows: map[uint]*model.DreamAssessment{}}
}

func (m *memAssessments) Create(a *model.DreamAssessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uint(len(m.rows) + 1)
	cp := *a
	m.rows[a.ID] = &cp
	return nil
}

func (m *memAssessments) FindByID(id uint) (*model.DreamAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAssessments) FindByToken(token string) (*model.DreamAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.PublicToken == token {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memAssessments) UpdateResponses(id uint, responses json.RawMessage, completion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.rows[id]; ok && a.Status == model.AssessmentInProgress {
		a.Responses = responses
		a.Completion = completion
	}
	return nil
}

func (m *memAssessments) MarkCompleted(a *model.DreamAssessment) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rows[a.ID]
	if !ok || stored.Status != model.AssessmentInProgress {
		return false, nil
	}
	responses := stored.Responses
	cp := *a
	cp.Responses = responses
	m.rows[a.ID] = &cp
	return true, nil
}

func (m *memAssessments) UpdateStrategy(id uint, strategy string, status model.StrategyStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.rows[id]; ok {
		a.Strategy = strategy
		a.StrategyStatus = status
	}
	return nil
}

func (m *memAssessments) MarkEmailSent(id uint, at time.Time) error {
	return nil
}

func (m *memAssessments) List(filter repository.AssessmentFilter, page, limit int) ([]model.DreamAssessment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.DreamAssessment
	for _, a := range m.rows {
		if filter.Tier != "" && string(a.Tier) != filter.Tier {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (m *memAssessments) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// memAffiliates 内存版推广伙伴存储
type memAffiliates struct {
	rows map[uint]*model.Affiliate
}

func newMemAffiliates(list ...model.Affiliate) *memAffiliates {
	m := &memAffiliates{rows: map[uint]*model.Affiliate{}}
	for i := range list {
		a := list[i]
		a.ID = uint(i + 1)
		m.rows[a.ID] = &a
	}
	return m
}

func (m *memAffiliates) Create(a *model.Affiliate) error {
	a.ID = uint(len(m.rows) + 1)
	m.rows[a.ID] = a
	return nil
}

func (m *memAffiliates) FindByID(id uint) (*model.Affiliate, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (m *memAffiliates) FindByCode(code string) (*model.Affiliate, error) {
	for _, a := range m.rows {
		if a.Code == code {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memAffiliates) List(page, limit int) ([]model.Affiliate, int64, error) {
	var out []model.Affiliate
	for _, a := range m.rows {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (m *memAffiliates) Update(a *model.Affiliate) error {
	m.rows[a.ID] = a
	return nil
}

func (m *memAffiliates) Delete(id uint) error {
	delete(m.rows, id)
	return nil
}
