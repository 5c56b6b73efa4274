package service

import (
	"context"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/repository"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"
)

type fakeAssessmentStore struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*model.DreamAssessment
}

func newFakeAssessmentStore() *fakeAssessmentStore {
	return &fakeAssessmentStore{byID: map[uint]*model.DreamAssessment{}}
}

func (f *fakeAssessmentStore) Create(a *model.DreamAssessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAssessmentStore) FindByID(id uint) (*model.DreamAssessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssessmentStore) FindByToken(token string) (*model.DreamAssessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.PublicToken == token {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssessmentStore) UpdateResponses(id uint, responses json.RawMessage, completion int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok || a.Status != model.AssessmentInProgress {
		return nil
	}
	a.Responses = responses
	a.Completion = completion
	return nil
}

func (f *fakeAssessmentStore) MarkCompleted(a *model.DreamAssessment) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[a.ID]
	if !ok || stored.Status != model.AssessmentInProgress {
		return false, nil
	}
	stored.SetScores(a.Scores())
	stored.Completion = a.Completion
	stored.Status = model.AssessmentCompleted
	stored.StrategyStatus = a.StrategyStatus
	stored.CompletedAt = a.CompletedAt
	return true, nil
}

// readBarrierStore 让前 n 次 FindByToken 在全部读到数据后才返回
type readBarrierStore struct {
	*fakeAssessmentStore
	reads   atomic.Int32
	n       int32
	arrived sync.WaitGroup
}

func newReadBarrierStore(store *fakeAssessmentStore, n int) *readBarrierStore {
	b := &readBarrierStore{fakeAssessmentStore: store, n: int32(n)}
	b.arrived.Add(n)
	return b
}

func (b *readBarrierStore) FindByToken(token string) (*model.DreamAssessment, error) {
	a, err := b.fakeAssessmentStore.FindByToken(token)
	if b.reads.Add(1) <= b.n {
		b.arrived.Done()
		b.arrived.Wait()
	}
	return a, err
}

func (f *fakeAssessmentStore) UpdateStrategy(id uint, strategy string, status model.StrategyStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Strategy = strategy
	a.StrategyStatus = status
	return nil
}

func (f *fakeAssessmentStore) MarkEmailSent(id uint, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		a.EmailSentAt = &at
	}
	return nil
}

func (f *fakeAssessmentStore) List(filter repository.AssessmentFilter, page, limit int) ([]model.DreamAssessment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.DreamAssessment
	for _, a := range f.byID {
		if filter.Tier != "" && string(a.Tier) != filter.Tier {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAssessmentStore) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

type fakeCache struct {
	data        map[string][]byte
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(ctx context.Context, token string, dest interface{}) (bool, error) {
	b, ok := c.data[token]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *fakeCache) Set(ctx context.Context, token string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[token] = b
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, token string) error {
	delete(c.data, token)
	c.invalidated = append(c.invalidated, token)
	return nil
}

type fakeAffiliates map[string]*model.Affiliate

func (f fakeAffiliates) FindByCode(code string) (*model.Affiliate, error) {
	a, ok := f[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

type fakeResultMailer struct {
	mu      sync.Mutex
	enabled bool
	err     error
	sent    []*AssessmentResult
}

func (m *fakeResultMailer) Enabled() bool { return m.enabled }

func (m *fakeResultMailer) SendResults(ctx context.Context, a *model.DreamAssessment, result *AssessmentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, result)
	return m.err
}

type fakeStrategy struct {
	mu      sync.Mutex
	enabled bool
	text    string
	err     error
	calls   int
}

func (s *fakeStrategy) Enabled() bool { return s.enabled }

func (s *fakeStrategy) Generate(ctx context.Context, a *model.DreamAssessment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.text, s.err
}

var errBoom = errors.New("boom")
