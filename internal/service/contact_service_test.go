package service

import (
	"context"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeContactStore struct {
	items map[uint]*model.Contact
}

func (f *fakeContactStore) Create(c *model.Contact) error {
	c.ID = uint(len(f.items) + 1)
	f.items[c.ID] = c
	return nil
}

func (f *fakeContactStore) FindByID(id uint) (*model.Contact, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeContactStore) List(status string, page, limit int) ([]model.Contact, int64, error) {
	return nil, 0, nil
}

func (f *fakeContactStore) UpdateStatus(id uint, status model.ContactStatus, handledAt *time.Time) error {
	f.items[id].Status = status
	f.items[id].HandledAt = handledAt
	return nil
}

func (f *fakeContactStore) Delete(id uint) error {
	delete(f.items, id)
	return nil
}

type fakeNotifier struct {
	enabled bool
	err     error
	sent    []*model.Contact
}

func (n *fakeNotifier) Enabled() bool { return n.enabled }

func (n *fakeNotifier) NotifyContact(ctx context.Context, c *model.Contact) error {
	n.sent = append(n.sent, c)
	return n.err
}

func TestContactService_Submit(t *testing.T) {
	store := &fakeContactStore{items: map[uint]*model.Contact{}}
	notifier := &fakeNotifier{enabled: true, err: errBoom}
	svc := NewContactService(store, notifier)

	c, err := svc.Submit(context.Background(), ContactInput{
		Name:    " Grace ",
		Email:   "GRACE@Example.com",
		Message: " Hello ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", c.Name)
	assert.Equal(t, "grace@example.com", c.Email)
	assert.Equal(t, "Hello", c.Message)
	assert.Equal(t, "contact_form", c.Source)
	assert.Equal(t, model.ContactNew, c.Status)
	assert.Len(t, notifier.sent, 1)
}

func TestContactService_SubmitNotifierDisabled(t *testing.T) {
	store := &fakeContactStore{items: map[uint]*model.Contact{}}
	notifier := &fakeNotifier{}
	svc := NewContactService(store, notifier)

	_, err := svc.Submit(context.Background(), ContactInput{Name: "A", Email: "a@example.com", Message: "x", Source: "audit_results"})
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
	assert.Equal(t, "audit_results", store.items[1].Source)
}

func TestContactService_SetStatus(t *testing.T) {
	store := &fakeContactStore{items: map[uint]*model.Contact{}}
	svc := NewContactService(store, nil)
	c, err := svc.Submit(context.Background(), ContactInput{Name: "A", Email: "a@example.com", Message: "x"})
	require.NoError(t, err)

	handled, err := svc.SetStatus(c.ID, model.ContactHandled)
	require.NoError(t, err)
	assert.Equal(t, model.ContactHandled, handled.Status)
	assert.NotNil(t, handled.HandledAt)

	reopened, err := svc.SetStatus(c.ID, model.ContactNew)
	require.NoError(t, err)
	assert.Nil(t, reopened.HandledAt)

	_, err = svc.SetStatus(42, model.ContactHandled)
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(42), util.ErrNotFound)
	assert.NoError(t, svc.Delete(c.ID))
}
