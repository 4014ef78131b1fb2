package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/sharedledger/internal/events"
	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage"
)

type memoryAuditStore struct {
	entries []*models.AuditEntry
	err     error
}

func (m *memoryAuditStore) CreateAuditEntry(_ context.Context, entry *models.AuditEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryAuditStore) ListAuditEntries(context.Context, string, storage.AuditFilter) ([]*models.AuditEntry, error) {
	return m.entries, nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error { return errors.New("broker down") }
func (failingPublisher) Close() error                                 { return nil }

var alice = Actor{Email: "alice@example.com", Name: "Alice"}

func TestRecorder(t *testing.T) {
	store := &memoryAuditStore{}
	pub := &events.Memory{}
	r := NewRecorder(store, pub)
	r.now = func() time.Time { return time.Unix(1700000000, 0) }
	ctx := context.Background()

	r.Created(ctx, alice, "g1", models.EntityExpense, "e1", Fields{"title": "Dinner", "amount": 90.0, "paid_by": "alice@example.com"})
	r.Updated(ctx, alice, "g1", models.EntityExpense, "e1", Fields{"amount": 90.0}, Fields{"amount": 60.0})
	r.Deleted(ctx, alice, "g1", models.EntityExpense, "e1", Fields{"title": "Dinner"})
	r.Record(ctx, alice, "g1", models.EntityGroup, "g1", models.ActionUpdate, Fields{
		"added_member": map[string]any{"email": "bob@example.com", "role": "member"},
	})

	require.Len(t, store.entries, 4)
	assert.Equal(t, models.ActionCreate, store.entries[0].Action)
	assert.JSONEq(t, `{"title":"Dinner","amount":90,"paid_by":"alice@example.com"}`, string(store.entries[0].Changes))
	assert.JSONEq(t, `{"before":{"amount":90},"after":{"amount":60}}`, string(store.entries[1].Changes))
	assert.JSONEq(t, `{"deleted_expense":{"title":"Dinner"}}`, string(store.entries[2].Changes))
	assert.JSONEq(t, `{"added_member":{"email":"bob@example.com","role":"member"}}`, string(store.entries[3].Changes))
	assert.Equal(t, "Alice", store.entries[0].ActorName)
	assert.Equal(t, int64(1700000000), store.entries[0].CreatedAt)

	published := pub.Events()
	require.Len(t, published, 4)
	assert.Equal(t, store.entries[1].ID, published[1].ID)
	assert.Equal(t, "ledger.expense.update", published[1].RoutingKey())
	assert.JSONEq(t, string(store.entries[1].Changes), string(published[1].Changes))
}

func TestRecorder_FailuresAreNotFatal(t *testing.T) {
	store := &memoryAuditStore{err: errors.New("disk full")}
	r := NewRecorder(store, failingPublisher{})

	assert.NotPanics(t, func() {
		r.Created(context.Background(), alice, "g1", models.EntityTransfer, "t1", Fields{"amount": 5.0})
	})
}

func TestRecorder_BadFieldsStillRecorded(t *testing.T) {
	store := &memoryAuditStore{}
	r := NewRecorder(store, nil)

	r.Created(context.Background(), alice, "g1", models.EntityGroup, "g1", Fields{"bad": struct{}{}})
	require.Len(t, store.entries, 1)
	assert.Equal(t, "{}", string(store.entries[0].Changes))
}

func TestEncodeDecodeChanges(t *testing.T) {
	body, err := EncodeChanges(map[string]any{
		"members": []any{"alice@example.com", "bob@example.com"},
		"amount":  12.5,
		"note":    nil,
	})
	require.NoError(t, err)

	decoded, err := DecodeChanges(body)
	require.NoError(t, err)
	assert.Equal(t, 12.5, decoded["amount"])
	assert.Equal(t, []any{"alice@example.com", "bob@example.com"}, decoded["members"])
	assert.Nil(t, decoded["note"])

	empty, err := DecodeChanges(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = DecodeChanges([]byte("not json"))
	assert.Error(t, err)
}
