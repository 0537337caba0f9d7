package sections

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printcalc/internal/edit"
	"printcalc/internal/notify"
	"printcalc/pkg/api"
)

type stubClientsAPI struct {
	mu sync.Mutex

	updateClientErr  error
	updateContactErr error
	deleteErr        error

	clientUpdates  []string
	contactUpdates []string
}

func (s *stubClientsAPI) UpdateClientField(ctx context.Context, clientID int64, field, value string) (*api.ClientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateClientErr != nil {
		return nil, s.updateClientErr
	}
	s.clientUpdates = append(s.clientUpdates, field+"="+value)
	rec := &api.ClientRecord{ID: clientID, Name: "ООО Ромашка"}
	switch field {
	case "discount":
		rec.Discount, _ = strconv.Atoi(value)
	case "name":
		rec.Name = value
	case "has_edo":
		rec.HasEDO = value == "true"
	}
	return rec, nil
}

func (s *stubClientsAPI) UpdateContactField(ctx context.Context, contactID int64, field, value string) (*api.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateContactErr != nil {
		return nil, s.updateContactErr
	}
	s.contactUpdates = append(s.contactUpdates, field+"="+value)
	ct := &api.Contact{ID: contactID, ClientID: 1, FullName: "Иванов И.И."}
	switch field {
	case "email":
		ct.Email = value
	case "is_primary":
		ct.IsPrimary = value == "true"
	}
	return ct, nil
}

func (s *stubClientsAPI) DeleteClient(ctx context.Context, clientID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return "", s.deleteErr
	}
	return "Клиент удалён", nil
}

func (s *stubClientsAPI) DeleteContact(ctx context.Context, contactID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return "", s.deleteErr
	}
	return "", nil
}

func newTestClients(stub *stubClientsAPI) *Clients {
	logger := zap.NewNop()
	notifier := notify.New(logger, time.Minute)
	editor := edit.NewEditor(logger, notifier, time.Millisecond)
	c := NewClients(stub, editor, notifier, logger)
	c.Load(
		[]api.ClientRecord{
			{ID: 1, Name: "ООО Ромашка", Discount: 10},
			{ID: 2, Name: "ИП Иванов"},
		},
		[]api.Contact{
			{ID: 11, ClientID: 1, FullName: "Иванов И.И.", IsPrimary: true},
			{ID: 12, ClientID: 1, FullName: "Петров П.П."},
			{ID: 13, ClientID: 2, FullName: "Сидоров С.С."},
		},
	)
	return c
}

func TestClients_InlineEditDiscount(t *testing.T) {
	stub := &stubClientsAPI{}
	c := newTestClients(stub)
	ctx := context.Background()

	f, ok := c.ClientField(1, "discount")
	require.True(t, ok)
	assert.Equal(t, "10", f.Display())

	editor := edit.NewEditor(zap.NewNop(), notify.New(zap.NewNop(), time.Minute), 0)
	s := editor.Begin(ctx, f)
	s.SetInput("25")
	require.NoError(t, s.Commit(ctx))

	assert.Equal(t, "25", f.Display())
	rec, _ := c.Client(1)
	assert.Equal(t, 25, rec.Discount)
	assert.Contains(t, stub.clientUpdates, "discount=25")
}

func TestClients_InlineEditValidationBlocksRequest(t *testing.T) {
	stub := &stubClientsAPI{}
	c := newTestClients(stub)
	ctx := context.Background()

	f, _ := c.ClientField(1, "discount")
	editor := edit.NewEditor(zap.NewNop(), notify.New(zap.NewNop(), time.Minute), 0)
	s := editor.Begin(ctx, f)
	s.SetInput("150")
	require.Error(t, s.Commit(ctx))

	assert.Equal(t, "10", f.Display())
	assert.Empty(t, stub.clientUpdates, "invalid value must not reach the server")
}

func TestClients_SetPrimaryClearsSiblings(t *testing.T) {
	stub := &stubClientsAPI{}
	c := newTestClients(stub)
	ctx := context.Background()

	require.NoError(t, c.SetPrimary(ctx, 12))

	ct12, _ := c.Contact(12)
	ct11, _ := c.Contact(11)
	ct13, _ := c.Contact(13)
	assert.True(t, ct12.IsPrimary)
	assert.False(t, ct11.IsPrimary, "sibling should lose the primary flag")
	assert.False(t, ct13.IsPrimary, "other client's contact untouched")
}

func TestClients_SetPrimaryIdempotent(t *testing.T) {
	stub := &stubClientsAPI{}
	c := newTestClients(stub)

	require.NoError(t, c.SetPrimary(context.Background(), 11))
	assert.Empty(t, stub.contactUpdates, "already-primary contact should be a no-op")
}

func TestClients_ToggleEDO(t *testing.T) {
	stub := &stubClientsAPI{}
	c := newTestClients(stub)
	ctx := context.Background()

	require.NoError(t, c.ToggleEDO(ctx, 1))
	rec, _ := c.Client(1)
	assert.True(t, rec.HasEDO)

	require.NoError(t, c.ToggleEDO(ctx, 1))
	rec, _ = c.Client(1)
	assert.False(t, rec.HasEDO, "toggle should round-trip")
}

func TestClients_DeleteFailureKeepsRow(t *testing.T) {
	stub := &stubClientsAPI{deleteErr: errors.New("boom")}
	c := newTestClients(stub)
	ctx := context.Background()

	require.Error(t, c.DeleteClient(ctx, 1))
	_, ok := c.Client(1)
	assert.True(t, ok, "failed delete must keep the row")

	// The failure cleared the in-flight guard, a retry can succeed.
	stub.mu.Lock()
	stub.deleteErr = nil
	stub.mu.Unlock()
	require.NoError(t, c.DeleteClient(ctx, 1))
	_, ok = c.Client(1)
	assert.False(t, ok)
}

func TestClients_DeleteClientRemovesContacts(t *testing.T) {
	stub := &stubClientsAPI{}
	c := newTestClients(stub)

	require.NoError(t, c.DeleteClient(context.Background(), 1))

	_, ok := c.Contact(11)
	assert.False(t, ok, "contacts of a deleted client should be gone")
	_, ok = c.Contact(13)
	assert.True(t, ok, "other client's contacts survive")
}

func TestClients_DeleteContact(t *testing.T) {
	stub := &stubClientsAPI{}
	c := newTestClients(stub)

	require.NoError(t, c.DeleteContact(context.Background(), 12))
	_, ok := c.Contact(12)
	assert.False(t, ok)
}
