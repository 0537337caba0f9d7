package sections

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"printcalc/internal/edit"
	"printcalc/internal/notify"
	"printcalc/pkg/api"
)

type clientsAPI interface {
	UpdateClientField(ctx context.Context, clientID int64, field, value string) (*api.ClientRecord, error)
	UpdateContactField(ctx context.Context, contactID int64, field, value string) (*api.Contact, error)
	DeleteClient(ctx context.Context, clientID int64) (string, error)
	DeleteContact(ctx context.Context, contactID int64) (string, error)
}

// Clients owns the "База клиентов" section: the client table with its nested
// contact rows. Every scalar cell is edited in place through the shared
// editor; deletes keep the row visible until the server confirms.
type Clients struct {
	mu       sync.Mutex
	api      clientsAPI
	editor   *edit.Editor
	notifier *notify.Notifier
	logger   *zap.Logger

	clients  map[int64]*api.ClientRecord
	contacts map[int64]*api.Contact

	// ids with a delete request in flight, to swallow double clicks
	deleting map[int64]bool
}

func NewClients(apiClient clientsAPI, editor *edit.Editor, notifier *notify.Notifier, logger *zap.Logger) *Clients {
	return &Clients{
		api:      apiClient,
		editor:   editor,
		notifier: notifier,
		logger:   logger,
		clients:  make(map[int64]*api.ClientRecord),
		contacts: make(map[int64]*api.Contact),
		deleting: make(map[int64]bool),
	}
}

// Load replaces the table contents, e.g. after the initial page render.
func (c *Clients) Load(clients []api.ClientRecord, contacts []api.Contact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients = make(map[int64]*api.ClientRecord, len(clients))
	for i := range clients {
		rec := clients[i]
		c.clients[rec.ID] = &rec
	}
	c.contacts = make(map[int64]*api.Contact, len(contacts))
	for i := range contacts {
		ct := contacts[i]
		c.contacts[ct.ID] = &ct
	}
}

// Client returns a copy of one client row.
func (c *Clients) Client(id int64) (api.ClientRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.clients[id]
	if !ok {
		return api.ClientRecord{}, false
	}
	return *rec, true
}

// Contact returns a copy of one contact row.
func (c *Clients) Contact(id int64) (api.Contact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ct, ok := c.contacts[id]
	if !ok {
		return api.Contact{}, false
	}
	return *ct, true
}

// ClientField builds the inline-edit field for one client cell. The saver
// applies the canonical record echoed by the server.
func (c *Clients) ClientField(clientID int64, field string) (*edit.Field, bool) {
	c.mu.Lock()
	rec, ok := c.clients[clientID]
	if !ok {
		c.mu.Unlock()
		return nil, false
	}
	display := clientFieldValue(rec, field)
	c.mu.Unlock()

	save := func(ctx context.Context, value string) (string, error) {
		updated, err := c.api.UpdateClientField(ctx, clientID, field, value)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.clients[clientID] = updated
		c.mu.Unlock()
		return clientFieldValue(updated, field), nil
	}

	return edit.NewField(field, display, clientValidator(field), save), true
}

// ContactField builds the inline-edit field for one contact cell.
func (c *Clients) ContactField(contactID int64, field string) (*edit.Field, bool) {
	c.mu.Lock()
	ct, ok := c.contacts[contactID]
	if !ok {
		c.mu.Unlock()
		return nil, false
	}
	display := contactFieldValue(ct, field)
	c.mu.Unlock()

	save := func(ctx context.Context, value string) (string, error) {
		updated, err := c.api.UpdateContactField(ctx, contactID, field, value)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.contacts[contactID] = updated
		c.mu.Unlock()
		return contactFieldValue(updated, field), nil
	}

	return edit.NewField(field, display, contactValidator(field), save), true
}

// ToggleEDO flips the client's electronic document flow flag.
func (c *Clients) ToggleEDO(ctx context.Context, clientID int64) error {
	c.mu.Lock()
	rec, ok := c.clients[clientID]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	current := rec.HasEDO
	c.mu.Unlock()

	got, err := c.editor.Toggle(ctx, "has_edo", current, func(ctx context.Context, value bool) (bool, error) {
		updated, err := c.api.UpdateClientField(ctx, clientID, "has_edo", strconv.FormatBool(value))
		if err != nil {
			return false, err
		}
		c.mu.Lock()
		c.clients[clientID] = updated
		c.mu.Unlock()
		return updated.HasEDO, nil
	})
	if err != nil {
		return err
	}

	c.logger.Debug("EDO flag toggled",
		zap.Int64("client_id", clientID),
		zap.Bool("has_edo", got))
	return nil
}

// SetPrimary marks one contact as the primary one for its client. On success
// the flag is cleared on all sibling contacts, the server enforces the same
// exclusivity on its side.
func (c *Clients) SetPrimary(ctx context.Context, contactID int64) error {
	c.mu.Lock()
	ct, ok := c.contacts[contactID]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	if ct.IsPrimary {
		c.mu.Unlock()
		return nil
	}
	clientID := ct.ClientID
	c.mu.Unlock()

	updated, err := c.api.UpdateContactField(ctx, contactID, "is_primary", "true")
	if err != nil {
		c.notifier.Error("Не удалось сохранить изменения")
		c.logger.Error("Failed to set primary contact",
			zap.Int64("contact_id", contactID),
			zap.Error(err))
		return err
	}

	c.mu.Lock()
	for id, other := range c.contacts {
		if other.ClientID == clientID && id != contactID {
			other.IsPrimary = false
		}
	}
	c.contacts[contactID] = updated
	c.mu.Unlock()
	return nil
}

// DeleteClient removes a client and its contacts. The row survives a failed
// delete; a second click while the request is in flight is ignored.
func (c *Clients) DeleteClient(ctx context.Context, clientID int64) error {
	c.mu.Lock()
	if _, ok := c.clients[clientID]; !ok || c.deleting[clientID] {
		c.mu.Unlock()
		return nil
	}
	c.deleting[clientID] = true
	c.mu.Unlock()

	message, err := c.api.DeleteClient(ctx, clientID)

	c.mu.Lock()
	delete(c.deleting, clientID)
	if err == nil {
		delete(c.clients, clientID)
		for id, ct := range c.contacts {
			if ct.ClientID == clientID {
				delete(c.contacts, id)
			}
		}
	}
	c.mu.Unlock()

	if err != nil {
		c.notifier.Error("Не удалось удалить клиента")
		c.logger.Error("Client delete failed",
			zap.Int64("client_id", clientID),
			zap.Error(err))
		return err
	}

	if message == "" {
		message = "Клиент удалён"
	}
	c.notifier.Success(message)
	return nil
}

// DeleteContact removes a single contact row.
func (c *Clients) DeleteContact(ctx context.Context, contactID int64) error {
	c.mu.Lock()
	if _, ok := c.contacts[contactID]; !ok || c.deleting[contactID] {
		c.mu.Unlock()
		return nil
	}
	c.deleting[contactID] = true
	c.mu.Unlock()

	message, err := c.api.DeleteContact(ctx, contactID)

	c.mu.Lock()
	delete(c.deleting, contactID)
	if err == nil {
		delete(c.contacts, contactID)
	}
	c.mu.Unlock()

	if err != nil {
		c.notifier.Error("Не удалось удалить контакт")
		c.logger.Error("Contact delete failed",
			zap.Int64("contact_id", contactID),
			zap.Error(err))
		return err
	}

	if message == "" {
		message = "Контакт удалён"
	}
	c.notifier.Success(message)
	return nil
}

func clientFieldValue(rec *api.ClientRecord, field string) string {
	switch field {
	case "name":
		return rec.Name
	case "discount":
		return strconv.Itoa(rec.Discount)
	case "address":
		return rec.Address
	case "bank_details":
		return rec.BankDetails
	default:
		return ""
	}
}

func clientValidator(field string) edit.Validator {
	switch field {
	case "name":
		return edit.Name
	case "discount":
		return edit.Discount
	default:
		return nil
	}
}

func contactFieldValue(ct *api.Contact, field string) string {
	switch field {
	case "full_name":
		return ct.FullName
	case "position":
		return ct.Position
	case "phone":
		return ct.Phone
	case "mobile":
		return ct.Mobile
	case "email":
		return ct.Email
	case "comments":
		return ct.Comments
	default:
		return ""
	}
}

func contactValidator(field string) edit.Validator {
	switch field {
	case "full_name":
		return edit.Name
	case "email":
		return edit.Email
	case "comments":
		return edit.Comments
	default:
		return nil
	}
}
