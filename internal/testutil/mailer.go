package testutil

import (
	"context"
	"sync"

	"github.com/localnerve/jam-build-shoppinglist/internal/mail"
)

// MemoryMailer keeps sent messages in an outbox
type MemoryMailer struct {
	mu     sync.Mutex
	outbox []mail.Message
	// Err, when set, is returned by Send and nothing is recorded
	Err error
}

// Send records msg
func (m *MemoryMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.outbox = append(m.outbox, msg)
	return nil
}

// Outbox returns a copy of the sent messages
func (m *MemoryMailer) Outbox() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.outbox...)
}
