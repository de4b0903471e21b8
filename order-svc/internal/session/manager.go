package session

import (
	"context"
	"errors"
	"log"

	"github.com/lemon630/order-meal/order-svc/internal/domain"
	"github.com/lemon630/order-meal/order-svc/internal/storage"

	"github.com/google/uuid"
)

type Store interface {
	Load(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, sess *domain.Session) error
}

var _ Store = (*storage.RedisSessionStore)(nil)

// Manager binds session ids to stored state and runs each interaction to
// completion before the next one for the same id starts.
type Manager struct {
	store  Store
	router *Router
	locks  *keyedMutex
}

func NewManager(store Store, router *Router) *Manager {
	return &Manager{
		store:  store,
		router: router,
		locks:  newKeyedMutex(),
	}
}

// Open returns the session for id, creating a fresh one when id is empty or
// unknown. A table in range presets the diner's table.
func (m *Manager) Open(ctx context.Context, id string, table int) (*domain.Session, *View, error) {
	if id == "" {
		id = uuid.New().String()
	}
	unlock := m.locks.Lock(id)
	defer unlock()

	sess, err := m.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if table > 0 {
		if table <= m.router.orders.TableMax() {
			sess.Table = table
		} else {
			log.Printf("[order-svc] session %s: ignoring table %d outside 1-%d", id, table, m.router.orders.TableMax())
		}
	}

	view, err := m.router.Render(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, nil, err
	}
	return sess, view, nil
}

// Handle applies one event to the session. A failed handler leaves the stored
// session untouched. Once the handler has run the session is saved even if the
// page then fails to render, so a write such as a placed order is never paired
// with the pre-event cart.
func (m *Manager) Handle(ctx context.Context, id string, ev domain.Event) (*domain.Session, *View, error) {
	unlock := m.locks.Lock(id)
	defer unlock()

	sess, err := m.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := m.router.Apply(ctx, sess, ev); err != nil {
		return nil, nil, err
	}

	view, renderErr := m.router.Render(ctx, sess)
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, nil, err
	}
	if renderErr != nil {
		log.Printf("[order-svc] session %s: render %s after %s: %v", id, sess.Page, ev.Action, renderErr)
		return nil, nil, renderErr
	}
	return sess, view, nil
}

// Get loads the session without changing it.
func (m *Manager) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, storage.ErrNotFound
	}
	return m.store.Load(ctx, id)
}

func (m *Manager) load(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := m.store.Load(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		log.Printf("[order-svc] new session %s", id)
		return domain.NewSession(id), nil
	}
	return sess, err
}
