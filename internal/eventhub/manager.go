// Package eventhub fans complaint change events out to connected portals so
// that every open view of a complaint learns about updates made elsewhere.
package eventhub

import (
	"context"
	"log"

	"smartalert/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// ManagerService owns the client registry. All registry changes happen on
// the Run goroutine.
type ManagerService struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventsCh     chan models.ComplaintEvent

	// Redis carries events between server instances. Nil keeps them local.
	Redis *redis.Client

	done chan struct{} // closed when Run returns
}

func NewManagerService(rdb *redis.Client) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventsCh:     make(chan models.ComplaintEvent, 64),
		Redis:        rdb,
		done:         make(chan struct{}),
	}
}

// Register hands a client to the Run loop. It reports false once the hub
// has stopped; the caller then owns the client.
func (m *ManagerService) Register(c Client) bool {
	select {
	case m.RegisterCh <- c:
		return true
	case <-m.done:
		return false
	}
}

// Unregister removes a client. It is a no-op after the hub has stopped,
// because shutdown already closed every client.
func (m *ManagerService) Unregister(c Client) {
	select {
	case m.UnregisterCh <- c:
	case <-m.done:
	}
}

// Done is closed when Run returns.
func (m *ManagerService) Done() <-chan struct{} {
	return m.done
}

// Dispatch queues an event published by this process when Redis is not
// configured. It never blocks the caller; an overflowing queue drops the event.
func (m *ManagerService) Dispatch(e models.ComplaintEvent) {
	select {
	case m.EventsCh <- e:
	default:
		log.Printf("WARNING: Event queue full, dropping %s for %s", e.Type, e.ComplaintID)
	}
}

// Run processes registrations and events until ctx is cancelled. With Redis
// configured it is also the only place that subscribes to the events channel.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.done)

	if m.Redis != nil {
		m.StartPubSubListener(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for id, client := range m.Clients {
				client.Close()
				delete(m.Clients, id)
			}
			return

		case client := <-m.RegisterCh:
			m.Clients[client.GetClientID()] = client
			log.Printf("INFO: Client %s connected (%s)", client.GetClientID(), client.GetSession().Role)

		case client := <-m.UnregisterCh:
			m.remove(client.GetClientID())

		case event := <-m.EventsCh:
			m.broadcast(event)
		}
	}
}

func (m *ManagerService) broadcast(event models.ComplaintEvent) {
	for id, client := range m.Clients {
		if !Deliverable(client.GetSession(), event) {
			continue
		}
		select {
		case client.GetSendChannel() <- event:
		default:
			log.Printf("WARNING: Client %s is not keeping up, disconnecting", id)
			m.remove(id)
		}
	}
}

func (m *ManagerService) remove(id string) {
	client, ok := m.Clients[id]
	if !ok {
		return
	}
	delete(m.Clients, id)
	client.Close()
}
