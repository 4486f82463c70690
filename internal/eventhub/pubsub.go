package eventhub

import (
	"context"
	"encoding/json"
	"log"

	"smartalert/backend/internal/models"
	"smartalert/backend/internal/storage"
)

// StartPubSubListener forwards events published by any server instance to
// this hub until ctx is cancelled.
func (m *ManagerService) StartPubSubListener(ctx context.Context) {
	pubsub := m.Redis.Subscribe(ctx, storage.EventsChannel)

	go func() {
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event models.ComplaintEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("Error unmarshalling Redis event: %v", err)
					continue
				}
				m.Dispatch(event)
			}
		}
	}()
}
