package eventhub_test

import (
	"sync/atomic"

	"smartalert/backend/internal/models"
)

type MockClient struct {
	id          string
	session     models.Session
	RecvChannel chan models.ComplaintEvent
	closed      atomic.Int32
}

func newMockClient(id string, sess models.Session, buffer int) *MockClient {
	return &MockClient{
		id:          id,
		session:     sess,
		RecvChannel: make(chan models.ComplaintEvent, buffer),
	}
}

func (c *MockClient) GetClientID() string                          { return c.id }
func (c *MockClient) GetSession() models.Session                   { return c.session }
func (c *MockClient) GetSendChannel() chan<- models.ComplaintEvent { return c.RecvChannel }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed.Add(1)
}

func (c *MockClient) Closed() int {
	return int(c.closed.Load())
}
