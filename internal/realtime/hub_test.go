// internal/realtime/hub_test.go
package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/common/logger"
	"jobboard/internal/models"
)

func newTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	hub := NewHub(client, "notifications:", logger.NewTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	// Give Run a moment to open the pattern subscription.
	time.Sleep(50 * time.Millisecond)
	return hub, cancel
}

func waitForEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	events, unsub := hub.Subscribe("user-1")
	defer unsub()

	n := &models.Notification{
		ID:      "notif-1",
		UserID:  "user-1",
		Message: "Félicitations ! Votre candidature a été acceptée",
		Type:    models.TypeStatusChange,
	}
	require.NoError(t, hub.Publish(context.Background(), KindInsert, n))

	ev := waitForEvent(t, events)
	assert.Equal(t, KindInsert, ev.Kind)
	assert.Equal(t, "notif-1", ev.Notification.ID)
	assert.Equal(t, n.Message, ev.Notification.Message)
}

func TestHub_EventsAreScopedToRecipient(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	mine, unsubMine := hub.Subscribe("user-1")
	defer unsubMine()
	other, unsubOther := hub.Subscribe("user-2")
	defer unsubOther()

	n := &models.Notification{ID: "notif-1", UserID: "user-1", Message: "m", Type: models.TypeStatusChange}
	require.NoError(t, hub.Publish(context.Background(), KindUpdate, n))

	waitForEvent(t, mine)
	select {
	case ev := <-other:
		t.Fatalf("unexpected event for other recipient: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_MultipleListenersSameRecipient(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	first, unsub1 := hub.Subscribe("admin-1")
	defer unsub1()
	second, unsub2 := hub.Subscribe("admin-1")
	defer unsub2()

	n := &models.Notification{ID: "notif-1", AdminID: "admin-1", Message: "m", Type: models.TypeNewApplication}
	require.NoError(t, hub.Publish(context.Background(), KindInsert, n))

	assert.Equal(t, "notif-1", waitForEvent(t, first).Notification.ID)
	assert.Equal(t, "notif-1", waitForEvent(t, second).Notification.ID)
}

func TestHub_PublishWithoutRecipientFails(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	err := hub.Publish(context.Background(), KindInsert, &models.Notification{ID: "notif-1"})
	assert.Error(t, err)
}

func TestHub_CancelledListenerStopsReceiving(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	events, unsub := hub.Subscribe("user-1")
	unsub()

	_, open := <-events
	assert.False(t, open, "cancel closes the listener channel")
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	kept, unsubKept := hub.Subscribe("user-1")
	defer unsubKept()
	_, unsub := hub.Subscribe("user-1")

	unsub()
	assert.NotPanics(t, unsub)

	// The surviving listener for the same recipient still gets events.
	n := &models.Notification{ID: "notif-1", UserID: "user-1", Message: "m", Type: models.TypeStatusChange}
	require.NoError(t, hub.Publish(context.Background(), KindInsert, n))
	assert.Equal(t, "notif-1", waitForEvent(t, kept).Notification.ID)
}
