package notify

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
	"newsflow-backend/internal/models"
)

// notifyFunction is the edge function that relays events onto Realtime
// channels. Inserts into the notifications table already reach
// subscribers through the Postgres changes feed; this broadcast is the
// explicit event on top of that.
const notifyFunction = "notify"

// Publisher pushes committed notifications to live clients. Delivery is
// best effort: the persisted notification row is the source of truth,
// so a failed push is logged and dropped, never retried.
type Publisher interface {
	NotificationCreated(n models.Notification) error
}

// NoopPublisher is used when no realtime backend is configured.
type NoopPublisher struct{}

func (NoopPublisher) NotificationCreated(models.Notification) error { return nil }

type RealtimePublisher struct {
	client *supabase.Client
}

func NewRealtimePublisher(supabaseURL, key string) (*RealtimePublisher, error) {
	client, err := supabase.NewClient(supabaseURL, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &RealtimePublisher{client: client}, nil
}

// NotificationCreated announces a new notification on the target user's
// channel by invoking the notify function.
func (r *RealtimePublisher) NotificationCreated(n models.Notification) error {
	body := map[string]interface{}{
		"channel": userChannel(n.UserID.String()),
		"event":   "notification_created",
		"payload": NotificationPayload(n),
	}
	if _, err := r.client.Functions.Invoke(notifyFunction, body); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

func userChannel(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// NotificationPayload is the event body subscribers receive.
func NotificationPayload(n models.Notification) map[string]interface{} {
	payload := map[string]interface{}{
		"id":         n.ID.String(),
		"message":    n.Message,
		"created_at": n.CreatedAt,
	}
	if n.ProjectID.Valid {
		payload["project_id"] = n.ProjectID.UUID.String()
	}
	return payload
}
