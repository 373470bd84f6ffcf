package notify_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"newsflow-backend/internal/models"
	"newsflow-backend/internal/notify"
)

func testNotification(userID uuid.UUID) models.Notification {
	return models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		ProjectID: uuid.NullUUID{UUID: uuid.New(), Valid: true},
		Message:   "Project forwarded to you: Morning Brief. Step 2: Editing",
		CreatedAt: time.Now().UTC(),
	}
}

func TestRealtimePublisher_InvokesNotifyFunction(t *testing.T) {
	userID := uuid.New()

	var gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	publisher, err := notify.NewRealtimePublisher(server.URL, "service-key")
	require.NoError(t, err)

	n := testNotification(userID)
	require.NoError(t, publisher.NotificationCreated(n))

	assert.Equal(t, "/functions/v1/notify", gotPath)
	assert.Equal(t, "user:"+userID.String(), gotBody["channel"])
	assert.Equal(t, "notification_created", gotBody["event"])

	payload, ok := gotBody["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, n.ID.String(), payload["id"])
	assert.Equal(t, n.Message, payload["message"])
	assert.Equal(t, n.ProjectID.UUID.String(), payload["project_id"])
}

func TestRealtimePublisher_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher, err := notify.NewRealtimePublisher(server.URL, "service-key")
	require.NoError(t, err)

	assert.Error(t, publisher.NotificationCreated(testNotification(uuid.New())))
}

func TestRealtimePublisher_UnreachableBackend(t *testing.T) {
	publisher, err := notify.NewRealtimePublisher("http://127.0.0.1:1", "service-key")
	require.NoError(t, err)

	// The push must surface the failure so callers can log it; the
	// notification row itself is already committed.
	assert.Error(t, publisher.NotificationCreated(testNotification(uuid.New())))
}

func TestNotificationPayload_OmitsNullProject(t *testing.T) {
	n := models.Notification{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Message:   "Project deleted",
		CreatedAt: time.Now().UTC(),
	}

	payload := notify.NotificationPayload(n)
	assert.NotContains(t, payload, "project_id")
	assert.Equal(t, n.Message, payload["message"])
}
