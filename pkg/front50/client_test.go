package front50_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alexgaganashvili/orca/pkg/auth"
	"github.com/alexgaganashvili/orca/pkg/front50"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestApplicationNotificationsImpersonatesUser(t *testing.T) {
	var seenUser string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = r.Header.Get(front50.UserHeader)

		assert.Equal(t, "/notifications/application/orca-demo", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"application": "orca-demo",
			"pipeline": [
				{"address": "ops", "type": "slack", "when": ["pipeline.failed"], "severity": "high"}
			]
		}`))
	}))
	defer server.Close()

	client := front50.NewClient(server.URL, testLogger())

	notifications, err := client.ApplicationNotifications(context.Background(), auth.User("jane@example.com"), "orca-demo")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", seenUser)
	require.Len(t, notifications, 1)
	assert.Equal(t, "ops", notifications[0].Address)
	assert.Equal(t, []string{"pipeline.failed"}, notifications[0].When)
	assert.Equal(t, "high", notifications[0].Extra["severity"])
}

func TestApplicationNotificationsAnonymousOmitsHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header[front50.UserHeader]
		assert.False(t, present)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"application": "orca-demo", "pipeline": []}`))
	}))
	defer server.Close()

	client := front50.NewClient(server.URL, testLogger())

	notifications, err := client.ApplicationNotifications(context.Background(), auth.Anonymous, "orca-demo")
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestApplicationNotificationsMissingConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := front50.NewClient(server.URL, testLogger())

	notifications, err := client.ApplicationNotifications(context.Background(), auth.Anonymous, "ghost-app")
	require.NoError(t, err)
	assert.Nil(t, notifications)
}

func TestApplicationNotificationsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := front50.NewClient(server.URL, testLogger())

	_, err := client.ApplicationNotifications(context.Background(), auth.Anonymous, "orca-demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
