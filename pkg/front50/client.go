// Package front50 provides the client for the application configuration registry.
package front50

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexgaganashvili/orca/pkg/auth"
	"github.com/alexgaganashvili/orca/pkg/models"
)

// UserHeader carries the impersonated user on outbound registry calls.
const UserHeader = "X-Spinnaker-User"

const defaultTimeout = 30 * time.Second

// Client talks to the application registry service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With("module", "front50"),
	}
}

// notificationConfig is the registry's response shape: notification records
// grouped by the trigger level they apply to. Only pipeline-level entries are
// relevant to execution lifecycle events.
type notificationConfig struct {
	Application string                 `json:"application"`
	Pipeline    []*models.Notification `json:"pipeline"`
}

// ApplicationNotifications fetches the application-scoped notifications for
// the given application. The call impersonates the given identity when it is
// not anonymous. A missing configuration is not an error; it means the
// application has no notifications of its own.
func (c *Client) ApplicationNotifications(ctx context.Context, identity auth.Identity, application string) ([]*models.Notification, error) {
	endpoint := fmt.Sprintf("%s/notifications/application/%s", c.baseURL, url.PathEscape(application))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if !identity.IsAnonymous() {
		req.Header.Set(UserHeader, identity.User)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch application notifications for %s: %w", application, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.DebugContext(ctx, "No notification config for application", "application", application)

		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return nil, fmt.Errorf("registry returned %d for application %s: %s", resp.StatusCode, application, string(body))
	}

	var config notificationConfig

	err = json.NewDecoder(resp.Body).Decode(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode notification config for %s: %w", application, err)
	}

	return config.Pipeline, nil
}
