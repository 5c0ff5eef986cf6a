// Package push submits device notifications to the push provider.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/huviapp/huvi/internal/config"
)

// FallbackName replaces the follower's display name when it cannot be resolved.
const FallbackName = "Someone"

const followHeading = "New follower! 🎉"

// FollowBody is the notification text announcing a new follower.
func FollowBody(followerName string) string {
	if followerName == "" {
		followerName = FallbackName
	}
	return fmt.Sprintf("%s started following you.", followerName)
}

type notification struct {
	AppID            string            `json:"app_id"`
	IncludePlayerIDs []string          `json:"include_player_ids"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	URL              string            `json:"url,omitempty"`
}

type Client struct {
	client   *http.Client
	endpoint *url.URL
	appID    string
	apiKey   string
	clickURL string
}

func New(cfg *config.Configuration, client *http.Client) (*Client, error) {
	endpoint, err := url.Parse(cfg.PushURL)
	if err != nil {
		return nil, fmt.Errorf("invalid push provider url: %w", err)
	}

	return &Client{
		client:   client,
		endpoint: endpoint,
		appID:    cfg.OneSignalAppID,
		apiKey:   cfg.OneSignalAPIKey,
		clickURL: cfg.NotifyClickURL,
	}, nil
}

// NotifyFollow tells the subscriber identified by playerID that followerName
// now follows them. The provider's response body is returned verbatim, whatever
// its status; only a failure to reach the provider is an error.
func (c *Client) NotifyFollow(ctx context.Context, playerID, followerName string) ([]byte, error) {
	message := notification{
		AppID:            c.appID,
		IncludePlayerIDs: []string{playerID},
		Headings:         map[string]string{"en": followHeading},
		Contents:         map[string]string{"en": FollowBody(followerName)},
		URL:              c.clickURL,
	}

	body, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	res, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("push provider unreachable")
		return nil, err
	}
	defer res.Body.Close()

	result, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode >= http.StatusBadRequest {
		log.Error().Int("code", res.StatusCode).Bytes("response body", result).Msg("push provider rejected notification")
	} else {
		log.Debug().Str("player", playerID).Msg("notification submitted")
	}
	return result, nil
}
