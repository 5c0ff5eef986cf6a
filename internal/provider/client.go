package provider

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
	"github.com/huviapp/huvi/internal/domain"
)

// Client consumes the credential provider's HTTP API. Every request carries the
// service key; user-scoped calls additionally carry the session's bearer token.
type Client struct {
	client     *http.Client
	base       *url.URL
	serviceKey string
}

func New(cfg *config.Configuration, client *http.Client) (*Client, error) {
	base, err := url.Parse(cfg.AuthURL)
	if err != nil {
		return nil, fmt.Errorf("invalid auth provider url: %w", err)
	}

	return &Client{
		client:     client,
		base:       base,
		serviceKey: cfg.AuthServiceKey,
	}, nil
}

type wireSession struct {
	AccessToken string          `json:"access_token"`
	User        domain.Identity `json:"user"`
}

func (c *Client) GetUser(ctx context.Context, token string) (domain.Identity, error) {
	var ident domain.Identity
	err := c.do(ctx, http.MethodGet, "user", token, nil, &ident)
	return ident, err
}

func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (SignUpResult, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": fullName},
	}

	var res wireSession
	if err := c.do(ctx, http.MethodPost, "signup", "", body, &res); err != nil {
		return SignUpResult{}, err
	}

	out := SignUpResult{User: res.User}
	// With email confirmation disabled the provider issues a session right away.
	if res.AccessToken != "" {
		out.Session = &Session{AccessToken: res.AccessToken, User: res.User}
	}
	return out, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var res wireSession
	err := c.do(ctx, http.MethodPost, "token?grant_type=password", "", body, &res)
	if err != nil {
		return Session{}, err
	}
	return Session{AccessToken: res.AccessToken, User: res.User}, nil
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "logout", token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return err
	}
	endpoint := c.base.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("endpoint", endpoint.Path).Msg("auth provider unreachable")
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAuthError(res)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// decodeAuthError extracts the provider's message from an error response. The
// provider is not consistent about the field name, so a few are tried.
func decodeAuthError(res *http.Response) error {
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	var fields struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Err              string `json:"error"`
	}
	_ = json.Unmarshal(raw, &fields)

	message := fields.ErrorDescription
	for _, m := range []string{fields.Msg, fields.Message, fields.Err} {
		if message == "" {
			message = m
		}
	}
	if message == "" {
		message = res.Status
	}

	return &AuthError{Status: res.StatusCode, Message: message}
}
