// Package memberclient is the consuming side of the members-area API: an HTTP
// client with a persisted session token, the three-step login flow, and the
// app-shell gating state.
package memberclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// User is the profile returned on successful authentication.
type User struct {
	Email                  string `json:"email"`
	Name                   string `json:"name"`
	HasCompletedOnboarding bool   `json:"hasCompletedOnboarding"`
}

// PurchaseCheck is the result of the check-purchase call.
type PurchaseCheck struct {
	HasPurchase  bool      `json:"hasPurchase"`
	CustomerName string    `json:"customerName"`
	PurchaseDate time.Time `json:"purchaseDate"`
}

// APIError is a non-2xx response decoded from the server's error envelope.
// Callers branch on StatusCode, never on the message text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client calls the members-area API and holds the current session token.
// The token is mirrored to the TokenStore so a restart picks the session up
// again, exactly like the browser client surviving a reload.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenStore

	mu    sync.Mutex
	token string
}

// New returns a Client for the API at baseURL. A previously persisted token
// is loaded immediately so the session survives restarts.
func New(baseURL string, tokens TokenStore) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
	if tok, err := tokens.Load(); err == nil {
		c.token = tok
	}
	return c
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Logout drops the session token in memory and in the store.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	_ = c.tokens.Clear()
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	_ = c.tokens.Save(token)
}

// CheckPurchase verifies that the email has an active purchase.
func (c *Client) CheckPurchase(ctx context.Context, email string) (*PurchaseCheck, error) {
	var out PurchaseCheck
	err := c.post(ctx, "/api/auth/check-purchase", map[string]string{"email": email}, &out, "")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckCredential reports whether a password has already been set for the email.
func (c *Client) CheckCredential(ctx context.Context, email string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	if err := c.post(ctx, "/api/auth/check-credential", map[string]string{"email": email}, &out, ""); err != nil {
		return false, err
	}
	return out.Exists, nil
}

type authResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// CreatePassword registers the first password for a purchased email and
// stores the returned session token.
func (c *Client) CreatePassword(ctx context.Context, email, password, name string) (*User, error) {
	var out authResult
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.post(ctx, "/api/auth/create-password", body, &out, ""); err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	return out.User, nil
}

// Login authenticates with an existing password and stores the returned
// session token.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authResult
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/api/auth/login", body, &out, ""); err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	return out.User, nil
}

// CompleteOnboarding marks the session's onboarding as done. Requires a
// logged-in session; the server rejects mismatched identities.
func (c *Client) CompleteOnboarding(ctx context.Context, email string) error {
	var out struct {
		Success bool `json:"success"`
	}
	return c.post(ctx, "/api/auth/complete-onboarding", map[string]string{"email": email}, &out, c.Token())
}

// SimulatePurchase registers a synthetic purchase through the development
// seam. Only works against servers with test routes enabled.
func (c *Client) SimulatePurchase(ctx context.Context, email, name string) error {
	var out struct {
		Success bool `json:"success"`
	}
	return c.post(ctx, "/test/simulate-purchase", map[string]string{"email": email, "name": name}, &out, "")
}

func (c *Client) post(ctx context.Context, path string, body any, out any, bearer string) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
