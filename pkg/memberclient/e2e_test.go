package memberclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/teacherpoli/members-api/internal/api"
	"github.com/teacherpoli/members-api/internal/api/middleware"
	"github.com/teacherpoli/members-api/internal/core/service"
	"github.com/teacherpoli/members-api/internal/infrastructure/store/memory"
)

const (
	e2eJWTSecret     = "e2e-jwt-secret"
	e2eWebhookSecret = "e2e-hook-secret"
)

// The router registers Prometheus collectors on the default registry, so the
// test server is built once and shared across tests. Tests use distinct
// emails to stay independent.
var (
	serverOnce sync.Once
	testSrv    *httptest.Server
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	serverOnce.Do(func() {
		purchases := memory.NewPurchaseStore()
		users := memory.NewUserStore()

		e := api.NewRouter(api.RouterConfig{
			AuthService:      service.NewAuthService(purchases, users, e2eJWTSecret, 0),
			WebhookService:   service.NewWebhookService(purchases, zerolog.Nop()),
			JWTSecret:        e2eJWTSecret,
			WebhookSecret:    e2eWebhookSecret,
			StoreBackend:     "memory",
			EnableTestRoutes: true,
			Logger:           zerolog.Nop(),
		})
		testSrv = httptest.NewServer(e)
	})
	return testSrv
}

func newClient(t *testing.T) *Client {
	t.Helper()
	return New(testServer(t).URL, NewFileTokenStore(t.TempDir()))
}

func postWebhook(t *testing.T, body, signature string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, testServer(t).URL+"/webhook/hotmart", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(middleware.SignatureHeader, signature)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("webhook request: %v", err)
	}
	return resp
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	return apiErr.StatusCode
}

func TestEndToEnd_PurchaseToOnboardedLogin(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)

	// Before any ingestion the email is unknown.
	_, err := client.CheckPurchase(ctx, "a@x.com")
	if apiStatus(t, err) != http.StatusNotFound {
		t.Fatalf("expected 404 before ingestion, got %v", err)
	}

	// Ingest the approved purchase through the signed webhook.
	body := `{"event":"PURCHASE_APPROVED","data":{"buyer":{"email":"A@x.com","name":"Ana"},"purchase":{"transaction":"T1","product":{"id":"p1"}}}}`
	resp := postWebhook(t, body, middleware.Sign(e2eWebhookSecret, []byte(body)))
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("webhook expected 200, got %d", resp.StatusCode)
	}

	// Lower-cased lookup resolves the same record.
	check, err := client.CheckPurchase(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("CheckPurchase failed: %v", err)
	}
	if !check.HasPurchase || check.CustomerName != "Ana" {
		t.Fatalf("unexpected purchase check: %+v", check)
	}

	// First visit: the flow routes to create-password.
	flow := NewLoginFlow(client)
	flow.SubmitEmail(ctx, "a@x.com")
	if flow.Step() != StepCreatePassword {
		t.Fatalf("expected create-password step, got %s (err %q)", flow.Step(), flow.Err())
	}
	if flow.CustomerName() != "Ana" {
		t.Fatalf("expected captured buyer name, got %q", flow.CustomerName())
	}

	flow.SubmitNewPassword(ctx, "secret1", "secret1")
	if flow.Step() != StepAuthenticated {
		t.Fatalf("expected authenticated, got %s (err %q)", flow.Step(), flow.Err())
	}
	if client.Token() == "" {
		t.Fatalf("expected session token after registration")
	}

	// Registration is one-shot.
	_, err = client.CreatePassword(ctx, "a@x.com", "another", "")
	if apiStatus(t, err) != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate registration, got %v", err)
	}

	// App shell: first-time user, gated tabs locked.
	shell := NewAppShell(client)
	shell.HandleLogin(flow.User())
	if !shell.IsFirstTimeUser() || shell.HasGeneratedPlan() {
		t.Fatalf("fresh user must be first-time without a plan")
	}
	if !shell.TabLocked(TabPlatform) || !shell.TabLocked(TabResources) {
		t.Fatalf("gated tabs must be locked before plan generation")
	}
	if shell.TabLocked(TabOnboarding) || shell.TabLocked(TabAIAssistant) {
		t.Fatalf("onboarding and AI assistant must never lock")
	}
	if shell.SelectTab(TabCommunity) {
		t.Fatalf("selecting a locked tab must fail")
	}

	// Generating the plan unlocks everything and persists onboarding.
	if err := shell.HandlePlanGenerated(ctx); err != nil {
		t.Fatalf("HandlePlanGenerated failed: %v", err)
	}
	if shell.TabLocked(TabCommunity) || !shell.SelectTab(TabCommunity) {
		t.Fatalf("tabs must unlock after plan generation")
	}

	// A later login reflects the persisted onboarding state.
	user, err := client.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !user.HasCompletedOnboarding {
		t.Fatalf("onboarding completion did not persist")
	}
}

func TestEndToEnd_ReturningUserFlow(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)

	if err := client.SimulatePurchase(ctx, "b@x.com", "Bia"); err != nil {
		t.Fatalf("SimulatePurchase failed: %v", err)
	}
	if _, err := client.CreatePassword(ctx, "b@x.com", "secret1", ""); err != nil {
		t.Fatalf("CreatePassword failed: %v", err)
	}

	flow := NewLoginFlow(client)
	flow.SubmitEmail(ctx, "b@x.com")
	if flow.Step() != StepPassword {
		t.Fatalf("returning user must route to password entry, got %s", flow.Step())
	}

	// A wrong password keeps the flow in place with a visible error.
	flow.SubmitPassword(ctx, "wrong")
	if flow.Step() != StepPassword || flow.Err() == "" {
		t.Fatalf("wrong password must stay on the password step, got %s (err %q)", flow.Step(), flow.Err())
	}

	flow.SubmitPassword(ctx, "secret1")
	if flow.Step() != StepAuthenticated {
		t.Fatalf("expected authenticated, got %s (err %q)", flow.Step(), flow.Err())
	}
	if flow.User().Name != "Bia" {
		t.Fatalf("expected buyer name to default, got %q", flow.User().Name)
	}
}

func TestEndToEnd_SessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	client := New(testServer(t).URL, NewFileTokenStore(dir))

	_ = client.SimulatePurchase(ctx, "c@x.com", "Cris")
	if _, err := client.CreatePassword(ctx, "c@x.com", "secret1", ""); err != nil {
		t.Fatalf("CreatePassword failed: %v", err)
	}
	token := client.Token()
	if token == "" {
		t.Fatalf("expected a token")
	}

	// A new client over the same store picks the session back up.
	reborn := New(testServer(t).URL, NewFileTokenStore(dir))
	if reborn.Token() != token {
		t.Fatalf("token must survive a restart")
	}
	if err := reborn.CompleteOnboarding(ctx, "c@x.com"); err != nil {
		t.Fatalf("restored session must authorize onboarding completion: %v", err)
	}

	reborn.Logout()
	if reborn.Token() != "" {
		t.Fatalf("logout must clear the token")
	}
	third := New(testServer(t).URL, NewFileTokenStore(dir))
	if third.Token() != "" {
		t.Fatalf("logout must clear the persisted token too")
	}
}

func TestEndToEnd_OnboardingRequiresOwnIdentity(t *testing.T) {
	ctx := context.Background()
	attacker := newClient(t)
	victimEmail := "victim@x.com"

	_ = attacker.SimulatePurchase(ctx, victimEmail, "Vera")
	_ = attacker.SimulatePurchase(ctx, "mallory@x.com", "Mallory")
	if _, err := attacker.CreatePassword(ctx, victimEmail, "secret1", ""); err != nil {
		t.Fatalf("CreatePassword failed: %v", err)
	}

	// Attacker registers with their own email, then targets the victim.
	mallory := newClient(t)
	if _, err := mallory.CreatePassword(ctx, "mallory@x.com", "secret1", ""); err != nil {
		t.Fatalf("CreatePassword failed: %v", err)
	}
	err := mallory.CompleteOnboarding(ctx, victimEmail)
	if apiStatus(t, err) != http.StatusForbidden {
		t.Fatalf("expected 403 for a mismatched identity, got %v", err)
	}

	// Without any session at all the call is rejected outright.
	anon := newClient(t)
	err = anon.CompleteOnboarding(ctx, victimEmail)
	if apiStatus(t, err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %v", err)
	}
}

func TestEndToEnd_WebhookRejectsBadSignature(t *testing.T) {
	body := `{"event":"PURCHASE_APPROVED","data":{"buyer":{"email":"d@x.com","name":"Dana"},"purchase":{"transaction":"T9","product":{"id":"p1"}}}}`

	resp := postWebhook(t, body, middleware.Sign("wrong-secret", []byte(body)))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad signature, got %d", resp.StatusCode)
	}

	// The tampered delivery must not have registered anything.
	client := newClient(t)
	_, err := client.CheckPurchase(context.Background(), "d@x.com")
	if apiStatus(t, err) != http.StatusNotFound {
		t.Fatalf("expected 404 after rejected webhook, got %v", err)
	}
}
