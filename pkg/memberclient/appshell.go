package memberclient

import "context"

// Tab identifies a navigation tab in the members area.
type Tab string

const (
	TabOnboarding  Tab = "onboarding"
	TabAIAssistant Tab = "ai-assistant"
	TabPlatform    Tab = "platform"
	TabResources   Tab = "resources"
	TabCommunity   Tab = "community"
	TabSettings    Tab = "settings"
)

// AppShell gates content behind the login and onboarding state. Until a
// first-time user generates a study plan, everything past the onboarding and
// AI-assistant tabs stays locked.
type AppShell struct {
	client *Client

	user             *User
	loggedIn         bool
	hasGeneratedPlan bool
	firstTimeUser    bool
	activeTab        Tab
}

func NewAppShell(client *Client) *AppShell {
	return &AppShell{
		client:        client,
		firstTimeUser: true,
		activeTab:     TabOnboarding,
	}
}

func (s *AppShell) IsLoggedIn() bool       { return s.loggedIn }
func (s *AppShell) User() *User            { return s.user }
func (s *AppShell) HasGeneratedPlan() bool { return s.hasGeneratedPlan }
func (s *AppShell) IsFirstTimeUser() bool  { return s.firstTimeUser }
func (s *AppShell) ActiveTab() Tab         { return s.activeTab }

// HandleLogin seeds the gating flags from the user's onboarding state:
// a returning user who completed onboarding gets everything unlocked.
func (s *AppShell) HandleLogin(user *User) {
	s.user = user
	s.loggedIn = true
	s.hasGeneratedPlan = user.HasCompletedOnboarding
	s.firstTimeUser = !user.HasCompletedOnboarding
}

// HandleLogout clears the session and resets every flag to the logged-out
// defaults.
func (s *AppShell) HandleLogout() {
	s.client.Logout()
	s.user = nil
	s.loggedIn = false
	s.hasGeneratedPlan = false
	s.firstTimeUser = true
	s.activeTab = TabOnboarding
}

// HandlePlanGenerated unlocks the gated tabs and persists onboarding
// completion. The local flags flip even when the persist call fails, matching
// the optimistic behaviour of the UI; the server call is idempotent and can
// be retried on the next plan generation.
func (s *AppShell) HandlePlanGenerated(ctx context.Context) error {
	s.hasGeneratedPlan = true
	s.firstTimeUser = false

	if s.user == nil {
		return nil
	}
	return s.client.CompleteOnboarding(ctx, s.user.Email)
}

// TabLocked reports whether a tab is disabled for the current state.
// Onboarding and the AI assistant are always reachable once logged in.
func (s *AppShell) TabLocked(tab Tab) bool {
	switch tab {
	case TabOnboarding, TabAIAssistant:
		return false
	default:
		return s.firstTimeUser && !s.hasGeneratedPlan
	}
}

// SelectTab switches the active tab and reports whether the switch happened.
func (s *AppShell) SelectTab(tab Tab) bool {
	if !s.loggedIn || s.TabLocked(tab) {
		return false
	}
	s.activeTab = tab
	return true
}
