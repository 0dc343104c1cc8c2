package memberclient

import "context"

// Step is the current position in the three-step credential flow.
type Step string

const (
	StepEmail          Step = "email"
	StepPassword       Step = "password"
	StepCreatePassword Step = "create-password"
	StepAuthenticated  Step = "authenticated"
)

const minPasswordLength = 6

// User-facing messages for client-side failures. Server-side failures surface
// the API's own message.
const (
	msgEmailRequired    = "please enter your email"
	msgPasswordRequired = "please enter your password"
	msgFieldsRequired   = "please fill in all fields"
	msgPasswordTooShort = "password must be at least 6 characters"
	msgPasswordMismatch = "passwords do not match"
	msgNetworkFailure   = "could not reach the server, please try again"
)

// LoginFlow drives the credential flow: email entry, then either the
// existing-password step or the create-password step, ending authenticated.
// It is strictly linear and single-user; a submit while a request is in
// flight is suppressed rather than raced.
type LoginFlow struct {
	client *Client

	step         Step
	busy         bool
	errMsg       string
	email        string
	customerName string
	user         *User
}

func NewLoginFlow(client *Client) *LoginFlow {
	return &LoginFlow{client: client, step: StepEmail}
}

func (f *LoginFlow) Step() Step           { return f.step }
func (f *LoginFlow) Busy() bool           { return f.busy }
func (f *LoginFlow) Err() string          { return f.errMsg }
func (f *LoginFlow) Email() string        { return f.email }
func (f *LoginFlow) CustomerName() string { return f.customerName }

// User returns the authenticated profile, nil before StepAuthenticated.
func (f *LoginFlow) User() *User { return f.user }

// SubmitEmail verifies the purchase and routes to the password step when a
// credential already exists, or to create-password when it does not.
func (f *LoginFlow) SubmitEmail(ctx context.Context, email string) {
	if f.busy || f.step != StepEmail {
		return
	}
	if email == "" {
		f.errMsg = msgEmailRequired
		return
	}

	f.busy = true
	defer func() { f.busy = false }()
	f.errMsg = ""

	check, err := f.client.CheckPurchase(ctx, email)
	if err != nil {
		f.errMsg = flowError(err)
		return
	}

	exists, err := f.client.CheckCredential(ctx, email)
	if err != nil {
		f.errMsg = flowError(err)
		return
	}

	f.email = email
	f.customerName = check.CustomerName
	if exists {
		f.step = StepPassword
	} else {
		f.step = StepCreatePassword
	}
}

// SubmitPassword attempts a login from the existing-password step.
func (f *LoginFlow) SubmitPassword(ctx context.Context, password string) {
	if f.busy || f.step != StepPassword {
		return
	}
	if password == "" {
		f.errMsg = msgPasswordRequired
		return
	}

	f.busy = true
	defer func() { f.busy = false }()
	f.errMsg = ""

	user, err := f.client.Login(ctx, f.email, password)
	if err != nil {
		f.errMsg = flowError(err)
		return
	}

	f.user = user
	f.step = StepAuthenticated
}

// SubmitNewPassword registers the first password. Length and confirmation are
// checked before any network call.
func (f *LoginFlow) SubmitNewPassword(ctx context.Context, password, confirm string) {
	if f.busy || f.step != StepCreatePassword {
		return
	}
	if password == "" || confirm == "" {
		f.errMsg = msgFieldsRequired
		return
	}
	if len(password) < minPasswordLength {
		f.errMsg = msgPasswordTooShort
		return
	}
	if password != confirm {
		f.errMsg = msgPasswordMismatch
		return
	}

	f.busy = true
	defer func() { f.busy = false }()
	f.errMsg = ""

	user, err := f.client.CreatePassword(ctx, f.email, password, f.customerName)
	if err != nil {
		f.errMsg = flowError(err)
		return
	}

	f.user = user
	f.step = StepAuthenticated
}

// Back returns to the email step from either password step, clearing the
// error. Password fields live in the UI, so clearing them is the caller's job.
func (f *LoginFlow) Back() {
	if f.busy || f.step == StepAuthenticated {
		return
	}
	f.step = StepEmail
	f.errMsg = ""
	f.customerName = ""
}

func flowError(err error) string {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Message
	}
	return msgNetworkFailure
}
