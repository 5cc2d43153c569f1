package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"terrateam-setup/internal/session"
	"terrateam-setup/pkg/logging"
)

// DefaultTimeout bounds every outbound call of a run.
const DefaultTimeout = 30 * time.Second

// SessionWriter receives the credentials of a successful run.
type SessionWriter interface {
	Put(sessionID string, tunnel session.TunnelCredential, user session.UserIdentity)
}

// Engine runs the code exchange. It holds no per-run state; each call to
// Exchange is independent apart from collapsing duplicate submissions.
type Engine struct {
	identity IdentityProvider
	tunnel   TunnelExchanger
	sessions SessionWriter

	devMode       bool
	tunnelEnabled bool
	stepTimeout   time.Duration
	now           func() time.Time

	validate *validator.Validate
	inflight singleflight.Group
}

// Option configures an Engine.
type Option func(*Engine)

// WithDevMode makes the engine fabricate results without network calls.
func WithDevMode(enabled bool) Option {
	return func(e *Engine) { e.devMode = enabled }
}

// WithTunnelEnabled runs the tunnel step on every request, not only on
// requests that ask for it.
func WithTunnelEnabled(enabled bool) Option {
	return func(e *Engine) { e.tunnelEnabled = enabled }
}

// WithStepTimeout sets the per-step deadline.
func WithStepTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.stepTimeout = d
		}
	}
}

// WithClock overrides the clock used for dev mode identifiers.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an exchange engine. tunnel may be nil, in which case
// the tunnel step is skipped.
func NewEngine(identity IdentityProvider, tunnel TunnelExchanger, sessions SessionWriter, opts ...Option) *Engine {
	e := &Engine{
		identity:    identity,
		tunnel:      tunnel,
		sessions:    sessions,
		stepTimeout: DefaultTimeout,
		now:         time.Now,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks a request at the boundary.
func (e *Engine) Validate(req Request) error {
	err := e.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: jsonFieldName(fe.Field()), Message: validationMessage(fe)}
	}
	return &ValidationError{Message: err.Error()}
}

func jsonFieldName(field string) string {
	switch field {
	case "Code":
		return "code"
	case "SessionID":
		return "sessionId"
	default:
		return field
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "printascii":
		return "must contain printable ASCII only"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// Exchange runs the full exchange for one authorization code. It never
// returns an error; failures are reported in the Result.
func (e *Engine) Exchange(ctx context.Context, req Request) Result {
	if err := e.Validate(req); err != nil {
		logging.Warn("Exchange", "Rejected exchange request: %v", err)
		return failure(err)
	}

	if e.devMode {
		return e.devExchange(req)
	}

	// The provider accepts a code once, so concurrent submissions of the
	// same code share one run. The shared run is detached from any single
	// caller's cancellation; the per-step timeouts still bound it.
	key := req.Code + "\x00" + req.SessionID
	ch := e.inflight.DoChan(key, func() (interface{}, error) {
		return e.run(context.WithoutCancel(ctx), req), nil
	})
	select {
	case res := <-ch:
		return res.Val.(Result)
	case <-ctx.Done():
		logging.Warn("Exchange", "Caller left before exchange finished (session=%s): %v", sessionLabel(req.SessionID), ctx.Err())
		return failure(fmt.Errorf("exchange abandoned: %w", ctx.Err()))
	}
}

func (e *Engine) run(ctx context.Context, req Request) Result {
	logging.Info("Exchange", "Exchanging authorization code (session=%s)", sessionLabel(req.SessionID))

	var token *oauth2.Token
	if err := e.runStep(ctx, StepToken, func(ctx context.Context) (err error) {
		token, err = e.identity.ExchangeCode(ctx, req.Code)
		return err
	}); err != nil {
		return failure(err)
	}
	logging.Debug("Exchange", "Received access token %s", logging.TruncateSecret(token.AccessToken))

	var profile *Profile
	if err := e.runStep(ctx, StepIdentity, func(ctx context.Context) (err error) {
		profile, err = e.identity.FetchProfile(ctx, token)
		return err
	}); err != nil {
		return failure(err)
	}

	user := &User{
		Login:     profile.Login,
		ID:        profile.ID,
		AvatarURL: profile.AvatarURL,
		Name:      profile.Name,
		Email:     profile.Email,
		HTMLURL:   profile.HTMLURL,
	}

	if user.Email == "" {
		if err := e.runStep(ctx, StepEmail, func(ctx context.Context) error {
			email, err := e.identity.PrimaryEmail(ctx, token)
			if err == nil {
				user.Email = email
			}
			return err
		}); err != nil {
			return failure(err)
		}
	}

	var tunnel *Tunnel
	if e.tunnel != nil && (e.tunnelEnabled || req.WantTunnel) {
		if err := e.runStep(ctx, StepTunnel, func(ctx context.Context) error {
			t, err := e.tunnel.Exchange(ctx, token.AccessToken, TunnelUser{
				Login: user.Login,
				ID:    user.ID,
				Email: user.Email,
			})
			if err == nil {
				tunnel = t
			}
			return err
		}); err != nil {
			return failure(err)
		}
	}

	if tunnel != nil && req.SessionID != "" {
		e.store(req.SessionID, tunnel, user, token.AccessToken)
	}

	logging.Info("Exchange", "Exchange completed for user %s (tunnel=%t)", user.Login, tunnel != nil)

	return Result{
		Success:     true,
		AccessToken: token.AccessToken,
		User:        user,
		Tunnel:      tunnel,
		SessionID:   req.SessionID,
	}
}

// runStep executes one step under its own deadline and applies the step's
// policy to a failure. It returns a non-nil error only for fatal failures.
func (e *Engine) runStep(ctx context.Context, step Step, fn func(context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, e.stepTimeout)
	defer cancel()

	err := fn(stepCtx)
	if err == nil {
		return nil
	}

	switch PolicyFor(step) {
	case BestEffort:
		logging.WarnErr("Exchange", err, "Step %s failed, continuing without it", step)
		return nil
	default:
		logging.Error("Exchange", err, "Step %s failed", step)
		return &StepError{Step: step, Err: err}
	}
}

func (e *Engine) store(sessionID string, tunnel *Tunnel, user *User, upstreamToken string) {
	e.sessions.Put(sessionID,
		session.TunnelCredential{
			TunnelID:      tunnel.TunnelID,
			TunnelURL:     tunnel.TunnelURL,
			APIKey:        tunnel.APIKey,
			UpstreamToken: upstreamToken,
		},
		session.UserIdentity{
			Login: user.Login,
			ID:    user.ID,
			Email: user.Email,
		})
	logging.Info("Exchange", "Stored tunnel credentials for session %s", sessionID)
}

// failure renders an error as a failed result. Step errors carry the
// provider message only.
func failure(err error) Result {
	msg := err.Error()
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		msg = stepErr.Err.Error()
	}
	return Result{Success: false, Error: msg}
}

func sessionLabel(id string) string {
	if id == "" {
		return "none"
	}
	return id
}
