package exchange

import (
	"encoding/json"
	"fmt"
)

// Step names one stage of an exchange run.
type Step string

const (
	StepToken    Step = "token"
	StepIdentity Step = "identity"
	StepEmail    Step = "email"
	StepTunnel   Step = "tunnel"
)

// Policy decides what a failed step does to the run.
type Policy int

const (
	// Fatal ends the run with a failure result.
	Fatal Policy = iota
	// BestEffort logs the failure and continues without the step's data.
	BestEffort
)

func (p Policy) String() string {
	if p == BestEffort {
		return "best-effort"
	}
	return "fatal"
}

// stepPolicies is the failure policy of every step.
var stepPolicies = map[Step]Policy{
	StepToken:    Fatal,
	StepIdentity: Fatal,
	StepEmail:    BestEffort,
	StepTunnel:   BestEffort,
}

// MaxSteps is the number of sequential outbound calls one run can make.
func MaxSteps() int {
	return len(stepPolicies)
}

// PolicyFor returns the failure policy of a step. Unknown steps are fatal.
func PolicyFor(step Step) Policy {
	if p, ok := stepPolicies[step]; ok {
		return p
	}
	return Fatal
}

// Request is the input of one exchange run.
type Request struct {
	// Code is the authorization code from the OAuth callback.
	Code string `json:"code" validate:"required,max=512,printascii"`

	// SessionID links the run to a wizard session. Optional; without it
	// nothing is stored.
	SessionID string `json:"sessionId" validate:"omitempty,max=256,printascii"`

	// WantTunnel requests the tunnel exchange even when it is not enabled
	// by default.
	WantTunnel bool `json:"tunnel"`
}

// User is the profile returned to the wizard after a successful run.
type User struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"`
}

// Tunnel is the credential issued by the tunnel provider.
type Tunnel struct {
	TunnelID  string `json:"tunnel_id"`
	TunnelURL string `json:"tunnel_url"`
	APIKey    string `json:"api_key"`
}

// Result is the outcome of a run. On failure only Error is meaningful.
type Result struct {
	Success     bool
	AccessToken string
	User        *User
	Tunnel      *Tunnel
	SessionID   string
	Error       string
}

type successJSON struct {
	Success     bool    `json:"success"`
	AccessToken string  `json:"access_token"`
	User        *User   `json:"user"`
	Tunnel      *Tunnel `json:"tunnel"`
	SessionID   string  `json:"sessionId,omitempty"`
}

type failureJSON struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MarshalJSON renders the success shape (tunnel may be null) or the failure
// shape {success:false, error}.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(failureJSON{Success: false, Error: r.Error})
	}
	return json.Marshal(successJSON{
		Success:     true,
		AccessToken: r.AccessToken,
		User:        r.User,
		Tunnel:      r.Tunnel,
		SessionID:   r.SessionID,
	})
}

// StepError wraps the failure of one step.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ValidationError reports a request that failed boundary validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
