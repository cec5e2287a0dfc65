// Package guard decides whether a protected view may render for the current session.
package guard

import (
	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/session"
)

// Paths the guard redirects to
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Outcome is the result of a navigation check
type Outcome int

const (
	// Pending means the session is still being restored; render a loading state
	Pending Outcome = iota
	// Authorized means the requested view may render
	Authorized
	// RedirectLogin means nobody is signed in
	RedirectLogin
	// RedirectHome means the signed-in role may not see the view
	RedirectHome
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Authorized:
		return "authorized"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Target returns the path a redirect outcome navigates to, or "" for the others
func (o Outcome) Target() string {
	switch o {
	case RedirectLogin:
		return LoginPath
	case RedirectHome:
		return HomePath
	default:
		return ""
	}
}

// Requirement is the access rule of a protected view
type Requirement struct {
	role models.Role
}

// Authenticated requires a signed-in account of any role
func Authenticated() Requirement {
	return Requirement{}
}

// Role requires a signed-in account with exactly the given role
func Role(r models.Role) Requirement {
	return Requirement{role: r}
}

// RequiredRole returns the role the requirement restricts to, if any
func (r Requirement) RequiredRole() (models.Role, bool) {
	return r.role, r.role != ""
}

// Decide maps a session snapshot and a requirement onto exactly one outcome.
// It never touches the network.
func Decide(st session.State, req Requirement) Outcome {
	if st.Loading {
		return Pending
	}
	if st.Identity == nil {
		return RedirectLogin
	}
	if required, ok := req.RequiredRole(); ok && st.Identity.Role != required {
		return RedirectHome
	}
	return Authorized
}

// Landing returns the dashboard a role is sent to after signing in
func Landing(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard"
	case models.RoleSeller:
		return "/seller/dashboard"
	case models.RoleUser:
		return "/home"
	default:
		return HomePath
	}
}
