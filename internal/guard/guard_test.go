package guard

import (
	"testing"

	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/session"
)

func signedIn(role models.Role) session.State {
	return session.State{
		Credential: "tok",
		Identity:   &models.Identity{ID: 1, Name: "A", Role: role},
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		state session.State
		req   Requirement
		want  Outcome
	}{
		{"loading defers", session.State{Loading: true}, Role(models.RoleAdmin), Pending},
		{"loading defers even when signed in", session.State{Loading: true, Credential: "tok", Identity: &models.Identity{Role: models.RoleAdmin}}, Role(models.RoleAdmin), Pending},
		{"anonymous to admin view", session.State{}, Role(models.RoleAdmin), RedirectLogin},
		{"anonymous to seller view", session.State{}, Role(models.RoleSeller), RedirectLogin},
		{"anonymous to any-role view", session.State{}, Authenticated(), RedirectLogin},
		{"seller to admin view", signedIn(models.RoleSeller), Role(models.RoleAdmin), RedirectHome},
		{"user to seller view", signedIn(models.RoleUser), Role(models.RoleSeller), RedirectHome},
		{"admin to seller view", signedIn(models.RoleAdmin), Role(models.RoleSeller), RedirectHome},
		{"admin to admin view", signedIn(models.RoleAdmin), Role(models.RoleAdmin), Authorized},
		{"seller to seller view", signedIn(models.RoleSeller), Role(models.RoleSeller), Authorized},
		{"user to any-role view", signedIn(models.RoleUser), Authenticated(), Authorized},
		{"admin to any-role view", signedIn(models.RoleAdmin), Authenticated(), Authorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.state, tt.req); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutcome_Target(t *testing.T) {
	if got := RedirectLogin.Target(); got != LoginPath {
		t.Errorf("RedirectLogin.Target() = %q, want %q", got, LoginPath)
	}
	if got := RedirectHome.Target(); got != HomePath {
		t.Errorf("RedirectHome.Target() = %q, want %q", got, HomePath)
	}
	if LoginPath == HomePath {
		t.Error("login and home redirects must differ")
	}
	if got := Pending.Target(); got != "" {
		t.Errorf("Pending.Target() = %q, want empty", got)
	}
	if got := Authorized.Target(); got != "" {
		t.Errorf("Authorized.Target() = %q, want empty", got)
	}
}

func TestRequirement_RequiredRole(t *testing.T) {
	if _, ok := Authenticated().RequiredRole(); ok {
		t.Error("Authenticated() should not restrict role")
	}
	role, ok := Role(models.RoleSeller).RequiredRole()
	if !ok || role != models.RoleSeller {
		t.Errorf("RequiredRole() = (%q, %v), want (SELLER, true)", role, ok)
	}
}

func TestLanding(t *testing.T) {
	tests := map[models.Role]string{
		models.RoleAdmin:  "/admin/dashboard",
		models.RoleSeller: "/seller/dashboard",
		models.RoleUser:   "/home",
		"":                HomePath,
	}
	for role, want := range tests {
		if got := Landing(role); got != want {
			t.Errorf("Landing(%q) = %q, want %q", role, got, want)
		}
	}
}

func TestRoutes(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Routes {
		if seen[r.Path] {
			t.Errorf("duplicate route %s", r.Path)
		}
		seen[r.Path] = true

		if r.Public {
			if _, ok := r.Requirement.RequiredRole(); ok {
				t.Errorf("public route %s must not require a role", r.Path)
			}
		}
	}

	for _, role := range models.Roles() {
		landing, ok := Lookup(Landing(role))
		if !ok {
			t.Errorf("landing page of %s is not a route", role)
			continue
		}
		if got := Decide(signedIn(role), landing.Requirement); got != Authorized {
			t.Errorf("%s landing %s decided %v, want authorized", role, landing.Path, got)
		}
	}

	if _, ok := Lookup("/nowhere"); ok {
		t.Error("Lookup(/nowhere) should fail")
	}
}
