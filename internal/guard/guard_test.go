package guard

import (
	"testing"

	"maji/local-app/internal/model"
	"maji/local-app/internal/nav"
)

type fakeSessions struct {
	present bool
	role    model.Role
	corrupt bool
	reads   int
}

func (f *fakeSessions) HasSession() bool {
	f.reads++
	return f.present
}

func (f *fakeSessions) Role() (model.Role, bool) {
	if !f.present || f.corrupt {
		return "", false
	}
	return f.role, true
}

func TestCheck_NoSessionAlwaysLogin(t *testing.T) {
	for _, rule := range []Rule{Authenticated, AdminOnly, UserOnly} {
		d := Check(&fakeSessions{}, rule)
		if d.Proceed || d.Redirect != nav.Login {
			t.Errorf("%v without session: %+v", rule, d)
		}
	}
}

func TestCheck_UserOnly(t *testing.T) {
	for _, raw := range []string{"Usuario", "Cliente", "", "administrador", "Supervisor"} {
		role := model.ParseRole(raw)
		d := Check(&fakeSessions{present: true, role: role}, UserOnly)
		if !d.Proceed {
			t.Errorf("role %q should pass a user-only guard, got %+v", raw, d)
		}
	}

	d := Check(&fakeSessions{present: true, role: model.RoleAdmin}, UserOnly)
	if d.Proceed || d.Redirect != nav.AdminLanding {
		t.Errorf("admin on user-only view: %+v", d)
	}
}

func TestCheck_AdminOnly(t *testing.T) {
	d := Check(&fakeSessions{present: true, role: model.RoleAdmin}, AdminOnly)
	if !d.Proceed {
		t.Errorf("admin should pass: %+v", d)
	}

	d = Check(&fakeSessions{present: true, role: model.RoleUser}, AdminOnly)
	if d.Proceed || d.Redirect != nav.UserLanding {
		t.Errorf("user on admin-only view: %+v", d)
	}

	d = Check(&fakeSessions{present: true, corrupt: true}, AdminOnly)
	if d.Proceed || d.Redirect != nav.UserLanding {
		t.Errorf("unreadable role must not reach admin views: %+v", d)
	}
}

func TestCheck_Authenticated(t *testing.T) {
	for _, role := range []model.Role{model.RoleAdmin, model.RoleUser} {
		if d := Check(&fakeSessions{present: true, role: role}, Authenticated); !d.Proceed {
			t.Errorf("%q should pass: %+v", role, d)
		}
	}
}

func TestCheck_Public(t *testing.T) {
	if d := Check(&fakeSessions{}, Public); !d.Proceed {
		t.Errorf("public view blocked: %+v", d)
	}
}

func TestCheck_NotCached(t *testing.T) {
	sessions := &fakeSessions{present: true, role: model.RoleUser}
	if !Check(sessions, UserOnly).Proceed {
		t.Fatal("first entry should pass")
	}

	// Re-login as admin between views
	sessions.role = model.RoleAdmin
	if d := Check(sessions, UserOnly); d.Proceed || d.Redirect != nav.AdminLanding {
		t.Errorf("role change not observed: %+v", d)
	}
	if sessions.reads != 2 {
		t.Errorf("expected the store to be read on every check, got %d reads", sessions.reads)
	}
}

func TestRuleFor(t *testing.T) {
	tests := map[nav.Route]Rule{
		nav.Entry:        Public,
		nav.Login:        Public,
		nav.Register:     Public,
		nav.AdminLanding: AdminOnly,
		nav.AdminSurveys: AdminOnly,
		nav.AdminUsers:   AdminOnly,
		nav.UserLanding:  UserOnly,
		nav.UserSurveys:  UserOnly,
		nav.Catalog:      Authenticated,
	}
	for route, want := range tests {
		if got := RuleFor(route); got != want {
			t.Errorf("RuleFor(%q) = %v, want %v", route, got, want)
		}
	}
}
