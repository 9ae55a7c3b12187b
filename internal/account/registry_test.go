package account

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.dat")
	return NewRegistry(path, bcryptCostForTest, zap.NewNop())
}

const bcryptCostForTest = 4 // bcrypt.MinCost, keeps the test fast

func TestRegisterThenLogin(t *testing.T) {
	r := newTestRegistry(t)

	if got := r.Register("alice", "hunter2"); got != ResultSuccess {
		t.Fatalf("Register() = %d, want ResultSuccess", got)
	}
	if got := r.Register("alice", "other"); got != ResultFailDup {
		t.Fatalf("duplicate Register() = %d, want ResultFailDup", got)
	}
	if got := r.Login(1, "alice", "hunter2"); got != ResultSuccess {
		t.Fatalf("Login() = %d, want ResultSuccess", got)
	}
	name, ok := r.Username(1)
	if !ok || name != "alice" {
		t.Fatalf("Username(1) = %q, %v, want alice, true", name, ok)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestRegistry(t)
	r.Register("bob", "correct")
	if got := r.Login(1, "bob", "wrong"); got != ResultFailPassword {
		t.Fatalf("Login() = %d, want ResultFailPassword", got)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	r := newTestRegistry(t)
	if got := r.Login(1, "nobody", "x"); got != ResultFailNoName {
		t.Fatalf("Login() = %d, want ResultFailNoName", got)
	}
}

func TestLoginAlreadyOnlineRejected(t *testing.T) {
	r := newTestRegistry(t)
	r.Register("carol", "pw")
	if got := r.Login(1, "carol", "pw"); got != ResultSuccess {
		t.Fatalf("first Login() = %d, want ResultSuccess", got)
	}
	if got := r.Login(2, "carol", "pw"); got != ResultFailDup {
		t.Fatalf("second Login() = %d, want ResultFailDup", got)
	}
}

func TestLogoutFreesSession(t *testing.T) {
	r := newTestRegistry(t)
	r.Register("dave", "pw")
	r.Login(1, "dave", "pw")
	r.Logout(1)
	if got := r.Login(2, "dave", "pw"); got != ResultSuccess {
		t.Fatalf("Login() after logout = %d, want ResultSuccess", got)
	}
}

func TestPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.dat")
	r1 := NewRegistry(path, bcryptCostForTest, zap.NewNop())
	r1.Register("erin", "pw")
	if err := r1.Persist(); err != nil {
		t.Fatalf("Persist() error: %v", err)
	}

	r2 := NewRegistry(path, bcryptCostForTest, zap.NewNop())
	if got := r2.Login(1, "erin", "pw"); got != ResultSuccess {
		t.Fatalf("Login() after reload = %d, want ResultSuccess", got)
	}
}
