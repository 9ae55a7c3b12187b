// Package account is a flat-file user registry: register, login, logout,
// and online-username lookup, keyed by connection id and guarded by one
// mutex. Grounded on original_source/user_manager.{h,cpp}'s UserManager,
// translated from its in-process std::map + periodic std::ofstream dump
// into a Go map plus a background persister goroutine, with bcrypt
// password hashing in place of the original's plaintext comparison —
// the teacher's internal/persist/account_repo.go sets that bcrypt
// pattern, applied here against a flat file instead of Postgres, per
// spec.md's "any persistence of battle state" non-goal (accounts are not
// battle state).
package account

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ConnID identifies a connection the way the transport layer does.
type ConnID int

// Result codes mirror internal/protocol's LoginResponse results.
const (
	ResultSuccess      = 0
	ResultFailDup      = 1
	ResultFailPassword = 2
	ResultFailNoName   = 3
)

type user struct {
	Name         string
	PasswordHash string
}

// Registry is the process-wide user database. One instance is shared by
// every room and connection; every method takes the same mutex, per
// spec.md §6's "four methods, each taking the registry mutex".
type Registry struct {
	path       string
	bcryptCost int
	log        *zap.Logger

	mu      sync.Mutex
	users   map[string]user
	online  map[ConnID]string
	dirty   bool
}

func NewRegistry(path string, bcryptCost int, log *zap.Logger) *Registry {
	r := &Registry{
		path:       path,
		bcryptCost: bcryptCost,
		log:        log,
		users:      make(map[string]user),
		online:     make(map[ConnID]string),
	}
	if err := r.load(); err != nil {
		log.Warn("account registry: starting empty", zap.Error(err))
	}
	return r
}

func (r *Registry) load() error {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	r.mu.Lock()
	defer r.mu.Unlock()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		if len(fields) != 2 {
			continue
		}
		r.users[fields[0]] = user{Name: fields[0], PasswordHash: fields[1]}
	}
	r.log.Info("account registry loaded", zap.Int("count", len(r.users)))
	return sc.Err()
}

// Persist writes the full user table to disk. Called by the background
// persister on its interval and once on graceful shutdown.
func (r *Registry) Persist() error {
	r.mu.Lock()
	if !r.dirty {
		r.mu.Unlock()
		return nil
	}
	lines := make([]string, 0, len(r.users))
	for _, u := range r.users {
		lines = append(lines, fmt.Sprintf("%s %s", u.Name, u.PasswordHash))
	}
	r.dirty = false
	r.mu.Unlock()

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

// RunPersister saves the registry on a fixed cadence until stop fires.
func (r *Registry) RunPersister(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			if err := r.Persist(); err != nil {
				r.log.Error("account registry: final persist failed", zap.Error(err))
			}
			return
		case <-t.C:
			if err := r.Persist(); err != nil {
				r.log.Error("account registry: persist failed", zap.Error(err))
			}
		}
	}
}

// Register creates a new account. Returns ResultFailDup if the name is
// already taken.
func (r *Registry) Register(name, password string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[name]; exists {
		return ResultFailDup
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
	if err != nil {
		r.log.Error("account registry: hash failed", zap.Error(err))
		return ResultFailNoName
	}
	r.users[name] = user{Name: name, PasswordHash: string(hash)}
	r.dirty = true
	return ResultSuccess
}

// Login validates credentials and, on success, records conn as the
// owning session for name. Fails with ResultFailDup if name is already
// logged in elsewhere, matching the original's "no concurrent session"
// rule.
func (r *Registry) Login(conn ConnID, name, password string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[name]
	if !ok {
		return ResultFailNoName
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return ResultFailPassword
	}
	for _, n := range r.online {
		if n == name {
			return ResultFailDup
		}
	}
	r.online[conn] = name
	return ResultSuccess
}

// Logout drops conn's session, if any.
func (r *Registry) Logout(conn ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.online, conn)
}

// Username resolves a connection to its logged-in username.
func (r *Registry) Username(conn ConnID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.online[conn]
	return name, ok
}

// OnlineCount reports the number of active sessions.
func (r *Registry) OnlineCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.online)
}
