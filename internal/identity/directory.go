package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/talx-hub/eisc-ledger/internal/model/user"
	"github.com/talx-hub/eisc-ledger/internal/serviceerrs"
)

const (
	DemoUserID      = "demo-user-001"
	DemoEmail       = "carlos@eisc.io"
	DemoPassword    = "demo1234"
	DemoDisplayName = "Carlos Méndez"
)

var demoCreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

// Directory is an in-memory identity provider. It only supplies who the acting
// user is and whether the account was just created.
type Directory struct {
	now     func() time.Time
	byID    map[string]*user.Account
	byEmail map[string]string
	cost    int
	mu      sync.RWMutex
}

func NewDirectory() *Directory {
	return &Directory{
		now:     time.Now,
		byID:    make(map[string]*user.Account),
		byEmail: make(map[string]string),
		cost:    bcrypt.DefaultCost,
	}
}

// NewDemoDirectory returns a directory seeded with the demo account.
func NewDemoDirectory() (*Directory, error) {
	d := NewDirectory()
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), d.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	d.add(&user.Account{
		CreatedAt:    demoCreatedAt,
		ID:           DemoUserID,
		Email:        DemoEmail,
		DisplayName:  DemoDisplayName,
		PasswordHash: string(hash),
	})
	return d, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d *Directory) add(a *user.Account) {
	d.byID[a.ID] = a
	d.byEmail[normalizeEmail(a.Email)] = a.ID
}

// Register creates an account flagged as new. Password strength is checked by
// the caller.
func (d *Directory) Register(_ context.Context,
	email, password, displayName string,
) (user.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return user.Account{}, errors.New("email and password must be not empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return user.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byEmail[email]; exists {
		return user.Account{}, fmt.Errorf("account %s: %w", email, serviceerrs.ErrConflict)
	}
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}
	a := &user.Account{
		CreatedAt:    d.now(),
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		IsNew:        true,
	}
	d.add(a)
	return *a, nil
}

func (d *Directory) Authenticate(_ context.Context, email, password string) (user.Account, error) {
	d.mu.RLock()
	id, ok := d.byEmail[normalizeEmail(email)]
	var a user.Account
	if ok {
		a = *d.byID[id]
	}
	d.mu.RUnlock()

	if !ok {
		return user.Account{}, serviceerrs.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return user.Account{}, serviceerrs.ErrUnauthorized
	}
	return a, nil
}

func (d *Directory) FindByID(_ context.Context, id string) (user.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	a, ok := d.byID[id]
	if !ok {
		return user.Account{}, fmt.Errorf("account %s: %w", id, serviceerrs.ErrNotFound)
	}
	return *a, nil
}

// ClearNew drops the new-account flag once the welcome rewards were granted.
func (d *Directory) ClearNew(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, serviceerrs.ErrNotFound)
	}
	a.IsNew = false
	return nil
}
