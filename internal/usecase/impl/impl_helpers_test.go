package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"guardpost/internal/domain/entity"
	"guardpost/internal/domain/service"
	"guardpost/internal/infra/persistence/memory"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeHasher is a deterministic stand-in for the bcrypt hasher.
type fakeHasher struct {
	failHash bool
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.failHash {
		return "", errors.New("hash backend down")
	}

	return "hashed:" + password, nil
}

func (f *fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeGeocoder returns a fixed address, or fails when told to. Scans may
// geocode from concurrent goroutines, so the call counter is guarded.
type fakeGeocoder struct {
	mu      sync.Mutex
	address *entity.Address
	err     error
	calls   int
}

func (f *fakeGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (*entity.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	return f.address, nil
}

// fakeQRCode renders a trivial payload, or fails when told to.
type fakeQRCode struct {
	err error
}

func (f *fakeQRCode) GeneratePNG(content string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}

	return []byte("png:" + content), nil
}

// fakePublisher records published events, or fails when told to.
type fakePublisher struct {
	mu     sync.Mutex
	events []*service.ScanRecordedEvent
	err    error
}

func (f *fakePublisher) PublishScanRecorded(_ context.Context, event *service.ScanRecordedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.events = append(f.events, event)

	return nil
}

func (f *fakePublisher) Close() error {
	return nil
}

func seedAccount(t *testing.T, store *memory.AccountStore, role entity.Role, name, email, phone string) *entity.Account {
	t.Helper()

	account := &entity.Account{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		Role:         role,
		AreaState:    "Selangor",
		IsActive:     true,
		PasswordHash: "hashed:original-secret",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	switch role {
	case entity.RoleSupervisor:
		account.Supervisor = &entity.SupervisorProfile{Code: "SUP-" + name}
	case entity.RoleGuard:
		account.Guard = &entity.GuardProfile{EmployeeCode: "EMP-" + name}
	}

	store.Seed(account)

	return account
}

func seedGuardUnder(t *testing.T, store *memory.AccountStore, supervisorID uuid.UUID, name, email string) *entity.Account {
	t.Helper()

	guard := seedAccount(t, store, entity.RoleGuard, name, email, "")
	guard.Guard.SupervisorID = supervisorID
	store.Seed(guard)

	return guard
}
