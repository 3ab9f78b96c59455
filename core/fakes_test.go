package core

import (
	"context"
	"sync"
	"time"
)

// In-memory repositories for handler and service tests. They mirror the
// atomicity rules of the Pg implementations: check-then-insert under one
// lock, and user deletion appends its audit entry in the same critical
// section.

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (f *fakeAuditRepo) List(ctx context.Context) ([]AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]AuditEntry, 0, len(f.entries))
	for i := len(f.entries) - 1; i >= 0; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeAuditRepo) append(e AuditEntry) {
	f.mu.Lock()
	e.ID = int64(len(f.entries) + 1)
	e.CreatedAt = time.Now()
	f.entries = append(f.entries, e)
	f.mu.Unlock()
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]UserRecord
	audit *fakeAuditRepo
}

func newFakeUserRepo(audit *fakeAuditRepo) *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]UserRecord), audit: audit}
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u UserRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Username]; ok {
		return ErrConflict
	}
	now := time.Now()
	u.CreatedAt = now
	u.ModifiedAt = now
	if u.ModifiedBy == "" {
		u.ModifiedBy = u.CreatedBy
	}
	f.users[u.Username] = u
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, username string, patch UserPatch, actor string) (*UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	u.ModifiedBy = actor
	u.ModifiedAt = time.Now()
	f.users[username] = u
	return &u, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, username, actor string) error {
	f.mu.Lock()
	_, ok := f.users[username]
	if !ok {
		f.mu.Unlock()
		return ErrNotFound
	}
	delete(f.users, username)
	f.mu.Unlock()

	if f.audit != nil {
		f.audit.append(AuditEntry{Action: "user.delete", TargetUser: username, Actor: actor})
	}
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]UserListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]UserListItem, 0, len(f.users))
	for _, u := range f.users {
		items = append(items, UserListItem{
			Username:     u.Username,
			Role:         u.Role,
			RequestAdmin: u.RequestAdmin,
			CreatedBy:    u.CreatedBy,
			ModifiedBy:   u.ModifiedBy,
			ModifiedAt:   u.ModifiedAt,
			CreatedAt:    u.CreatedAt,
		})
	}
	return items, nil
}

func (f *fakeUserRepo) HasAdmin(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Role == RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

type fakeHackathonRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]Hackathon
}

func newFakeHackathonRepo() *fakeHackathonRepo {
	return &fakeHackathonRepo{items: make(map[int64]Hackathon)}
}

func (f *fakeHackathonRepo) List(ctx context.Context) ([]Hackathon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Hackathon, 0, len(f.items))
	for id := f.nextID; id >= 1; id-- {
		if h, ok := f.items[id]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHackathonRepo) Get(ctx context.Context, id int64) (*Hackathon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &h, nil
}

func (f *fakeHackathonRepo) Create(ctx context.Context, h Hackathon, actor string) (*Hackathon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	h.ID = f.nextID
	h.CreatedBy = actor
	h.ModifiedBy = actor
	now := time.Now()
	h.CreatedAt = now
	h.ModifiedAt = now
	f.items[h.ID] = h
	return &h, nil
}

func (f *fakeHackathonRepo) Update(ctx context.Context, id int64, h Hackathon, actor string) (*Hackathon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	h.ID = id
	h.CreatedBy = existing.CreatedBy
	h.CreatedAt = existing.CreatedAt
	h.ModifiedBy = actor
	h.ModifiedAt = time.Now()
	f.items[id] = h
	return &h, nil
}

func (f *fakeHackathonRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}
