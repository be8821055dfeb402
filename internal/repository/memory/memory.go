// Package memory holds process-local repositories. They back unit tests and
// mirror the error contract of the postgres package.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/NordCoder/Carelink/internal/domain"
	"github.com/NordCoder/Carelink/internal/domain/auth"
	"github.com/NordCoder/Carelink/internal/domain/family"
	"github.com/NordCoder/Carelink/internal/domain/hospital"
	"github.com/NordCoder/Carelink/internal/domain/outbox"
	"github.com/NordCoder/Carelink/internal/domain/profile"
	"github.com/NordCoder/Carelink/internal/domain/user"
)

// Transactor runs the function inline. Atomicity comes from the
// repositories' own compare-and-set operations.
type Transactor struct{}

func (Transactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type UserRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]user.User
}

var _ user.Repo = (*UserRepo)(nil)

func NewUserRepo() *UserRepo { return &UserRepo{byID: make(map[int64]user.User)} }

func (r *UserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.Email == u.Email {
			return domain.ErrConflict
		}
	}
	r.nextID++
	now := time.Now().UTC()
	u.ID, u.CreatedAt, u.UpdatedAt = r.nextID, now, now
	r.byID[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	u.CreatedAt = old.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	r.byID[u.ID] = *u
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type RefreshTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	byHash map[string]*auth.RefreshToken
}

var _ auth.RefreshTokenRepo = (*RefreshTokenRepo)(nil)

func NewRefreshTokenRepo() *RefreshTokenRepo {
	return &RefreshTokenRepo{byHash: make(map[string]*auth.RefreshToken)}
}

func (r *RefreshTokenRepo) Create(_ context.Context, t *auth.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byHash[t.TokenHash]; ok {
		return domain.ErrConflict
	}
	r.nextID++
	t.ID = r.nextID
	cp := *t
	r.byHash[t.TokenHash] = &cp
	return nil
}

func (r *RefreshTokenRepo) GetByHash(_ context.Context, tokenHash string) (*auth.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byHash[tokenHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *RefreshTokenRepo) Revoke(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.byHash {
		if t.ID == id {
			t.Revoked = true
		}
	}
	return nil
}

func (r *RefreshTokenRepo) RevokeActive(_ context.Context, tokenHash string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byHash[tokenHash]
	if !ok || !t.Usable(now) {
		return false, nil
	}
	t.Revoked = true
	return true, nil
}

// Tokens returns a snapshot of every stored token for the user.
func (r *RefreshTokenRepo) Tokens(userID int64) []auth.RefreshToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []auth.RefreshToken
	for _, t := range r.byHash {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type ProfileRepo struct {
	mu     sync.Mutex
	nextID int64
	byUser map[int64]profile.Profile
}

var _ profile.Repo = (*ProfileRepo)(nil)

func NewProfileRepo() *ProfileRepo { return &ProfileRepo{byUser: make(map[int64]profile.Profile)} }

func (r *ProfileRepo) Get(_ context.Context, userID int64) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *ProfileRepo) Upsert(_ context.Context, p *profile.Profile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	old, exists := r.byUser[p.UserID]
	if exists {
		p.ID, p.CreatedAt = old.ID, old.CreatedAt
	} else {
		r.nextID++
		p.ID, p.CreatedAt = r.nextID, now
	}
	p.UpdatedAt = now
	r.byUser[p.UserID] = *p
	return !exists, nil
}

func (r *ProfileRepo) Update(_ context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byUser[p.UserID]
	if !ok {
		return domain.ErrNotFound
	}
	p.ID, p.CreatedAt, p.UpdatedAt = old.ID, old.CreatedAt, time.Now().UTC()
	r.byUser[p.UserID] = *p
	return nil
}

func (r *ProfileRepo) Delete(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byUser, userID)
	return nil
}

type FamilyRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]family.Member
}

var _ family.Repo = (*FamilyRepo)(nil)

func NewFamilyRepo() *FamilyRepo { return &FamilyRepo{byID: make(map[int64]family.Member)} }

func (r *FamilyRepo) ListByUser(_ context.Context, userID int64) ([]family.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]family.Member, 0)
	for _, m := range r.byID {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FamilyRepo) GetByID(_ context.Context, id int64) (*family.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *FamilyRepo) Create(_ context.Context, m *family.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now().UTC()
	m.ID, m.CreatedAt, m.UpdatedAt = r.nextID, now, now
	r.byID[m.ID] = *m
	return nil
}

func (r *FamilyRepo) Update(_ context.Context, m *family.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[m.ID]
	if !ok || old.UserID != m.UserID {
		return domain.ErrNotFound
	}
	m.CreatedAt, m.UpdatedAt = old.CreatedAt, time.Now().UTC()
	r.byID[m.ID] = *m
	return nil
}

func (r *FamilyRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// HospitalRepo serves a fixed directory.
type HospitalRepo struct {
	items []hospital.Hospital
}

var _ hospital.Repo = (*HospitalRepo)(nil)

func NewHospitalRepo(items ...hospital.Hospital) *HospitalRepo {
	cp := append([]hospital.Hospital(nil), items...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].ID < cp[j].ID })
	return &HospitalRepo{items: cp}
}

func (r *HospitalRepo) List(_ context.Context, q hospital.Query) ([]hospital.Hospital, int64, error) {
	needle := strings.ToLower(q.Q)
	var matched []hospital.Hospital
	for _, h := range r.items {
		if needle == "" || strings.Contains(strings.ToLower(h.Name), needle) {
			matched = append(matched, h)
		}
	}
	total := int64(len(matched))
	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Size
	if end > len(matched) {
		end = len(matched)
	}
	return append(make([]hospital.Hospital, 0, end-start), matched[start:end]...), total, nil
}

func (r *HospitalRepo) GetByID(_ context.Context, id int64) (*hospital.Hospital, error) {
	for _, h := range r.items {
		if h.ID == id {
			return &h, nil
		}
	}
	return nil, domain.ErrNotFound
}

// OutboxRepo keeps enqueued messages in insertion order.
type OutboxRepo struct {
	mu   sync.Mutex
	msgs []outbox.Message
}

var _ outbox.Repository = (*OutboxRepo)(nil)

func NewOutboxRepo() *OutboxRepo { return &OutboxRepo{} }

func (r *OutboxRepo) Enqueue(_ context.Context, key string, kind outbox.Kind, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.IdempotencyKey == key {
			return nil
		}
	}
	now := time.Now().UTC()
	r.msgs = append(r.msgs, outbox.Message{
		IdempotencyKey: key,
		Kind:           kind,
		Data:           append([]byte(nil), data...),
		Status:         outbox.StatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	return nil
}

func (r *OutboxRepo) PickBatch(_ context.Context, batch int, inProgressTTL time.Duration) ([]outbox.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	var out []outbox.Message
	for i := range r.msgs {
		if len(out) == batch {
			break
		}
		m := &r.msgs[i]
		stale := m.Status == outbox.StatusInProgress && m.UpdatedAt.Before(now.Add(-inProgressTTL))
		if m.Status == outbox.StatusCreated || stale {
			m.Status = outbox.StatusInProgress
			m.UpdatedAt = now
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *OutboxRepo) MarkSuccess(_ context.Context, keys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	done := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		done[k] = struct{}{}
	}
	for i := range r.msgs {
		if _, ok := done[r.msgs[i].IdempotencyKey]; ok {
			r.msgs[i].Status = outbox.StatusSuccess
			r.msgs[i].UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

// Messages returns a snapshot of every stored message.
func (r *OutboxRepo) Messages() []outbox.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]outbox.Message(nil), r.msgs...)
}
