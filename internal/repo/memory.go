package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/models"
)

// The Memory* repos back STORAGE=memory. Each guards its state with a mutex
// and honours the same error contract as the SQL repos.

// ==========================
// MemoryUserRepo
// ==========================
type MemoryUserRepo struct {
	mu     sync.RWMutex
	byName map[string]models.User
	nextID int
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{byName: map[string]models.User{}, nextID: 1}
}

func (r *MemoryUserRepo) Create(_ context.Context, username, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[username]; ok {
		return nil, apperr.ErrDuplicateUsername
	}
	u := models.User{ID: r.nextID, Username: username, PasswordHash: passwordHash}
	r.nextID++
	r.byName[username] = u
	return &u, nil
}

func (r *MemoryUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byName[username]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &u, nil
}

// ==========================
// MemoryCandidateRepo
// ==========================
type MemoryCandidateRepo struct {
	mu      sync.RWMutex
	byID    map[int]models.Candidate
	byOwner map[int]int
	nextID  int
	now     func() time.Time
}

func NewMemoryCandidateRepo() *MemoryCandidateRepo {
	return &MemoryCandidateRepo{
		byID:    map[int]models.Candidate{},
		byOwner: map[int]int{},
		nextID:  1,
		now:     time.Now,
	}
}

func (r *MemoryCandidateRepo) Create(_ context.Context, c models.Candidate) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byOwner[c.UserID]; ok {
		return nil, apperr.ErrDuplicateOwner
	}
	c.ID = r.nextID
	c.CreatedAt = r.now().UTC()
	r.nextID++
	r.byID[c.ID] = c
	r.byOwner[c.UserID] = c.ID
	return &c, nil
}

func (r *MemoryCandidateRepo) GetByID(_ context.Context, id int) (*models.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &c, nil
}

func (r *MemoryCandidateRepo) Update(_ context.Context, c models.Candidate) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[c.ID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cur.FirstName = c.FirstName
	cur.LastName = c.LastName
	cur.Experience = c.Experience
	r.byID[c.ID] = cur
	return &cur, nil
}

func (r *MemoryCandidateRepo) Delete(_ context.Context, id int) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byOwner, c.UserID)
	return &c, nil
}

func (r *MemoryCandidateRepo) Search(_ context.Context, f models.CandidateFilter, limit, offset int) ([]models.Candidate, error) {
	matched := r.matching(f)
	out := []models.Candidate{}
	if offset < 0 || limit < 1 || offset >= len(matched) {
		return out, nil
	}
	end := offset + min(limit, len(matched)-offset)
	return append(out, matched[offset:end]...), nil
}

func (r *MemoryCandidateRepo) Count(_ context.Context, f models.CandidateFilter) (int, error) {
	return len(r.matching(f)), nil
}

// ForEach iterates over a snapshot, so fn may call back into the repo.
func (r *MemoryCandidateRepo) ForEach(ctx context.Context, fn func(models.Candidate) error) error {
	for _, c := range r.matching(models.CandidateFilter{}) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

// matching returns the candidates satisfying f, ordered by id.
func (r *MemoryCandidateRepo) matching(f models.CandidateFilter) []models.Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Candidate, 0, len(r.byID))
	for _, c := range r.byID {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ==========================
// MemoryAuditRepo
// ==========================
type MemoryAuditRepo struct {
	mu      sync.RWMutex
	entries []models.AuditEntry
	now     func() time.Time
}

func NewMemoryAuditRepo() *MemoryAuditRepo {
	return &MemoryAuditRepo{now: time.Now}
}

func (r *MemoryAuditRepo) Log(_ context.Context, userID int, action string, candidateID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, models.AuditEntry{
		ID:          len(r.entries) + 1,
		UserID:      userID,
		Action:      action,
		CandidateID: candidateID,
		CreatedAt:   r.now().UTC(),
	})
	return nil
}

// List returns entries newest first.
func (r *MemoryAuditRepo) List(_ context.Context, limit, offset int) ([]models.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.AuditEntry{}
	for i := len(r.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
