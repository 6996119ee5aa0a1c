package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/models"
)

const candidateColumns = `id, user_id, first_name, last_name, experience, created_at`

// ==========================
// CandidateRepo
// ==========================
type CandidateRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewCandidateRepo(db *sql.DB) *CandidateRepo {
	return &CandidateRepo{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(s rowScanner) (*models.Candidate, error) {
	c := &models.Candidate{}
	if err := s.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Experience, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// ==========================
// Create Candidate
// ==========================
func (r *CandidateRepo) Create(ctx context.Context, c models.Candidate) (*models.Candidate, error) {
	query := `
		INSERT INTO candidates (user_id, first_name, last_name, experience)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + candidateColumns

	created, err := scanCandidate(r.DB.QueryRowContext(ctx, query,
		c.UserID, c.FirstName, c.LastName, c.Experience))

	if isUniqueViolation(err) {
		return nil, apperr.ErrDuplicateOwner
	}
	if err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}

	return created, nil
}

// ==========================
// Get By ID
// ==========================
func (r *CandidateRepo) GetByID(ctx context.Context, id int) (*models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`

	c, err := scanCandidate(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate %d: %w", id, err)
	}

	return c, nil
}

// ==========================
// Update Candidate
// ==========================
func (r *CandidateRepo) Update(ctx context.Context, c models.Candidate) (*models.Candidate, error) {
	query := `
		UPDATE candidates
		SET first_name = $1, last_name = $2, experience = $3
		WHERE id = $4
		RETURNING ` + candidateColumns

	updated, err := scanCandidate(r.DB.QueryRowContext(ctx, query,
		c.FirstName, c.LastName, c.Experience, c.ID))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update candidate %d: %w", c.ID, err)
	}

	return updated, nil
}

// ==========================
// Delete Candidate
// ==========================
func (r *CandidateRepo) Delete(ctx context.Context, id int) (*models.Candidate, error) {
	query := `DELETE FROM candidates WHERE id = $1 RETURNING ` + candidateColumns

	deleted, err := scanCandidate(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete candidate %d: %w", id, err)
	}

	return deleted, nil
}

// ==========================
// Search / Count
// ==========================

// Search returns one window of the filtered listing ordered by id.
func (r *CandidateRepo) Search(ctx context.Context, f models.CandidateFilter, limit, offset int) ([]models.Candidate, error) {
	where, args := candidateWhere(f)
	n := len(args)
	query := `SELECT ` + candidateColumns + ` FROM candidates` + where +
		fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search candidates: %w", err)
	}
	defer rows.Close()

	out := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Count returns how many candidates match f.
func (r *CandidateRepo) Count(ctx context.Context, f models.CandidateFilter) (int, error) {
	where, args := candidateWhere(f)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count candidates: %w", err)
	}
	return total, nil
}

// ForEach streams every candidate in id order to fn, stopping at the first error.
func (r *CandidateRepo) ForEach(ctx context.Context, fn func(models.Candidate) error) error {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY id`)
	if err != nil {
		return fmt.Errorf("enumerate candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return err
		}
		if err := fn(*c); err != nil {
			return err
		}
	}
	return rows.Err()
}

// candidateWhere renders the filter as a WHERE clause with positional args starting at $1.
func candidateWhere(f models.CandidateFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Name != "" {
		args = append(args, "%"+escapeLike(f.Name)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", n, n))
	}
	if f.Experience != nil {
		args = append(args, *f.Experience)
		conds = append(conds, fmt.Sprintf("experience = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
