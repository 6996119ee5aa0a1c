package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/models"
	"github.com/lib/pq"
)

var candidateCols = []string{"id", "user_id", "first_name", "last_name", "experience", "created_at"}

func TestCandidateRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO candidates \(user_id, first_name, last_name, experience\)`).
		WithArgs(3, "John", "Doe", 4).
		WillReturnRows(sqlmock.NewRows(candidateCols).AddRow(10, 3, "John", "Doe", 4, now))

	c, err := NewCandidateRepo(db).Create(context.Background(),
		models.Candidate{UserID: 3, FirstName: "John", LastName: "Doe", Experience: 4})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != 10 || c.UserID != 3 {
		t.Errorf("unexpected candidate: %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCandidateRepo_Create_DuplicateOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO candidates`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "candidates_user_id_key"})

	_, err = NewCandidateRepo(db).Create(context.Background(), models.Candidate{UserID: 3})
	if !errors.Is(err, apperr.ErrDuplicateOwner) {
		t.Errorf("expected ErrDuplicateOwner, got: %v", err)
	}
}

func TestCandidateRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM candidates WHERE id = \$1`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err = NewCandidateRepo(db).GetByID(context.Background(), 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCandidateRepo_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`UPDATE candidates\s+SET first_name = \$1, last_name = \$2, experience = \$3\s+WHERE id = \$4`).
		WithArgs("Jane", "Roe", 7, 5).
		WillReturnRows(sqlmock.NewRows(candidateCols).AddRow(5, 1, "Jane", "Roe", 7, time.Now()))
	mock.ExpectQuery(`UPDATE candidates`).
		WithArgs("X", "Y", 1, 6).
		WillReturnError(sql.ErrNoRows)

	r := NewCandidateRepo(db)
	c, err := r.Update(context.Background(), models.Candidate{ID: 5, FirstName: "Jane", LastName: "Roe", Experience: 7})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if c.Experience != 7 {
		t.Errorf("unexpected candidate: %+v", c)
	}

	_, err = r.Update(context.Background(), models.Candidate{ID: 6, FirstName: "X", LastName: "Y", Experience: 1})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCandidateRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`DELETE FROM candidates WHERE id = \$1 RETURNING`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(candidateCols).AddRow(5, 1, "Jane", "Roe", 7, time.Now()))
	mock.ExpectQuery(`DELETE FROM candidates WHERE id = \$1 RETURNING`).
		WithArgs(5).
		WillReturnError(sql.ErrNoRows)

	r := NewCandidateRepo(db)
	if _, err := r.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.Delete(context.Background(), 5); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCandidateRepo_SearchAndCount_Filters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	exp := 3
	f := models.CandidateFilter{Name: "jo", Experience: &exp}

	mock.ExpectQuery(`SELECT .* FROM candidates WHERE \(first_name ILIKE \$1 OR last_name ILIKE \$1\) AND experience = \$2 ORDER BY id LIMIT \$3 OFFSET \$4`).
		WithArgs("%jo%", 3, 2, 2).
		WillReturnRows(sqlmock.NewRows(candidateCols).AddRow(4, 4, "Bob", "Johnson", 3, time.Now()))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM candidates WHERE \(first_name ILIKE \$1 OR last_name ILIKE \$1\) AND experience = \$2`).
		WithArgs("%jo%", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	r := NewCandidateRepo(db)
	items, err := r.Search(context.Background(), f, 2, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 || items[0].LastName != "Johnson" {
		t.Errorf("unexpected items: %+v", items)
	}
	total, err := r.Count(context.Background(), f)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 3 {
		t.Errorf("total: got %d, want 3", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCandidateRepo_Search_NoFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM candidates ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(candidateCols))

	items, err := NewCandidateRepo(db).Search(context.Background(), models.CandidateFilter{}, 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCandidateRepo_ForEach(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM candidates ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(candidateCols).
			AddRow(1, 1, "A", "One", 1, time.Now()).
			AddRow(2, 2, "B", "Two", 2, time.Now()))

	var ids []int
	err = NewCandidateRepo(db).ForEach(context.Background(), func(c models.Candidate) error {
		ids = append(ids, c.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("ids: got %v", ids)
	}
}

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"jo":     "jo",
		"50%":    `50\%`,
		"a_b":    `a\_b`,
		`back\s`: `back\\s`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
