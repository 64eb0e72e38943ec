package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

func newAssignmentMock(t *testing.T) (sqlmock.Sqlmock, AssignmentRepository, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	repo := NewPostgresAssignmentRepository(db)
	return mock, repo, func() { db.Close() }
}

func TestAssignmentRepositoryCreate(t *testing.T) {
	mock, repo, cleanup := newAssignmentMock(t)
	defer cleanup()

	a := &models.CourtAssignment{EventID: 1, CourtNumber: 2, StartedAt: time.Now()}
	a.SetPlayerIDs([]int{101, 102, 103, 104})

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO court_assignments`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if a.ID != 7 {
		t.Errorf("id = %d, want 7", a.ID)
	}
}

func TestAssignmentRepositoryCreateCourtOccupied(t *testing.T) {
	mock, repo, cleanup := newAssignmentMock(t)
	defer cleanup()

	a := &models.CourtAssignment{EventID: 1, CourtNumber: 1, StartedAt: time.Now()}
	a.SetPlayerIDs([]int{101, 102, 103, 104})

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO court_assignments`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "court_assignments_active_court_key"})

	if err := repo.Create(context.Background(), a); !errors.Is(err, ErrCourtOccupied) {
		t.Errorf("err = %v, want ErrCourtOccupied", err)
	}
}

func TestAssignmentRepositoryCloseAlreadyEnded(t *testing.T) {
	mock, repo, cleanup := newAssignmentMock(t)
	defer cleanup()

	ended := time.Now()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE court_assignments SET ended_at = $1`)).
		WithArgs(ended, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// The repository re-reads the row to tell "already ended" from "gone".
	mock.ExpectQuery(regexp.QuoteMeta(`FROM court_assignments WHERE id = $1`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "court_number",
			"player1_id", "player2_id", "player3_id", "player4_id",
			"player5_id", "player6_id", "player7_id", "player8_id",
			"started_at", "ended_at",
		}).AddRow(3, 1, 1, 101, 102, 103, 104, nil, nil, nil, nil, ended.Add(-time.Hour), ended))

	if err := repo.Close(context.Background(), 3, ended); !errors.Is(err, ErrAssignmentAlreadyClosed) {
		t.Errorf("err = %v, want ErrAssignmentAlreadyClosed", err)
	}
}

func TestAssignmentRepositoryCloseNotFound(t *testing.T) {
	mock, repo, cleanup := newAssignmentMock(t)
	defer cleanup()

	ended := time.Now()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE court_assignments SET ended_at = $1`)).
		WithArgs(ended, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM court_assignments WHERE id = $1`)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if err := repo.Close(context.Background(), 99, ended); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("err = %v, want ErrAssignmentNotFound", err)
	}
}

func TestAssignmentRepositoryListActive(t *testing.T) {
	mock, repo, cleanup := newAssignmentMock(t)
	defer cleanup()

	started := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "event_id", "court_number",
		"player1_id", "player2_id", "player3_id", "player4_id",
		"player5_id", "player6_id", "player7_id", "player8_id",
		"started_at", "ended_at",
	}).AddRow(1, 1, 1, 101, 102, 103, 104, nil, nil, nil, nil, started, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE event_id = $1 AND ended_at IS NULL`)).
		WithArgs(1).
		WillReturnRows(rows)

	assignments, err := repo.ListActive(context.Background(), 1)
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("got %d assignments, want 1", len(assignments))
	}
	if got := assignments[0].PlayerIDs(); len(got) != 4 || got[0] != 101 {
		t.Errorf("players = %v, want [101 102 103 104]", got)
	}
	if assignments[0].EndedAt != nil {
		t.Errorf("ended at = %v, want nil", assignments[0].EndedAt)
	}
}
