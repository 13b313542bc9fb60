package songs

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/strumspace-admin/cmd/cli/root"
)

func useMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	orig := root.OpenDB
	root.OpenDB = func(context.Context) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() {
		root.OpenDB = orig
		db.Close()
	})
	return mock
}

func TestListSongs_TableOutput(t *testing.T) {
	mock := useMockDB(t)
	now := time.Now()
	mock.ExpectQuery(`FROM song_requests`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "song_title", "artist", "requester", "message", "created_at"}).
			AddRow(3, "Landslide", "Fleetwood Mac", "jo", "", now))

	cmd := listSongsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "Landslide") || !strings.Contains(out.String(), "Fleetwood Mac") {
		t.Fatalf("expected song in output, got: %s", out.String())
	}
}

func TestDeleteSong(t *testing.T) {
	mock := useMockDB(t)
	mock.ExpectExec(`DELETE FROM song_requests WHERE id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(0, "delete", "song_request", 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	cmd := deleteSongCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"3"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted song request 3") {
		t.Errorf("unexpected output: %s", out.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDeleteSong_NotFound(t *testing.T) {
	mock := useMockDB(t)
	mock.ExpectExec(`DELETE FROM song_requests WHERE id = \$1`).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	cmd := deleteSongCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"9"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeleteSong_BadID(t *testing.T) {
	cmd := deleteSongCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"abc"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestPruneSongs(t *testing.T) {
	mock := useMockDB(t)
	mock.ExpectExec(`DELETE FROM song_requests WHERE created_at < \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(0, "prune", "song_request", 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	cmd := pruneSongsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--older-than-days", "30"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "Pruned 5 song requests older than 30 days") {
		t.Errorf("unexpected output: %s", out.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPruneSongs_NoRetention(t *testing.T) {
	orig := retentionDays
	retentionDays = func() int { return 0 }
	t.Cleanup(func() { retentionDays = orig })

	cmd := pruneSongsCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error without a retention window")
	}
}
