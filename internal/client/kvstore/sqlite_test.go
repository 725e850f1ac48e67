package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newSQLiteWithMock(t *testing.T) (*SQLiteBackend, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLite(db), mock, db
}

const (
	selectQ = `(?s)^SELECT\s+value\s+FROM\s+kv\s+WHERE\s+key\s*=\s*\?$`
	upsertQ = `(?s)INSERT\s+INTO\s+kv\s*\(key,\s*value\)\s*VALUES\s*\(\?,\s*\?\)\s*ON\s+CONFLICT`
	deleteQ = `(?s)^DELETE\s+FROM\s+kv\s+WHERE\s+key\s*=\s*\?$`
	clearQ  = `(?s)^DELETE\s+FROM\s+kv$`
)

func TestSQLiteGet_Found(t *testing.T) {
	b, mock, db := newSQLiteWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).
		WithArgs("auth_token").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`"tok"`)))

	got, err := b.Get(context.Background(), "auth_token")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != `"tok"` {
		t.Fatalf("unexpected value: %q", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLiteGet_NotFound(t *testing.T) {
	b, mock, db := newSQLiteWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).
		WithArgs("user_data").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := b.Get(context.Background(), "user_data")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteGet_DBError(t *testing.T) {
	b, mock, db := newSQLiteWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).
		WithArgs("user_data").
		WillReturnError(errors.New("disk I/O error"))

	_, err := b.Get(context.Background(), "user_data")
	if err == nil || !regexp.MustCompile(`failed to get kv\[user_data\]: .*disk I/O error`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if errors.Is(err, ErrNotFound) || IsAbsent(err) {
		t.Fatalf("db error must not read as absent: %v", err)
	}
}

func TestSQLiteSetMany_RollsBackOnError(t *testing.T) {
	b, mock, db := newSQLiteWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(upsertQ).
		WithArgs("auth_token", []byte(`"tok"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := b.SetMany(context.Background(), map[string][]byte{"auth_token": []byte(`"tok"`)})
	if err == nil || !regexp.MustCompile(`failed to set kv\[auth_token\]: .*disk full`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped exec error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLiteSetMany_BeginError(t *testing.T) {
	b, mock, db := newSQLiteWithMock(t)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	err := b.SetMany(context.Background(), map[string][]byte{"auth_token": []byte(`"tok"`)})
	if err == nil || !regexp.MustCompile(`database is locked`).MatchString(err.Error()) {
		t.Fatalf("expected begin error, got %v", err)
	}
}

func TestSQLiteDeleteMany_Commits(t *testing.T) {
	b, mock, db := newSQLiteWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(deleteQ).WithArgs("auth_token").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQ).WithArgs("user_data").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := b.DeleteMany(context.Background(), []string{"auth_token", "user_data"}); err != nil {
		t.Fatalf("DeleteMany error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLiteDeleteMany_CommitError(t *testing.T) {
	b, mock, db := newSQLiteWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(deleteQ).WithArgs("auth_token").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err := b.DeleteMany(context.Background(), []string{"auth_token"})
	if err == nil || !regexp.MustCompile(`commit failed`).MatchString(err.Error()) {
		t.Fatalf("expected commit error, got %v", err)
	}
}

func TestSQLiteClear_DBError(t *testing.T) {
	b, mock, db := newSQLiteWithMock(t)
	defer db.Close()

	mock.ExpectExec(clearQ).WillReturnError(errors.New("readonly database"))

	err := b.Clear(context.Background())
	if err == nil || !regexp.MustCompile(`failed to clear kv: .*readonly database`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped clear error, got %v", err)
	}
}
