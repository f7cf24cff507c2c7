package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

func newRoleRepoWithMock(t *testing.T) (*RoleRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	repo := &RoleRepository{
		exec:    mock,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	return repo, mock
}

func TestRoleRepository_Ensure(t *testing.T) {
	repo, mock := newRoleRepoWithMock(t)

	now := time.Now().UTC()
	description := "race organizers"
	role := domain.Role{ID: "role-1", Name: "ORGANIZER", Description: &description}

	rows := pgxmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}).
		AddRow("role-existing", "ORGANIZER", description, now, now)

	mock.ExpectQuery(`INSERT INTO byke\.roles`).
		WithArgs(role.ID, role.Name, role.Description).
		WillReturnRows(rows)

	stored, err := repo.Ensure(context.Background(), role)
	if err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if stored.ID != "role-existing" {
		t.Fatalf("expected the stored row to win, got id %s", stored.ID)
	}
	if stored.Description == nil || *stored.Description != description {
		t.Fatalf("expected description to round-trip")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_CreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newRoleRepoWithMock(t)

	role := domain.Role{ID: "role-1", Name: "ORGANIZER"}

	mock.ExpectExec(`INSERT INTO byke\.roles`).
		WithArgs(role.ID, role.Name, role.Description).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if err := repo.Create(context.Background(), role); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate name, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_GetByNameNotFound(t *testing.T) {
	repo, mock := newRoleRepoWithMock(t)

	mock.ExpectQuery(`SELECT .*FROM byke\.roles`).
		WithArgs("GHOST").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}))

	if _, err := repo.GetByName(context.Background(), "GHOST"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_AssignPermissions(t *testing.T) {
	repo, mock := newRoleRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO byke\.role_permissions`).
		WithArgs("role-1", "perm-1", "role-1", "perm-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	granted, err := repo.AssignPermissions(context.Background(), "role-1", []string{"perm-1", "perm-2"})
	if err != nil {
		t.Fatalf("AssignPermissions returned error: %v", err)
	}
	if granted != 2 {
		t.Fatalf("expected 2 granted rows, got %d", granted)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_AssignPermissionsSkipsEmptyInput(t *testing.T) {
	repo, mock := newRoleRepoWithMock(t)

	granted, err := repo.AssignPermissions(context.Background(), "role-1", nil)
	if err != nil {
		t.Fatalf("AssignPermissions returned error: %v", err)
	}
	if granted != 0 {
		t.Fatalf("expected no rows without input, got %d", granted)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRoleRepository_DeleteNotFound(t *testing.T) {
	repo, mock := newRoleRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM byke\.roles`).
		WithArgs("role-missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "role-missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing role, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
