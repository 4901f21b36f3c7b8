//go:build integration

package attendance

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"lunch/backend/internal/auth"
	"lunch/backend/internal/commands"
	"lunch/backend/internal/entity"
	"lunch/backend/internal/pkg/repository/postgresql"

	"github.com/stretchr/testify/require"
)

// Needs a reachable postgres, e.g.:
//
//	TEST_DB_HOST=localhost TEST_DB_PORT=5432 TEST_DB_USER=postgres \
//	TEST_DB_PASSWORD=postgres TEST_DB_NAME=lunch_test \
//	go test -tags integration ./internal/repository/postgres/attendance/
func testDatabase(t *testing.T) *postgresql.Database {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set")
	}

	db := postgresql.NewDatabase(
		os.Getenv("TEST_DB_USER"),
		os.Getenv("TEST_DB_PASSWORD"),
		host,
		os.Getenv("TEST_DB_PORT"),
		os.Getenv("TEST_DB_NAME"),
		true,
	)
	commands.MigrateUP(db)
	return db
}

func createEmployee(t *testing.T, ctx context.Context, db *postgresql.Database, tag string) entity.User {
	t.Helper()

	email := fmt.Sprintf("%s-%d@lunch.local", tag, time.Now().UnixNano())
	password := "x"
	fullName := "Integration " + tag
	role := auth.RoleEmployee
	active := true

	u := entity.User{
		Email:    &email,
		Password: &password,
		FullName: &fullName,
		Role:     &role,
		IsActive: &active,
	}
	_, err := db.NewInsert().Model(&u).Exec(ctx)
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	return u
}

func claimsContext(userID int) context.Context {
	return context.WithValue(context.Background(), auth.Key, auth.Claims{
		UserId: userID,
		Role:   auth.RoleEmployee,
	})
}

func markFor(t *testing.T, repo *Repository, userID int, day, status string) MarkResponse {
	t.Helper()

	response, err := repo.Mark(claimsContext(userID), MarkRequest{
		UserID: &userID,
		Date:   &day,
		Status: &status,
	})
	require.NoError(t, err)
	return response
}

func TestMarkUpsertAndCount(t *testing.T) {
	db := testDatabase(t)
	defer db.Close()

	// Virtual Monday morning, before the cutoff, so the target day is fixed
	// no matter when the suite runs.
	fixed := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	day := "2024-01-08"
	rules := Rules{
		Location:      time.UTC,
		CutoffHour:    9,
		CutoffMinute:  30,
		DefaultStatus: "home",
		Now:           func() time.Time { return fixed },
	}
	repo := NewRepository(db, rules, nil)

	ctx := context.Background()
	a := createEmployee(t, ctx, db, "a")
	b := createEmployee(t, ctx, db, "b")
	c := createEmployee(t, ctx, db, "c")

	// Re-marking the same day must update in place, never add a row.
	markFor(t, repo, a.ID, day, entity.StatusOffice)
	markFor(t, repo, a.ID, day, entity.StatusOffice)

	var rowCount int
	err := db.QueryRowContext(ctx,
		`SELECT count(*) FROM attendance WHERE user_id = ? AND work_day = ?`, a.ID, day).Scan(&rowCount)
	require.NoError(t, err)
	require.Equal(t, 1, rowCount)

	markFor(t, repo, a.ID, day, entity.StatusHome)

	var status string
	var markedAt time.Time
	err = db.QueryRowContext(ctx,
		`SELECT status, marked_at FROM attendance WHERE user_id = ? AND work_day = ?`, a.ID, day).
		Scan(&status, &markedAt)
	require.NoError(t, err)
	require.Equal(t, entity.StatusHome, status)
	require.True(t, markedAt.Equal(fixed), "marked_at %s, want the rules clock %s", markedAt, fixed)

	err = db.QueryRowContext(ctx,
		`SELECT count(*) FROM attendance WHERE user_id = ? AND work_day = ?`, a.ID, day).Scan(&rowCount)
	require.NoError(t, err)
	require.Equal(t, 1, rowCount)

	// {office, office, home} across three users counts two for the kitchen.
	markFor(t, repo, a.ID, day, entity.StatusOffice)
	markFor(t, repo, b.ID, day, entity.StatusOffice)
	markFor(t, repo, c.ID, day, entity.StatusHome)

	var officeCount int
	err = db.QueryRowContext(ctx, `
		SELECT count(*) FROM attendance
		WHERE deleted_at IS NULL AND work_day = ? AND status = 'office' AND user_id IN (?, ?, ?)`,
		day, a.ID, b.ID, c.ID).Scan(&officeCount)
	require.NoError(t, err)
	require.Equal(t, 2, officeCount)
}
