package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/digiquote/internal/db"
	"github.com/Simplici0/digiquote/internal/migrations"
	"github.com/Simplici0/digiquote/internal/pricing"
	"github.com/Simplici0/digiquote/internal/project"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Up(ctx, conn))
	return conn
}

// fixedClock returns successive timestamps one minute apart.
func fixedClock() func() time.Time {
	ts := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		ts = ts.Add(time.Minute)
		return ts
	}
}

func sampleProject(name, client string) project.ProjectData {
	return project.ProjectData{
		ProjectName: name,
		ClientName:  client,
		Tier:        project.TierStandard,
		WorkItems: []project.WorkItem{
			{ID: "w1", Title: "Ledgers", Quantity: 1350, SizeClass: project.SizeA3},
		},
	}
}

func totalsOf(p project.ProjectData) pricing.TotalsResult {
	res := pricing.DefaultTables().Calc(p)
	return pricing.TotalsResult{Subtotal: res.Subtotal, Tax: res.Tax, Total: res.Total}
}

func TestProjects_CreateGetRoundTrip(t *testing.T) {
	repo := NewProjects(openTestDB(t))
	repo.now = fixedClock()
	ctx := context.Background()

	p := sampleProject("City archive", "Records office")
	created, err := repo.Create(ctx, p, totalsOf(p))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Empty(t, got.Warnings)
	require.Equal(t, "City archive", got.Name)
	require.Equal(t, project.TierStandard, got.Tier)
	require.Equal(t, p, got.Data)
	require.True(t, got.Total.Equal(created.Total), "total %s != %s", got.Total, created.Total)
	require.True(t, got.Totals.Subtotal.Equal(created.Totals.Subtotal))
	require.True(t, created.CreatedAt.Equal(got.CreatedAt), "created_at %s != %s", got.CreatedAt, created.CreatedAt)
}

func TestProjects_UpdateAndNotFound(t *testing.T) {
	repo := NewProjects(openTestDB(t))
	repo.now = fixedClock()
	ctx := context.Background()

	p := sampleProject("Draft", "")
	created, err := repo.Create(ctx, p, totalsOf(p))
	require.NoError(t, err)

	p.ProjectName = "Final"
	p.Tier = project.TierPremium
	updated, err := repo.Update(ctx, created.ID, p, totalsOf(p))
	require.NoError(t, err)
	require.Equal(t, "Final", updated.Name)
	require.Equal(t, project.TierPremium, updated.Data.Tier)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = repo.Update(ctx, "missing", p, totalsOf(p))
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProjects_ListNewestFirstWithSearch(t *testing.T) {
	repo := NewProjects(openTestDB(t))
	repo.now = fixedClock()
	ctx := context.Background()

	for _, p := range []project.ProjectData{
		sampleProject("Maps", "Harbour authority"),
		sampleProject("Ledgers", "City council"),
		sampleProject("Photos", "Harbour museum"),
	} {
		_, err := repo.Create(ctx, p, totalsOf(p))
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Photos", all[0].Name)
	require.Equal(t, "Maps", all[2].Name)

	harbour, err := repo.List(ctx, "harbour", 0)
	require.NoError(t, err)
	require.Len(t, harbour, 2)

	limited, err := repo.List(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestProjects_ListOrdersSubSecondUpdates(t *testing.T) {
	repo := NewProjects(openTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	for _, step := range []struct {
		name string
		at   time.Time
	}{
		{"Whole second", base},
		{"Half second", base.Add(500 * time.Millisecond)},
	} {
		repo.now = func() time.Time { return step.at }
		p := sampleProject(step.name, "")
		_, err := repo.Create(ctx, p, totalsOf(p))
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Half second", all[0].Name)
	require.True(t, all[1].UpdatedAt.Equal(base), "updated_at %s != %s", all[1].UpdatedAt, base)
}

func TestProjects_CreateInsideTransaction(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	tx, err := conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	repo := NewProjects(tx)
	p := sampleProject("Scoped", "")
	_, err = repo.Create(ctx, p, totalsOf(p))
	require.NoError(t, err)
	exists, err := repo.ExistsByName(ctx, "Scoped")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, tx.Rollback())

	exists, err = NewProjects(conn).ExistsByName(ctx, "Scoped")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestProjects_Delete(t *testing.T) {
	repo := NewProjects(openTestDB(t))
	ctx := context.Background()

	p := sampleProject("Temp", "")
	created, err := repo.Create(ctx, p, totalsOf(p))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.ErrorIs(t, repo.Delete(ctx, created.ID), ErrNotFound)
}

func TestProjects_GetToleratesDriftedPayload(t *testing.T) {
	conn := openTestDB(t)
	repo := NewProjects(conn)
	ctx := context.Background()

	_, err := conn.ExecContext(ctx, `
		INSERT INTO projects (id, name, data_json, totals_json, created_at, updated_at)
		VALUES ('old', 'Legacy', '{"projectName":"Legacy","workItems":"oops"}', 'not json', '', '')
	`)
	require.NoError(t, err)

	got, err := repo.Get(ctx, "old")
	require.NoError(t, err)
	require.Equal(t, "Legacy", got.Data.ProjectName)
	require.GreaterOrEqual(t, len(got.Warnings), 2)
	require.Contains(t, got.Warnings[len(got.Warnings)-1], "stored totals")
	require.True(t, got.Total.Equal(decimal.Zero))
}

func TestProjects_GetRejectsNonObjectPayload(t *testing.T) {
	conn := openTestDB(t)
	repo := NewProjects(conn)
	ctx := context.Background()

	_, err := conn.ExecContext(ctx, `
		INSERT INTO projects (id, data_json, created_at, updated_at) VALUES ('bad', '[1,2]', '', '')
	`)
	require.NoError(t, err)

	_, err = repo.Get(ctx, "bad")
	require.ErrorIs(t, err, project.ErrNotObject)
}

func TestUsers_ByEmail(t *testing.T) {
	conn := openTestDB(t)
	users := NewUsers(conn)
	ctx := context.Background()

	_, err := conn.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, "ops@example.com", "hash")
	require.NoError(t, err)

	u, err := users.ByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	require.Equal(t, "hash", u.PasswordHash)
	require.Equal(t, "admin", u.Role)
	require.False(t, u.CreatedAt.IsZero())

	_, err = users.ByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}
