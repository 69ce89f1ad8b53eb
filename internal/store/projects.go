package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/digiquote/internal/pricing"
	"github.com/Simplici0/digiquote/internal/project"
)

const defaultListLimit = 50

// Summary is a saved project without its payload.
type Summary struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Client    string          `json:"client"`
	Tier      project.Tier    `json:"tier"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Record is a saved project snapshot with the totals computed at save time.
type Record struct {
	Summary
	Data   project.ProjectData  `json:"data"`
	Totals pricing.TotalsResult `json:"totals"`
	// Warnings lists fields of the stored payload that could not be decoded.
	Warnings []string `json:"warnings,omitempty"`
}

// Projects is the project repository.
type Projects struct {
	db  DBTX
	now func() time.Time
}

// NewProjects returns a repository backed by db, which may be a transaction.
func NewProjects(db DBTX) *Projects {
	return &Projects{db: db, now: time.Now}
}

// Create saves a new project and returns its record.
func (s *Projects) Create(ctx context.Context, p project.ProjectData, totals pricing.TotalsResult) (Record, error) {
	data, totalsJSON, err := encode(p, totals)
	if err != nil {
		return Record{}, err
	}

	now := s.now()
	rec := newRecord(uuid.NewString(), p, totals, now, now)
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, client, tier, data_json, totals_json, total, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Name, rec.Client, string(rec.Tier), data, totalsJSON, rec.Total.String(),
		formatTime(now), formatTime(now)); err != nil {
		return Record{}, fmt.Errorf("insert project: %w", err)
	}
	return rec, nil
}

// Update replaces the snapshot of an existing project.
func (s *Projects) Update(ctx context.Context, id string, p project.ProjectData, totals pricing.TotalsResult) (Record, error) {
	data, totalsJSON, err := encode(p, totals)
	if err != nil {
		return Record{}, err
	}

	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, client = ?, tier = ?, data_json = ?, totals_json = ?, total = ?, updated_at = ?
		WHERE id = ?
	`, p.ProjectName, p.ClientName, string(p.Tier), data, totalsJSON, totals.Total.String(), formatTime(now), id)
	if err != nil {
		return Record{}, fmt.Errorf("update project: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return Record{}, fmt.Errorf("update project: %w", err)
	} else if n == 0 {
		return Record{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Get loads one project. Fields of the payload that no longer decode are
// reported on Record.Warnings rather than failing the load.
func (s *Projects) Get(ctx context.Context, id string) (Record, error) {
	var (
		sum                  Summary
		tier, total          string
		data, totalsJSON     string
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, client, tier, data_json, totals_json, total, created_at, updated_at
		FROM projects
		WHERE id = ?
	`, id).Scan(&sum.ID, &sum.Name, &sum.Client, &tier, &data, &totalsJSON, &total, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("query project: %w", err)
	}
	sum.Tier = project.Tier(tier)
	sum.Total, _ = decimal.NewFromString(total)
	sum.CreatedAt = parseTime(createdAt)
	sum.UpdatedAt = parseTime(updatedAt)

	p, warnings, err := project.Decode([]byte(data))
	if err != nil {
		return Record{}, fmt.Errorf("decode project %s: %w", id, err)
	}
	var totals pricing.TotalsResult
	if err := json.Unmarshal([]byte(totalsJSON), &totals); err != nil {
		warnings = append(warnings, "stored totals: "+err.Error())
	}
	return Record{Summary: sum, Data: p, Totals: totals, Warnings: warnings}, nil
}

// List returns saved projects, most recently updated first. A non-empty
// query matches name or client as a case-insensitive substring.
func (s *Projects) List(ctx context.Context, query string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query = strings.TrimSpace(query)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, client, tier, total, created_at, updated_at
		FROM projects
		WHERE ? = '' OR name LIKE '%' || ? || '%' OR client LIKE '%' || ? || '%'
		ORDER BY updated_at DESC, id
		LIMIT ?
	`, query, query, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum                  Summary
			tier, total          string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Client, &tier, &total, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		sum.Tier = project.Tier(tier)
		sum.Total, _ = decimal.NewFromString(total)
		sum.CreatedAt = parseTime(createdAt)
		sum.UpdatedAt = parseTime(updatedAt)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

// ExistsByName reports whether a project with exactly this name is saved.
func (s *Projects) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE name = ? LIMIT 1)`, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check project existence: %w", err)
	}
	return exists, nil
}

// Delete removes a project.
func (s *Projects) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func encode(p project.ProjectData, totals pricing.TotalsResult) (string, string, error) {
	data, err := project.Encode(p)
	if err != nil {
		return "", "", err
	}
	t, err := json.Marshal(totals)
	if err != nil {
		return "", "", fmt.Errorf("encode totals: %w", err)
	}
	return string(data), string(t), nil
}

func newRecord(id string, p project.ProjectData, totals pricing.TotalsResult, created, updated time.Time) Record {
	return Record{
		Summary: Summary{
			ID:        id,
			Name:      p.ProjectName,
			Client:    p.ClientName,
			Tier:      p.Tier,
			Total:     totals.Total,
			CreatedAt: created.UTC(),
			UpdatedAt: updated.UTC(),
		},
		Data:   p,
		Totals: totals,
	}
}
