package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexedwards/argon2id"

	"github.com/Simplici0/digiquote/internal/pricing"
	"github.com/Simplici0/digiquote/internal/project"
	"github.com/Simplici0/digiquote/internal/store"
)

const demoProjectName = "Demo: municipal records"

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	// Demo adds a sample project priced with Tables.
	Demo   bool
	Tables pricing.Tables
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(ctx, tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if cfg.Demo {
		if err := ensureDemoProject(ctx, tx, cfg.Tables, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, hash); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

// DemoProject is the sample project inserted by the demo seed.
func DemoProject() project.ProjectData {
	qty := 12.0
	price := 1800.0
	return project.ProjectData{
		ProjectName:     demoProjectName,
		ClientName:      "City records office",
		IssueDate:       "2025-05-20",
		Location:        "City hall basement",
		TransportMethod: "courier",
		Packing:         true,
		Tier:            project.TierStandard,
		InspectionDepth: project.InspectionFull,
		WorkItems: []project.WorkItem{
			{
				ID: "demo-ledgers", Title: "Bound council ledgers", Quantity: 1350, Unit: "page",
				SizeClass: project.SizeA3, Resolution: project.Res400, ColorMode: project.ColorGrayscale,
				Formats: []project.FileFormat{project.FormatTIFF, project.FormatPDF}, OCR: true,
				Metadata: project.MetadataBasic, Fragile: true,
			},
			{
				ID: "demo-maps", Title: "Survey maps", Quantity: 80, Unit: "sheet",
				SizeClass: project.SizeA0, Resolution: project.Res600, ColorMode: project.ColorFull,
				Formats: []project.FileFormat{project.FormatTIFF, project.FormatPDFA}, Metadata: project.MetadataDetailed,
				NonContact: true,
			},
		},
		MiscExpenses: []project.MiscExpense{
			{ID: "demo-boxes", Label: "Archival boxes", Quantity: &qty, Unit: "box", UnitPrice: &price, CalcType: project.CalcExpense},
		},
	}
}

func ensureDemoProject(ctx context.Context, tx *sql.Tx, tables pricing.Tables, stats *Stats) error {
	projects := store.NewProjects(tx)
	exists, err := projects.ExistsByName(ctx, demoProjectName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	p := DemoProject()
	res := tables.Calc(p)
	if _, err := projects.Create(ctx, p, pricing.TotalsResult{Subtotal: res.Subtotal, Tax: res.Tax, Total: res.Total}); err != nil {
		return fmt.Errorf("insert demo project: %w", err)
	}
	stats.Inserts++
	return nil
}
