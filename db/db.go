package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/liuzy0419/pksync/config"
	"github.com/liuzy0419/pksync/models"
)

// Setup opens the SQLite mirror using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open database:", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Calendar)(nil),
		(*models.Language)(nil),
		(*models.CourseNature)(nil),
		(*models.Assessment)(nil),
		(*models.Campus)(nil),
		(*models.Faculty)(nil),
		(*models.Major)(nil),
		(*models.CourseDetail)(nil),
		(*models.Teacher)(nil),
		(*models.MajorAndCourse)(nil),
		(*models.FetchLog)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	return nil
}
