// Command apply loads generated pk-sync scripts into the local SQLite mirror.
//
// Usage:
//
//	OUT_DIR=".tmp/pk-sync" DB_PATH="pk.db" go run ./cmd/apply
package main

import (
	"context"
	"log"
	"path/filepath"
	"sort"

	"github.com/liuzy0419/pksync/config"
	bundb "github.com/liuzy0419/pksync/db"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	scripts, err := filepath.Glob(filepath.Join(cfg.OutDir, "pk-sync-*.sql"))
	if err != nil {
		log.Fatalf("list scripts: %v", err)
	}
	if len(scripts) == 0 {
		log.Fatalf("no pk-sync scripts in %s", cfg.OutDir)
	}
	sort.Strings(scripts)

	db := bundb.Setup(cfg)
	defer db.Close()

	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	total := 0
	for _, path := range scripts {
		n, err := bundb.ApplyScript(ctx, db, path)
		if err != nil {
			log.Fatalf("apply %s: %v", path, err)
		}
		log.Printf("applied %s: %d statements", filepath.Base(path), n)
		total += n
	}
	log.Printf("done: %d scripts, %d statements", len(scripts), total)
}
