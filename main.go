// pksync fetches course arrangements from the university portal and writes
// one idempotent SQL refresh script per calendar period.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/liuzy0419/pksync/config"
	applog "github.com/liuzy0419/pksync/logger"
	"github.com/liuzy0419/pksync/onesystem"
	"github.com/liuzy0419/pksync/sync"
)

func main() {
	cfg := config.Load()
	cfg.ValidateSync()

	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	client, err := onesystem.NewClient(cfg.PortalBaseURL, logger)
	if err != nil {
		logger.Fatal("portal client", zap.Error(err))
	}
	if cfg.Cookie != "" {
		client.SetCookie(cfg.Cookie)
		color.Yellow("using PORTAL_COOKIE, skipping login")
	} else {
		color.White("logging in as %s ...", cfg.StudentNo)
		if err := client.Login(ctx, cfg.StudentNo, cfg.Password); err != nil {
			logger.Error("login failed", zap.Error(err))
			color.Red("login failed: %v", err)
			os.Exit(1)
		}
		color.Green("login ok")
	}

	summary, err := sync.Run(ctx, client, sync.Options{
		CalendarID: cfg.CalendarID,
		Depth:      cfg.Depth,
		PageSize:   cfg.PageSize,
		OutDir:     cfg.OutDir,
	}, logger)
	if err != nil {
		logger.Error("sync failed", zap.Error(err))
		color.Red("sync failed: %v", err)
		os.Exit(1)
	}

	renderSummary(summary)

	// One machine-readable line on stdout for calling scripts.
	line, err := json.Marshal(summary)
	if err != nil {
		logger.Error("marshal summary", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println(string(line))
}

func renderSummary(summary *sync.Summary) {
	table := tablewriter.NewWriter(color.Error)
	table.SetHeader([]string{"Calendar", "File", "Classes", "Elapsed"})
	for _, f := range summary.Files {
		table.Append([]string{
			strconv.Itoa(f.CalendarID),
			f.File,
			strconv.Itoa(f.Inserted),
			fmt.Sprintf("%.1fs", f.ElapsedSec),
		})
	}
	table.Render()
	color.Green("synced %d period(s)", len(summary.Files))
}
