// Command serve exposes the synced course mirror as a JSON query API.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/liuzy0419/pksync/config"
	"github.com/liuzy0419/pksync/db"
	"github.com/liuzy0419/pksync/handlers"
	applog "github.com/liuzy0419/pksync/logger"
	mw "github.com/liuzy0419/pksync/middleware"
)

func main() {
	cfg := config.Load()
	cfg.ValidateServe()

	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	h := handlers.New(bdb, cfg.JWTKey(), cfg.AdminPasswordHash)

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public query API
	e.GET("/api/getAllCalendar", h.Calendars)
	e.GET("/api/getAllCampus", h.Campuses)
	e.GET("/api/getAllFaculty", h.Faculties)
	e.GET("/api/getLatestUpdateTime", h.LatestUpdateTime)
	e.POST("/api/findGradeByCalendarId", h.GradesByCalendar)
	e.POST("/api/findMajorByGrade", h.MajorsByGrade)
	e.POST("/api/findCourseBySearch", h.SearchCourses)
	e.POST("/api/findCourseDetailByCode", h.CourseDetail)
	e.POST("/api/findCourseByTime", h.CoursesByTime)

	// Admin
	e.POST("/admin/signin", h.Signin)
	admin := e.Group("/admin", mw.JWT(cfg.JWTKey()))
	admin.GET("/fetchlogs", h.FetchLogs)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
