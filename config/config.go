// Package config loads application settings from a .env file and environment
// variables. Environment variables always take precedence over .env values.
package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// Portal – the course-management system the sync pipeline reads from.
	// Cookie, when set, bypasses the login flow entirely (the CI path).
	PortalBaseURL string
	StudentNo     string
	Password      string
	Cookie        string

	// Sync window and output.
	CalendarID int
	Depth      int
	PageSize   int
	OutDir     string

	// Local mirror (SQLite file used by cmd/apply and cmd/serve).
	DBPath string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// Admin auth for cmd/serve.
	JWTSecret         string
	AdminPasswordHash string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("PORTAL_BASE_URL", "https://1.tongji.edu.cn")
	v.SetDefault("DEPTH", 1)
	v.SetDefault("PAGE_SIZE", 200)
	v.SetDefault("OUT_DIR", ".tmp/pk-sync")
	v.SetDefault("DB_PATH", "pk.db")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		PortalBaseURL:     strings.TrimRight(v.GetString("PORTAL_BASE_URL"), "/"),
		StudentNo:         v.GetString("PORTAL_SNO"),
		Password:          v.GetString("PORTAL_PASSWD"),
		Cookie:            v.GetString("PORTAL_COOKIE"),
		CalendarID:        v.GetInt("CALENDAR_ID"),
		Depth:             v.GetInt("DEPTH"),
		PageSize:          v.GetInt("PAGE_SIZE"),
		OutDir:            v.GetString("OUT_DIR"),
		DBPath:            v.GetString("DB_PATH"),
		Debug:             v.GetBool("DEBUG"),
		Port:              v.GetString("PORT"),
		TLSDomains:        splitTrimmed(v.GetString("TLS_DOMAINS")),
		JWTSecret:         v.GetString("JWT_SECRET"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
	}

	if cfg.Depth < 1 {
		cfg.Depth = 1
	}
	return cfg
}

// ValidateSync checks the settings the sync binary cannot run without.
func (c *Config) ValidateSync() {
	if c.CalendarID <= 0 {
		log.Fatal("config: CALENDAR_ID must be a positive calendar id")
	}
	if c.PageSize <= 0 {
		log.Fatal("config: PAGE_SIZE must be positive")
	}
	if c.Cookie == "" && (c.StudentNo == "" || c.Password == "") {
		log.Fatal("config: PORTAL_COOKIE or PORTAL_SNO/PORTAL_PASSWD must be set")
	}
}

// ValidateServe checks the settings the API server cannot run without.
func (c *Config) ValidateServe() {
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
	if c.AdminPasswordHash == "" {
		log.Fatal("config: ADMIN_PASSWORD_HASH must be set")
	}
	if !c.Debug && len(c.TLSDomains) == 0 {
		log.Fatal("config: TLS_DOMAINS must be set outside debug mode")
	}
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (CI uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
