package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// ProfileFromEnv returns the profile named by BLOG_CONFIG, then FLASK_CONFIG,
// or development.
func ProfileFromEnv() string {
	profile := strings.TrimSpace(os.Getenv(EnvProfile))
	if profile == "" {
		profile = os.Getenv(EnvProfileLegacy)
	}
	return normalizeProfile(profile)
}

// Load builds the configuration for a profile. An empty profile falls back to
// BLOG_CONFIG. The YAML file at configPath is overlaid on the profile defaults;
// when configPath is empty the default path is tried and may be absent.
func Load(profile, configPath string) (*AppConfig, error) {
	if strings.TrimSpace(profile) == "" {
		profile = ProfileFromEnv()
	}
	profile = normalizeProfile(profile)

	cfg, err := defaultAppConfig(profile)
	if err != nil {
		return nil, err
	}

	path := strings.TrimSpace(configPath)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		raw := rawAppConfig{}
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
		applyRawAppConfig(&cfg, raw)
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnv(&cfg)
	normalizeAppConfig(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Testing returns the testing profile defaults without reading any file.
func Testing() *AppConfig {
	cfg, _ := defaultAppConfig(ProfileTesting)
	normalizeAppConfig(&cfg)
	return &cfg
}

func defaultAppConfig(profile string) (AppConfig, error) {
	cfg := AppConfig{
		Profile:   profile,
		Port:      defaultPort,
		SecretKey: defaultSecretKey,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Log: LogConfig{
			Level:        "info",
			File:         defaultLogFile,
			RotateSizeMB: defaultLogRotateMB,
			RotateKeep:   defaultLogRotateKeep,
		},
		Blog: BlogOptions{
			PostPerPage:          defaultPostPerPage,
			ManagePostPerPage:    defaultManagePostPerPage,
			CommentPerPage:       defaultCommentPerPage,
			ManageCommentPerPage: defaultManageCommentPerPage,
		},
		CSRF:   CSRFOptions{Enable: true},
		Backup: BackupOptions{IntervalHours: defaultBackupIntervalHours},
	}

	switch profile {
	case ProfileDevelopment:
		cfg.Database.Driver = DriverSQLite
		cfg.Database.DSN = "data-dev.db"
		cfg.Log.Level = "debug"
	case ProfileTesting:
		cfg.Database.Driver = DriverSQLite
		cfg.Database.DSN = ":memory:"
		cfg.Log.Level = "error"
		cfg.CSRF.Enable = false
	case ProfileProduction:
		cfg.Database.Driver = DriverMySQL
		cfg.Log.ToFile = true
	default:
		return AppConfig{}, fmt.Errorf("unknown config profile %q, expected development, testing or production", profile)
	}
	return cfg, nil
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.SecretKey); v != "" {
		cfg.SecretKey = v
	}

	db := cfg.Database
	if v := strings.TrimSpace(raw.Database.Driver); v != "" && !strings.EqualFold(v, db.Driver) {
		// The profile's default DSN belongs to the old driver.
		db.Driver = v
		db.DSN = ""
	}
	if v := strings.TrimSpace(raw.Database.DSN); v != "" {
		db.DSN = v
	}
	if v := strings.TrimSpace(raw.Database.Host); v != "" {
		db.Host = v
	}
	if raw.Database.Port != 0 {
		db.Port = raw.Database.Port
	}
	if v := strings.TrimSpace(raw.Database.User); v != "" {
		db.User = v
	}
	if v := strings.TrimSpace(raw.Database.Password); v != "" {
		db.Password = v
	}
	if v := strings.TrimSpace(raw.Database.Name); v != "" {
		db.Name = v
	}
	if v := strings.TrimSpace(raw.Database.Charset); v != "" {
		db.Charset = v
	}
	if raw.Database.ParseTime != nil {
		db.ParseTime = *raw.Database.ParseTime
	}
	if v := strings.TrimSpace(raw.Database.Loc); v != "" {
		db.Loc = v
	}
	if raw.Database.Params != nil {
		db.Params = raw.Database.Params
	}
	cfg.Database = db

	rc := cfg.Redis
	if raw.Redis.Enable != nil {
		rc.Enable = *raw.Redis.Enable
	}
	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		rc.URL = v
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		rc.Host = v
	}
	if raw.Redis.Port != 0 {
		rc.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Username); v != "" {
		rc.Username = v
	}
	if v := strings.TrimSpace(raw.Redis.Password); v != "" {
		rc.Password = v
	}
	if raw.Redis.DB != nil {
		rc.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		rc.TLS = *raw.Redis.TLS
	}
	cfg.Redis = rc

	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.Paths.Backups); v != "" {
		cfg.Paths.Backups = v
	}

	if v := strings.TrimSpace(raw.Log.Level); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(raw.Log.File); v != "" {
		cfg.Log.File = v
	}
	if raw.Log.RotateSizeMB != 0 {
		cfg.Log.RotateSizeMB = raw.Log.RotateSizeMB
	}
	if raw.Log.RotateKeep != 0 {
		cfg.Log.RotateKeep = raw.Log.RotateKeep
	}

	if raw.Blog.PostPerPage != 0 {
		cfg.Blog.PostPerPage = raw.Blog.PostPerPage
	}
	if raw.Blog.ManagePostPerPage != 0 {
		cfg.Blog.ManagePostPerPage = raw.Blog.ManagePostPerPage
	}
	if raw.Blog.CommentPerPage != 0 {
		cfg.Blog.CommentPerPage = raw.Blog.CommentPerPage
	}
	if raw.Blog.ManageCommentPerPage != 0 {
		cfg.Blog.ManageCommentPerPage = raw.Blog.ManageCommentPerPage
	}

	if raw.CSRF.Enable != nil {
		cfg.CSRF.Enable = *raw.CSRF.Enable
	}

	if raw.Backup.Enable != nil {
		cfg.Backup.Enable = *raw.Backup.Enable
	}
	if raw.Backup.IntervalHours != 0 {
		cfg.Backup.IntervalHours = raw.Backup.IntervalHours
	}
	cfg.Backup.S3 = mergeS3Options(cfg.Backup.S3, raw.Backup.S3)

	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	}
	if raw.TrustedProxies != nil {
		cfg.TrustedProxies = nil
		for _, p := range raw.TrustedProxies {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
}

func applyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("SECRET_KEY")); v != "" {
		cfg.SecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.Redis.URL = v
		cfg.Redis.Enable = true
	}
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	switch cfg.Database.Driver {
	case DriverSQLite:
	case DriverMySQL:
		if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
			return fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
		}
		if _, err := mysql.ParseDSN(cfg.Database.DSNValue()); err != nil {
			return fmt.Errorf("invalid mysql dsn: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database.driver %q, expected sqlite or mysql", cfg.Database.Driver)
	}
	if cfg.Redis.Enable && (cfg.Redis.Port < 1 || cfg.Redis.Port > 65535) {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", cfg.Redis.Port)
	}
	if cfg.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", cfg.Redis.DB)
	}
	if cfg.Backup.IntervalHours < 1 {
		return fmt.Errorf("invalid backup.interval_hours %d, expected >= 1", cfg.Backup.IntervalHours)
	}
	return nil
}

// IsDev reports whether the profile runs in debug mode.
func (c *AppConfig) IsDev() bool {
	return c.Profile == ProfileDevelopment || c.Profile == ProfileTesting
}

// IsTesting reports whether the testing profile is active.
func (c *AppConfig) IsTesting() bool {
	return c.Profile == ProfileTesting
}

func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, "logs")
}

func (c *AppConfig) BackupDir() string {
	return ResolveRuntimePath(c.Paths.Backups, "backups")
}
