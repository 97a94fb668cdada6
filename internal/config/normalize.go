package config

import "strings"

func normalizeAppConfig(cfg *AppConfig) {
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.Paths = normalizeRuntimePaths(cfg.Paths)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile
	}
	if cfg.Log.RotateSizeMB <= 0 {
		cfg.Log.RotateSizeMB = defaultLogRotateMB
	}
	if cfg.Log.RotateKeep <= 0 {
		cfg.Log.RotateKeep = defaultLogRotateKeep
	}
	cfg.Blog = normalizeBlogOptions(cfg.Blog)
	cfg.Backup.S3 = mergeS3Options(S3Options{}, cfg.Backup.S3)
}

func normalizeProfile(profile string) string {
	trimmed := strings.ToLower(strings.TrimSpace(profile))
	if trimmed == "" {
		return ProfileDevelopment
	}
	return trimmed
}

func normalizeDatabaseConfig(cfg DatabaseRuntimeConfig) DatabaseRuntimeConfig {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	cfg.DSN = strings.TrimSpace(cfg.DSN)
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.User = strings.TrimSpace(cfg.User)
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Charset = strings.TrimSpace(cfg.Charset)
	cfg.Loc = strings.TrimSpace(cfg.Loc)

	if cfg.Driver == "sqlite3" {
		cfg.Driver = DriverSQLite
	}
	if cfg.Host == "" {
		cfg.Host = defaultDBHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultDBPort
	}
	if cfg.User == "" {
		cfg.User = defaultDBUser
	}
	if cfg.Name == "" {
		cfg.Name = defaultDBName
	}
	if cfg.Charset == "" {
		cfg.Charset = defaultDBCharset
	}
	if cfg.Loc == "" {
		cfg.Loc = defaultDBLoc
	}
	if cfg.Params != nil {
		cfg.Params = copyStringMap(cfg.Params)
	}
	return cfg
}

func normalizeRedisConfig(cfg RedisRuntimeConfig) RedisRuntimeConfig {
	cfg.URL = normalizeRedisRawURL(cfg.URL)
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.Username = strings.TrimSpace(cfg.Username)
	cfg.Password = strings.TrimSpace(cfg.Password)

	if cfg.Host == "" && cfg.URL == "" {
		cfg.Host = defaultRedisHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultRedisPort
	}
	return cfg
}

func normalizeRedisRawURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "redis://") || strings.HasPrefix(trimmed, "rediss://") {
		return trimmed
	}
	return "redis://" + trimmed
}

func normalizeBlogOptions(o BlogOptions) BlogOptions {
	if o.PostPerPage <= 0 {
		o.PostPerPage = defaultPostPerPage
	}
	if o.ManagePostPerPage <= 0 {
		o.ManagePostPerPage = defaultManagePostPerPage
	}
	if o.CommentPerPage <= 0 {
		o.CommentPerPage = defaultCommentPerPage
	}
	if o.ManageCommentPerPage <= 0 {
		o.ManageCommentPerPage = defaultManageCommentPerPage
	}
	return o
}

func mergeS3Options(current, raw S3Options) S3Options {
	if v := strings.TrimSpace(raw.Bucket); v != "" {
		current.Bucket = v
	}
	if v := strings.TrimSpace(raw.Region); v != "" {
		current.Region = v
	}
	if v := strings.TrimRight(strings.TrimSpace(raw.Endpoint), "/"); v != "" {
		current.Endpoint = v
	}
	if v := strings.TrimSpace(raw.AccessKeyID); v != "" {
		current.AccessKeyID = v
	}
	if v := strings.TrimSpace(raw.SecretAccessKey); v != "" {
		current.SecretAccessKey = v
	}
	if raw.PathStyleAccess {
		current.PathStyleAccess = true
	}
	if v := strings.Trim(strings.TrimSpace(raw.Prefix), "/"); v != "" {
		current.Prefix = v
	}
	return current
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeRuntimePaths(paths RuntimePathsConfig) RuntimePathsConfig {
	paths.Logs = strings.TrimSpace(paths.Logs)
	paths.Backups = strings.TrimSpace(paths.Backups)
	return paths
}

func copyStringMap(input map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}
