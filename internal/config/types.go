package config

// AppConfig holds runtime startup configuration for one profile.
type AppConfig struct {
	Profile        string
	Port           int
	SecretKey      string
	Database       DatabaseRuntimeConfig
	Redis          RedisRuntimeConfig
	Paths          RuntimePathsConfig
	Log            LogConfig
	Blog           BlogOptions
	CSRF           CSRFOptions
	Backup         BackupOptions
	AllowedOrigins []string
	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the socket address is always the client IP.
	TrustedProxies []string
	Timezone       string
}

type DatabaseRuntimeConfig struct {
	Driver    string            `yaml:"driver"` // "sqlite" | "mysql"
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	Enable   bool   `yaml:"enable"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type RuntimePathsConfig struct {
	Logs    string `yaml:"logs"`
	Backups string `yaml:"backups"`
}

type LogConfig struct {
	Level        string `yaml:"level"`
	File         string `yaml:"file"`
	RotateSizeMB int    `yaml:"rotate_size_mb"`
	RotateKeep   int    `yaml:"rotate_keep"`
	// ToFile enables the rotating file sink. Debug profiles log to stdout only.
	ToFile bool `yaml:"-"`
}

// BlogOptions are the page sizes used by the public blog and the dashboard.
type BlogOptions struct {
	PostPerPage          int `yaml:"post_per_page"`
	ManagePostPerPage    int `yaml:"manage_post_per_page"`
	CommentPerPage       int `yaml:"comment_per_page"`
	ManageCommentPerPage int `yaml:"manage_comment_per_page"`
}

type CSRFOptions struct {
	Enable bool `yaml:"enable"`
}

type BackupOptions struct {
	Enable        bool      `yaml:"enable"`
	IntervalHours int       `yaml:"interval_hours"`
	S3            S3Options `yaml:"s3"`
}

type S3Options struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyleAccess bool   `yaml:"path_style_access"`
	Prefix          string `yaml:"prefix"`
}

// Configured reports whether enough S3 settings are present to upload.
func (o S3Options) Configured() bool {
	return o.Bucket != "" && o.Region != "" && o.AccessKeyID != "" && o.SecretAccessKey != ""
}

type rawAppConfig struct {
	Port           int                `yaml:"port"`
	SecretKey      string             `yaml:"secret_key"`
	Database       rawDatabaseConfig  `yaml:"database"`
	Redis          rawRedisConfig     `yaml:"redis"`
	Paths          RuntimePathsConfig `yaml:"paths"`
	Log            rawLogConfig       `yaml:"log"`
	Blog           BlogOptions        `yaml:"blog"`
	CSRF           rawCSRFConfig      `yaml:"csrf"`
	Backup         rawBackupConfig    `yaml:"backup"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	TrustedProxies []string           `yaml:"trusted_proxies"`
	Timezone       string             `yaml:"timezone"`
}

type rawDatabaseConfig struct {
	Driver    string            `yaml:"driver"`
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	Enable   *bool  `yaml:"enable"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

type rawLogConfig struct {
	Level        string `yaml:"level"`
	File         string `yaml:"file"`
	RotateSizeMB int    `yaml:"rotate_size_mb"`
	RotateKeep   int    `yaml:"rotate_keep"`
}

type rawCSRFConfig struct {
	Enable *bool `yaml:"enable"`
}

type rawBackupConfig struct {
	Enable        *bool     `yaml:"enable"`
	IntervalHours int       `yaml:"interval_hours"`
	S3            S3Options `yaml:"s3"`
}
