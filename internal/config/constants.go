package config

const (
	// DefaultConfigPath is used when --config is not provided. A missing default file is not an error.
	DefaultConfigPath = "config.yml"
	// EnvProfile selects the configuration profile.
	EnvProfile = "BLOG_CONFIG"
	// EnvProfileLegacy is read when EnvProfile is unset, so existing deployments keep their profile.
	EnvProfileLegacy = "FLASK_CONFIG"

	ProfileDevelopment = "development"
	ProfileTesting     = "testing"
	ProfileProduction  = "production"

	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	defaultPort       = 5000
	defaultSecretKey  = "myblog-secret-change-me"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "myblog"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0

	defaultLogFile       = "blog.log"
	defaultLogRotateMB   = 10
	defaultLogRotateKeep = 10

	defaultPostPerPage          = 10
	defaultManagePostPerPage    = 15
	defaultCommentPerPage       = 15
	defaultManageCommentPerPage = 15

	defaultBackupIntervalHours = 24
)
