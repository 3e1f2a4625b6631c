package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values. Secrets have no
// in-code defaults and must come from the config file or the environment.
type AppConfig struct {
	AppPort             string
	GinMode             string
	JWTSecret           string
	AccessTokenMinutes  int
	RefreshTokenDays    int
	RateLimitPerMinute  int
	AllowedOrigins      []string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	RedisHost           string
	RedisPort           int
	RedisDB             int
	RedisPassword       string
	OSSEndpoint         string
	OSSAccessKeyID      string
	OSSAccessKeySecret  string
	OSSBucket           string
	OSSMediaRoot        string
	PresignExpireSec    int
	UploadMaxBytes      int64
	UploadMaxFiles      int
	LogLevel            string
	LogPath             string
	LogMaxSizeMB        int
	LogMaxBackups       int
	LogMaxAgeDays       int
	LogCompress         bool
}

var cfg AppConfig
var loaded bool

// Load reads configuration once during boot. Precedence:
// config/config.json -> defaults -> environment variable overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// loadJSONConfig reads grouped JSON sections into cfg if the file is present.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // missing file is fine
	}
	defer f.Close()

	var raw map[string]map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	getString := func(section, key string) string {
		if m, ok := raw[section]; ok {
			if s, ok := m[key].(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(section, key string) int {
		if m, ok := raw[section]; ok {
			if f, ok := m[key].(float64); ok {
				return int(f)
			}
		}
		return 0
	}
	getBool := func(section, key string) bool {
		if m, ok := raw[section]; ok {
			if b, ok := m[key].(bool); ok {
				return b
			}
		}
		return false
	}
	getList := func(section, key string) []string {
		m, ok := raw[section]
		if !ok {
			return nil
		}
		arr, ok := m[key].([]any)
		if !ok {
			return nil
		}
		res := make([]string, 0, len(arr))
		for _, it := range arr {
			if s, ok := it.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}

	out.AppPort = getString("app", "AppPort")
	out.GinMode = getString("app", "GinMode")
	out.JWTSecret = getString("app", "JWTSecret")
	out.AccessTokenMinutes = getInt("app", "AccessTokenMinutes")
	out.RefreshTokenDays = getInt("app", "RefreshTokenDays")
	out.RateLimitPerMinute = getInt("app", "RateLimitPerMinute")
	out.AllowedOrigins = getList("app", "AllowedOrigins")

	out.DBHost = getString("database", "DBHost")
	out.DBPort = getString("database", "DBPort")
	out.DBUser = getString("database", "DBUser")
	out.DBPassword = getString("database", "DBPassword")
	out.DBName = getString("database", "DBName")

	out.RedisHost = getString("redis", "RedisHost")
	out.RedisPort = getInt("redis", "RedisPort")
	out.RedisDB = getInt("redis", "RedisDB")
	out.RedisPassword = getString("redis", "RedisPassword")

	out.OSSEndpoint = getString("oss", "Endpoint")
	out.OSSAccessKeyID = getString("oss", "AccessKeyID")
	out.OSSAccessKeySecret = getString("oss", "AccessKeySecret")
	out.OSSBucket = getString("oss", "Bucket")
	out.OSSMediaRoot = getString("oss", "MediaRoot")
	out.PresignExpireSec = getInt("oss", "PresignExpireSec")
	out.UploadMaxBytes = int64(getInt("oss", "UploadMaxBytes"))
	out.UploadMaxFiles = getInt("oss", "UploadMaxFiles")

	out.LogLevel = getString("log", "Level")
	out.LogPath = getString("log", "Path")
	out.LogMaxSizeMB = getInt("log", "MaxSizeMB")
	out.LogMaxBackups = getInt("log", "MaxBackups")
	out.LogMaxAgeDays = getInt("log", "MaxAgeDays")
	out.LogCompress = getBool("log", "Compress")

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.AccessTokenMinutes == 0 {
		c.AccessTokenMinutes = 30
	}
	if c.RefreshTokenDays == 0 {
		c.RefreshTokenDays = 14
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "unihub"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.OSSMediaRoot == "" {
		c.OSSMediaRoot = "media-root"
	}
	if c.PresignExpireSec == 0 {
		c.PresignExpireSec = 3600
	}
	if c.UploadMaxBytes == 0 {
		c.UploadMaxBytes = 10 << 20
	}
	if c.UploadMaxFiles == 0 {
		c.UploadMaxFiles = 20
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values.
func applyEnvOverrides(c *AppConfig) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				log.Fatalf("invalid integer value for %s: %v", key, err)
			}
			*dst = n
		}
	}

	setString("APP_PORT", &c.AppPort)
	setString("GIN_MODE", &c.GinMode)
	setString("JWT_SECRET", &c.JWTSecret)
	setInt("ACCESS_TOKEN_MINUTES", &c.AccessTokenMinutes)
	setInt("REFRESH_TOKEN_DAYS", &c.RefreshTokenDays)
	setInt("RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}

	setString("DB_HOST", &c.DBHost)
	setString("DB_PORT", &c.DBPort)
	setString("DB_USER", &c.DBUser)
	setString("DB_PASSWORD", &c.DBPassword)
	setString("DB_NAME", &c.DBName)

	setString("REDIS_HOST", &c.RedisHost)
	setInt("REDIS_PORT", &c.RedisPort)
	setInt("REDIS_DB", &c.RedisDB)
	setString("REDIS_PASSWORD", &c.RedisPassword)

	setString("OSS_ENDPOINT", &c.OSSEndpoint)
	setString("OSS_ACCESS_KEY_ID", &c.OSSAccessKeyID)
	setString("OSS_ACCESS_KEY_SECRET", &c.OSSAccessKeySecret)
	setString("OSS_BUCKET", &c.OSSBucket)
	setString("OSS_MEDIA_ROOT", &c.OSSMediaRoot)
	setInt("PRESIGN_EXPIRE_SEC", &c.PresignExpireSec)
	if v := os.Getenv("UPLOAD_MAX_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("invalid integer value for UPLOAD_MAX_BYTES: %v", err)
		}
		c.UploadMaxBytes = n
	}
	setInt("UPLOAD_MAX_FILES", &c.UploadMaxFiles)

	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_PATH", &c.LogPath)
	setInt("LOG_MAX_SIZE_MB", &c.LogMaxSizeMB)
	setInt("LOG_MAX_BACKUPS", &c.LogMaxBackups)
	setInt("LOG_MAX_AGE_DAYS", &c.LogMaxAgeDays)
	if v := os.Getenv("LOG_COMPRESS"); v != "" {
		c.LogCompress = v == "true"
	}
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
