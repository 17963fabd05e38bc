package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env           string
	Debug         bool
	Protocol      string
	Host          string
	Port          int
	APIPrefix     string
	PublicBaseURL string

	TLS     TLSConfig
	Admin   AdminConfig
	JWT     JWTConfig
	CORS    CORSConfig
	Log     LogConfig
	Store   StoreConfig
	Uploads UploadConfig
}

// TLSConfig carries server certificate material. Either a PEM pair or a
// PKCS#12 bundle may be supplied; provisioning certificates is out of scope.
type TLSConfig struct {
	CertificateFile string
	KeyFile         string
	PKCS12File      string
	PKCS12Password  string
}

// AdminUser is a statically configured administrator credential. Secret is a
// bcrypt hash when it starts with "$2"; anything else is treated as plaintext
// for compatibility with legacy config files.
type AdminUser struct {
	Username string
	Secret   string
}

type AdminConfig struct {
	Users []AdminUser
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	CookieName string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig locates the JSON document directory.
type StoreConfig struct {
	DataDir string
}

// UploadConfig controls upload validation and placement.
type UploadConfig struct {
	JournalsDir     string
	AssetsDir       string
	MaxFileBytes    int64
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Debug = v.GetBool("DEBUG")
	cfg.Protocol = strings.ToLower(v.GetString("PROTOCOL"))
	cfg.Host = v.GetString("HOST")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.PublicBaseURL = strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/")

	cfg.TLS = TLSConfig{
		CertificateFile: v.GetString("SSL_CERTIFICATE"),
		KeyFile:         v.GetString("SSL_KEY"),
		PKCS12File:      v.GetString("SSL_PKCS12"),
		PKCS12Password:  v.GetString("SSL_PKCS12_PASSWORD"),
	}

	cfg.Admin = AdminConfig{Users: parseAdminUsers(v.GetString("ADMIN_USERS"))}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		CookieName: v.GetString("SESSION_COOKIE_NAME"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Store = StoreConfig{DataDir: v.GetString("DATA_DIR")}

	maxUpload := v.GetInt64("UPLOAD_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 16 * 1024 * 1024
	}
	cfg.Uploads = UploadConfig{
		JournalsDir:     v.GetString("UPLOAD_JOURNALS_DIR"),
		AssetsDir:       v.GetString("UPLOAD_ASSETS_DIR"),
		MaxFileBytes:    maxUpload,
		SignedURLSecret: v.GetString("UPLOAD_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("UPLOAD_SIGNED_URL_TTL"), 30*time.Minute),
	}

	return cfg, nil
}

// BaseURL returns the externally reachable root for building public links.
func (c *Config) BaseURL() string {
	if c.PublicBaseURL != "" {
		return c.PublicBaseURL
	}
	protocol := c.Protocol
	if protocol == "" {
		protocol = "http"
	}
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	base := protocol + "://" + host
	if c.Port > 0 {
		base += ":" + strconv.Itoa(c.Port)
	}
	return base
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("DEBUG", false)
	v.SetDefault("PROTOCOL", "http")
	v.SetDefault("HOST", "localhost")
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("PUBLIC_BASE_URL", "")

	v.SetDefault("SSL_CERTIFICATE", "")
	v.SetDefault("SSL_KEY", "")
	v.SetDefault("SSL_PKCS12", "")
	v.SetDefault("SSL_PKCS12_PASSWORD", "")

	v.SetDefault("ADMIN_USERS", "")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("SESSION_COOKIE_NAME", "portal_session")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DATA_DIR", "./data")

	v.SetDefault("UPLOAD_JOURNALS_DIR", "./uploads/journals")
	v.SetDefault("UPLOAD_ASSETS_DIR", "./uploads/assets")
	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 16*1024*1024)
	v.SetDefault("UPLOAD_SIGNED_URL_SECRET", "dev_uploads_secret")
	v.SetDefault("UPLOAD_SIGNED_URL_TTL", "30m")
}

// parseAdminUsers decodes "user:secret,user:secret" pairs. Secrets may be
// bcrypt hashes; bcrypt output never contains ':' so the first colon splits.
func parseAdminUsers(raw string) []AdminUser {
	entries := splitAndTrim(raw)
	users := make([]AdminUser, 0, len(entries))
	for _, entry := range entries {
		idx := strings.Index(entry, ":")
		if idx <= 0 || idx == len(entry)-1 {
			continue
		}
		users = append(users, AdminUser{
			Username: entry[:idx],
			Secret:   entry[idx+1:],
		})
	}
	return users
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
