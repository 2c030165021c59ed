package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	Env            string                `yaml:"env"` // "development" | "production"
	Timezone       string                `yaml:"timezone"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	RedisURL       string                `yaml:"redis_url"`
	Site           SiteConfig            `yaml:"site"`
	CMS            CMSConfig             `yaml:"cms"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Engagement     EngagementConfig      `yaml:"engagement"`
	Mail           MailConfig            `yaml:"mail"`
	HTTPCache      HTTPCacheConfig       `yaml:"http_cache"`
	RateLimit      RateLimitConfig       `yaml:"rate_limit"`
	Paths          RuntimePathsConfig    `yaml:"paths"`
}

// SiteConfig describes the public site. URL has no trailing slash.
type SiteConfig struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

type CMSConfig struct {
	URL      string        `yaml:"url"`
	APIToken string        `yaml:"api_token"`
	Timeout  time.Duration `yaml:"timeout"`
}

type DatabaseRuntimeConfig struct {
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
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       int               `yaml:"db"`
	TLS      bool              `yaml:"tls"`
	Params   map[string]string `yaml:"params"`
}

type EngagementConfig struct {
	Driver string `yaml:"driver"`
}

type MailConfig struct {
	Provider    string     `yaml:"provider"`
	From        string     `yaml:"from"`
	FromName    string     `yaml:"from_name"`
	ReplyTo     string     `yaml:"reply_to"`
	SendGridKey string     `yaml:"sendgrid_api_key"`
	ResendKey   string     `yaml:"resend_api_key"`
	SMTP        SMTPConfig `yaml:"smtp"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

// HTTPCacheConfig controls the Redis page cache. PurgeToken enables
// POST /api/cache/purge for CMS publish webhooks.
type HTTPCacheConfig struct {
	Enable     bool          `yaml:"enable"`
	TTL        time.Duration `yaml:"ttl"`
	PurgeToken string        `yaml:"purge_token"`
}

// RateLimitConfig bounds newsletter signups per client ip.
type RateLimitConfig struct {
	Newsletter       int           `yaml:"newsletter"`
	NewsletterWindow time.Duration `yaml:"newsletter_window"`
}

type RuntimePathsConfig struct {
	Logs   string `yaml:"logs"`
	Static string `yaml:"static"`
}

type rawAppConfig struct {
	Port               int               `yaml:"port"`
	Env                string            `yaml:"env"`
	NodeEnv            string            `yaml:"node_env"`
	Timezone           string            `yaml:"timezone"`
	TZ                 string            `yaml:"tz"`
	AllowedOrigins     []string          `yaml:"allowed_origins"`
	CORSAllowedOrigins []string          `yaml:"cors_allowed_origins"`
	DSN                string            `yaml:"dsn"`
	DatabaseURL        string            `yaml:"database_url"`
	RedisURL           string            `yaml:"redis_url"`
	SiteURL            string            `yaml:"site_url"`
	StrapiURL          string            `yaml:"strapi_url"`
	StrapiAPIToken     string            `yaml:"strapi_api_token"`
	SendGridAPIKey     string            `yaml:"sendgrid_api_key"`
	FromEmail          string            `yaml:"from_email"`
	Site               SiteConfig        `yaml:"site"`
	CMS                rawCMSConfig      `yaml:"cms"`
	Database           rawDatabaseConfig `yaml:"database"`
	Redis              rawRedisConfig    `yaml:"redis"`
	Engagement         EngagementConfig  `yaml:"engagement"`
	Mail               MailConfig        `yaml:"mail"`
	HTTPCache          rawHTTPCache      `yaml:"http_cache"`
	RateLimit          rawRateLimit      `yaml:"rate_limit"`
	Paths              rawPathsConfig    `yaml:"paths"`
	LogDir             string            `yaml:"log_dir"`
}

type rawCMSConfig struct {
	URL      string `yaml:"url"`
	APIToken string `yaml:"api_token"`
	Token    string `yaml:"token"`
	Timeout  string `yaml:"timeout"`
}

type rawDatabaseConfig struct {
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       *int              `yaml:"db"`
	TLS      *bool             `yaml:"tls"`
	Params   map[string]string `yaml:"params"`
}

type rawHTTPCache struct {
	Enable     *bool  `yaml:"enable"`
	TTL        string `yaml:"ttl"`
	PurgeToken string `yaml:"purge_token"`
}

type rawRateLimit struct {
	Newsletter       *int   `yaml:"newsletter"`
	NewsletterWindow string `yaml:"newsletter_window"`
}

type rawPathsConfig struct {
	Logs   string `yaml:"logs"`
	Static string `yaml:"static"`
}

// Load reads the YAML file at configPath. ${VAR} references are expanded
// from the environment before decoding; unknown keys are rejected.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes an in-memory YAML document.
func Parse(content []byte) (*AppConfig, error) {
	cfg := defaultAppConfig()
	raw := rawAppConfig{}
	content = expandEnv(content)
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}

	if err := applyRawAppConfig(&cfg, raw); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", c.Redis.DB)
	}
	switch c.Engagement.Driver {
	case EngagementRedis, EngagementMySQL, EngagementMemory:
	default:
		return fmt.Errorf("invalid engagement.driver %q, expected redis, mysql or memory", c.Engagement.Driver)
	}
	switch c.Mail.Provider {
	case "sendgrid", "resend", "smtp":
	default:
		return fmt.Errorf("invalid mail.provider %q, expected sendgrid, resend or smtp", c.Mail.Provider)
	}
	if c.CMS.Timeout <= 0 {
		return fmt.Errorf("invalid cms.timeout %s, expected > 0", c.CMS.Timeout)
	}
	return nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Site: SiteConfig{
			Name:        defaultSiteName,
			URL:         defaultSiteURL,
			Description: defaultSiteDescription,
		},
		CMS: CMSConfig{
			URL:     defaultCMSURL,
			Timeout: defaultCMSTimeout,
		},
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
		Engagement: EngagementConfig{Driver: defaultEngagement},
		Mail:       MailConfig{Provider: defaultMailProvider},
		HTTPCache:  HTTPCacheConfig{TTL: defaultCacheTTL},
		RateLimit: RateLimitConfig{
			Newsletter:       defaultNewsletterLimit,
			NewsletterWindow: defaultNewsletterSpan,
		},
	}
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := firstNonEmpty(raw.NodeEnv, raw.Env); v != "" {
		cfg.Env = v
	}
	if v := firstNonEmpty(raw.TZ, raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSAllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSAllowedOrigins)
	}

	if v := firstNonEmpty(raw.SiteURL, raw.Site.URL); v != "" {
		cfg.Site.URL = v
	}
	if v := strings.TrimSpace(raw.Site.Name); v != "" {
		cfg.Site.Name = v
	}
	if v := strings.TrimSpace(raw.Site.Description); v != "" {
		cfg.Site.Description = v
	}

	if err := applyRawCMSConfig(&cfg.CMS, raw); err != nil {
		return err
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)

	if v := strings.TrimSpace(raw.Engagement.Driver); v != "" {
		cfg.Engagement.Driver = strings.ToLower(v)
	}
	cfg.Mail = applyRawMailConfig(cfg.Mail, raw)

	if raw.HTTPCache.Enable != nil {
		cfg.HTTPCache.Enable = *raw.HTTPCache.Enable
	}
	if v := strings.TrimSpace(raw.HTTPCache.PurgeToken); v != "" {
		cfg.HTTPCache.PurgeToken = v
	}
	if ttl, err := parseDuration("http_cache.ttl", raw.HTTPCache.TTL); err != nil {
		return err
	} else if ttl > 0 {
		cfg.HTTPCache.TTL = ttl
	}
	if raw.RateLimit.Newsletter != nil {
		cfg.RateLimit.Newsletter = *raw.RateLimit.Newsletter
	}
	if window, err := parseDuration("rate_limit.newsletter_window", raw.RateLimit.NewsletterWindow); err != nil {
		return err
	} else if window > 0 {
		cfg.RateLimit.NewsletterWindow = window
	}

	if v := firstNonEmpty(raw.LogDir, raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.Paths.Static); v != "" {
		cfg.Paths.Static = v
	}

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	cfg.Site = normalizeSiteConfig(cfg.Site)
	cfg.CMS.URL = trimURL(cfg.CMS.URL)
	cfg.Env = normalizeEnv(cfg.Env)
	return nil
}

func applyRawCMSConfig(cfg *CMSConfig, raw rawAppConfig) error {
	if v := firstNonEmpty(raw.StrapiURL, raw.CMS.URL); v != "" {
		cfg.URL = v
	}
	if v := firstNonEmpty(raw.StrapiAPIToken, raw.CMS.Token, raw.CMS.APIToken); v != "" {
		cfg.APIToken = v
	}
	timeout, err := parseDuration("cms.timeout", raw.CMS.Timeout)
	if err != nil {
		return err
	}
	if timeout != 0 {
		cfg.Timeout = timeout
	}
	return nil
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current
	if v := firstNonEmpty(raw.DatabaseURL, raw.DSN, raw.Database.URL, raw.Database.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Database.Host); v != "" {
		cfg.Host = v
	}
	if raw.Database.Port != 0 {
		cfg.Port = raw.Database.Port
	}
	if v := firstNonEmpty(raw.Database.Username, raw.Database.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Database.Password); v != "" {
		cfg.Password = v
	}
	if v := firstNonEmpty(raw.Database.DBName, raw.Database.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Database.Charset); v != "" {
		cfg.Charset = v
	}
	if raw.Database.ParseTime != nil {
		cfg.ParseTime = *raw.Database.ParseTime
	}
	if v := strings.TrimSpace(raw.Database.Loc); v != "" {
		cfg.Loc = v
	}
	if raw.Database.Params != nil {
		cfg.Params = copyStringMap(raw.Database.Params)
	}
	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current
	if v := firstNonEmpty(raw.RedisURL, raw.Redis.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		cfg.Host = v
	}
	if raw.Redis.Port != 0 {
		cfg.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(raw.Redis.Password); v != "" {
		cfg.Password = v
	}
	if raw.Redis.DB != nil {
		cfg.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		cfg.TLS = *raw.Redis.TLS
	}
	if raw.Redis.Params != nil {
		cfg.Params = copyStringMap(raw.Redis.Params)
	}
	return normalizeRedisConfig(cfg)
}

func applyRawMailConfig(current MailConfig, raw rawAppConfig) MailConfig {
	cfg := current
	m := raw.Mail
	if v := strings.TrimSpace(m.Provider); v != "" {
		cfg.Provider = strings.ToLower(v)
	}
	if v := firstNonEmpty(raw.FromEmail, m.From); v != "" {
		cfg.From = v
	}
	if v := strings.TrimSpace(m.FromName); v != "" {
		cfg.FromName = v
	}
	if v := strings.TrimSpace(m.ReplyTo); v != "" {
		cfg.ReplyTo = v
	}
	if v := firstNonEmpty(raw.SendGridAPIKey, m.SendGridKey); v != "" {
		cfg.SendGridKey = v
	}
	if v := strings.TrimSpace(m.ResendKey); v != "" {
		cfg.ResendKey = v
	}
	cfg.SMTP = SMTPConfig{
		Host: strings.TrimSpace(m.SMTP.Host),
		Port: m.SMTP.Port,
		User: strings.TrimSpace(m.SMTP.User),
		Pass: m.SMTP.Pass,
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = defaultSMTPPort
	}
	return cfg
}

func parseDuration(field, raw string) (time.Duration, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, v, err)
	}
	return d, nil
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// SiteName falls back to the built-in name when unset.
func (c *AppConfig) SiteName() string {
	if c == nil || c.Site.Name == "" {
		return defaultSiteName
	}
	return c.Site.Name
}

func (c *AppConfig) LogDir() string {
	if c == nil {
		return resolveRuntimePath("", "logs")
	}
	return resolveRuntimePath(c.Paths.Logs, "logs")
}

func (c *AppConfig) StaticDir() string {
	if c == nil {
		return resolveRuntimePath("", "public")
	}
	return resolveRuntimePath(c.Paths.Static, "public")
}

// resolveRuntimePath resolves relative directories against the working
// directory, falling back to fallbackSubdir when raw is empty.
func resolveRuntimePath(raw string, fallbackSubdir string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = fallbackSubdir
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	wd, err := os.Getwd()
	if err != nil || wd == "" {
		wd = "."
	}
	return filepath.Clean(filepath.Join(wd, target))
}
