package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort            = 3000
	defaultEnv             = "development"
	defaultSiteName        = "Red, White and True News"
	defaultSiteURL         = "http://localhost:3000"
	defaultSiteDescription = "The latest news with a patriotic perspective."
	defaultCMSURL          = "http://localhost:1337"
	defaultCMSTimeout      = 10 * time.Second
	defaultDBHost          = "127.0.0.1"
	defaultDBPort          = 3306
	defaultDBUser          = "root"
	defaultDBPassword      = "password"
	defaultDBName          = "rwtnews"
	defaultDBCharset       = "utf8mb4"
	defaultDBLoc           = "Local"
	defaultRedisHost       = "localhost"
	defaultRedisPort       = 6379
	defaultRedisDB         = 0
	defaultEngagement      = EngagementRedis
	defaultMailProvider    = "sendgrid"
	defaultSMTPPort        = 587
	defaultCacheTTL        = 60 * time.Second
	defaultNewsletterLimit = 5
	defaultNewsletterSpan  = time.Minute
)

// Engagement store drivers.
const (
	EngagementRedis  = "redis"
	EngagementMySQL  = "mysql"
	EngagementMemory = "memory"
)
