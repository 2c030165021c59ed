package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "Red, White and True News", cfg.Site.Name)
	assert.Equal(t, "http://localhost:3000", cfg.Site.URL)
	assert.Equal(t, "http://localhost:1337", cfg.CMS.URL)
	assert.Equal(t, 10*time.Second, cfg.CMS.Timeout)
	assert.Equal(t, EngagementRedis, cfg.Engagement.Driver)
	assert.Equal(t, "sendgrid", cfg.Mail.Provider)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "root:password@tcp(127.0.0.1:3306)/rwtnews?charset=utf8mb4&loc=Local&parseTime=true", cfg.DSN)
}

func TestParseSections(t *testing.T) {
	doc := `
port: 8080
env: production
site:
  url: https://rwtnews.com/
cms:
  url: https://cms.rwtnews.com/
  api_token: secret
  timeout: 3s
redis:
  host: cache
  db: 2
  password: pw
engagement:
  driver: MySQL
mail:
  provider: smtp
  from: news@rwtnews.com
  smtp:
    host: smtp.example.com
http_cache:
  enable: true
  ttl: 2m
`
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.False(t, cfg.IsDev())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://rwtnews.com", cfg.Site.URL)
	assert.Equal(t, "https://cms.rwtnews.com", cfg.CMS.URL)
	assert.Equal(t, "secret", cfg.CMS.APIToken)
	assert.Equal(t, 3*time.Second, cfg.CMS.Timeout)
	assert.Equal(t, "redis://:pw@cache:6379/2", cfg.RedisURL)
	assert.Equal(t, EngagementMySQL, cfg.Engagement.Driver)
	assert.Equal(t, "smtp.example.com", cfg.Mail.SMTP.Host)
	assert.Equal(t, 587, cfg.Mail.SMTP.Port)
	assert.True(t, cfg.HTTPCache.Enable)
	assert.Equal(t, 2*time.Minute, cfg.HTTPCache.TTL)
}

func TestParseEnvExpansion(t *testing.T) {
	t.Setenv("RWT_TEST_TOKEN", "from-env")

	cfg, err := Parse([]byte(`
strapi_api_token: ${RWT_TEST_TOKEN}
sendgrid_api_key: ${RWT_TEST_MISSING:-fallback}
from_email: ${RWT_TEST_MISSING}
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.CMS.APIToken)
	assert.Equal(t, "fallback", cfg.Mail.SendGridKey)
	assert.Empty(t, cfg.Mail.From)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":       "nope: 1",
		"port range":        "port: 70000",
		"engagement driver": "engagement:\n  driver: mongo",
		"mail provider":     "mail:\n  provider: pigeon",
		"bad timeout":       "cms:\n  timeout: soon",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		assert.Error(t, err)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("port: 4000\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 4000, cfg.Port)
	})
}
