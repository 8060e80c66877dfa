package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "albawork_db", cfg.Database.Database)
				assert.Equal(t, "albawork_events", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "albawork_notifications", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, "albawork-api", cfg.App.Name)
				assert.Equal(t, "Asia/Seoul", cfg.App.Timezone)
				assert.Equal(t, 4, cfg.Notifier.Concurrency)
			}
		})
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, "Asia/Seoul", cfg.App.Timezone)
	assert.Equal(t, 2*time.Second, cfg.Outbox.PollInterval)
	assert.Equal(t, 50, cfg.Outbox.BatchSize)
}

func TestLocation(t *testing.T) {
	cfg := &Config{App: AppConfig{Timezone: "Asia/Seoul"}}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())

	cfg.App.Timezone = "Not/AZone"
	_, err = cfg.Location()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone")
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "albawork_db",
		},
		RabbitMQ: RabbitMQConfig{
			Host: "localhost",
			Port: 5672,
			Exchange: ExchangeConfig{
				Name: "albawork_events",
			},
			Queue: QueueConfig{
				Name: "albawork_notifications",
			},
		},
		App:  AppConfig{Timezone: "Asia/Seoul"},
		Auth: AuthConfig{Secret: "s3cret"},
		Notifier: NotifierConfig{
			Concurrency:     4,
			DispatchTimeout: 30 * time.Second,
			ShutdownTimeout: 20 * time.Second,
		},
	}
}

func TestValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:      "invalid server port",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "missing auth secret",
			mutate:    func(c *Config) { c.Auth.Secret = "" },
			wantErr:   true,
			errString: "auth secret is required",
		},
		{
			name:      "missing database host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name:      "missing exchange name",
			mutate:    func(c *Config) { c.RabbitMQ.Exchange.Name = "" },
			wantErr:   true,
			errString: "rabbitmq exchange name is required",
		},
		{
			name:      "bad timezone",
			mutate:    func(c *Config) { c.App.Timezone = "Nowhere/Nope" },
			wantErr:   true,
			errString: "invalid timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateNotifierConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:      "zero concurrency",
			mutate:    func(c *Config) { c.Notifier.Concurrency = 0 },
			wantErr:   true,
			errString: "notifier concurrency",
		},
		{
			name:      "zero dispatch timeout",
			mutate:    func(c *Config) { c.Notifier.DispatchTimeout = 0 },
			wantErr:   true,
			errString: "dispatch_timeout",
		},
		{
			name: "mail enabled without host",
			mutate: func(c *Config) {
				c.Mail.Enabled = true
				c.Mail.From = "noreply@albawork.kr"
				c.Mail.AdminAddress = "admin@albawork.kr"
			},
			wantErr:   true,
			errString: "mail host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateNotifierConfig()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
