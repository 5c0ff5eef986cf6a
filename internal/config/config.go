// Package config loads the application configuration from the environment and an
// optional .env file using Viper.
package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Configuration struct {
	// Addr is the address the HTTP server listens on.
	Addr string `mapstructure:"ADDR"`
	// DbUrl is the connection string of the main SQLite database.
	DbUrl string `mapstructure:"DATABASE_URL"`
	// QueueDbUrl is the connection string of the SQLite database backing the task queue.
	// It is kept separate from the main database so queue churn never blocks application writes.
	QueueDbUrl string `mapstructure:"QUEUE_DATABASE_URL"`
	// MigrationsFolder is the directory containing the schema migrations.
	MigrationsFolder string `mapstructure:"MIGRATIONS_FOLDER"`
	// SessionKey is the secret used by the cookie session manager.
	SessionKey string `mapstructure:"SESSION_KEY"`
	// AuthURL is the base URL of the external credential provider.
	AuthURL string `mapstructure:"AUTH_URL"`
	// AuthServiceKey is the service key sent with every request to the credential provider.
	AuthServiceKey string `mapstructure:"AUTH_SERVICE_KEY"`
	// OneSignalAppID identifies the application at the push provider.
	OneSignalAppID string `mapstructure:"ONESIGNAL_APP_ID"`
	// OneSignalAPIKey authorizes requests to the push provider.
	OneSignalAPIKey string `mapstructure:"ONESIGNAL_API_KEY"`
	// PushURL is the push provider's notification endpoint.
	PushURL string `mapstructure:"PUSH_URL"`
	// NotifyClickURL is the page a notification opens when tapped.
	NotifyClickURL string `mapstructure:"NOTIFY_CLICK_URL"`
	// WebhookSecret, when set, must match the X-Webhook-Secret header of incoming
	// database-change events.
	WebhookSecret string `mapstructure:"WEBHOOK_SECRET"`
	// Debug, if true, will make the application log all HTTP requests and other events.
	Debug bool `mapstructure:"DEBUG"`
}

// ReadConfig reads .env (if present), then builds the configuration from the
// environment. Environment variables override the file. The push and auth
// secrets have no defaults; an empty value for any of them is an error, since
// the process cannot reach its providers without them.
func ReadConfig() (Configuration, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // a missing .env is fine, the environment may carry everything

	v.AutomaticEnv()

	v.SetDefault("ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "file:huvi.db?_fk=true")
	v.SetDefault("QUEUE_DATABASE_URL", "file:huvi-queue.db")
	v.SetDefault("MIGRATIONS_FOLDER", "migrations")
	v.SetDefault("SESSION_KEY", "")
	v.SetDefault("AUTH_URL", "")
	v.SetDefault("AUTH_SERVICE_KEY", "")
	v.SetDefault("ONESIGNAL_APP_ID", "")
	v.SetDefault("ONESIGNAL_API_KEY", "")
	v.SetDefault("PUSH_URL", "https://onesignal.com/api/v1/notifications")
	v.SetDefault("NOTIFY_CLICK_URL", "https://huvi.vercel.app/dashboard")
	v.SetDefault("WEBHOOK_SECRET", "")
	v.SetDefault("DEBUG", false)

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return Configuration{}, err
	}

	switch "" {
	case cfg.AuthURL:
		return Configuration{}, errors.New("config: AUTH_URL must be set")
	case cfg.AuthServiceKey:
		return Configuration{}, errors.New("config: AUTH_SERVICE_KEY must be set")
	case cfg.OneSignalAppID:
		return Configuration{}, errors.New("config: ONESIGNAL_APP_ID must be set")
	case cfg.OneSignalAPIKey:
		return Configuration{}, errors.New("config: ONESIGNAL_API_KEY must be set")
	case cfg.SessionKey:
		return Configuration{}, errors.New("config: SESSION_KEY must be set")
	}

	return cfg, nil
}
