package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"4242"`

	// Bootstrap-Token für den ersten Admin-Scout (wird beim Seeding angelegt).
	AdminSeedToken string `envconfig:"ADMIN_SEED_TOKEN"`
	AdminSeedEmail string `envconfig:"ADMIN_SEED_EMAIL" default:"admin@scout-hand.local"`

	// Transfermarkt-Scrape
	TransfermarktBaseURL   string `envconfig:"TRANSFERMARKT_BASE_URL" default:"https://www.transfermarkt.com"`
	TransfermarktUserAgent string `envconfig:"TRANSFERMARKT_USER_AGENT" default:"scout-hand-sync"`
	SyncMaxParallel        int    `envconfig:"SYNC_MAX_PARALLEL" default:"5"`

	// Zeitplan für den nächtlichen Player-Sync.
	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 3 * * *"`

	MediaS3Key    string `envconfig:"MEDIA_S3_KEY" required:"true"`
	MediaS3Secret string `envconfig:"MEDIA_S3_SECRET" required:"true"`
	MediaS3URL    string `envconfig:"MEDIA_S3_URL" required:"true"`
	MediaS3Region string `envconfig:"MEDIA_S3_REGION" required:"true"`
	MediaS3Bucket string `envconfig:"MEDIA_S3_BUCKET" required:"true"`

	// Provider-Konfiguration
	EnabledProviders string `envconfig:"ENABLED_PROVIDERS" default:"transfermarkt"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
