package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/remesalabs/remesa-backend/internal/consts"
	"github.com/remesalabs/remesa-backend/internal/types/environments"
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	Postgres    DBConnection
	Stellar     StellarConfig
	Payout      PayoutConfig
	Remittance  RemittanceConfig
}

type ApiServerConfig struct {
	Port           string
	AllowedOrigins string
	AdminAPIKey    string
}

type DBConnection struct {
	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

type StellarConfig struct {
	HorizonURL        string
	NetworkPassphrase string
	BaseSecret        string
}

type PayoutConfig struct {
	// When empty, the in-process voucher simulator is used instead of the
	// sandbox HTTP API.
	APIURL string
	APIKey string
}

type RemittanceConfig struct {
	WatchTimeout    time.Duration
	ScanDelay       time.Duration
	StalePendingAge time.Duration
}

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// this will not override env variables if they already exist
	godotenv.Load(".env." + env)

	return &AppConfig{
		Environment: environments.Environment(env),
		ApiServer: ApiServerConfig{
			Port:           envVarWithDefault("API_PORT", "4000"),
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
			AdminAPIKey:    os.Getenv("ADMIN_API_KEY"),
		},
		Postgres: DBConnection{
			Host:    os.Getenv("DB_HOST"),
			Port:    os.Getenv("DB_PORT"),
			User:    os.Getenv("DB_USER"),
			Name:    os.Getenv("DB_NAME"),
			Pass:    os.Getenv("DB_PASS"),
			SSLMode: os.Getenv("DB_SSL_MODE"),
		},
		Stellar: StellarConfig{
			HorizonURL:        envVarWithDefault("STELLAR_HORIZON_URL", "https://horizon-testnet.stellar.org"),
			NetworkPassphrase: envVarWithDefault("STELLAR_NETWORK_PASSPHRASE", "Test SDF Network ; September 2015"),
			BaseSecret:        os.Getenv("STELLAR_BASE_SECRET"),
		},
		Payout: PayoutConfig{
			APIURL: os.Getenv("PAYOUT_API_URL"),
			APIKey: os.Getenv("PAYOUT_API_KEY"),
		},
		Remittance: RemittanceConfig{
			WatchTimeout:    envVarAsDuration("WATCH_TIMEOUT", consts.DefaultWatchTimeout),
			ScanDelay:       envVarAsDuration("SCAN_DELAY", consts.DefaultScanDelay),
			StalePendingAge: envVarAsDuration("STALE_PENDING_AGE", consts.DefaultStalePendingAge),
		},
	}
}

func envVarWithDefault(envName, defaultValue string) string {
	value := os.Getenv(envName)
	if value == "" {
		return defaultValue
	}

	return value
}

func envVarAsDuration(envName string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
