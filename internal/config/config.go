package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Scoring  ScoringConfig
	Alerts   AlertsConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL.
// Postgres опционален: без него приложение работает только на
// in-memory состоянии и снимках в Redis.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
}

// AuthConfig содержит учетные данные администратора, создаваемого при старте
type AuthConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminName     string `mapstructure:"admin_name"`
	AdminPassword string `mapstructure:"admin_password"`
}

// ScoringConfig содержит настройки движка подсчета баллов
type ScoringConfig struct {
	// Aggregator: "weighted_by_max" (по умолчанию) или "equal_weight"
	Aggregator string `mapstructure:"aggregator"`
}

// AlertsConfig содержит настройки предупреждений о низких баллах
type AlertsConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	ScoreBelow   int      `mapstructure:"score_below"`
	ResendAPIKey string   `mapstructure:"resend_api_key"`
	FromEmail    string   `mapstructure:"from_email"`
	Recipients   []string `mapstructure:"recipients"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	vip.SetDefault("server.port", "8080")
	vip.SetDefault("scoring.aggregator", "weighted_by_max")
	vip.SetDefault("alerts.score_below", 50)

	// Привязываем переменные окружения явно
	vip.BindEnv("database.enabled", "DATABASE_ENABLED")
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.enabled", "REDIS_ENABLED")
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")

	vip.BindEnv("auth.admin_email", "AUTH_ADMIN_EMAIL")
	vip.BindEnv("auth.admin_name", "AUTH_ADMIN_NAME")
	vip.BindEnv("auth.admin_password", "AUTH_ADMIN_PASSWORD")

	vip.BindEnv("scoring.aggregator", "SCORING_AGGREGATOR")

	vip.BindEnv("alerts.enabled", "ALERTS_ENABLED")
	vip.BindEnv("alerts.score_below", "ALERTS_SCORE_BELOW")
	vip.BindEnv("alerts.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("alerts.from_email", "ALERTS_FROM_EMAIL")
	vip.BindEnv("alerts.recipients", "ALERTS_RECIPIENTS")

	vip.BindEnv("server.port", "SERVER_PORT")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// ALERTS_RECIPIENTS задается как список через запятую
	if len(cfg.Alerts.Recipients) == 1 && strings.Contains(cfg.Alerts.Recipients[0], ",") {
		cfg.Alerts.Recipients = strings.Split(cfg.Alerts.Recipients[0], ",")
		for i := range cfg.Alerts.Recipients {
			cfg.Alerts.Recipients[i] = strings.TrimSpace(cfg.Alerts.Recipients[i])
		}
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Database Enabled: %t", cfg.Database.Enabled)
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Redis Enabled: %t", cfg.Redis.Enabled)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Scoring Aggregator: %s", cfg.Scoring.Aggregator)
		log.Printf("Alerts Enabled: %t", cfg.Alerts.Enabled)
		log.Printf("-----------------------------------------")
	}

	// Проверка обязательных параметров
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if cfg.Database.Enabled && (cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "") {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Redis.Enabled && len(cfg.Redis.Addrs) == 0 && cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis is enabled but no address is configured (check REDIS_ADDR env var)")
	}
	if cfg.Alerts.Enabled && (cfg.Alerts.ResendAPIKey == "" || cfg.Alerts.FromEmail == "" || len(cfg.Alerts.Recipients) == 0) {
		return nil, fmt.Errorf("alerts are enabled but resend_api_key, from_email or recipients are missing")
	}

	return &cfg, nil
}
