package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath переменная окружения, переопределяющая путь к файлу конфигурации
const EnvConfigPath = "CONFIG_PATH"

var (
	// ErrReadConfig возвращается, когда файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается, когда значения конфигурации некорректны
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig параметры логирования. Пустой File - вывод в stdout.
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SchedulerConfig параметры генерации слотов и фоновых задач
type SchedulerConfig struct {
	// Timezone часовой пояс сервисных центров (IANA)
	Timezone string `toml:"timezone"`
	// SweepHour локальный час ежедневного завершения смен
	SweepHour int `toml:"sweep_hour"`
	// MaxEstimatedSlots предел оценки числа слотов одного запроса генерации
	MaxEstimatedSlots int `toml:"max_estimated_slots"`
	// SyncWorkers число обработчиков пересчёта ёмкости. 0 - синхронно.
	SyncWorkers int `toml:"sync_workers"`
	// SyncQueueSize ёмкость очереди событий назначений
	SyncQueueSize int `toml:"sync_queue_size"`
	// SyncTimeout таймаут одного пересчёта, секунды
	SyncTimeout int `toml:"sync_timeout"`
}

// Location возвращает часовой пояс планировщика
func (c SchedulerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "smc_schedule",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "schedule_service",
		},
		Scheduler: SchedulerConfig{
			Timezone:          "UTC",
			SweepHour:         3,
			MaxEstimatedSlots: 5000,
			SyncWorkers:       4,
			SyncQueueSize:     256,
			SyncTimeout:       30,
		},
	}
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию.
// Переменная окружения CONFIG_PATH, если задана, заменяет path.
func Load(path string) (*Config, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		path = envPath
	}

	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}

	if _, err := c.Scheduler.Location(); err != nil {
		return fmt.Errorf("%w: scheduler.timezone %q: %v", ErrInvalidConfig, c.Scheduler.Timezone, err)
	}

	if c.Scheduler.SweepHour < 0 || c.Scheduler.SweepHour > 23 {
		return fmt.Errorf("%w: scheduler.sweep_hour must be in 0..23, got %d", ErrInvalidConfig, c.Scheduler.SweepHour)
	}

	if c.Scheduler.MaxEstimatedSlots <= 0 {
		return fmt.Errorf("%w: scheduler.max_estimated_slots must be positive", ErrInvalidConfig)
	}

	if c.Scheduler.SyncWorkers < 0 || c.Scheduler.SyncQueueSize <= 0 {
		return fmt.Errorf("%w: scheduler.sync_workers must be >= 0 and sync_queue_size positive", ErrInvalidConfig)
	}

	return nil
}
