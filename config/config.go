package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config глобальная конфигурация приложения
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Query    QueryConfig    `mapstructure:"query"`
	Export   ExportConfig   `mapstructure:"export"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP-сервер
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
	UploadLimit  int        `mapstructure:"upload_rate_limit"`  // загрузок в окно на IP
	UploadWindow string     `mapstructure:"upload_rate_window"` // длительность окна, например "1m"
}

// CORSConfig настройки CORS
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig параметры подключения к БД
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // postgres | sqlite
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	SSLMode      string `mapstructure:"sslmode"`
	Timezone     string `mapstructure:"timezone"`
	SQLitePath   string `mapstructure:"sqlite_path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// DSN строка подключения PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis используется для блокировки загрузки и лимита запросов
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig хранилище исходного документа и служебных файлов
type StorageConfig struct {
	Backend   string      `mapstructure:"backend"` // local | minio
	LocalDir  string      `mapstructure:"local_dir"`
	MinIO     MinIOConfig `mapstructure:"minio"`
	Document  string      `mapstructure:"document_key"`
	Shifts    string      `mapstructure:"shifts_key"`
	Bells     string      `mapstructure:"bells_key"`
	Overrides string      `mapstructure:"overrides_key"`
}

// MinIOConfig параметры MinIO
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// CacheConfig кэш расписаний групп
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// IngestConfig загрузка расписания
type IngestConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	AllowTruncation bool          `mapstructure:"allow_truncation"`
	LockTTL         time.Duration `mapstructure:"lock_ttl"`
	// ApplyBells после загрузки документа сразу проставить время по сохранённым звонкам
	ApplyBells bool `mapstructure:"apply_bells"`
}

// QueryConfig поиск по преподавателю
type QueryConfig struct {
	TeacherMatch string `mapstructure:"teacher_match"` // containment | initials
}

// ExportConfig экспорт календаря
type ExportConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// LogConfig логирование
type LogConfig struct {
	Level  string   `mapstructure:"level"`
	Format string   `mapstructure:"format"`
	Output []string `mapstructure:"output"` // stdout, stderr или пути к файлам
}

// Load загружает конфигурацию из файла и переменных окружения
// Приоритет: переменные окружения > файл > значения по умолчанию
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── значения по умолчанию ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_bytes", 20<<20)
	v.SetDefault("server.cors.allow_origins", []string{"*"})
	v.SetDefault("server.upload_rate_limit", 10)
	v.SetDefault("server.upload_rate_window", "1m")

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "college_schedule")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Europe/Moscow")
	v.SetDefault("db.sqlite_path", "schedule.db")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local_dir", "./data")
	v.SetDefault("storage.minio.endpoint", "minio:9000")
	v.SetDefault("storage.minio.access_key", "minioadmin")
	v.SetDefault("storage.minio.secret_key", "minioadmin")
	v.SetDefault("storage.minio.bucket", "college-schedule")
	v.SetDefault("storage.minio.use_ssl", false)
	v.SetDefault("storage.document_key", "Расписание.docx")
	v.SetDefault("storage.shifts_key", "group_shifts.json")
	v.SetDefault("storage.bells_key", "bell_schedule.json")
	v.SetDefault("storage.overrides_key", "bell_schedule_overrides.json")

	v.SetDefault("cache.ttl", "10m")

	v.SetDefault("ingest.refresh_interval", "1h")
	v.SetDefault("ingest.allow_truncation", false)
	v.SetDefault("ingest.lock_ttl", "5m")
	v.SetDefault("ingest.apply_bells", false)

	v.SetDefault("query.teacher_match", "containment")

	v.SetDefault("export.timezone", "Europe/Moscow")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", []string{"stdout"})

	// ── файл конфигурации ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── переменные окружения ──
	v.SetEnvPrefix("SCHED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("чтение файла конфигурации: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет ключевые параметры
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("некорректная конфигурация: server.port должен быть в диапазоне 1-65535")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("некорректная конфигурация: неизвестный db.driver %q", c.Database.Driver)
	}
	switch c.Storage.Backend {
	case "local", "minio":
	default:
		return fmt.Errorf("некорректная конфигурация: неизвестный storage.backend %q", c.Storage.Backend)
	}
	switch c.Query.TeacherMatch {
	case "containment", "initials":
	default:
		return fmt.Errorf("некорректная конфигурация: неизвестный query.teacher_match %q", c.Query.TeacherMatch)
	}
	if c.Ingest.RefreshInterval < 0 {
		return fmt.Errorf("некорректная конфигурация: ingest.refresh_interval не может быть отрицательным")
	}
	return nil
}
