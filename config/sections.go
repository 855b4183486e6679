package config

import (
	"time"

	"github.com/spf13/viper"
)

// Server http server config struct
type Server struct {
	Host            string
	Port            int
	Mode            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Host:            getStringOrDefault(v, "server.host", "0.0.0.0"),
		Port:            getIntOrDefault(v, "server.port", 8080),
		Mode:            getStringOrDefault(v, "server.mode", "release"),
		ReadTimeout:     getDurationOrDefault(v, "server.read_timeout", 15*time.Second),
		WriteTimeout:    getDurationOrDefault(v, "server.write_timeout", 30*time.Second),
		ShutdownTimeout: getDurationOrDefault(v, "server.shutdown_timeout", 10*time.Second),
	}
}

// Logger logger config struct
type Logger struct {
	Level      int
	Format     string
	Output     string
	OutputFile string
}

func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		Level:      getIntOrDefault(v, "logger.level", 4),
		Format:     getStringOrDefault(v, "logger.format", "json"),
		Output:     getStringOrDefault(v, "logger.output", "stdout"),
		OutputFile: v.GetString("logger.output_file"),
	}
}

// Data drivers.
const (
	DriverMongo  = "mongodb"
	DriverMemory = "memory"
)

// Data data config struct
type Data struct {
	Driver  string
	MongoDB *MongoDB
	Redis   *Redis
}

// MongoDB mongodb config struct
type MongoDB struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Redis redis config struct
type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		Driver: getStringOrDefault(v, "data.driver", DriverMongo),
		MongoDB: &MongoDB{
			URI:      v.GetString("data.mongodb.uri"),
			Database: getStringOrDefault(v, "data.mongodb.database", "jobboard"),
			Timeout:  getDurationOrDefault(v, "data.mongodb.timeout", 10*time.Second),
		},
		Redis: &Redis{
			Addr:     v.GetString("data.redis.addr"),
			Password: v.GetString("data.redis.password"),
			DB:       v.GetInt("data.redis.db"),
			TTL:      getDurationOrDefault(v, "data.redis.ttl", 10*time.Minute),
		},
	}
}

// Auth auth config struct
type Auth struct {
	JWT    *JWT
	Cookie *Cookie
}

// JWT jwt config struct
type JWT struct {
	Secret string
	Expire time.Duration
}

// Cookie session cookie config struct
type Cookie struct {
	Name   string
	Domain string
	Secure bool
}

func getAuthConfig(v *viper.Viper) *Auth {
	return &Auth{
		JWT: &JWT{
			Secret: v.GetString("auth.jwt.secret"),
			Expire: getDurationOrDefault(v, "auth.jwt.expire", 24*time.Hour),
		},
		Cookie: &Cookie{
			Name:   getStringOrDefault(v, "auth.cookie.name", "token"),
			Domain: v.GetString("auth.cookie.domain"),
			Secure: getBoolOrDefault(v, "auth.cookie.secure", true),
		},
	}
}

// Storage object storage config struct
type Storage struct {
	Provider  string
	Path      string
	ID        string
	Secret    string
	Region    string
	Bucket    string
	Endpoint  string
	PublicURL string
	Breaker   *Breaker
}

// Breaker circuit breaker config struct
type Breaker struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

func getStorageConfig(v *viper.Viper) *Storage {
	return &Storage{
		Provider:  getStringOrDefault(v, "storage.provider", "filesystem"),
		Path:      getStringOrDefault(v, "storage.path", "./uploads"),
		ID:        v.GetString("storage.id"),
		Secret:    v.GetString("storage.secret"),
		Region:    v.GetString("storage.region"),
		Bucket:    v.GetString("storage.bucket"),
		Endpoint:  v.GetString("storage.endpoint"),
		PublicURL: v.GetString("storage.public_url"),
		Breaker: &Breaker{
			MaxRequests:      getUint32OrDefault(v, "storage.breaker.max_requests", 1),
			Interval:         getDurationOrDefault(v, "storage.breaker.interval", time.Minute),
			Timeout:          getDurationOrDefault(v, "storage.breaker.timeout", 30*time.Second),
			FailureThreshold: getUint32OrDefault(v, "storage.breaker.failure_threshold", 5),
		},
	}
}

// Upload resume upload config struct
type Upload struct {
	MaxSize      int64
	AllowedTypes []string
}

// DefaultMaxUploadSize is the default resume size limit.
const DefaultMaxUploadSize int64 = 5 << 20

// DefaultAllowedTypes lists the resume media types accepted by default.
var DefaultAllowedTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func getUploadConfig(v *viper.Viper) *Upload {
	return &Upload{
		MaxSize:      getInt64OrDefault(v, "upload.max_size", DefaultMaxUploadSize),
		AllowedTypes: getStringSliceOrDefault(v, "upload.allowed_types", DefaultAllowedTypes),
	}
}

// Email email config struct
type Email struct {
	Provider string
	Mirror   bool
	SMTP     *SMTP
	SendGrid *SendGrid
	Mailgun  *Mailgun
}

// SMTP smtp config struct
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SendGrid sendgrid config struct
type SendGrid struct {
	Key  string
	From string
}

// Mailgun mailgun config struct
type Mailgun struct {
	Key    string
	Domain string
	From   string
}

func getEmailConfig(v *viper.Viper) *Email {
	return &Email{
		Provider: v.GetString("email.provider"),
		Mirror:   v.GetBool("email.mirror"),
		SMTP: &SMTP{
			Host:     v.GetString("email.smtp.host"),
			Port:     getIntOrDefault(v, "email.smtp.port", 587),
			Username: v.GetString("email.smtp.username"),
			Password: v.GetString("email.smtp.password"),
			From:     v.GetString("email.smtp.from"),
		},
		SendGrid: &SendGrid{
			Key:  v.GetString("email.sendgrid.key"),
			From: v.GetString("email.sendgrid.from"),
		},
		Mailgun: &Mailgun{
			Key:    v.GetString("email.mailgun.key"),
			Domain: v.GetString("email.mailgun.domain"),
			From:   v.GetString("email.mailgun.from"),
		},
	}
}

// Notification dispatcher config struct
type Notification struct {
	Workers        int
	BufferSize     int
	HandlerTimeout time.Duration
}

func getNotificationConfig(v *viper.Viper) *Notification {
	return &Notification{
		Workers:        getIntOrDefault(v, "notification.workers", 4),
		BufferSize:     getIntOrDefault(v, "notification.buffer_size", 1024),
		HandlerTimeout: getDurationOrDefault(v, "notification.handler_timeout", 10*time.Second),
	}
}

// Observes observability config struct
type Observes struct {
	Sentry *Sentry
}

// Sentry sentry config struct
type Sentry struct {
	DSN        string
	SampleRate float64
}

func getObservesConfig(v *viper.Viper) *Observes {
	return &Observes{
		Sentry: &Sentry{
			DSN:        v.GetString("observes.sentry.dsn"),
			SampleRate: getFloat64OrDefault(v, "observes.sentry.sample_rate", 1.0),
		},
	}
}
