package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	FrontendURL string `mapstructure:"frontend_url"` // Allowed CORS origin
	Mode        string `mapstructure:"mode"`         // gin mode: debug or release
}

// DatabaseConfig selects the storage backend.
// Path and BusyTimeout apply to sqlite, URI and Name to mongo.
type DatabaseConfig struct {
	Driver      string        `mapstructure:"driver"`
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
	Seed        bool          `mapstructure:"seed"`
	URI         string        `mapstructure:"uri"`
	Name        string        `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether enough is set to talk to a bucket.
func (c S3Config) Enabled() bool {
	return c.BucketName != "" && c.Region != ""
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type AuthConfig struct {
	BcryptCost  int      `mapstructure:"bcrypt_cost"`
	AdminEmails []string `mapstructure:"admin_emails"` // Registered with the admin role
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// LoadConfig reads configuration from path/config.yaml, a .env file and
// environment variables, in increasing order of precedence.
func LoadConfig(path string) (config Config, err error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.frontend_url", "http://localhost:3000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "./data/fitness.db")
	v.SetDefault("database.busy_timeout", "5s")
	v.SetDefault("database.seed", true)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "workout_tracker")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "168h")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.admin_emails", []string{})
	v.SetDefault("log.level", "info")

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// No file; defaults and env vars are enough.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	// ADMIN_EMAILS arrives as a single comma separated string from the environment.
	config.Auth.AdminEmails = splitList(config.Auth.AdminEmails)

	if err = config.validate(); err != nil {
		return
	}
	return config, nil
}

func (c Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must be set")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("jwt.expiration must be positive")
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverMongo:
	default:
		return errors.New("database.driver must be sqlite or mongo")
	}
	return nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
