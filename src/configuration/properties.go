package configuration

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type (
	Properties struct {
		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

		Server HttpServerProperties `envPrefix:"HTTP_"`
		Mongo  MongoProperties
		Media  MediaProperties `envPrefix:"MEDIA_"`
		S3     S3Properties    `envPrefix:"S3_"`
		Cors   CorsProperties  `envPrefix:"CORS_"`
	}

	HttpServerProperties struct {
		Port        string        `env:"PORT" envDefault:"5000"`
		ReadTimeout time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	}

	// MongoProperties keeps the legacy environment names: DB_URL is the full
	// connection string. An empty DB_URL selects the in-memory store.
	MongoProperties struct {
		URL            string        `env:"DB_URL"`
		Database       string        `env:"DB_NAME" envDefault:"admin_panel"`
		ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
	}

	MediaProperties struct {
		Dir      string `env:"DIR" envDefault:"public/images/users"`
		MaxBytes int64  `env:"MAX_BYTES" envDefault:"5242880"`
	}

	S3Properties struct {
		Enabled   bool   `env:"ENABLED" envDefault:"false"`
		Host      string `env:"HOST" envDefault:"s3.minio.local:9000"`
		AccessKey string `env:"ACCESS_KEY"`
		SecretKey string `env:"SECRET_KEY"`
		Bucket    string `env:"BUCKET" envDefault:"admin-media"`
		UseSSL    bool   `env:"USE_SSL" envDefault:"true"`
	}

	CorsProperties struct {
		Origins []string `env:"ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:3001,https://mary-project.vercel.app"`
	}
)

func ReadProperties() (*Properties, error) {
	config := &Properties{}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("read config error: %w", err)
	}
	return config, nil
}
