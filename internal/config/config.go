package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	API         struct {
		BaseURL        string `env:"BASE_URL" envDefault:"http://localhost:8000"`
		RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"20"`
	} `envPrefix:"API_"`
	Session struct {
		// 留空时使用用户配置目录下的默认路径
		FilePath string `env:"FILE_PATH"`
	} `envPrefix:"SESSION_"`
	Seed struct {
		AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
		AdminPassword string `env:"ADMIN_PASSWORD"`
		UserPassword  string `env:"USER_PASSWORD" envDefault:"ChangeMe123!"`
		EmailDomain   string `env:"EMAIL_DOMAIN" envDefault:"wavepark.local"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
