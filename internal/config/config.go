package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env-default:"info"`
	HTTPPort string `yaml:"http-port" env-default:"8080"`

	Postgres Postgres `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`

	JWTSecretKey string `yaml:"jwt-secret-key"`

	InvitationTTLMinutes int `yaml:"invitation-ttl-minutes" env-default:"30"`
	PresenceTTLSeconds   int `yaml:"presence-ttl-seconds" env-default:"120"`
}

type Postgres struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-default:"miniplay"`
	Password string `yaml:"password" env-default:""`
	Name     string `yaml:"name" env-default:"miniplay"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Postgres) GetDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		that.Host, that.User, that.Password, that.Name, that.Port, that.SSLMode)
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Config) InvitationTTL() time.Duration {
	return time.Duration(that.InvitationTTLMinutes) * time.Minute
}

func (that *Config) PresenceTTL() time.Duration {
	return time.Duration(that.PresenceTTLSeconds) * time.Second
}
