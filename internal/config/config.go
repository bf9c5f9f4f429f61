package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env-default:"local"`
	StoragePath string `yaml:"storage_path" env-required:"true"`
	RedisAddr   string `yaml:"redis_addr" env-default:"localhost:6379"`
	HTTPServer  `yaml:"http_server"`
	Attendance  `yaml:"attendance"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type Attendance struct {
	DayStart         string `yaml:"day_start" env-default:"07:00"`
	DayEnd           string `yaml:"day_end" env-default:"16:00"`
	SlotMinutes      int    `yaml:"slot_minutes" env-default:"60"`
	ToleranceMinutes int    `yaml:"tolerance_minutes" env-default:"15"`
}

func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	return &cfg
}
