// Package config loads configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv (reading .env files) and
// github.com/caarlos0/env/v11 (parsing the environment into tagged structs).
//
//	type Config struct {
//	    RedisURL string        `env:"REDIS_URL" envDefault:"redis://127.0.0.1:6379/0"`
//	    Timeout  time.Duration `env:"QUEUE_POP_TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Load reads the default .env file once, silently skipping it when absent.
// Call LoadEnv first to read other files; it reports missing files.
package config
