package config

// Redis backs the asynq refresh queue. An empty address disables the
// refresh worker entirely.
type Redis struct {
	Address        string `env:"REDIS_ADDR"`
	Username       string `env:"REDIS_USERNAME"`
	Password       string `env:"REDIS_PASSWORD"`
	DatabaseNumber int    `env:"REDIS_DB" envDefault:"0"`
}
