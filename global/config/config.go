package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Presence backend selection.
const (
	PresenceBackendMemory = "memory"
	PresenceBackendRedis  = "redis"
)

type AppConfig struct {
	NodeID   int64  `envconfig:"NODE_ID" default:"1"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`
	WSPath   string `envconfig:"WS_PATH" default:"/ws"`

	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://127.0.0.1:27017"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"pairlink"`

	// PresenceBackend picks where the user->channel registry lives. "memory"
	// is the single-process default; "redis" is required once more than one
	// gateway process runs.
	PresenceBackend string        `envconfig:"PRESENCE_BACKEND" default:"memory"`
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	PresenceTTL     time.Duration `envconfig:"PRESENCE_TTL" default:"5m"`

	JWTSecret string        `envconfig:"JWT_ACCESS_SECRET" required:"true"`
	JWTAlg    string        `envconfig:"JWT_ALG" default:"HS256"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"2h"`

	SendQueueSize int           `envconfig:"SEND_QUEUE_SIZE" default:"256"`
	WriteTimeout  time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
}

func Load() (AppConfig, error) {
	var cfg AppConfig
	err := envconfig.Process("", &cfg)
	return cfg, err
}
