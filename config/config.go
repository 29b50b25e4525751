// Package config loads the server's tunables from the environment,
// the way bloops-games/bloops loads its own server configs: a single
// struct processed by kelseyhightower/envconfig rather than
// hand-rolled os.Getenv calls.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full set of environment-driven tunables.
type Config struct {
	Debug bool `envconfig:"DRAWLY_DEBUG" default:"false"`

	ListenAddr     string `envconfig:"DRAWLY_LISTEN_ADDR" default:":5000"`
	AllowedOrigins string `envconfig:"DRAWLY_ALLOWED_ORIGINS" default:"http://localhost:5173"`

	PostgresURL string `envconfig:"DRAWLY_POSTGRES_URL"`
	RedisAddr   string `envconfig:"DRAWLY_REDIS_ADDR"`

	JWTSigningKey string `envconfig:"DRAWLY_JWT_KEY"`

	MinPlayers      int           `envconfig:"DRAWLY_MIN_PLAYERS" default:"2"`
	MaxPlayers      int           `envconfig:"DRAWLY_MAX_PLAYERS" default:"10"`
	DefaultDrawTime time.Duration `envconfig:"DRAWLY_DEFAULT_DRAW_TIME" default:"80s"`
	DefaultRounds   int           `envconfig:"DRAWLY_DEFAULT_ROUNDS" default:"3"`

	HintInterval    time.Duration `envconfig:"DRAWLY_HINT_INTERVAL" default:"20s"`
	TurnEndDelay    time.Duration `envconfig:"DRAWLY_TURN_END_DELAY" default:"5s"`
	StartCountdown  time.Duration `envconfig:"DRAWLY_START_COUNTDOWN" default:"3s"`
	AutoPickTimeout time.Duration `envconfig:"DRAWLY_AUTO_PICK_TIMEOUT" default:"15s"`
	EmptyRoomGrace  time.Duration `envconfig:"DRAWLY_EMPTY_ROOM_GRACE" default:"2m"`
	SettleDelay     time.Duration `envconfig:"DRAWLY_SETTLE_DELAY" default:"1s"`
	KickDenyListTTL time.Duration `envconfig:"DRAWLY_KICK_DENYLIST_TTL" default:"10m"`

	ChatHistoryCap int `envconfig:"DRAWLY_CHAT_HISTORY_CAP" default:"100"`
	MaxNameLength  int `envconfig:"DRAWLY_MAX_NAME_LENGTH" default:"20"`
	MaxChatLength  int `envconfig:"DRAWLY_MAX_CHAT_LENGTH" default:"200"`

	RoomCodeAlphabet string `envconfig:"DRAWLY_ROOM_CODE_ALPHABET" default:"ABCDEFGHJKLMNPQRSTUVWXYZ23456789"`
	RoomCodeLength   int    `envconfig:"DRAWLY_ROOM_CODE_LENGTH" default:"6"`

	HousekeeperCron   string        `envconfig:"DRAWLY_HOUSEKEEPER_CRON" default:"@every 30s"`
	RoomRetentionTTL  time.Duration `envconfig:"DRAWLY_ROOM_RETENTION_TTL" default:"30m"`
	RateLimitBurst    int           `envconfig:"DRAWLY_RATE_LIMIT_BURST" default:"5"`
	RateLimitPerSec   float64       `envconfig:"DRAWLY_RATE_LIMIT_PER_SEC" default:"3"`
}

// Load reads the process environment into a Config.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
