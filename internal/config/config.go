package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	// NamespaceGlobal keeps every participant in one flat namespace,
	// matching the relay's historical behavior.
	NamespaceGlobal = "global"
	// NamespaceRoom confines presence and relay traffic to participants
	// that joined with the same roomId.
	NamespaceRoom = "room"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	WSPath     string `mapstructure:"ws_path"`
	StaticPath string `mapstructure:"static_path"`
	Secret     string `mapstructure:"secret"`

	ReadLimit    int64         `mapstructure:"read_limit"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`

	Namespace string `mapstructure:"namespace"`

	MsgRateLimit    int           `mapstructure:"msg_rate_limit"`
	MsgRateInterval time.Duration `mapstructure:"msg_rate_interval"`

	AllowedOrigins []string    `mapstructure:"allowed_origins"`
	ICEServers     []ICEServer `mapstructure:"ice_servers"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("ws_path", cfg.WSPath).
		Str("namespace", cfg.Namespace).
		Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("ws_path", "/ws")
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("send_buffer", 32)
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("ping_period", "54s")
	v.SetDefault("namespace", NamespaceGlobal)
	v.SetDefault("msg_rate_limit", 0)
	v.SetDefault("msg_rate_interval", "1s")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("ice_servers", defaultICEServers())
}

func (c *Config) validate() error {
	switch c.Namespace {
	case NamespaceGlobal, NamespaceRoom:
	default:
		return fmt.Errorf("unknown namespace %q", c.Namespace)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("send_buffer must be positive, got %d", c.SendBuffer)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive, got %s", c.WriteTimeout)
	}
	if c.PingPeriod <= 0 {
		return fmt.Errorf("ping_period must be positive, got %s", c.PingPeriod)
	}
	if c.MsgRateLimit > 0 && c.MsgRateInterval <= 0 {
		return fmt.Errorf("msg_rate_interval must be positive when msg_rate_limit is set")
	}
	return nil
}

// RoomScoped reports whether the relay partitions its namespace by roomId.
func (c *Config) RoomScoped() bool {
	return c.Namespace == NamespaceRoom
}

// OriginAllowed checks a WebSocket handshake's Origin header against the
// allowlist. An empty origin (non-browser client) is always accepted.
func (c *Config) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
