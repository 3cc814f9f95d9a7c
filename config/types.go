package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config represents the overall client configuration structure. It includes
// sections for application identity, HTTP client behavior, token lifecycle
// settings, and logging preferences. The embedded koanf.Koanf instance allows
// flexible access to custom keys not explicitly defined in the struct.
type Config struct {
	App  AppConfig  `koanf:"app" json:"app" yaml:"app" mapstructure:"app"`
	HTTP HTTPConfig `koanf:"http" json:"http" yaml:"http" mapstructure:"http"`
	Auth AuthConfig `koanf:"auth" json:"auth" yaml:"auth" mapstructure:"auth"`
	Log  LogConfig  `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`

	// k holds the underlying Koanf instance for flexible access to custom keys
	k *koanf.Koanf `json:"-" yaml:"-" mapstructure:"-"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" mapstructure:"name"`
	Version string `koanf:"version" json:"version" yaml:"version" mapstructure:"version"`
	Env     string `koanf:"env" json:"env" yaml:"env" mapstructure:"env"`
	Debug   bool   `koanf:"debug" json:"debug" yaml:"debug" mapstructure:"debug"`
}

// HTTPConfig holds the outbound HTTP client settings.
type HTTPConfig struct {
	// BaseURL is prepended by callers when building request URLs; the client
	// itself always receives absolute URLs.
	BaseURL string        `koanf:"baseurl" json:"baseurl" yaml:"baseurl" mapstructure:"baseurl"`
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	MaxAttempts    int           `koanf:"maxattempts" json:"maxattempts" yaml:"maxattempts" mapstructure:"maxattempts"`
	InitialBackoff time.Duration `koanf:"initialbackoff" json:"initialbackoff" yaml:"initialbackoff" mapstructure:"initialbackoff"`

	// CompressMinRatio is the maximum compressed/original size ratio under
	// which a compressed body is actually sent.
	CompressMinRatio float64 `koanf:"compressminratio" json:"compressminratio" yaml:"compressminratio" mapstructure:"compressminratio"`

	// RateLimit caps outbound requests per second; zero disables the limiter.
	RateLimit float64 `koanf:"ratelimit" json:"ratelimit" yaml:"ratelimit" mapstructure:"ratelimit"`
	RateBurst int     `koanf:"rateburst" json:"rateburst" yaml:"rateburst" mapstructure:"rateburst"`

	LogPayloads        bool   `koanf:"logpayloads" json:"logpayloads" yaml:"logpayloads" mapstructure:"logpayloads"`
	MaxPayloadLogBytes int    `koanf:"maxpayloadlogbytes" json:"maxpayloadlogbytes" yaml:"maxpayloadlogbytes" mapstructure:"maxpayloadlogbytes"`
	TraceIDHeader      string `koanf:"traceidheader" json:"traceidheader" yaml:"traceidheader" mapstructure:"traceidheader"`
}

// AuthConfig holds token lifecycle settings.
type AuthConfig struct {
	// MinTokenValidity is the window before expiry in which a token is
	// refreshed ahead of dispatch.
	MinTokenValidity time.Duration `koanf:"mintokenvalidity" json:"mintokenvalidity" yaml:"mintokenvalidity" mapstructure:"mintokenvalidity"`

	// SingleFlight deduplicates concurrent token refreshes.
	SingleFlight bool `koanf:"singleflight" json:"singleflight" yaml:"singleflight" mapstructure:"singleflight"`

	// FailureMessage is the default user-visible notification on a forced logout.
	FailureMessage string `koanf:"failuremessage" json:"failuremessage" yaml:"failuremessage" mapstructure:"failuremessage"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string          `koanf:"level" json:"level" yaml:"level" mapstructure:"level"`
	Pretty bool            `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
	Output LogOutputConfig `koanf:"output" json:"output" yaml:"output" mapstructure:"output"`
}

// LogOutputConfig holds log destination settings.
type LogOutputConfig struct {
	Format string `koanf:"format" json:"format" yaml:"format" mapstructure:"format"`
	File   string `koanf:"file" json:"file" yaml:"file" mapstructure:"file"`
}
