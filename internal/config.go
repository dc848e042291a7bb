package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Config struct {
	Port            int    `env:"PORT,default=1337" validate:"gt=0"`
	VerifyToken     string `env:"VERIFY_TOKEN,required=true" validate:"required"`
	PageAccessToken string `env:"PAGE_ACCESS_TOKEN,required=true" validate:"required"`
	GraphBaseURL    string `env:"GRAPH_BASE_URL,default=https://graph.facebook.com/v2.6" validate:"required,url"`

	NumberOfWorkers   int           `env:"NUMBER_OF_WORKERS,default=4" validate:"gt=0"`
	BufferSize        int           `env:"BUFFER_SIZE,default=256" validate:"gt=0"`
	NoMatchTimeout    time.Duration `env:"NO_MATCH_TIMEOUT,default=10m" validate:"gt=0"`
	SessionTTL        time.Duration `env:"SESSION_TTL,default=15m" validate:"gt=0"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=30s" validate:"gt=0"`

	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/journal" validate:"required"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	CensorMask     string `env:"CENSOR_MASK,default=*"`
}

func (c Config) Validate() error {
	return validate.Struct(c)
}

// MaskRune extracts the single-character censor mask from the config value.
func MaskRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("CENSOR_MASK must be a single character, got %q", str)
	}
	return r[0], nil
}
