package config

import (
	"errors"
	"fmt"

	env "github.com/Netflix/go-env"
)

type Config struct {
	ServiceName   string `env:"SERVICE_NAME,required=true"`
	InboundQueue  string `env:"INBOUND_QUEUE,required=true"`
	OutboundQueue string `env:"OUTBOUND_QUEUE,required=true"`

	MQHost string `env:"MQ_HOST,default=localhost"`
	MQPort int    `env:"MQ_PORT,default=4222"`
	MQUser string `env:"MQ_USER"`
	MQPass string `env:"MQ_PASS"`

	HTTPPort int  `env:"HTTP_PORT,default=3001"`
	Verbose  bool `env:"VERBOSE,default=false"`
}

// Load reads the configuration from the environment once at startup. The
// returned struct is passed by reference into each component's constructor and
// never mutated afterwards.
func Load() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("err reading environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.InboundQueue == c.OutboundQueue {
		return errors.New("err inbound and outbound queues must differ")
	}
	return nil
}

func (c *Config) MQURL() string {
	if c.MQUser != "" {
		return fmt.Sprintf("nats://%s:%s@%s:%d", c.MQUser, c.MQPass, c.MQHost, c.MQPort)
	}
	return fmt.Sprintf("nats://%s:%d", c.MQHost, c.MQPort)
}
