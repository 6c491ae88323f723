package scheduler_config

import (
	"time"

	"github.com/dtpt/matchday/internal/obs"
	pginfra "github.com/dtpt/matchday/internal/repository/postgres"
)

type StorageCfg struct {
	Backend string `mapstructure:"backend"`
	Root    string `mapstructure:"root"`
}

type KafkaCfg struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type SchedCfg struct {
	Tick              time.Duration `mapstructure:"tick"`
	MetricsAddr       string        `mapstructure:"metrics_addr"`
	PublishRatePerSec float64       `mapstructure:"publish_rate_per_sec"`
	PublishBurst      int           `mapstructure:"publish_burst"`
}

type LogCfg struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (l LogCfg) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  l.Level,
		Pretty: l.Pretty,
		App:    "matchday-scheduler",
		Env:    "dev",
		Ver:    "dev",
	}
}

type OTELCfg struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (o OTELCfg) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      o.Enable,
		Endpoint:    o.OTLPEndpoint,
		ServiceName: o.ServiceName,
		SampleRatio: o.SampleRatio,
	}
}

type Config struct {
	Storage StorageCfg     `mapstructure:"storage"`
	DB      pginfra.Config `mapstructure:"db"`
	Kafka   KafkaCfg       `mapstructure:"kafka"`
	Sched   SchedCfg       `mapstructure:"sched"`
	Log     LogCfg         `mapstructure:"log"`
	OTEL    OTELCfg        `mapstructure:"otel"`
}
