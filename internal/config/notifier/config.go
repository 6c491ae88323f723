package notifier_config

import (
	"time"

	"github.com/dtpt/matchday/internal/obs"
	pginfra "github.com/dtpt/matchday/internal/repository/postgres"
)

type StorageCfg struct {
	Backend string `mapstructure:"backend"`
	Root    string `mapstructure:"root"`
}

type KafkaIn struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type SMTP struct {
	Addr       string        `mapstructure:"addr"`
	From       string        `mapstructure:"from"`
	User       string        `mapstructure:"user"`
	Password   string        `mapstructure:"password"`
	UseTLS     bool          `mapstructure:"use_tls"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SubjPrefix string        `mapstructure:"subj_prefix"`
}

type Resend struct {
	APIKey  string        `mapstructure:"api_key"`
	From    string        `mapstructure:"from"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Mail struct {
	// Provider selects the outbound channel, "smtp" or "resend".
	Provider string `mapstructure:"provider"`
	SMTP     SMTP   `mapstructure:"smtp"`
	Resend   Resend `mapstructure:"resend"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type LogCfg struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (l LogCfg) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  l.Level,
		Pretty: l.Pretty,
		App:    "matchday-notifier",
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
	In      KafkaIn        `mapstructure:"kafka_in"`
	Mail    Mail           `mapstructure:"mail"`
	Server  Server         `mapstructure:"server"`
	Log     LogCfg         `mapstructure:"log"`
	OTEL    OTELCfg        `mapstructure:"otel"`
}
