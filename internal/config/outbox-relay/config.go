package outbox_relay_config

import (
	"github.com/NordCoder/Carelink/internal/obs"
	outboxrunner "github.com/NordCoder/Carelink/internal/outbox"
	kafkax "github.com/NordCoder/Carelink/internal/repository/kafka"
	pg "github.com/NordCoder/Carelink/internal/repository/postgres"
)

const AutoCallTopic = "carelink.autocall.requested"

type Config struct {
	App struct {
		Name    string `mapstructure:"name"`
		Env     string `mapstructure:"env"`
		Version string `mapstructure:"version"`
	} `mapstructure:"app"`
	DB          pg.Config                 `mapstructure:"db"`
	Kafka       kafkax.ProducerConfig     `mapstructure:"kafka"`
	Runner      outboxrunner.RunnerConfig `mapstructure:"runner"`
	MetricsAddr string                    `mapstructure:"metrics_addr"`
	Log         obs.LogConfig             `mapstructure:"log"`
	OTEL        obs.OTELConfig            `mapstructure:"otel"`
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }

func (c *Config) Validate() error {
	if c.DB.DSN == "" {
		return ErrConfig("db.dsn (DATABASE_URL) is empty")
	}
	if len(c.Kafka.Brokers) == 0 {
		return ErrConfig("kafka.brokers is empty")
	}
	if c.Kafka.Topic == "" {
		return ErrConfig("kafka.topic is empty")
	}
	return nil
}
