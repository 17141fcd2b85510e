package config

import (
	"os"
	"sync"
)

type BrokerConfig struct {
	URL      string
	Exchange string
}

var (
	brokerConfig *BrokerConfig
	brokerOnce   sync.Once
)

func LoadBrokerConfig() *BrokerConfig {
	brokerOnce.Do(func() {
		brokerConfig = &BrokerConfig{
			URL:      os.Getenv("RABBITMQ_URL"),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "candidate_events"),
		}
	})
	return brokerConfig
}

func (c *BrokerConfig) Enabled() bool {
	return c.URL != ""
}
