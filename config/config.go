package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Missions  MissionConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string

	MaxLimit     int
	DefaultLimit int
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type MissionConfigs struct {
	// RealtimeFlagName is the feature flag gating the whole event pipeline.
	RealtimeFlagName string

	// RewardTimezone is the IANA timezone used to compute the reward day
	// boundary. The daily idempotency key is derived from it, so it must be
	// explicit rather than the server's local clock.
	RewardTimezone string

	QRToken TokenConfigs

	// AttemptTopic is the pubsub topic approved attempts are published to.
	AttemptTopic string
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}
