package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/connectus-app/backend/config"
	"github.com/connectus-app/backend/internal/client"
	"github.com/connectus-app/backend/internal/domain"
	"github.com/connectus-app/backend/internal/domain/completion"
	"github.com/connectus-app/backend/internal/repository"
	"github.com/connectus-app/backend/pkg/authenticator"
	"github.com/connectus-app/backend/pkg/kafka"
	"github.com/connectus-app/backend/pkg/logger"
	"github.com/connectus-app/backend/pkg/pubsub"
	"github.com/connectus-app/backend/pkg/router"
	"github.com/connectus-app/backend/pkg/ws"
	"github.com/connectus-app/backend/pkg/xcontext"
	"github.com/connectus-app/backend/pkg/xredis"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient xredis.Client
	publisher   pubsub.Publisher
	hub         *ws.Hub

	userRepo              repository.UserRepository
	featureFlagRepo       repository.FeatureFlagRepository
	missionRuleRepo       repository.MissionRuleRepository
	missionEventRepo      repository.MissionEventRepository
	missionAttemptRepo    repository.MissionAttemptRepository
	missionEvidenceRepo   repository.MissionEvidenceRepository
	dailyMissionRepo      repository.DailyMissionRepository
	missionCompletionRepo repository.MissionCompletionRepository

	missionEventDomain domain.MissionEventDomain
	dailyMissionDomain domain.DailyMissionDomain
	qrDomain           domain.QRDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "mysql"),
			Password: getEnv("MYSQL_PASSWORD", "mysql"),
			Database: getEnv("MYSQL_DATABASE", "missions"),
		},
		ApiServer: config.ServerConfigs{
			Host:         getEnv("HOST", "localhost"),
			Port:         getEnv("PORT", "8080"),
			Cert:         getEnv("SERVER_CERT", ""),
			Key:          getEnv("SERVER_KEY", ""),
			MaxLimit:     getIntEnv("API_MAX_LIMIT", 50),
			DefaultLimit: getIntEnv("API_DEFAULT_LIMIT", 20),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token-secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: getDurationEnv("ACCESS_TOKEN_DURATION", time.Hour),
			},
		},
		Missions: config.MissionConfigs{
			RealtimeFlagName: getEnv("MISSIONS_REALTIME_FLAG", "MISSIONS_REALTIME_ENABLED"),
			RewardTimezone:   getEnv("MISSIONS_REWARD_TIMEZONE", "America/Sao_Paulo"),
			QRToken: config.TokenConfigs{
				Name:       "qr_token",
				Expiration: getDurationEnv("QR_TOKEN_DURATION", 8*time.Hour),
			},
			AttemptTopic: getEnv("MISSIONS_ATTEMPT_TOPIC", "mission_attempts"),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		Kafka: config.KafkaConfigs{
			Addr: getEnv("KAFKA_ADDR", ""),
		},
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

// newContext assembles the base context the non-http entrypoints run with.
func (s *srv) newContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(s.configs.Auth.TokenSecret))
	return ctx
}

func (s *srv) loadRedis() {
	if s.configs.Redis.Addr == "" {
		s.logger.Warnf("No redis address, rule cache is disabled")
		return
	}

	redisClient, err := xredis.NewClient(s.newContext())
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadPublisher() {
	if s.configs.Kafka.Addr == "" {
		s.logger.Warnf("No kafka address, attempt publishing is disabled")
		return
	}

	s.publisher = kafka.NewPublisher("missions-api", []string{s.configs.Kafka.Addr})
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.featureFlagRepo = repository.NewFeatureFlagRepository()
	s.missionRuleRepo = repository.NewMissionRuleRepository(s.redisClient)
	s.missionEventRepo = repository.NewMissionEventRepository()
	s.missionAttemptRepo = repository.NewMissionAttemptRepository()
	s.missionEvidenceRepo = repository.NewMissionEvidenceRepository()
	s.dailyMissionRepo = repository.NewDailyMissionRepository()
	s.missionCompletionRepo = repository.NewMissionCompletionRepository()
}

func (s *srv) loadDomains() {
	guard := completion.NewGuard(s.missionCompletionRepo, client.NewUserBalance(s.userRepo))

	s.hub = ws.NewHub()
	go s.hub.Run()

	s.missionEventDomain = domain.NewMissionEventDomain(
		s.featureFlagRepo,
		s.missionRuleRepo,
		s.missionEventRepo,
		s.missionAttemptRepo,
		s.missionEvidenceRepo,
		guard,
		s.publisher,
		s.hub,
	)
	s.dailyMissionDomain = domain.NewDailyMissionDomain(s.dailyMissionRepo, s.missionCompletionRepo, guard)
	s.qrDomain = domain.NewQRDomain(s.dailyMissionRepo, guard)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getIntEnv(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return n
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return d
}
