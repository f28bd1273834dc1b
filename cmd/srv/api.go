package main

import (
	"fmt"
	"net/http"

	"github.com/connectus-app/backend/internal/domain"
	"github.com/connectus-app/backend/internal/middleware"
	"github.com/connectus-app/backend/pkg/authenticator"
	"github.com/connectus-app/backend/pkg/router"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr: fmt.Sprintf(":%s", s.configs.ApiServer.Port),
		Handler: cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedHeaders: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
		}).Handler(s.router.Handler()),
	}

	s.logger.Infof("Starting server on port %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	// Public API
	publicRouter := s.router.Branch()
	{
		router.GET(publicRouter, "/missions/health", s.missionEventDomain.Health)
		router.GET(publicRouter, "/missions/getRules", s.missionEventDomain.GetRules)
	}

	// These following APIs need authentication with an access token.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.NewAuthVerifier())
	{
		// Realtime mission API
		router.POST(authRouter, "/missions/submitEvent", s.missionEventDomain.Submit)
		router.GET(authRouter, "/missions/getAttempts", s.missionEventDomain.GetAttempts)
		router.GET(authRouter, "/missions/getStats", s.missionEventDomain.GetStats)
		router.POST(authRouter, "/missions/verifyEvidence", s.missionEventDomain.VerifyEvidence)

		// Daily mission API
		router.POST(authRouter, "/dailyMissions/complete", s.dailyMissionDomain.Complete)
		router.GET(authRouter, "/dailyMissions/getList", s.dailyMissionDomain.GetList)

		// QR API
		router.POST(authRouter, "/missions/issueQR", s.qrDomain.Issue)
		router.POST(authRouter, "/missions/verifyQR", s.qrDomain.Verify)
	}

	s.router.Mount("/missions/ws", domain.NewWsDomain(
		s.hub, authenticator.NewTokenEngine(s.configs.Auth.TokenSecret), s.logger))
}
