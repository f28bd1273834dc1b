package main

import (
	"github.com/connectus-app/backend/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(ct *cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()

	ctx := s.newContext()
	if err := migration.Migrate(ctx); err != nil {
		return err
	}

	s.logger.Infof("Migration completed")
	return nil
}
