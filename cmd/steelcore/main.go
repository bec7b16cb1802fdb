package main

import (
	"github.com/sreeramsuresh/steelcore/internal/clock"
	"github.com/sreeramsuresh/steelcore/internal/config"
	"github.com/sreeramsuresh/steelcore/internal/migration"
	"github.com/sreeramsuresh/steelcore/internal/observability"
	"github.com/sreeramsuresh/steelcore/internal/server"
	"github.com/sreeramsuresh/steelcore/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		migration.Module,
		clock.Module,

		// server.Module pulls in the domain modules and registers routes.
		server.Module,
	)
	app.Run()
}
