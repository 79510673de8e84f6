package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/numera/internal/clock"
	"github.com/smallbiznis/numera/internal/config"
	"github.com/smallbiznis/numera/internal/migration"
	"github.com/smallbiznis/numera/internal/observability"
	"github.com/smallbiznis/numera/internal/server"
	"github.com/smallbiznis/numera/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// HTTP server plus the domain modules it serves
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
