package eventlog

import (
	"github.com/smallbiznis/numera/internal/eventlog/repository"
	"github.com/smallbiznis/numera/internal/eventlog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("eventlog.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
