package invoice

import (
	"github.com/smallbiznis/numera/internal/invoice/issuer"
	"github.com/smallbiznis/numera/internal/invoice/ledger"
	"github.com/smallbiznis/numera/internal/invoice/sequence"
	"github.com/smallbiznis/numera/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(sequence.NewStore),
	fx.Provide(ledger.NewFailureLedger),
	fx.Provide(issuer.New),
	fx.Provide(service.NewService),
)
