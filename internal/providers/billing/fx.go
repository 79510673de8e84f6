package billing

import (
	"github.com/smallbiznis/numera/internal/providers/billing/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.billing",
	fx.Provide(
		fx.Annotate(NewHTTPSubmitter, fx.As(new(domain.Submitter))),
	),
)
