package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/coffeeshop/internal/app"
	"github.com/polkiloo/coffeeshop/internal/catalog"
	"github.com/polkiloo/coffeeshop/internal/config"
	"github.com/polkiloo/coffeeshop/internal/logger"
	"github.com/polkiloo/coffeeshop/internal/metrics"
	"github.com/polkiloo/coffeeshop/internal/pkg/auth"
	"github.com/polkiloo/coffeeshop/internal/pkg/clock"
	"github.com/polkiloo/coffeeshop/internal/server/http/handlers"
	"github.com/polkiloo/coffeeshop/internal/server/http/router"
	"github.com/polkiloo/coffeeshop/internal/storage/postgres"
	"github.com/polkiloo/coffeeshop/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		clock.Module,
		catalog.Module,
		metrics.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		fx.Provide(func(m *metrics.Metrics) usecase.OrderObserver { return m }),
		fx.Provide(func(f *app.CoffeeFacade) handlers.CoffeeFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
