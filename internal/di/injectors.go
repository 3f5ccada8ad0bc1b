//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"sds/internal"
	"sds/internal/controllers"
	"sds/internal/models"
	"sds/internal/persistence"
	"sds/internal/providers"
	"sds/internal/services"
	"sds/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewMetricsObserver,
		providers.NewInstrumentedCacheProvider,
		providers.NewHotCache,

		models.NewStudyStore,
		persistence.NewZstdCompressor,
		persistence.NewFSBlobStore,
		persistence.NewFileManager,
		persistence.NewScheduler,

		services.NewStudyService,
		services.NewPermissionService,
		services.NewDataService,
		services.NewResultCache,
		services.NewCacheEntrySource,
		services.NewAggregationService,

		controllers.NewHealthController,
		internal.NewApp,
	)

	return nil, nil
}
