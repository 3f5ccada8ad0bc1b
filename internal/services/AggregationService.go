package services

import (
	"time"

	json "github.com/goccy/go-json"

	"sds/internal/models"
	"sds/internal/pipeline"
)

type AggregationServiceInterface interface {
	Run(requester *models.Requester, studyID, versionID string, fieldSelection []string, ops []pipeline.Operator, forceUpdate bool) (*models.CacheEntry, error)
	Fetch(entry *models.CacheEntry) ([]byte, error)
}

// AggregationService executes operator chains over the permission-filtered
// clip set at a resolved version and serves results through the
// content-addressed cache: an unchanged (study, version, selection,
// pipeline) tuple returns the recorded entry without recomputation.
type AggregationService struct {
	store    *models.StudyStore
	data     DataServiceInterface
	cache    ResultCacheInterface
	observer MetricsObserverInterface
}

func NewAggregationService(store *models.StudyStore, data DataServiceInterface, cache ResultCacheInterface, observer MetricsObserverInterface) AggregationServiceInterface {
	return &AggregationService{
		store:    store,
		data:     data,
		cache:    cache,
		observer: observer,
	}
}

func (as *AggregationService) Run(requester *models.Requester, studyID, versionID string, fieldSelection []string, ops []pipeline.Operator, forceUpdate bool) (*models.CacheEntry, error) {
	// Pin "current" to a concrete version id so a request against the
	// default boundary shares its cache key with the explicit one.
	resolved, err := as.store.ResolveVersion(studyID, versionID)
	if err != nil {
		return nil, err
	}
	def, err := pipeline.Describe(ops)
	if err != nil {
		return nil, err
	}
	key := CacheKey(studyID, resolved, fieldSelection, def)

	return as.cache.GetOrCompute(key, forceUpdate, func() ([]byte, error) {
		clips, err := as.data.GetData(requester, studyID, resolved, fieldSelection)
		if err != nil {
			return nil, err
		}
		records := make([]*models.Record, 0, len(clips))
		for _, clip := range clips {
			records = append(records, models.ClipRecord(clip))
		}

		start := time.Now()
		out, err := pipeline.Run(records, ops)
		if err != nil {
			return nil, err
		}
		as.observer.ObservePipelineDuration(time.Since(start))

		return json.Marshal(out)
	})
}

func (as *AggregationService) Fetch(entry *models.CacheEntry) ([]byte, error) {
	return as.cache.Fetch(entry)
}
