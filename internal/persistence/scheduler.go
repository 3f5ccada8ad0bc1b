package persistence

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"sds/internal/persistence/interfaces"
	"sds/internal/providers"
	"sds/internal/structures"
)

// Scheduler periodically snapshots the store to disk. opsMu serializes
// scheduled saves against the final shutdown save.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	fileManager *FileManager
	cron        *cron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) save() error {
	start := time.Now()
	if err := s.fileManager.SaveToFile(s.config.Persistence.FilePath); err != nil {
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func (s *Scheduler) Init() {
	s.cron = cron.New()
	interval := s.config.Persistence.SaveInterval

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.save(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	})
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Failed to schedule persistence job: %s", err)
		return
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting store to file...")
	if err := s.save(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		fileManager: fileManager,
	}
}
