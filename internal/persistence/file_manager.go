package persistence

import (
	"os"

	json "github.com/goccy/go-json"

	"sds/internal/models"
	"sds/internal/persistence/interfaces"
	"sds/internal/providers"
)

// FileManager writes the whole arena plus the result-cache entry log as
// one compressed JSON snapshot, using the write-tmp-then-rename dance so
// a crash mid-save never corrupts the previous snapshot.
type FileManager struct {
	store      *models.StudyStore
	cache      interfaces.CacheEntrySourceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(store *models.StudyStore, cache interfaces.CacheEntrySourceInterface, compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		store:      store,
		cache:      cache,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	env := f.store.Snapshot()
	env.CacheEntries = f.cache.Entries()

	jsonData, err := json.Marshal(env)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var env models.StorageV1
	if err := json.Unmarshal(decompressed, &env); err != nil {
		return err
	}
	if env.Version != 1 {
		f.logger.Warnf(providers.TypeApp, "Unknown snapshot version %d, refusing to load", env.Version)
		return nil
	}
	if err := f.store.Restore(&env); err != nil {
		return err
	}
	f.cache.RestoreEntries(env.CacheEntries)
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
