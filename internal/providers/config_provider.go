package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"sds/internal/structures"
)

var defaultFileTypes = []string{".csv", ".tsv", ".txt", ".json", ".pdf", ".png", ".jpg", ".jpeg", ".zip"}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "SDS_LOG_LEVEL")
	viper.BindEnv("persistence.saveInterval", "SDS_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "SDS_CACHE_ENABLED")
	viper.BindEnv("cache.size", "SDS_CACHE_SIZE")
	viper.BindEnv("store.blobDir", "SDS_BLOB_DIR")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if len(conf.Store.SupportedFileTypes) == 0 {
		conf.Store.SupportedFileTypes = defaultFileTypes
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "StudyDataStore"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
