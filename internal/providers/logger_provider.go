package providers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"sds/internal/structures"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeStore
	TypeQuery
	TypeGet
	TypePost
)

// GetLogTypeByRequestType maps an HTTP method to the access-log type.
func GetLogTypeByRequestType(method string) TypeEnum {
	if method == http.MethodPost {
		return TypePost
	}
	return TypeGet
}

type Logger interface {
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Errorf(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

// LogProvider writes one zerolog file per concern: application lifecycle,
// store mutations, query reads and HTTP access.
type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*os.File
}

var logFileByType = map[TypeEnum]string{
	TypeApp:   "app.log",
	TypeStore: "store.log",
	TypeQuery: "query.log",
	TypeGet:   "access.log",
	TypePost:  "access.log",
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(conf.Logger.Dir, 0o755); err != nil {
		return nil, err
	}

	lp := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger)}
	opened := make(map[string]*os.File)
	for t, name := range logFileByType {
		file, ok := opened[name]
		if !ok {
			file, err = os.OpenFile(
				filepath.Join(conf.Logger.Dir, name),
				os.O_CREATE|os.O_WRONLY|os.O_APPEND,
				os.FileMode(conf.Logger.Mode),
			)
			if err != nil {
				lp.Close()
				return nil, err
			}
			opened[name] = file
			lp.files = append(lp.files, file)
		}
		lp.loggers[t] = zerolog.New(file).Level(level).With().Timestamp().Logger()
	}
	return lp, nil
}

func (lp *LogProvider) log(t TypeEnum, level zerolog.Level, format string, args ...interface{}) {
	logger, ok := lp.loggers[t]
	if !ok {
		logger = lp.loggers[TypeApp]
	}
	logger.WithLevel(level).Msgf(format, args...)
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t, zerolog.DebugLevel, format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	lp.log(t, zerolog.InfoLevel, format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t, zerolog.WarnLevel, format, args...)
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t, zerolog.ErrorLevel, format, args...)
}

func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	lp.log(t, zerolog.FatalLevel, format, args...)
	lp.Close()
	os.Exit(1)
}

func (lp *LogProvider) Close() {
	for _, f := range lp.files {
		_ = f.Close()
	}
	lp.files = nil
}
