package providers

import (
	"github.com/gookit/validate"

	"sds/internal/structures"
)

// CnfValidator checks the loaded configuration against the rule tags on
// the structures.Config sections.
type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	sections := []any{
		&cv.conf.WebServer,
		&cv.conf.Persistence,
		&cv.conf.Logger,
		&cv.conf.Store,
	}
	for _, section := range sections {
		v := validate.Struct(section)
		if !v.Validate() {
			return v.Errors.OneError()
		}
	}
	return nil
}
