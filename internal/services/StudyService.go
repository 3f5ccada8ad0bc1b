package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sds/internal/models"
	"sds/internal/verifier"
)

type StudyServiceInterface interface {
	CreateStudy(name string) (*models.Study, error)
	GetStudy(id string) (*models.Study, error)
	AddRole(studyID, name string, permissions []*models.DataPermission) (*models.Role, error)
	CreateField(def *models.FieldDef) (*models.FieldDef, error)
	DeleteField(studyID, fieldID string) error
	GetFields(studyID, versionID string, includeUnversioned bool) ([]*models.FieldDef, error)
	CreateDataVersion(studyID, version, tag string) (*models.DataVersion, error)
	SetCurrentVersion(studyID, versionID string) error
	CountStudies() int
	CountClips() int
}

// StudyService owns the study registry, the field dictionary and the
// data-version list.
type StudyService struct {
	store *models.StudyStore
}

func NewStudyService(store *models.StudyStore) StudyServiceInterface {
	return &StudyService{store: store}
}

func (ss *StudyService) CreateStudy(name string) (*models.Study, error) {
	study := &models.Study{
		ID:                 uuid.NewString(),
		Name:               name,
		CurrentDataVersion: -1,
		Life:               models.Lifecycle{CreatedTime: time.Now()},
	}
	ss.store.AddStudy(study)
	return study, nil
}

func (ss *StudyService) GetStudy(id string) (*models.Study, error) {
	study, ok := ss.store.GetStudy(id)
	if !ok {
		return nil, models.ErrStudyNotFound
	}
	return study, nil
}

func (ss *StudyService) AddRole(studyID, name string, permissions []*models.DataPermission) (*models.Role, error) {
	if _, ok := ss.store.GetStudy(studyID); !ok {
		return nil, models.ErrStudyNotFound
	}
	for _, dp := range permissions {
		if err := dp.Compile(); err != nil {
			return nil, err
		}
	}
	role := &models.Role{
		ID:              uuid.NewString(),
		StudyID:         studyID,
		Name:            name,
		DataPermissions: permissions,
	}
	ss.store.AddRole(role)
	return role, nil
}

func (ss *StudyService) CreateField(def *models.FieldDef) (*models.FieldDef, error) {
	if _, ok := ss.store.GetStudy(def.StudyID); !ok {
		return nil, models.ErrStudyNotFound
	}
	if def.DataType == models.TypeCategorical && len(def.CategoricalOptions) == 0 {
		return nil, fmt.Errorf("%s-%s: possible values can't be empty if data type is categorical.", def.FieldID, def.FieldName)
	}
	if err := verifier.Validate(def.Verifier); err != nil {
		return nil, fmt.Errorf("field %s: %w", def.FieldID, err)
	}
	for _, p := range def.Properties {
		if err := verifier.Validate(p.Verifier); err != nil {
			return nil, fmt.Errorf("field %s property %s: %w", def.FieldID, p.Name, err)
		}
	}
	for _, existing := range ss.store.Fields(def.StudyID) {
		if !existing.Unversioned() || existing.Life.Deleted() {
			continue
		}
		if existing.FieldID == def.FieldID {
			return nil, fmt.Errorf("Field %s: Field already exists.", def.FieldID)
		}
		if existing.FieldName == def.FieldName {
			return nil, fmt.Errorf("Field name %s has been used.", def.FieldName)
		}
	}

	row := *def
	row.ID = uuid.NewString()
	row.DataVersion = ""
	row.Life = models.Lifecycle{CreatedTime: time.Now()}
	ss.store.AppendField(&row)
	return &row, nil
}

func (ss *StudyService) DeleteField(studyID, fieldID string) error {
	if _, ok := ss.store.GetStudy(studyID); !ok {
		return models.ErrStudyNotFound
	}
	if err := ss.store.DeleteField(studyID, fieldID); err != nil {
		return fmt.Errorf("Field %s: %w", fieldID, err)
	}
	return nil
}

// GetFields returns the latest non-deleted generation per fieldId visible
// at the requested version boundary. An empty versionID means the study's
// current version.
func (ss *StudyService) GetFields(studyID, versionID string, includeUnversioned bool) ([]*models.FieldDef, error) {
	if _, ok := ss.store.GetStudy(studyID); !ok {
		return nil, models.ErrStudyNotFound
	}
	boundary, ok := ss.store.VersionBoundary(studyID, versionID)
	if !ok {
		return nil, models.ErrVersionNotFound
	}

	latest := make(map[string]*models.FieldDef)
	var order []string
	for _, f := range ss.store.Fields(studyID) {
		if f.Life.Deleted() {
			continue
		}
		visible := false
		if f.Unversioned() {
			visible = includeUnversioned
		} else {
			visible = boundary[f.DataVersion]
		}
		if !visible {
			continue
		}
		if _, seen := latest[f.FieldID]; !seen {
			order = append(order, f.FieldID)
		}
		latest[f.FieldID] = f
	}

	out := make([]*models.FieldDef, 0, len(order))
	for _, id := range order {
		out = append(out, latest[id])
	}
	return out, nil
}

func (ss *StudyService) CreateDataVersion(studyID, version, tag string) (*models.DataVersion, error) {
	return ss.store.CreateDataVersion(studyID, version, tag)
}

func (ss *StudyService) SetCurrentVersion(studyID, versionID string) error {
	return ss.store.SetCurrentVersion(studyID, versionID)
}

func (ss *StudyService) CountStudies() int {
	return ss.store.CountStudies()
}

func (ss *StudyService) CountClips() int {
	return ss.store.CountClips()
}
