package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"sds/internal/models"
	"sds/internal/persistence/interfaces"
	"sds/internal/structures"
	"sds/internal/verifier"
)

// MetricsObserverInterface is the slice of the metrics provider the data
// plane reports into.
type MetricsObserverInterface interface {
	IncUploadsTotal(outcome string)
	ObservePipelineDuration(duration time.Duration)
}

type DataServiceInterface interface {
	UploadClips(requester *models.Requester, studyID string, inputs []*models.ClipInput) ([]*models.ClipUploadResult, error)
	UploadFile(requester *models.Requester, studyID, fileName string, content []byte) (string, error)
	DeleteClip(requester *models.Requester, studyID, clipID string) error
	GetData(requester *models.Requester, studyID, versionID string, fieldSelection []string) ([]*models.DataClip, error)
}

// DataService is the write/read path over the clip log: schema-on-write
// validation against the field dictionary, permission gating and
// version-bounded reads.
type DataService struct {
	conf        *structures.Config
	store       *models.StudyStore
	permissions PermissionServiceInterface
	blobs       interfaces.BlobStoreInterface
	observer    MetricsObserverInterface
}

func NewDataService(conf *structures.Config, store *models.StudyStore, permissions PermissionServiceInterface, blobs interfaces.BlobStoreInterface, observer MetricsObserverInterface) DataServiceInterface {
	return &DataService{
		conf:        conf,
		store:       store,
		permissions: permissions,
		blobs:       blobs,
		observer:    observer,
	}
}

// activeField returns the newest non-deleted generation for a field id.
func (ds *DataService) activeField(studyID, fieldID string) *models.FieldDef {
	var active *models.FieldDef
	for _, f := range ds.store.Fields(studyID) {
		if f.FieldID == fieldID && !f.Life.Deleted() {
			active = f
		}
	}
	return active
}

// UploadClips validates and appends a batch of clips. Each input is
// evaluated independently: the returned slice carries one outcome per
// element and a failed item never aborts its siblings. Only a missing
// study fails the call as a whole.
func (ds *DataService) UploadClips(requester *models.Requester, studyID string, inputs []*models.ClipInput) ([]*models.ClipUploadResult, error) {
	if _, ok := ds.store.GetStudy(studyID); !ok {
		return nil, models.ErrStudyNotFound
	}

	results := make([]*models.ClipUploadResult, 0, len(inputs))
	for _, input := range inputs {
		result := ds.uploadOne(requester, studyID, input)
		if result.Successful {
			ds.observer.IncUploadsTotal("success")
		} else {
			ds.observer.IncUploadsTotal("failure")
		}
		results = append(results, result)
	}
	return results, nil
}

func fail(description string) *models.ClipUploadResult {
	return &models.ClipUploadResult{Successful: false, Description: description}
}

func (ds *DataService) uploadOne(requester *models.Requester, studyID string, input *models.ClipInput) *models.ClipUploadResult {
	field := ds.activeField(studyID, input.FieldID)
	if field == nil {
		return fail(fmt.Sprintf("Field %s: %s", input.FieldID, models.ErrFieldNotFound))
	}

	coerced, err := models.Coerce(field, input.Value, ds.conf.Store.SupportedFileTypes)
	if err != nil {
		return fail(fmt.Sprintf("Field %s: %s", input.FieldID, err))
	}

	if !ds.permissions.CanAccess(requester, studyID, input.FieldID, input.Properties, models.PermissionWrite) {
		return fail(models.NoPermissionError)
	}

	// Verifiers resolve variables against the clip under test.
	props := make(map[string]any, len(input.Properties))
	for k, v := range input.Properties {
		props[k] = v
	}
	record := models.NewRecord(map[string]any{
		"value":      coerced,
		"properties": props,
	})

	for _, p := range field.Properties {
		if p.Required {
			if _, present := input.Properties[p.Name]; !present {
				return fail(fmt.Sprintf("Field %s: Property %s is required.", input.FieldID, p.Name))
			}
		}
	}

	// Properties without a definition ride along unchecked.
	names := make([]string, 0, len(input.Properties))
	for name := range input.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := field.PropertyDef(name)
		if p == nil {
			continue
		}
		ctx := verifier.Context{Self: input.Properties[name], Resolve: record.Lookup}
		if !verifier.EvaluateGroup(p.Verifier, ctx) {
			return fail(fmt.Sprintf("Field %s value %s: Property %s failed to pass the verifier.", input.FieldID, input.Value, name))
		}
	}

	ctx := verifier.Context{Self: coerced, Resolve: record.Lookup}
	if !verifier.EvaluateGroup(field.Verifier, ctx) {
		return fail(fmt.Sprintf("Field %s value %s: Failed to pass the verifier.", input.FieldID, input.Value))
	}

	properties := make(map[string]string, len(input.Properties))
	for k, v := range input.Properties {
		properties[k] = v
	}
	clip := &models.DataClip{
		ID:         uuid.NewString(),
		StudyID:    studyID,
		FieldID:    input.FieldID,
		Value:      input.Value,
		Properties: properties,
		Life:       models.Lifecycle{CreatedTime: time.Now()},
	}
	ds.store.AppendClip(clip)
	return &models.ClipUploadResult{Successful: true, ID: clip.ID}
}

// UploadFile stores raw file bytes in the blob store and returns the
// reference to use as a FILE-typed clip value. The file name rides along
// after the content address so the extension check still applies at clip
// upload time.
func (ds *DataService) UploadFile(requester *models.Requester, studyID, fileName string, content []byte) (string, error) {
	if _, ok := ds.store.GetStudy(studyID); !ok {
		return "", models.ErrStudyNotFound
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !slices.Contains(ds.conf.Store.SupportedFileTypes, ext) {
		return "", models.ErrFileType
	}
	uri, err := ds.blobs.Put(content)
	if err != nil {
		return "", err
	}
	return uri + "/" + fileName, nil
}

func (ds *DataService) DeleteClip(requester *models.Requester, studyID, clipID string) error {
	if _, ok := ds.store.GetStudy(studyID); !ok {
		return models.ErrStudyNotFound
	}
	for _, clip := range ds.store.Clips(studyID) {
		if clip.ID != clipID || clip.Life.Deleted() {
			continue
		}
		if !ds.permissions.CanAccess(requester, studyID, clip.FieldID, clip.Properties, models.PermissionDelete) {
			return errors.New(models.NoDeletePermissionError)
		}
		return ds.store.DeleteClip(studyID, clipID)
	}
	return models.ErrClipNotFound
}

// GetData returns the permission-filtered clips visible at the version
// boundary, in append (creation) order. An empty versionID resolves to
// the study's current version. Rows sharing a (fieldId, properties) key
// are all returned; newest-wins selection is a pipeline concern
// (LeaveOne over the creation order), not a read-path one.
func (ds *DataService) GetData(requester *models.Requester, studyID, versionID string, fieldSelection []string) ([]*models.DataClip, error) {
	if _, ok := ds.store.GetStudy(studyID); !ok {
		return nil, models.ErrStudyNotFound
	}
	boundary, ok := ds.store.VersionBoundary(studyID, versionID)
	if !ok {
		return nil, models.ErrVersionNotFound
	}

	candidates := make([]*models.DataClip, 0)
	for _, clip := range ds.store.Clips(studyID) {
		if clip.Life.Deleted() {
			continue
		}
		if len(fieldSelection) > 0 && !slices.Contains(fieldSelection, clip.FieldID) {
			continue
		}
		candidates = append(candidates, clip)
	}

	return ds.permissions.FilterReadableClips(requester, studyID, boundary, candidates), nil
}
