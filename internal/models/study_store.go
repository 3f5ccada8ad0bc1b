package models

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Study holds the ordered version list and the current-version pointer.
// CurrentDataVersion indexes into DataVersions; -1 means no version yet.
type Study struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	DataVersions       []*DataVersion `json:"dataVersions"`
	CurrentDataVersion int            `json:"currentDataVersion"`
	Life               Lifecycle      `json:"life"`
}

// StudyStore is the in-memory arena backing the dictionary, clip log,
// version list and role registry. Rows are append-only and soft-deleted;
// reads copy slices out under the read lock, version mutations take the
// write lock so snapshot and pointer updates are atomic.
type StudyStore struct {
	mu      sync.RWMutex
	studies map[string]*Study
	fields  map[string][]*FieldDef
	clips   map[string][]*DataClip
	roles   map[string][]*Role
}

func NewStudyStore() *StudyStore {
	return &StudyStore{
		studies: make(map[string]*Study),
		fields:  make(map[string][]*FieldDef),
		clips:   make(map[string][]*DataClip),
		roles:   make(map[string][]*Role),
	}
}

func (s *StudyStore) AddStudy(study *Study) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.studies[study.ID] = study
}

func (s *StudyStore) GetStudy(id string) (*Study, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	study, ok := s.studies[id]
	return study, ok
}

func (s *StudyStore) Studies() []*Study {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Study, 0, len(s.studies))
	for _, st := range s.studies {
		out = append(out, st)
	}
	return out
}

func (s *StudyStore) CountStudies() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.studies)
}

func (s *StudyStore) CountClips() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, clips := range s.clips {
		n += len(clips)
	}
	return n
}

func (s *StudyStore) AppendField(f *FieldDef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[f.StudyID] = append(s.fields[f.StudyID], f)
}

// Fields returns the study's field rows in append order. The slice is a
// copy; rows are shared and must be treated as immutable outside the
// store's own stamping operations.
func (s *StudyStore) Fields(studyID string) []*FieldDef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*FieldDef(nil), s.fields[studyID]...)
}

func (s *StudyStore) AppendClip(c *DataClip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clips[c.StudyID] = append(s.clips[c.StudyID], c)
}

func (s *StudyStore) Clips(studyID string) []*DataClip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*DataClip(nil), s.clips[studyID]...)
}

// DeleteClip stamps the lifecycle delete on a clip row. The row stays in
// the log.
func (s *StudyStore) DeleteClip(studyID, clipID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clips[studyID] {
		if c.ID == clipID && !c.Life.Deleted() {
			now := time.Now()
			c.Life.DeletedTime = &now
			return nil
		}
	}
	return ErrClipNotFound
}

// DeleteField stamps the lifecycle delete on every current generation of
// the field.
func (s *StudyStore) DeleteField(studyID, fieldID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	found := false
	for _, f := range s.fields[studyID] {
		if f.FieldID == fieldID && !f.Life.Deleted() {
			f.Life.DeletedTime = &now
			found = true
		}
	}
	if !found {
		return ErrFieldNotFound
	}
	return nil
}

func (s *StudyStore) AddRole(r *Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[r.StudyID] = append(s.roles[r.StudyID], r)
}

func (s *StudyStore) Roles(studyID string) []*Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Role(nil), s.roles[studyID]...)
}

// CreateDataVersion validates the version string, stamps every pending
// unversioned non-deleted field and clip with the new version id, appends
// the version and advances the current pointer. The whole operation runs
// under one write lock so two concurrent snapshots can never both claim
// the same version string.
func (s *StudyStore) CreateDataVersion(studyID, version, tag string) (*DataVersion, error) {
	if _, err := strconv.ParseFloat(version, 64); err != nil {
		return nil, ErrVersionNotFloat
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	study, ok := s.studies[studyID]
	if !ok {
		return nil, ErrStudyNotFound
	}
	for _, dv := range study.DataVersions {
		if dv.Version == version {
			return nil, ErrVersionUsed
		}
	}

	var pendingFields []*FieldDef
	for _, f := range s.fields[studyID] {
		if f.Unversioned() && !f.Life.Deleted() {
			pendingFields = append(pendingFields, f)
		}
	}
	var pendingClips []*DataClip
	for _, c := range s.clips[studyID] {
		if c.Unversioned() && !c.Life.Deleted() {
			pendingClips = append(pendingClips, c)
		}
	}
	if len(pendingFields) == 0 && len(pendingClips) == 0 {
		return nil, ErrNothingToUpdate
	}

	dv := &DataVersion{
		ID:          uuid.NewString(),
		Version:     version,
		Tag:         tag,
		ContentID:   uuid.NewString(),
		CreatedTime: time.Now(),
	}
	for _, f := range pendingFields {
		f.DataVersion = dv.ID
	}
	for _, c := range pendingClips {
		c.DataVersion = dv.ID
	}
	study.DataVersions = append(study.DataVersions, dv)
	study.CurrentDataVersion = len(study.DataVersions) - 1
	return dv, nil
}

// SetCurrentVersion moves the current-version pointer. Nothing else
// changes; later versions stay in the list.
func (s *StudyStore) SetCurrentVersion(studyID, versionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	study, ok := s.studies[studyID]
	if !ok {
		return ErrStudyNotFound
	}
	for i, dv := range study.DataVersions {
		if dv.ID == versionID {
			study.CurrentDataVersion = i
			return nil
		}
	}
	return ErrVersionNotFound
}

// ResolveVersion pins an empty versionID to the study's current version
// id. The pointer and the version list are read under one read lock, so
// a concurrent CreateDataVersion can never be observed half-applied.
// An empty return with nil error means the study has no versions yet.
func (s *StudyStore) ResolveVersion(studyID, versionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	study, ok := s.studies[studyID]
	if !ok {
		return "", ErrStudyNotFound
	}
	if versionID != "" {
		for _, dv := range study.DataVersions {
			if dv.ID == versionID {
				return versionID, nil
			}
		}
		return "", ErrVersionNotFound
	}
	if study.CurrentDataVersion >= 0 && study.CurrentDataVersion < len(study.DataVersions) {
		return study.DataVersions[study.CurrentDataVersion].ID, nil
	}
	return "", nil
}

// VersionBoundary resolves the set of version ids visible at the given
// version. An empty versionID means the study's current version. The
// second return is false when the version id is unknown.
func (s *StudyStore) VersionBoundary(studyID, versionID string) (map[string]bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	study, ok := s.studies[studyID]
	if !ok {
		return nil, false
	}
	idx := study.CurrentDataVersion
	if versionID != "" {
		idx = -1
		for i, dv := range study.DataVersions {
			if dv.ID == versionID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, false
		}
	}
	boundary := make(map[string]bool, idx+1)
	for i := 0; i <= idx && i < len(study.DataVersions); i++ {
		boundary[study.DataVersions[i].ID] = true
	}
	return boundary, true
}
