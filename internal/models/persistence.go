package models

// StorageV1 is the versioned snapshot envelope written by the file
// manager. The explicit Version field leaves room for format migrations
// on load.
type StorageV1 struct {
	Version      int                    `json:"version"`
	Studies      []*Study               `json:"studies"`
	Fields       map[string][]*FieldDef `json:"fields"`
	Clips        map[string][]*DataClip `json:"clips"`
	Roles        map[string][]*Role     `json:"roles"`
	CacheEntries []*CacheEntry          `json:"cacheEntries"`
}

// Snapshot copies the arena into a persistable envelope. Cache entries are
// owned by the result cache and merged in by the file manager.
func (s *StudyStore) Snapshot() *StorageV1 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	env := &StorageV1{
		Version: 1,
		Fields:  make(map[string][]*FieldDef, len(s.fields)),
		Clips:   make(map[string][]*DataClip, len(s.clips)),
		Roles:   make(map[string][]*Role, len(s.roles)),
	}
	for _, study := range s.studies {
		env.Studies = append(env.Studies, study)
	}
	for id, rows := range s.fields {
		env.Fields[id] = append([]*FieldDef(nil), rows...)
	}
	for id, rows := range s.clips {
		env.Clips[id] = append([]*DataClip(nil), rows...)
	}
	for id, rows := range s.roles {
		env.Roles[id] = append([]*Role(nil), rows...)
	}
	return env
}

// Restore replaces the arena contents with a loaded snapshot and
// recompiles role permission patterns.
func (s *StudyStore) Restore(env *StorageV1) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.studies = make(map[string]*Study, len(env.Studies))
	for _, study := range env.Studies {
		s.studies[study.ID] = study
	}
	s.fields = env.Fields
	if s.fields == nil {
		s.fields = make(map[string][]*FieldDef)
	}
	s.clips = env.Clips
	if s.clips == nil {
		s.clips = make(map[string][]*DataClip)
	}
	s.roles = env.Roles
	if s.roles == nil {
		s.roles = make(map[string][]*Role)
	}
	for _, roles := range s.roles {
		for _, r := range roles {
			for _, dp := range r.DataPermissions {
				if err := dp.Compile(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
