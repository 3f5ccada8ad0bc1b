package services

import (
	"sds/internal/models"
)

type PermissionServiceInterface interface {
	FilterReadableClips(requester *models.Requester, studyID string, boundary map[string]bool, clips []*models.DataClip) []*models.DataClip
	CanAccess(requester *models.Requester, studyID, fieldID string, props map[string]string, perm models.Permission) bool
}

// PermissionService narrows reads and gates writes using the role data
// the identity layer already resolved onto the requester. Absence of any
// matching permission entry excludes the clip: the filter fails closed.
type PermissionService struct{}

func NewPermissionService() PermissionServiceInterface {
	return &PermissionService{}
}

func (ps *PermissionService) entries(requester *models.Requester, studyID string) []*models.DataPermission {
	var out []*models.DataPermission
	for _, role := range requester.Roles {
		if role.StudyID != studyID {
			continue
		}
		out = append(out, role.DataPermissions...)
	}
	return out
}

// CanAccess reports whether any permission entry grants perm over the
// field/property combination. Version visibility does not apply here:
// writes and deletes always target unversioned rows.
func (ps *PermissionService) CanAccess(requester *models.Requester, studyID, fieldID string, props map[string]string, perm models.Permission) bool {
	if requester == nil {
		return false
	}
	for _, dp := range ps.entries(requester, studyID) {
		if dp.Allows(perm) && dp.MatchesField(fieldID) && dp.MatchesProperties(props) {
			return true
		}
	}
	return false
}

// FilterReadableClips keeps the clips some permission entry fully
// matches: field regex, every constrained property regex, and the version
// rule — a versioned clip must fall inside the boundary, an unversioned
// clip needs an entry with includeUnVersioned set. Visibility is
// whole-clip; there is no partial-field redaction.
func (ps *PermissionService) FilterReadableClips(requester *models.Requester, studyID string, boundary map[string]bool, clips []*models.DataClip) []*models.DataClip {
	if requester == nil {
		return nil
	}
	entries := ps.entries(requester, studyID)
	out := make([]*models.DataClip, 0, len(clips))
	for _, clip := range clips {
		for _, dp := range entries {
			if !dp.Allows(models.PermissionRead) {
				continue
			}
			if !dp.MatchesField(clip.FieldID) || !dp.MatchesProperties(clip.Properties) {
				continue
			}
			if clip.Unversioned() {
				if !dp.IncludeUnversioned {
					continue
				}
			} else if !boundary[clip.DataVersion] {
				continue
			}
			out = append(out, clip)
			break
		}
	}
	return out
}
