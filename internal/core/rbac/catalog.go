// Package rbac holds the permission catalog and the pure evaluation logic
// for role-based access control: flattening user role assignments into a
// permission set and filtering navigation menus against it.
package rbac

// Permission strings follow the resource:action:verb convention. The
// catalog below is the single source of truth for every capability the
// platform knows about; the seeder and the route table both draw from it.

// Users.
const (
	PermUsersCreate = "user:action:create"
	PermUsersRead   = "user:action:read"
	PermUsersUpdate = "user:action:update"
	PermUsersDelete = "user:action:delete"
	PermUsersManage = "user:action:manage"
)

// Organizations.
const (
	PermOrganizationsCreate = "organization:action:create"
	PermOrganizationsRead   = "organization:action:read"
	PermOrganizationsUpdate = "organization:action:update"
	PermOrganizationsDelete = "organization:action:delete"
)

// Races.
const (
	PermRacesCreate  = "race:action:create"
	PermRacesRead    = "race:action:read"
	PermRacesUpdate  = "race:action:update"
	PermRacesDelete  = "race:action:delete"
	PermRacesPublish = "race:action:publish"
)

// Race timing.
const (
	PermTimingRecord = "timing:action:record"
	PermTimingVerify = "timing:action:verify"
	PermTimingRead   = "timing:action:read"
	PermTimingDelete = "timing:action:delete"
)

// Tracks.
const (
	PermTracksCreate = "track:action:create"
	PermTracksRead   = "track:action:read"
	PermTracksUpdate = "track:action:update"
	PermTracksDelete = "track:action:delete"
)

// Categories.
const (
	PermCategoriesCreate = "category:action:create"
	PermCategoriesRead   = "category:action:read"
	PermCategoriesUpdate = "category:action:update"
	PermCategoriesDelete = "category:action:delete"
)

// Bicycles.
const (
	PermBicyclesCreate = "bicycle:action:create"
	PermBicyclesRead   = "bicycle:action:read"
	PermBicyclesUpdate = "bicycle:action:update"
	PermBicyclesDelete = "bicycle:action:delete"
)

// Participants.
const (
	PermParticipantsCreate = "participant:action:create"
	PermParticipantsRead   = "participant:action:read"
	PermParticipantsUpdate = "participant:action:update"
	PermParticipantsDelete = "participant:action:delete"
)

// Payments.
const (
	PermPaymentsCreate = "payment:action:create"
	PermPaymentsRead   = "payment:action:read"
	PermPaymentsUpdate = "payment:action:update"
	PermPaymentsDelete = "payment:action:delete"
)

// Checkpoints.
const (
	PermCheckpointsCreate = "checkpoint:action:create"
	PermCheckpointsRead   = "checkpoint:action:read"
	PermCheckpointsUpdate = "checkpoint:action:update"
	PermCheckpointsDelete = "checkpoint:action:delete"
)

// Organization members.
const (
	PermOrgMembersCreate = "org_member:action:create"
	PermOrgMembersRead   = "org_member:action:read"
	PermOrgMembersUpdate = "org_member:action:update"
	PermOrgMembersDelete = "org_member:action:delete"
)

// System.
const (
	PermSystemManage = "system:action:manage"
)

var catalog = []string{
	PermUsersCreate, PermUsersRead, PermUsersUpdate, PermUsersDelete, PermUsersManage,
	PermOrganizationsCreate, PermOrganizationsRead, PermOrganizationsUpdate, PermOrganizationsDelete,
	PermRacesCreate, PermRacesRead, PermRacesUpdate, PermRacesDelete, PermRacesPublish,
	PermTimingRecord, PermTimingVerify, PermTimingRead, PermTimingDelete,
	PermTracksCreate, PermTracksRead, PermTracksUpdate, PermTracksDelete,
	PermCategoriesCreate, PermCategoriesRead, PermCategoriesUpdate, PermCategoriesDelete,
	PermBicyclesCreate, PermBicyclesRead, PermBicyclesUpdate, PermBicyclesDelete,
	PermParticipantsCreate, PermParticipantsRead, PermParticipantsUpdate, PermParticipantsDelete,
	PermPaymentsCreate, PermPaymentsRead, PermPaymentsUpdate, PermPaymentsDelete,
	PermCheckpointsCreate, PermCheckpointsRead, PermCheckpointsUpdate, PermCheckpointsDelete,
	PermOrgMembersCreate, PermOrgMembersRead, PermOrgMembersUpdate, PermOrgMembersDelete,
	PermSystemManage,
}

// All returns a copy of every permission string in the catalog.
func All() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}
