package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

// In-memory repository mocks shared across service tests.

type userRepoMock struct {
	users     map[string]domain.User
	userRoles map[string][]string
	createErr error
	updateErr error
}

func newUserRepoMock() *userRepoMock {
	return &userRepoMock{
		users:     make(map[string]domain.User),
		userRoles: make(map[string][]string),
	}
}

func (m *userRepoMock) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrConflict
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		return &user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) GetByAPIToken(_ context.Context, token string) (*domain.User, error) {
	for _, user := range m.users {
		if user.APIToken != nil && *user.APIToken == token {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) GetWithAccess(_ context.Context, id string) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (m *userRepoMock) List(_ context.Context, _ port.UserFilter) ([]domain.User, error) {
	ids := make([]string, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, m.users[id])
	}
	return users, nil
}

func (m *userRepoMock) Count(_ context.Context, _ port.UserFilter) (int, error) {
	return len(m.users), nil
}

func (m *userRepoMock) Update(_ context.Context, user domain.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) UpdatePassword(_ context.Context, id, passwordHash string, _ time.Time) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	m.users[id] = user
	return nil
}

func (m *userRepoMock) SetAPIToken(_ context.Context, id string, token *string) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.APIToken = token
	m.users[id] = user
	return nil
}

func (m *userRepoMock) SoftDelete(_ context.Context, id string) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsActive = false
	m.users[id] = user
	return nil
}

func (m *userRepoMock) AssignRoles(_ context.Context, userID string, roleIDs []string) (int, error) {
	existing := make(map[string]struct{})
	for _, id := range m.userRoles[userID] {
		existing[id] = struct{}{}
	}

	assigned := 0
	for _, id := range roleIDs {
		if _, ok := existing[id]; !ok {
			m.userRoles[userID] = append(m.userRoles[userID], id)
			assigned++
		}
	}
	return assigned, nil
}

func (m *userRepoMock) RevokeRoles(_ context.Context, userID string, roleIDs []string) (int, error) {
	toRemove := make(map[string]struct{})
	for _, id := range roleIDs {
		toRemove[id] = struct{}{}
	}

	filtered := make([]string, 0)
	revoked := 0
	for _, id := range m.userRoles[userID] {
		if _, ok := toRemove[id]; ok {
			revoked++
		} else {
			filtered = append(filtered, id)
		}
	}
	m.userRoles[userID] = filtered
	return revoked, nil
}

type profileRepoMock struct {
	profiles map[string]domain.CyclistProfile
}

func newProfileRepoMock() *profileRepoMock {
	return &profileRepoMock{profiles: make(map[string]domain.CyclistProfile)}
}

func (m *profileRepoMock) Create(_ context.Context, profile domain.CyclistProfile) error {
	m.profiles[profile.ID] = profile
	return nil
}

func (m *profileRepoMock) GetByID(_ context.Context, id string) (*domain.CyclistProfile, error) {
	if profile, ok := m.profiles[id]; ok {
		return &profile, nil
	}
	return nil, repository.ErrNotFound
}

func (m *profileRepoMock) GetByUserID(_ context.Context, userID string) (*domain.CyclistProfile, error) {
	for _, profile := range m.profiles {
		if profile.UserID == userID {
			copied := profile
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *profileRepoMock) Update(_ context.Context, profile domain.CyclistProfile) error {
	if _, ok := m.profiles[profile.ID]; !ok {
		return repository.ErrNotFound
	}
	m.profiles[profile.ID] = profile
	return nil
}

type roleRepoMock struct {
	roles           map[string]domain.Role
	rolePermissions map[string][]string
}

func newRoleRepoMock() *roleRepoMock {
	return &roleRepoMock{
		roles:           make(map[string]domain.Role),
		rolePermissions: make(map[string][]string),
	}
}

func (m *roleRepoMock) Create(_ context.Context, role domain.Role) error {
	for _, existing := range m.roles {
		if existing.Name == role.Name {
			return repository.ErrConflict
		}
	}
	m.roles[role.ID] = role
	return nil
}

func (m *roleRepoMock) Ensure(ctx context.Context, role domain.Role) (*domain.Role, error) {
	if existing, err := m.GetByName(ctx, role.Name); err == nil {
		return existing, nil
	}
	m.roles[role.ID] = role
	return &role, nil
}

func (m *roleRepoMock) GetByID(_ context.Context, id string) (*domain.Role, error) {
	if role, ok := m.roles[id]; ok {
		return &role, nil
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) GetByName(_ context.Context, name string) (*domain.Role, error) {
	for _, role := range m.roles {
		if role.Name == name {
			copied := role
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) List(_ context.Context) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(m.roles))
	for _, role := range m.roles {
		roles = append(roles, role)
	}
	return roles, nil
}

func (m *roleRepoMock) Update(_ context.Context, role domain.Role) error {
	if _, ok := m.roles[role.ID]; !ok {
		return repository.ErrNotFound
	}
	m.roles[role.ID] = role
	return nil
}

func (m *roleRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.roles, id)
	delete(m.rolePermissions, id)
	return nil
}

func (m *roleRepoMock) AssignPermissions(_ context.Context, roleID string, permissionIDs []string) (int, error) {
	existing := make(map[string]struct{})
	for _, id := range m.rolePermissions[roleID] {
		existing[id] = struct{}{}
	}

	assigned := 0
	for _, id := range permissionIDs {
		if _, ok := existing[id]; !ok {
			m.rolePermissions[roleID] = append(m.rolePermissions[roleID], id)
			assigned++
		}
	}
	return assigned, nil
}

func (m *roleRepoMock) RevokePermissions(_ context.Context, roleID string, permissionIDs []string) (int, error) {
	toRemove := make(map[string]struct{})
	for _, id := range permissionIDs {
		toRemove[id] = struct{}{}
	}

	filtered := make([]string, 0)
	revoked := 0
	for _, id := range m.rolePermissions[roleID] {
		if _, ok := toRemove[id]; ok {
			revoked++
		} else {
			filtered = append(filtered, id)
		}
	}
	m.rolePermissions[roleID] = filtered
	return revoked, nil
}

func (m *roleRepoMock) ListByUser(_ context.Context, _ string) ([]domain.Role, error) {
	return nil, nil
}

type permissionRepoMock struct {
	permissions map[string]domain.Permission
}

func newPermissionRepoMock() *permissionRepoMock {
	return &permissionRepoMock{permissions: make(map[string]domain.Permission)}
}

func (m *permissionRepoMock) seed(actions ...string) {
	for _, action := range actions {
		id := "perm-" + action
		m.permissions[id] = domain.Permission{ID: id, Action: action}
	}
}

func (m *permissionRepoMock) Create(_ context.Context, permission domain.Permission) error {
	m.permissions[permission.ID] = permission
	return nil
}

func (m *permissionRepoMock) Ensure(ctx context.Context, permission domain.Permission) (*domain.Permission, error) {
	if existing, err := m.GetByAction(ctx, permission.Action); err == nil {
		return existing, nil
	}
	m.permissions[permission.ID] = permission
	return &permission, nil
}

func (m *permissionRepoMock) GetByID(_ context.Context, id string) (*domain.Permission, error) {
	if permission, ok := m.permissions[id]; ok {
		return &permission, nil
	}
	return nil, repository.ErrNotFound
}

func (m *permissionRepoMock) GetByAction(_ context.Context, action string) (*domain.Permission, error) {
	for _, permission := range m.permissions {
		if permission.Action == action {
			copied := permission
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *permissionRepoMock) List(_ context.Context) ([]domain.Permission, error) {
	permissions := make([]domain.Permission, 0, len(m.permissions))
	for _, permission := range m.permissions {
		permissions = append(permissions, permission)
	}
	return permissions, nil
}

func (m *permissionRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.permissions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.permissions, id)
	return nil
}

func (m *permissionRepoMock) ListByRole(_ context.Context, _ string) ([]domain.Permission, error) {
	return nil, nil
}

func (m *permissionRepoMock) ListByUser(_ context.Context, _ string) ([]domain.Permission, error) {
	return nil, nil
}

type orgRepoMock struct {
	organizations map[string]domain.Organization
}

func newOrgRepoMock() *orgRepoMock {
	return &orgRepoMock{organizations: make(map[string]domain.Organization)}
}

func (m *orgRepoMock) Create(_ context.Context, org domain.Organization) error {
	for _, existing := range m.organizations {
		if existing.Slug == org.Slug {
			return repository.ErrConflict
		}
	}
	m.organizations[org.ID] = org
	return nil
}

func (m *orgRepoMock) GetByID(_ context.Context, id string) (*domain.Organization, error) {
	if org, ok := m.organizations[id]; ok {
		return &org, nil
	}
	return nil, repository.ErrNotFound
}

func (m *orgRepoMock) GetBySlug(_ context.Context, slug string) (*domain.Organization, error) {
	for _, org := range m.organizations {
		if org.Slug == slug {
			copied := org
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *orgRepoMock) List(_ context.Context, _ port.OrganizationFilter) ([]domain.Organization, error) {
	organizations := make([]domain.Organization, 0, len(m.organizations))
	for _, org := range m.organizations {
		organizations = append(organizations, org)
	}
	return organizations, nil
}

func (m *orgRepoMock) Count(_ context.Context, _ port.OrganizationFilter) (int, error) {
	return len(m.organizations), nil
}

func (m *orgRepoMock) Update(_ context.Context, org domain.Organization) error {
	if _, ok := m.organizations[org.ID]; !ok {
		return repository.ErrNotFound
	}
	m.organizations[org.ID] = org
	return nil
}

func (m *orgRepoMock) SoftDelete(_ context.Context, id string) error {
	if _, ok := m.organizations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.organizations, id)
	return nil
}

type memberRepoMock struct {
	members map[string]domain.OrganizationMember
}

func newMemberRepoMock() *memberRepoMock {
	return &memberRepoMock{members: make(map[string]domain.OrganizationMember)}
}

func (m *memberRepoMock) Add(_ context.Context, member domain.OrganizationMember) error {
	for _, existing := range m.members {
		if existing.UserID == member.UserID && existing.OrganizationID == member.OrganizationID {
			return nil
		}
	}
	m.members[member.ID] = member
	return nil
}

func (m *memberRepoMock) GetByID(_ context.Context, id string) (*domain.OrganizationMember, error) {
	if member, ok := m.members[id]; ok {
		return &member, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memberRepoMock) ListByOrganization(_ context.Context, organizationID string) ([]domain.OrganizationMember, error) {
	members := make([]domain.OrganizationMember, 0)
	for _, member := range m.members {
		if member.OrganizationID == organizationID {
			members = append(members, member)
		}
	}
	return members, nil
}

func (m *memberRepoMock) ListByUser(_ context.Context, userID string) ([]domain.OrganizationMember, error) {
	members := make([]domain.OrganizationMember, 0)
	for _, member := range m.members {
		if member.UserID == userID {
			members = append(members, member)
		}
	}
	return members, nil
}

func (m *memberRepoMock) UpdateRole(_ context.Context, id string, role domain.OrgRole) error {
	member, ok := m.members[id]
	if !ok {
		return repository.ErrNotFound
	}
	member.Role = role
	m.members[id] = member
	return nil
}

func (m *memberRepoMock) Remove(_ context.Context, id string) error {
	if _, ok := m.members[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.members, id)
	return nil
}

type trackRepoMock struct {
	tracks map[string]domain.Track
}

func newTrackRepoMock() *trackRepoMock {
	return &trackRepoMock{tracks: make(map[string]domain.Track)}
}

func (m *trackRepoMock) Create(_ context.Context, track domain.Track) error {
	m.tracks[track.ID] = track
	return nil
}

func (m *trackRepoMock) GetByID(_ context.Context, id string) (*domain.Track, error) {
	if track, ok := m.tracks[id]; ok {
		return &track, nil
	}
	return nil, repository.ErrNotFound
}

func (m *trackRepoMock) List(_ context.Context) ([]domain.Track, error) {
	tracks := make([]domain.Track, 0, len(m.tracks))
	for _, track := range m.tracks {
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func (m *trackRepoMock) ListByOrganization(_ context.Context, organizationID string) ([]domain.Track, error) {
	tracks := make([]domain.Track, 0)
	for _, track := range m.tracks {
		if track.OrganizationID == organizationID {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

func (m *trackRepoMock) Update(_ context.Context, track domain.Track) error {
	if _, ok := m.tracks[track.ID]; !ok {
		return repository.ErrNotFound
	}
	m.tracks[track.ID] = track
	return nil
}

func (m *trackRepoMock) SoftDelete(_ context.Context, id string) error {
	if _, ok := m.tracks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.tracks, id)
	return nil
}

type checkpointRepoMock struct {
	checkpoints map[string]domain.Checkpoint
}

func newCheckpointRepoMock() *checkpointRepoMock {
	return &checkpointRepoMock{checkpoints: make(map[string]domain.Checkpoint)}
}

func (m *checkpointRepoMock) Create(_ context.Context, checkpoint domain.Checkpoint) error {
	m.checkpoints[checkpoint.ID] = checkpoint
	return nil
}

func (m *checkpointRepoMock) GetByID(_ context.Context, id string) (*domain.Checkpoint, error) {
	if checkpoint, ok := m.checkpoints[id]; ok {
		return &checkpoint, nil
	}
	return nil, repository.ErrNotFound
}

func (m *checkpointRepoMock) ListByTrack(_ context.Context, trackID string) ([]domain.Checkpoint, error) {
	checkpoints := make([]domain.Checkpoint, 0)
	for _, checkpoint := range m.checkpoints {
		if checkpoint.TrackID == trackID {
			checkpoints = append(checkpoints, checkpoint)
		}
	}
	sort.Slice(checkpoints, func(i, j int) bool { return checkpoints[i].Order < checkpoints[j].Order })
	return checkpoints, nil
}

func (m *checkpointRepoMock) Update(_ context.Context, checkpoint domain.Checkpoint) error {
	if _, ok := m.checkpoints[checkpoint.ID]; !ok {
		return repository.ErrNotFound
	}
	m.checkpoints[checkpoint.ID] = checkpoint
	return nil
}

func (m *checkpointRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.checkpoints[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.checkpoints, id)
	return nil
}

type categoryRepoMock struct {
	categories map[string]domain.Category
}

func newCategoryRepoMock() *categoryRepoMock {
	return &categoryRepoMock{categories: make(map[string]domain.Category)}
}

func (m *categoryRepoMock) Create(_ context.Context, category domain.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *categoryRepoMock) GetByID(_ context.Context, id string) (*domain.Category, error) {
	if category, ok := m.categories[id]; ok {
		return &category, nil
	}
	return nil, repository.ErrNotFound
}

func (m *categoryRepoMock) List(_ context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(m.categories))
	for _, category := range m.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (m *categoryRepoMock) Update(_ context.Context, category domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *categoryRepoMock) SoftDelete(_ context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

type raceRepoMock struct {
	races          map[string]domain.Race
	raceCategories map[string][]string
}

func newRaceRepoMock() *raceRepoMock {
	return &raceRepoMock{
		races:          make(map[string]domain.Race),
		raceCategories: make(map[string][]string),
	}
}

func (m *raceRepoMock) Create(_ context.Context, race domain.Race) error {
	m.races[race.ID] = race
	return nil
}

func (m *raceRepoMock) GetByID(_ context.Context, id string) (*domain.Race, error) {
	if race, ok := m.races[id]; ok {
		return &race, nil
	}
	return nil, repository.ErrNotFound
}

func (m *raceRepoMock) List(_ context.Context, _ port.RaceFilter) ([]domain.Race, error) {
	races := make([]domain.Race, 0, len(m.races))
	for _, race := range m.races {
		races = append(races, race)
	}
	return races, nil
}

func (m *raceRepoMock) Count(_ context.Context, _ port.RaceFilter) (int, error) {
	return len(m.races), nil
}

func (m *raceRepoMock) Update(_ context.Context, race domain.Race) error {
	if _, ok := m.races[race.ID]; !ok {
		return repository.ErrNotFound
	}
	m.races[race.ID] = race
	return nil
}

func (m *raceRepoMock) UpdateStatus(_ context.Context, id string, status domain.RaceStatus) error {
	race, ok := m.races[id]
	if !ok {
		return repository.ErrNotFound
	}
	race.Status = status
	m.races[id] = race
	return nil
}

func (m *raceRepoMock) SoftDelete(_ context.Context, id string) error {
	if _, ok := m.races[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.races, id)
	return nil
}

func (m *raceRepoMock) AttachCategories(_ context.Context, raceID string, categoryIDs []string) (int, error) {
	existing := make(map[string]struct{})
	for _, id := range m.raceCategories[raceID] {
		existing[id] = struct{}{}
	}

	attached := 0
	for _, id := range categoryIDs {
		if _, ok := existing[id]; !ok {
			m.raceCategories[raceID] = append(m.raceCategories[raceID], id)
			attached++
		}
	}
	return attached, nil
}

func (m *raceRepoMock) DetachCategory(_ context.Context, raceID, categoryID string) error {
	filtered := make([]string, 0)
	found := false
	for _, id := range m.raceCategories[raceID] {
		if id == categoryID {
			found = true
			continue
		}
		filtered = append(filtered, id)
	}
	if !found {
		return repository.ErrNotFound
	}
	m.raceCategories[raceID] = filtered
	return nil
}

func (m *raceRepoMock) ListCategories(_ context.Context, raceID string) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(m.raceCategories[raceID]))
	for _, id := range m.raceCategories[raceID] {
		categories = append(categories, domain.Category{ID: id})
	}
	return categories, nil
}

type participantRepoMock struct {
	participants map[string]domain.RaceParticipant
}

func newParticipantRepoMock() *participantRepoMock {
	return &participantRepoMock{participants: make(map[string]domain.RaceParticipant)}
}

func (m *participantRepoMock) Create(_ context.Context, participant domain.RaceParticipant) error {
	for _, existing := range m.participants {
		if existing.RaceID == participant.RaceID && existing.ProfileID == participant.ProfileID {
			return repository.ErrConflict
		}
	}
	m.participants[participant.ID] = participant
	return nil
}

func (m *participantRepoMock) GetByID(_ context.Context, id string) (*domain.RaceParticipant, error) {
	if participant, ok := m.participants[id]; ok {
		return &participant, nil
	}
	return nil, repository.ErrNotFound
}

func (m *participantRepoMock) GetByRaceAndProfile(_ context.Context, raceID, profileID string) (*domain.RaceParticipant, error) {
	for _, participant := range m.participants {
		if participant.RaceID == raceID && participant.ProfileID == profileID {
			copied := participant
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *participantRepoMock) ListByRace(_ context.Context, raceID string) ([]domain.RaceParticipant, error) {
	participants := make([]domain.RaceParticipant, 0)
	for _, participant := range m.participants {
		if participant.RaceID == raceID {
			participants = append(participants, participant)
		}
	}
	sort.Slice(participants, func(i, j int) bool { return participants[i].BibNumber < participants[j].BibNumber })
	return participants, nil
}

func (m *participantRepoMock) ListByProfile(_ context.Context, profileID string) ([]domain.RaceParticipant, error) {
	participants := make([]domain.RaceParticipant, 0)
	for _, participant := range m.participants {
		if participant.ProfileID == profileID {
			participants = append(participants, participant)
		}
	}
	return participants, nil
}

func (m *participantRepoMock) CountByRace(_ context.Context, raceID string) (int, error) {
	count := 0
	for _, participant := range m.participants {
		if participant.RaceID == raceID {
			count++
		}
	}
	return count, nil
}

func (m *participantRepoMock) NextBibNumber(_ context.Context, raceID string) (int, error) {
	next := 1
	for _, participant := range m.participants {
		if participant.RaceID == raceID && participant.BibNumber >= next {
			next = participant.BibNumber + 1
		}
	}
	return next, nil
}

func (m *participantRepoMock) Update(_ context.Context, participant domain.RaceParticipant) error {
	if _, ok := m.participants[participant.ID]; !ok {
		return repository.ErrNotFound
	}
	m.participants[participant.ID] = participant
	return nil
}

func (m *participantRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.participants[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.participants, id)
	return nil
}

type timingRepoMock struct {
	timings map[string]domain.RaceTiming
}

func newTimingRepoMock() *timingRepoMock {
	return &timingRepoMock{timings: make(map[string]domain.RaceTiming)}
}

func (m *timingRepoMock) Create(_ context.Context, timing domain.RaceTiming) error {
	for _, existing := range m.timings {
		if existing.ParticipantID == timing.ParticipantID && existing.CheckpointID == timing.CheckpointID {
			return repository.ErrConflict
		}
	}
	m.timings[timing.ID] = timing
	return nil
}

func (m *timingRepoMock) GetByID(_ context.Context, id string) (*domain.RaceTiming, error) {
	if timing, ok := m.timings[id]; ok {
		return &timing, nil
	}
	return nil, repository.ErrNotFound
}

func (m *timingRepoMock) ListByRace(_ context.Context, raceID string) ([]domain.RaceTiming, error) {
	timings := make([]domain.RaceTiming, 0)
	for _, timing := range m.timings {
		if timing.RaceID == raceID {
			timings = append(timings, timing)
		}
	}
	return timings, nil
}

func (m *timingRepoMock) ListByParticipant(_ context.Context, participantID string) ([]domain.RaceTiming, error) {
	timings := make([]domain.RaceTiming, 0)
	for _, timing := range m.timings {
		if timing.ParticipantID == participantID {
			timings = append(timings, timing)
		}
	}
	return timings, nil
}

func (m *timingRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.timings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.timings, id)
	return nil
}

type bicycleRepoMock struct {
	bicycles map[string]domain.Bicycle
}

func newBicycleRepoMock() *bicycleRepoMock {
	return &bicycleRepoMock{bicycles: make(map[string]domain.Bicycle)}
}

func (m *bicycleRepoMock) Create(_ context.Context, bicycle domain.Bicycle) error {
	m.bicycles[bicycle.ID] = bicycle
	return nil
}

func (m *bicycleRepoMock) GetByID(_ context.Context, id string) (*domain.Bicycle, error) {
	if bicycle, ok := m.bicycles[id]; ok {
		return &bicycle, nil
	}
	return nil, repository.ErrNotFound
}

func (m *bicycleRepoMock) ListByProfile(_ context.Context, profileID string) ([]domain.Bicycle, error) {
	bicycles := make([]domain.Bicycle, 0)
	for _, bicycle := range m.bicycles {
		if bicycle.CyclistProfileID == profileID {
			bicycles = append(bicycles, bicycle)
		}
	}
	return bicycles, nil
}

func (m *bicycleRepoMock) Update(_ context.Context, bicycle domain.Bicycle) error {
	if _, ok := m.bicycles[bicycle.ID]; !ok {
		return repository.ErrNotFound
	}
	m.bicycles[bicycle.ID] = bicycle
	return nil
}

func (m *bicycleRepoMock) Deactivate(_ context.Context, id string) error {
	bicycle, ok := m.bicycles[id]
	if !ok {
		return repository.ErrNotFound
	}
	bicycle.IsActive = false
	m.bicycles[id] = bicycle
	return nil
}

type paymentRepoMock struct {
	payments map[string]domain.Payment
}

func newPaymentRepoMock() *paymentRepoMock {
	return &paymentRepoMock{payments: make(map[string]domain.Payment)}
}

func (m *paymentRepoMock) Create(_ context.Context, payment domain.Payment) error {
	m.payments[payment.ID] = payment
	return nil
}

func (m *paymentRepoMock) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	if payment, ok := m.payments[id]; ok {
		return &payment, nil
	}
	return nil, repository.ErrNotFound
}

func (m *paymentRepoMock) ListByUser(_ context.Context, userID string) ([]domain.Payment, error) {
	payments := make([]domain.Payment, 0)
	for _, payment := range m.payments {
		if payment.UserID == userID {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

func (m *paymentRepoMock) ListByRace(_ context.Context, raceID string) ([]domain.Payment, error) {
	payments := make([]domain.Payment, 0)
	for _, payment := range m.payments {
		if payment.RaceID == raceID {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

func (m *paymentRepoMock) UpdateStatus(_ context.Context, id string, status domain.PaymentStatus, transactionID *string) error {
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	if transactionID != nil {
		payment.TransactionID = transactionID
	}
	m.payments[id] = payment
	return nil
}

type auditRepoMock struct {
	entries []domain.AuditLog
}

func (m *auditRepoMock) Insert(_ context.Context, entry domain.AuditLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *auditRepoMock) List(_ context.Context, _ port.AuditFilter) ([]domain.AuditLog, error) {
	return m.entries, nil
}

func (m *auditRepoMock) Count(_ context.Context, _ port.AuditFilter) (int, error) {
	return len(m.entries), nil
}

type statsRepoMock struct {
	totals   port.DashboardTotals
	monthly  []port.MonthlyCount
	results  port.CyclistResults
	upcoming []domain.Race
}

func (m *statsRepoMock) Totals(_ context.Context) (port.DashboardTotals, error) {
	return m.totals, nil
}

func (m *statsRepoMock) MonthlyRegistrations(_ context.Context, _ int) ([]port.MonthlyCount, error) {
	return m.monthly, nil
}

func (m *statsRepoMock) CyclistResults(_ context.Context, _ string) (port.CyclistResults, error) {
	return m.results, nil
}

func (m *statsRepoMock) UpcomingRaces(_ context.Context, _ string, _ int) ([]domain.Race, error) {
	return m.upcoming, nil
}

type menuCacheMock struct {
	entries     map[string][]rbac.MenuItem
	sets        int
	hits        int
	invalidated []string
}

func newMenuCacheMock() *menuCacheMock {
	return &menuCacheMock{entries: make(map[string][]rbac.MenuItem)}
}

func (m *menuCacheMock) Get(_ context.Context, userID string) ([]rbac.MenuItem, bool, error) {
	if menu, ok := m.entries[userID]; ok {
		m.hits++
		return menu, true, nil
	}
	return nil, false, nil
}

func (m *menuCacheMock) Set(_ context.Context, userID string, menu []rbac.MenuItem) error {
	m.entries[userID] = menu
	m.sets++
	return nil
}

func (m *menuCacheMock) Invalidate(_ context.Context, userID string) error {
	delete(m.entries, userID)
	m.invalidated = append(m.invalidated, userID)
	return nil
}

type publisherMock struct {
	registered    []domain.UserRegisteredEvent
	rolesAssigned []domain.RolesAssignedEvent
	rolesRevoked  []domain.RolesRevokedEvent
	mutations     []domain.EntityMutatedEvent
	statusChanges []domain.RaceStatusChangedEvent
	timings       []domain.TimingRecordedEvent
	payments      []domain.PaymentCompletedEvent
	publishErr    error
}

func (m *publisherMock) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.registered = append(m.registered, event)
	return nil
}

func (m *publisherMock) PublishRolesAssigned(_ context.Context, event domain.RolesAssignedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.rolesAssigned = append(m.rolesAssigned, event)
	return nil
}

func (m *publisherMock) PublishRolesRevoked(_ context.Context, event domain.RolesRevokedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.rolesRevoked = append(m.rolesRevoked, event)
	return nil
}

func (m *publisherMock) PublishEntityMutated(_ context.Context, event domain.EntityMutatedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.mutations = append(m.mutations, event)
	return nil
}

func (m *publisherMock) PublishRaceStatusChanged(_ context.Context, event domain.RaceStatusChangedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.statusChanges = append(m.statusChanges, event)
	return nil
}

func (m *publisherMock) PublishTimingRecorded(_ context.Context, event domain.TimingRecordedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.timings = append(m.timings, event)
	return nil
}

func (m *publisherMock) PublishPaymentCompleted(_ context.Context, event domain.PaymentCompletedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.payments = append(m.payments, event)
	return nil
}
