package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users         *UserRepository
	Profiles      *CyclistProfileRepository
	Roles         *RoleRepository
	Permissions   *PermissionRepository
	Organizations *OrganizationRepository
	Members       *OrganizationMemberRepository
	Tracks        *TrackRepository
	Checkpoints   *CheckpointRepository
	Categories    *CategoryRepository
	Races         *RaceRepository
	Participants  *ParticipantRepository
	Timings       *TimingRepository
	Bicycles      *BicycleRepository
	Payments      *PaymentRepository
	AuditLogs     *AuditLogRepository
	Stats         *StatsRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(pool),
		Profiles:      NewCyclistProfileRepository(pool),
		Roles:         NewRoleRepository(pool),
		Permissions:   NewPermissionRepository(pool),
		Organizations: NewOrganizationRepository(pool),
		Members:       NewOrganizationMemberRepository(pool),
		Tracks:        NewTrackRepository(pool),
		Checkpoints:   NewCheckpointRepository(pool),
		Categories:    NewCategoryRepository(pool),
		Races:         NewRaceRepository(pool),
		Participants:  NewParticipantRepository(pool),
		Timings:       NewTimingRepository(pool),
		Bicycles:      NewBicycleRepository(pool),
		Payments:      NewPaymentRepository(pool),
		AuditLogs:     NewAuditLogRepository(pool),
		Stats:         NewStatsRepository(pool),
	}
}
