package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

func newParticipantFixture() (*ParticipantService, *participantRepoMock, *raceRepoMock, *profileRepoMock) {
	participants := newParticipantRepoMock()
	races := newRaceRepoMock()
	profiles := newProfileRepoMock()

	races.races["race-1"] = domain.Race{ID: "race-1", Name: "Spring Criterium", Status: domain.RaceStatusScheduled, TrackID: "track-1"}
	profiles.profiles["profile-1"] = domain.CyclistProfile{ID: "profile-1", UserID: "user-1"}
	profiles.profiles["profile-2"] = domain.CyclistProfile{ID: "profile-2", UserID: "user-2"}

	return NewParticipantService(participants, races, profiles), participants, races, profiles
}

func TestRegisterAssignsSequentialBibNumbers(t *testing.T) {
	service, _, _, _ := newParticipantFixture()

	first, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "profile-1"})
	if err != nil {
		t.Fatalf("first Register: %v", err)
	}
	second, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "profile-2"})
	if err != nil {
		t.Fatalf("second Register: %v", err)
	}

	if first.BibNumber != 1 || second.BibNumber != 2 {
		t.Errorf("bib numbers = %d, %d; want 1, 2", first.BibNumber, second.BibNumber)
	}
	if first.HasPaid {
		t.Error("expected new registration to start unpaid")
	}
}

func TestRegisterDuplicateProfile(t *testing.T) {
	service, _, _, _ := newParticipantFixture()

	if _, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "profile-1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "profile-1"}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegisterClosedRace(t *testing.T) {
	service, _, races, _ := newParticipantFixture()

	race := races.races["race-1"]
	race.Status = domain.RaceStatusRegistrationClosed
	races.races["race-1"] = race

	if _, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "profile-1"}); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("expected ErrRegistrationClosed, got %v", err)
	}
}

func TestRegisterDraftRaceRejected(t *testing.T) {
	service, _, races, _ := newParticipantFixture()

	race := races.races["race-1"]
	race.Status = domain.RaceStatusDraft
	races.races["race-1"] = race

	if _, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "profile-1"}); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("expected ErrRegistrationClosed, got %v", err)
	}
}

func TestRegisterUnknownProfile(t *testing.T) {
	service, _, _, _ := newParticipantFixture()

	if _, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "ghost"}); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestUpdateParticipantSetsResult(t *testing.T) {
	service, _, _, _ := newParticipantFixture()

	participant, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "profile-1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	finalTime := int64(5400000)
	rank := 3
	updated, err := service.UpdateParticipant(context.Background(), participant.ID, UpdateParticipantInput{
		FinalTimeMs: &finalTime,
		Rank:        &rank,
	})
	if err != nil {
		t.Fatalf("UpdateParticipant: %v", err)
	}
	if updated.FinalTimeMs == nil || *updated.FinalTimeMs != finalTime {
		t.Errorf("final time = %v", updated.FinalTimeMs)
	}
	if updated.Rank == nil || *updated.Rank != rank {
		t.Errorf("rank = %v", updated.Rank)
	}
}

func TestUpdateParticipantRejectsNegativeTime(t *testing.T) {
	service, _, _, _ := newParticipantFixture()

	participant, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "profile-1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	negative := int64(-1)
	if _, err := service.UpdateParticipant(context.Background(), participant.ID, UpdateParticipantInput{FinalTimeMs: &negative}); err == nil {
		t.Fatal("expected error for negative final time")
	}
}

func TestWithdrawBeforeRaceStart(t *testing.T) {
	service, participants, _, _ := newParticipantFixture()

	participant, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "profile-1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := service.Withdraw(context.Background(), participant.ID); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if _, ok := participants.participants[participant.ID]; ok {
		t.Error("expected registration to be removed")
	}
}

func TestWithdrawBlockedWhileRunning(t *testing.T) {
	service, _, races, _ := newParticipantFixture()

	participant, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "profile-1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	race := races.races["race-1"]
	race.Status = domain.RaceStatusInProgress
	races.races["race-1"] = race

	if err := service.Withdraw(context.Background(), participant.ID); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("expected ErrRegistrationClosed, got %v", err)
	}
}

func TestCountByRace(t *testing.T) {
	service, _, _, _ := newParticipantFixture()

	if _, err := service.Register(context.Background(), "race-1", RegisterParticipantInput{ProfileID: "profile-1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	count, err := service.CountByRace(context.Background(), "race-1")
	if err != nil {
		t.Fatalf("CountByRace: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
