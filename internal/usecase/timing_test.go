package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

func newTimingFixture() (*TimingService, *timingRepoMock, *raceRepoMock, *participantRepoMock, *checkpointRepoMock, *publisherMock) {
	timings := newTimingRepoMock()
	races := newRaceRepoMock()
	participants := newParticipantRepoMock()
	checkpoints := newCheckpointRepoMock()
	events := &publisherMock{}

	races.races["race-1"] = domain.Race{ID: "race-1", Status: domain.RaceStatusInProgress, TrackID: "track-1"}
	participants.participants["part-1"] = domain.RaceParticipant{ID: "part-1", RaceID: "race-1", ProfileID: "profile-1", BibNumber: 1}
	checkpoints.checkpoints["cp-1"] = domain.Checkpoint{ID: "cp-1", TrackID: "track-1", Name: "Start", IsStart: true}
	checkpoints.checkpoints["cp-foreign"] = domain.Checkpoint{ID: "cp-foreign", TrackID: "track-9", Name: "Elsewhere"}

	return NewTimingService(timings, races, participants, checkpoints, events), timings, races, participants, checkpoints, events
}

func TestRecordTimingPublishesEvent(t *testing.T) {
	service, timings, _, _, _, events := newTimingFixture()

	recordedAt := time.Date(2026, 10, 3, 9, 15, 0, 0, time.UTC)
	timing, err := service.Record(context.Background(), "race-1", RecordTimingInput{
		ParticipantID: "part-1",
		CheckpointID:  "cp-1",
		RecordedAt:    recordedAt,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if !timing.RecordedAt.Equal(recordedAt) {
		t.Errorf("recorded at = %v, want %v", timing.RecordedAt, recordedAt)
	}
	if _, ok := timings.timings[timing.ID]; !ok {
		t.Error("expected timing to be persisted")
	}
	if len(events.timings) != 1 {
		t.Fatalf("expected 1 timing event, got %d", len(events.timings))
	}
	if events.timings[0].TimingID != timing.ID {
		t.Errorf("event timing id = %q", events.timings[0].TimingID)
	}
}

func TestRecordTimingDefaultsTimestamp(t *testing.T) {
	service, _, _, _, _, _ := newTimingFixture()

	timing, err := service.Record(context.Background(), "race-1", RecordTimingInput{
		ParticipantID: "part-1",
		CheckpointID:  "cp-1",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if timing.RecordedAt.IsZero() {
		t.Error("expected recorded at to default to now")
	}
}

func TestRecordTimingRaceNotRunning(t *testing.T) {
	service, _, races, _, _, _ := newTimingFixture()

	race := races.races["race-1"]
	race.Status = domain.RaceStatusScheduled
	races.races["race-1"] = race

	if _, err := service.Record(context.Background(), "race-1", RecordTimingInput{
		ParticipantID: "part-1",
		CheckpointID:  "cp-1",
	}); !errors.Is(err, ErrRaceNotRunning) {
		t.Fatalf("expected ErrRaceNotRunning, got %v", err)
	}
}

func TestRecordTimingForeignParticipant(t *testing.T) {
	service, _, _, participants, _, _ := newTimingFixture()
	participants.participants["part-other"] = domain.RaceParticipant{ID: "part-other", RaceID: "race-2", ProfileID: "profile-2", BibNumber: 1}

	if _, err := service.Record(context.Background(), "race-1", RecordTimingInput{
		ParticipantID: "part-other",
		CheckpointID:  "cp-1",
	}); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}
}

func TestRecordTimingCheckpointOffTrack(t *testing.T) {
	service, _, _, _, _, _ := newTimingFixture()

	if _, err := service.Record(context.Background(), "race-1", RecordTimingInput{
		ParticipantID: "part-1",
		CheckpointID:  "cp-foreign",
	}); !errors.Is(err, ErrCheckpointMismatch) {
		t.Fatalf("expected ErrCheckpointMismatch, got %v", err)
	}
}

func TestRecordTimingDuplicatePass(t *testing.T) {
	service, _, _, _, _, _ := newTimingFixture()

	if _, err := service.Record(context.Background(), "race-1", RecordTimingInput{
		ParticipantID: "part-1",
		CheckpointID:  "cp-1",
	}); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if _, err := service.Record(context.Background(), "race-1", RecordTimingInput{
		ParticipantID: "part-1",
		CheckpointID:  "cp-1",
	}); !errors.Is(err, ErrDuplicateTiming) {
		t.Fatalf("expected ErrDuplicateTiming, got %v", err)
	}
}

func TestRemoveTiming(t *testing.T) {
	service, timings, _, _, _, _ := newTimingFixture()

	timing, err := service.Record(context.Background(), "race-1", RecordTimingInput{
		ParticipantID: "part-1",
		CheckpointID:  "cp-1",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := service.Remove(context.Background(), timing.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := timings.timings[timing.ID]; ok {
		t.Error("expected timing to be removed")
	}
	if err := service.Remove(context.Background(), timing.ID); !errors.Is(err, ErrTimingNotFound) {
		t.Fatalf("expected ErrTimingNotFound, got %v", err)
	}
}
