package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

func newPaymentFixture() (*PaymentService, *paymentRepoMock, *raceRepoMock, *profileRepoMock, *participantRepoMock, *publisherMock) {
	payments := newPaymentRepoMock()
	races := newRaceRepoMock()
	profiles := newProfileRepoMock()
	participants := newParticipantRepoMock()
	events := &publisherMock{}

	races.races["race-1"] = domain.Race{ID: "race-1", Name: "Spring Criterium", Status: domain.RaceStatusScheduled}
	profiles.profiles["profile-1"] = domain.CyclistProfile{ID: "profile-1", UserID: "user-1"}

	return NewPaymentService(payments, races, profiles, participants, events), payments, races, profiles, participants, events
}

func TestCreatePaymentStartsPending(t *testing.T) {
	service, payments, _, _, _, _ := newPaymentFixture()

	payment, err := service.CreatePayment(context.Background(), CreatePaymentInput{
		UserID: "user-1",
		RaceID: "race-1",
		Amount: 25.5,
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if payment.Status != domain.PaymentStatusPending {
		t.Errorf("status = %q, want pending", payment.Status)
	}
	if payment.Currency != defaultCurrency {
		t.Errorf("currency = %q, want default", payment.Currency)
	}
	if _, ok := payments.payments[payment.ID]; !ok {
		t.Error("expected payment to be persisted")
	}
}

func TestCreatePaymentNormalizesCurrency(t *testing.T) {
	service, _, _, _, _, _ := newPaymentFixture()

	payment, err := service.CreatePayment(context.Background(), CreatePaymentInput{
		UserID:   "user-1",
		RaceID:   "race-1",
		Amount:   10,
		Currency: " eur ",
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if payment.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", payment.Currency)
	}
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	service, _, _, _, _, _ := newPaymentFixture()

	if _, err := service.CreatePayment(context.Background(), CreatePaymentInput{
		UserID: "user-1",
		RaceID: "race-1",
		Amount: 0,
	}); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestCompletePaymentFlipsRegistrationAndPublishes(t *testing.T) {
	service, _, _, _, participants, events := newPaymentFixture()
	participants.participants["part-1"] = domain.RaceParticipant{
		ID:        "part-1",
		RaceID:    "race-1",
		ProfileID: "profile-1",
		BibNumber: 1,
	}

	payment, err := service.CreatePayment(context.Background(), CreatePaymentInput{
		UserID: "user-1",
		RaceID: "race-1",
		Amount: 25,
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	transactionID := "txn-42"
	completed, err := service.CompletePayment(context.Background(), payment.ID, &transactionID)
	if err != nil {
		t.Fatalf("CompletePayment: %v", err)
	}

	if completed.Status != domain.PaymentStatusCompleted {
		t.Errorf("status = %q, want completed", completed.Status)
	}
	if completed.TransactionID == nil || *completed.TransactionID != transactionID {
		t.Errorf("transaction id = %v", completed.TransactionID)
	}
	if !participants.participants["part-1"].HasPaid {
		t.Error("expected registration to be marked paid")
	}
	if len(events.payments) != 1 {
		t.Fatalf("expected 1 payment event, got %d", len(events.payments))
	}
	if events.payments[0].PaymentID != payment.ID {
		t.Errorf("event payment id = %q", events.payments[0].PaymentID)
	}
}

func TestCompletePaymentWithoutRegistration(t *testing.T) {
	service, _, _, _, _, _ := newPaymentFixture()

	payment, err := service.CreatePayment(context.Background(), CreatePaymentInput{
		UserID: "user-1",
		RaceID: "race-1",
		Amount: 25,
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if _, err := service.CompletePayment(context.Background(), payment.ID, nil); err != nil {
		t.Fatalf("CompletePayment without registration: %v", err)
	}
}

func TestCompletePaymentTwiceRejected(t *testing.T) {
	service, _, _, _, _, _ := newPaymentFixture()

	payment, err := service.CreatePayment(context.Background(), CreatePaymentInput{
		UserID: "user-1",
		RaceID: "race-1",
		Amount: 25,
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if _, err := service.CompletePayment(context.Background(), payment.ID, nil); err != nil {
		t.Fatalf("first CompletePayment: %v", err)
	}
	if _, err := service.CompletePayment(context.Background(), payment.ID, nil); !errors.Is(err, ErrPaymentFinalized) {
		t.Fatalf("expected ErrPaymentFinalized, got %v", err)
	}
}

func TestFailPayment(t *testing.T) {
	service, _, _, _, _, events := newPaymentFixture()

	payment, err := service.CreatePayment(context.Background(), CreatePaymentInput{
		UserID: "user-1",
		RaceID: "race-1",
		Amount: 25,
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	failed, err := service.FailPayment(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("FailPayment: %v", err)
	}
	if failed.Status != domain.PaymentStatusFailed {
		t.Errorf("status = %q, want failed", failed.Status)
	}
	if len(events.payments) != 0 {
		t.Errorf("expected no completion events, got %d", len(events.payments))
	}

	if _, err := service.CompletePayment(context.Background(), payment.ID, nil); !errors.Is(err, ErrPaymentFinalized) {
		t.Fatalf("expected failed payment to stay final, got %v", err)
	}
}

func TestGetPaymentNotFound(t *testing.T) {
	service, _, _, _, _, _ := newPaymentFixture()

	if _, err := service.GetPayment(context.Background(), "missing"); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}
