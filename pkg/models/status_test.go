package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationTransitions(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		ok       bool
	}{
		{ApplicationPending, ApplicationApproved, true},
		{ApplicationPending, ApplicationRejected, true},
		{ApplicationPending, ApplicationWaiting, true},
		{ApplicationWaiting, ApplicationApproved, true},
		{ApplicationRejected, ApplicationReanalysis, true},
		{ApplicationReanalysis, ApplicationApproved, true},
		{ApplicationRejected, ApplicationApproved, false},
		{ApplicationApproved, ApplicationRejected, false},
		{ApplicationPending, ApplicationReanalysis, false},
		{ApplicationWaiting, ApplicationPending, false},
	}
	for _, tt := range tests {
		got, err := tt.from.Transition(tt.to)
		if tt.ok {
			require.NoError(t, err, "%s -> %s", tt.from, tt.to)
			assert.Equal(t, tt.to, got)
		} else {
			require.Error(t, err, "%s -> %s", tt.from, tt.to)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
			assert.Equal(t, tt.from, got)
		}
	}
}

func TestDriverTransitions(t *testing.T) {
	assert.True(t, DriverPending.CanTransition(DriverActive))
	assert.True(t, DriverPending.CanTransition(DriverInactive))
	assert.True(t, DriverActive.CanTransition(DriverInactive))
	assert.True(t, DriverInactive.CanTransition(DriverActive))
	assert.False(t, DriverActive.CanTransition(DriverPending))
	assert.False(t, DriverActive.CanTransition(DriverActive))
}

func TestEvaluationTransitions(t *testing.T) {
	assert.True(t, EvaluationPending.CanTransition(EvaluationPublished))
	assert.True(t, EvaluationApproved.CanTransition(EvaluationPublished))
	assert.True(t, EvaluationPublished.CanTransition(EvaluationArchived))
	assert.True(t, EvaluationArchived.CanTransition(EvaluationPending))
	assert.False(t, EvaluationArchived.CanTransition(EvaluationPublished))
	assert.False(t, EvaluationPublished.CanTransition(EvaluationPending))
}

func TestRentalTransitions(t *testing.T) {
	assert.True(t, RentalPending.CanTransition(RentalApproved))
	assert.True(t, RentalApproved.CanTransition(RentalActive))
	assert.True(t, RentalActive.CanTransition(RentalCompleted))
	assert.False(t, RentalRejected.CanTransition(RentalApproved))
	assert.False(t, RentalCompleted.CanTransition(RentalActive))
}

func TestParseApplicationStatusLegacy(t *testing.T) {
	cases := map[string]ApplicationStatus{
		"Aguardar":     ApplicationWaiting,
		"Aprovado":     ApplicationApproved,
		"Reprovado":    ApplicationRejected,
		"Em Reanálise": ApplicationReanalysis,
		"em_analise":   ApplicationWaiting,
		"reanalise":    ApplicationReanalysis,
		"Pendente":     ApplicationPending,
		" approved ":   ApplicationApproved,
	}
	for raw, want := range cases {
		got, err := ParseApplicationStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseApplicationStatus("deleted")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseOtherStatuses(t *testing.T) {
	d, err := ParseDriverStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, DriverActive, d)

	e, err := ParseEvaluationStatus("Publicado")
	require.NoError(t, err)
	assert.Equal(t, EvaluationPublished, e)

	_, err = ParseRentalStatus("lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	p, err := ParsePaymentStatus("PAID")
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, p)
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	evals := []*Evaluation{{Rating: 5}, {Rating: 4}, {Rating: 2}}
	assert.InDelta(t, 11.0/3.0, AverageRating(evals), 1e-9)
}

func TestRentalDays(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, RentalDays(start, start))
	assert.Equal(t, 7, RentalDays(start, start.AddDate(0, 0, 7)))
	assert.Equal(t, 2, RentalDays(start, start.AddDate(0, 0, 2).Add(10*time.Hour)))
	assert.Equal(t, 1, RentalDays(start, start.AddDate(0, 0, -2)))
}

func TestApplicationNormalize(t *testing.T) {
	a := &Application{FirstName: "Ana", LastName: "Souza"}
	a.Normalize()
	assert.Equal(t, "Ana Souza", a.FullName)
	assert.NotNil(t, a.References)
	assert.NotNil(t, a.Reviews)
	assert.NotNil(t, a.Documents.Others)
	assert.NotNil(t, a.Experience.Rentals)
}
