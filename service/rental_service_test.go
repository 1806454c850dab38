package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxifrota/pkg/models"
	"taxifrota/storage"
)

func rentalFixture(t *testing.T, e *env) (*models.Driver, *models.Vehicle) {
	t.Helper()
	ctx := context.Background()
	d, err := e.svc.Driver().Register(ctx, registration())
	require.NoError(t, err)
	v, err := e.svc.Vehicle().Create(ctx, VehicleInput{
		Make: "Chevrolet", Model: "Spin", Year: "2023", Category: "Van",
		DailyPrice: 150.5, Available: true, Plate: "ABC-1234",
	})
	require.NoError(t, err)
	return d, v
}

func TestCreateRentalComputesTotal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	d, v := rentalFixture(t, e)

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	r, err := e.svc.Rental().Create(ctx, RentalInput{
		DriverID:    d.ID,
		VehicleID:   v.ID,
		VehicleType: "van",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, r.TotalDays)
	assert.Equal(t, 150.5, r.DailyRate)
	assert.Equal(t, 1053.5, r.TotalAmount)
	assert.Equal(t, models.RentalPending, r.Status)
	assert.Equal(t, models.PaymentPending, r.PaymentStatus)
	assert.Equal(t, "Carlos Alberto Nunes", r.DriverName)

	explicit, err := e.svc.Rental().Create(ctx, RentalInput{
		DriverID: d.ID, VehicleType: "sedan", StartDate: start, EndDate: start,
		DailyRate: 100, TotalAmount: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, explicit.TotalDays)
	assert.Equal(t, 80.0, explicit.TotalAmount)

	_, err = e.svc.Rental().Create(ctx, RentalInput{
		DriverID: d.ID, VehicleType: "sedan", StartDate: start, EndDate: start.AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.svc.Rental().Create(ctx, RentalInput{
		DriverID: "ghost", VehicleType: "sedan", StartDate: start, EndDate: start,
	})
	assert.ErrorIs(t, err, ErrValidation)

	byDriver, err := e.svc.Rental().List(ctx, RentalFilter{DriverID: d.ID})
	require.NoError(t, err)
	assert.Len(t, byDriver, 2)
	byVehicle, err := e.svc.Rental().List(ctx, RentalFilter{VehicleID: v.ID})
	require.NoError(t, err)
	assert.Len(t, byVehicle, 1)
}

func TestRentalApprovalSyncsCalendar(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.calendar.link = "https://calendar.test/event/1"
	d, _ := rentalFixture(t, e)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	r, err := e.svc.Rental().Create(ctx, RentalInput{
		DriverID: d.ID, VehicleType: "sedan", StartDate: start, EndDate: start.AddDate(0, 0, 2), DailyRate: 100,
	})
	require.NoError(t, err)

	out, err := e.svc.Rental().ChangeStatus(ctx, r.ID, models.RentalApproved, "ops")
	require.NoError(t, err)
	assert.Equal(t, models.RentalApproved, out.Status)
	assert.Equal(t, "https://calendar.test/event/1", out.CalendarLink)
	assert.Equal(t, 1, e.calendar.calls)

	_, err = e.svc.Rental().ChangeStatus(ctx, r.ID, models.RentalCompleted, "ops")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	out, err = e.svc.Rental().UpdatePaymentStatus(ctx, r.ID, models.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, out.PaymentStatus)
	_, err = e.svc.Rental().UpdatePaymentStatus(ctx, r.ID, "maybe")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestRentalApprovalSurvivesCalendarFailure(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.calendar.err = errors.New("quota exceeded")
	d, _ := rentalFixture(t, e)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	r, err := e.svc.Rental().Create(ctx, RentalInput{
		DriverID: d.ID, VehicleType: "sedan", StartDate: start, EndDate: start.AddDate(0, 0, 1), DailyRate: 90,
	})
	require.NoError(t, err)

	out, err := e.svc.Rental().ChangeStatus(ctx, r.ID, models.RentalApproved, "ops")
	require.NoError(t, err)
	assert.Equal(t, models.RentalApproved, out.Status)
	assert.Empty(t, out.CalendarLink)

	stored, err := e.svc.Rental().Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RentalApproved, stored.Status)
}

func TestRentalLifecycleAndDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	d, _ := rentalFixture(t, e)
	rentals := e.svc.Rental()

	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	r, err := rentals.Create(ctx, RentalInput{
		DriverID: d.ID, VehicleType: "sedan", StartDate: start, EndDate: start.AddDate(0, 0, 3), DailyRate: 120,
	})
	require.NoError(t, err)

	for _, to := range []models.RentalStatus{models.RentalApproved, models.RentalActive, models.RentalCompleted} {
		out, err := rentals.ChangeStatus(ctx, r.ID, to, "ops")
		require.NoError(t, err, to)
		assert.Equal(t, to, out.Status)
	}

	_, err = rentals.ChangeStatus(ctx, r.ID, models.RentalPending, "ops")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	stored, err := rentals.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RentalCompleted, stored.Status)

	history, err := e.stg.StatusLog().GetByDocument(ctx, storage.CollectionRentals, r.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, string(models.RentalCompleted), history[2].To)

	out, err := rentals.UpdatePaymentStatus(ctx, r.ID, models.PaymentPartial)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartial, out.PaymentStatus)
	_, err = rentals.UpdatePaymentStatus(ctx, r.ID, "")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	_, err = rentals.UpdatePaymentStatus(ctx, "missing", models.PaymentPaid)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	invalidated := e.cache.invalidated
	require.NoError(t, rentals.Delete(ctx, r.ID))
	assert.Equal(t, invalidated+1, e.cache.invalidated)

	_, err = rentals.Get(ctx, r.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, rentals.Delete(ctx, r.ID), storage.ErrNotFound)
}
