package notify

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
)

// Calendar books approved rentals on the fleet's shared calendar.
type Calendar interface {
	AddRental(ctx context.Context, rental *models.RentalRequest) (string, error)
}

type nopCalendar struct{}

func NewNopCalendar() Calendar { return nopCalendar{} }

func (nopCalendar) AddRental(context.Context, *models.RentalRequest) (string, error) { return "", nil }

type GoogleCalendar struct {
	events     *calendar.EventsService
	calendarID string
	log        logger.ILogger
}

func NewGoogleCalendar(ctx context.Context, credentialsFile, calendarID string, log logger.ILogger) (*GoogleCalendar, error) {
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar client: %w", err)
	}
	return &GoogleCalendar{events: svc.Events, calendarID: calendarID, log: log}, nil
}

// RentalEvent is an all-day event spanning the rental. Google treats the end
// date as exclusive.
func RentalEvent(r *models.RentalRequest) *calendar.Event {
	vehicle := r.VehicleType
	if vehicle == "" {
		vehicle = r.VehicleID
	}
	return &calendar.Event{
		Summary: fmt.Sprintf("🚕 Locação: %s (%s)", r.DriverName, vehicle),
		Description: fmt.Sprintf("Motorista: %s\nDiárias: %d\nValor: R$ %.2f\nID: %s",
			r.DriverName, r.TotalDays, r.TotalAmount, r.ID),
		Start: &calendar.EventDateTime{
			Date:     r.StartDate.Format(time.DateOnly),
			TimeZone: "America/Sao_Paulo",
		},
		End: &calendar.EventDateTime{
			Date:     r.EndDate.AddDate(0, 0, 1).Format(time.DateOnly),
			TimeZone: "America/Sao_Paulo",
		},
	}
}

func (g *GoogleCalendar) AddRental(ctx context.Context, r *models.RentalRequest) (string, error) {
	ev, err := g.events.Insert(g.calendarID, RentalEvent(r)).Context(ctx).Do()
	if err != nil {
		g.log.Error("failed to sync rental to calendar", logger.String("rental_id", r.ID), logger.Error(err))
		return "", err
	}
	return ev.HtmlLink, nil
}
