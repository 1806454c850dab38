// Package notify pushes back-office events to the people who act on them.
package notify

import (
	"context"
	"net/url"

	"taxifrota/pkg/models"
	"taxifrota/pkg/validation"
)

// Callback uniques shared with the admin bot. The payload is the record id.
const (
	UniqueApproveApplication = "app_approve"
	UniqueRejectApplication  = "app_reject"
	UniqueApproveDriver      = "drv_approve"
	UniqueRejectDriver       = "drv_reject"
)

// Notifier is best-effort: implementations log failures instead of
// returning them.
type Notifier interface {
	NewApplication(ctx context.Context, app *models.Application)
	NewDriver(ctx context.Context, driver *models.Driver)
}

type nop struct{}

func NewNop() Notifier { return nop{} }

func (nop) NewApplication(context.Context, *models.Application) {}
func (nop) NewDriver(context.Context, *models.Driver)           {}

// WhatsAppLink builds a click-to-chat link for a Brazilian phone number.
func WhatsAppLink(phone, message string) string {
	digits := validation.OnlyDigits(phone)
	if len(digits) == 10 || len(digits) == 11 {
		digits = "55" + digits
	}
	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}
