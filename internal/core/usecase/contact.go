package usecase

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/healytics/healytics-client/internal/core/domain"
	"github.com/healytics/healytics-client/internal/core/ports"
)

// ContactDesk validates and forwards contact form submissions.
type ContactDesk struct {
	api   ports.ContactAPI
	check *validator.Validate
	log   *slog.Logger
}

func NewContactDesk(api ports.ContactAPI, log *slog.Logger) *ContactDesk {
	if log == nil {
		log = slog.Default()
	}
	return &ContactDesk{
		api:   api,
		check: validator.New(),
		log:   log,
	}
}

func (d *ContactDesk) Send(ctx context.Context, msg domain.ContactMessage) (string, error) {
	if err := d.check.Struct(msg); err != nil {
		return "", validationError("contact", err)
	}

	confirmation, err := d.api.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	d.log.Info("contact_message_sent", "email", msg.Email)
	return confirmation, nil
}
