package service

import (
	"context"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/queue"
	"github.com/iliyamo/pet-shelter/internal/session"
)

// PaymentService edits payment status and method.  Completed and Refunded
// payments are frozen; the guard runs here before the procedure is called.
type PaymentService struct {
	Payments PaymentStore
	Events   queue.Publisher
}

func NewPaymentService(payments PaymentStore, events queue.Publisher) *PaymentService {
	return &PaymentService{Payments: payments, Events: events}
}

func (s *PaymentService) guard(ctx context.Context, payID uint64) error {
	if payID == 0 {
		return apperr.Required("Payment")
	}
	current, err := s.Payments.Status(ctx, payID)
	if err != nil {
		return err
	}
	if model.Finalized(current) {
		return apperr.ErrFinalized
	}
	return nil
}

func (s *PaymentService) UpdateStatus(ctx context.Context, actor *session.Session, payID uint64, status string) error {
	if !oneOf(status, model.PaymentStatuses) {
		return apperr.Validation(apperr.CodeInvalidValue, "Unknown payment status.")
	}
	if err := s.guard(ctx, payID); err != nil {
		return track(ctx, "payment.status", err)
	}
	if err := track(ctx, "payment.status", s.Payments.UpdateStatus(ctx, payID, status)); err != nil {
		return err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.PaymentStatusUpdated, actor.UserID, payID, "status", status))
	return nil
}

func (s *PaymentService) UpdateMethod(ctx context.Context, actor *session.Session, payID uint64, method string) error {
	if !oneOf(method, model.PaymentMethods) {
		return apperr.Validation(apperr.CodeInvalidValue, "Unknown payment method.")
	}
	if err := s.guard(ctx, payID); err != nil {
		return track(ctx, "payment.method", err)
	}
	if err := track(ctx, "payment.method", s.Payments.UpdateMethod(ctx, payID, method)); err != nil {
		return err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.PaymentMethodUpdated, actor.UserID, payID, "method", method))
	return nil
}

// List returns payments newest first, optionally with one exact status.
func (s *PaymentService) List(ctx context.Context, status string) ([]model.PaymentView, error) {
	if err := filter("status", status, model.PaymentStatuses); err != nil {
		return nil, err
	}
	return s.Payments.List(ctx, status)
}
