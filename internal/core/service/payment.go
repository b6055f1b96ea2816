package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

// amountTolerance absorbs floating rounding between the stored total and
// the provider-reported amount. The boundary is inclusive.
var amountTolerance = decimal.MustParse("0.01")

// ApplyPayment reconciles a verified provider callback against the stored
// order. Validation gates run in order and any failure aborts with no state
// change. Paid is terminal: replays and late failures for a paid order are
// no-ops and never re-notify the admin.
func (s *Service) ApplyPayment(ctx context.Context, event *domain.PaymentEvent) error {
	order, err := s.repo.ReadOrder(ctx, event.OrderID)
	if err != nil {
		return err
	}

	if !event.AmountSet {
		return domain.ErrMalformedCallback
	}
	diff, err := order.TotalPrice.Sub(event.Amount)
	if err != nil {
		s.logger.Error("amount compare", zap.Int64("order", order.ID), zap.Error(err))
		return domain.ErrInternal
	}
	if diff.Abs().Cmp(amountTolerance) > 0 {
		s.logger.Warn("callback amount mismatch",
			zap.Int64("order", order.ID),
			zap.String("expected", order.TotalPrice.String()),
			zap.String("got", event.Amount.String()))
		return domain.ErrAmountMismatch
	}

	if event.Currency != "" && !strings.EqualFold(event.Currency, s.currency) {
		s.logger.Warn("callback currency mismatch",
			zap.Int64("order", order.ID), zap.String("currency", event.Currency))
		return domain.ErrCurrencyMismatch
	}

	switch event.Status {
	case domain.PaymentEventSuccess:
		if order.PaymentStatus == domain.PaymentStatusPaid {
			// duplicate delivery
			return nil
		}
		err := s.repo.UpdatePaymentStatus(ctx, order.ID, domain.PaymentStatusPaid)
		if err != nil {
			s.logger.Error("mark order paid", zap.Int64("order", order.ID), zap.Error(err))
			return err
		}
		s.notifier.Send(s.adminChatID,
			fmt.Sprintf("✅ Оплата заказа #%d\nСумма: %s %s", order.ID, event.Amount, s.currency), nil)
		return nil

	case domain.PaymentEventFailure:
		if order.PaymentStatus == domain.PaymentStatusPaid {
			// paid is terminal, never regress to failed
			return nil
		}
		err := s.repo.UpdatePaymentStatus(ctx, order.ID, domain.PaymentStatusFailed)
		if err != nil {
			s.logger.Error("mark order failed", zap.Int64("order", order.ID), zap.Error(err))
			return err
		}
		return nil

	default:
		// non-final provider status, acknowledge without a transition
		return nil
	}
}
