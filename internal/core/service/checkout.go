package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/equinox-market/shopbot/internal/core/port"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

// ProcessCheckout turns a web-app payload into a stored order, then fires
// the admin alert and the customer confirmation. Either the whole order is
// created or nothing is: no partial writes on resolution failures.
func (s *Service) ProcessCheckout(ctx context.Context, checkout *domain.Checkout) (*domain.Order, error) {
	var (
		items []domain.LineItem
		total = decimal.Zero
		err   error
	)

	payload := &checkout.Payload
	switch payload.Action {
	case domain.CheckoutActionBuy:
		items, total, err = s.buildSingleItem(payload)
	case domain.CheckoutActionCart:
		items, total, err = s.buildCart(payload)
	default:
		return nil, domain.ErrBadRequest
	}
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:     checkout.ChatID,
		UserName:   checkout.UserName,
		Items:      items,
		TotalPrice: total,
		Contact:    payload.Contact,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("create order", zap.Error(err))
		return nil, domain.ErrInternal
	}

	s.notifyAdminNewOrder(created, checkout)
	s.notifyCustomer(created, checkout.ChatID)

	return created, nil
}

// buildSingleItem resolves a "buy" payload: one product, optional option,
// quantity fixed at 1. An unknown product fails the whole checkout.
func (s *Service) buildSingleItem(payload *domain.CheckoutPayload) ([]domain.LineItem, decimal.Decimal, error) {
	productID, _ := asInt64(payload.ProductID)
	product := s.catalog.Product(productID)
	if product == nil {
		return nil, decimal.Zero, domain.ErrProductNotFound
	}

	item := s.lineItem(product, payload.OptionID, 1)
	return []domain.LineItem{item}, product.Price, nil
}

// buildCart resolves each cart entry independently. Unresolvable entries are
// silently dropped; the checkout only fails when nothing resolves. An
// explicit totalPrice (promo-adjusted) replaces the computed total.
func (s *Service) buildCart(payload *domain.CheckoutPayload) ([]domain.LineItem, decimal.Decimal, error) {
	items := make([]domain.LineItem, 0, len(payload.Items))
	total := decimal.Zero

	for _, entry := range payload.Items {
		productID, ok := asInt64(entry.ProductID)
		if !ok {
			productID, _ = asInt64(entry.LegacyID)
		}
		product := s.catalog.Product(productID)
		if product == nil {
			continue
		}

		qty, drop := asQty(entry.Qty)
		if drop {
			continue
		}

		item := s.lineItem(product, entry.OptionID, qty)
		items = append(items, item)

		qtyDec := decimal.MustNew(int64(qty), 0)
		line, err := product.Price.Mul(qtyDec)
		if err != nil {
			return nil, decimal.Zero, domain.ErrInternal
		}
		total, err = total.Add(line)
		if err != nil {
			return nil, decimal.Zero, domain.ErrInternal
		}
	}

	if len(items) == 0 {
		return nil, decimal.Zero, domain.ErrEmptyCart
	}

	if payload.TotalPrice != nil {
		override, err := decimal.NewFromFloat64(*payload.TotalPrice)
		if err != nil {
			return nil, decimal.Zero, domain.ErrBadRequest
		}
		total = override
	}

	return items, total, nil
}

func (s *Service) lineItem(product *domain.Product, optionID any, qty int) domain.LineItem {
	name := product.Name
	if id := normalizeOptionID(optionID); id != "" {
		if opt := s.catalog.FindOption(product, id); opt != nil {
			name = fmt.Sprintf("%s (%s)", name, opt.Name)
		}
	}
	return domain.LineItem{Name: name, Price: product.Price, Qty: qty}
}

func (s *Service) notifyAdminNewOrder(order *domain.Order, checkout *domain.Checkout) {
	var lines []string
	for _, item := range order.Items {
		lineTotal, err := item.Price.Mul(decimal.MustNew(int64(item.Qty), 0))
		if err != nil {
			lineTotal = decimal.Zero
		}
		lines = append(lines, fmt.Sprintf("- %s x%d = %s %s", item.Name, item.Qty, lineTotal, s.currency))
	}

	promoInfo := ""
	if checkout.Payload.Promo != "" {
		promoInfo = "\nПромокод: " + checkout.Payload.Promo
	}

	username := checkout.Username
	if username == "" {
		username = "—"
	}

	text := fmt.Sprintf(
		"🛒 <b>Новый заказ #%d</b>\n\n%s\n----------------\nИтого: <b>%s %s</b>%s\n\nКонтакты:\n%s\nTelegram: @%s",
		order.ID, strings.Join(lines, "\n"), order.TotalPrice, s.currency, promoInfo,
		FormatContact(order.Contact), username,
	)

	s.notifier.Send(s.adminChatID, text, &port.SendOptions{ParseMode: "HTML"})
}

func (s *Service) notifyCustomer(order *domain.Order, chatID int64) {
	description := fmt.Sprintf("Заказ #%d - Equinox Market", order.ID)
	link, ok := s.payments.CheckoutLink(order.ID, order.TotalPrice, description)
	if !ok {
		s.notifier.Send(chatID,
			fmt.Sprintf("Спасибо! Заказ #%d оформлен. Оплата будет уточнена дополнительно.", order.ID), nil)
		return
	}

	keyboard := map[string]any{
		"inline_keyboard": []any{
			[]any{map[string]any{"text": "Оплатить картой", "url": link}},
		},
	}
	s.notifier.Send(chatID,
		fmt.Sprintf("Спасибо! Заказ #%d оформлен.\n\nСумма: %s %s\n\nОплатите заказ по ссылке ниже.",
			order.ID, order.TotalPrice, s.currency),
		&port.SendOptions{ReplyMarkup: keyboard})
}

// FormatContact renders the free-form contact block for admin messages.
func FormatContact(contact map[string]any) string {
	if len(contact) == 0 {
		return "Нет контактных данных"
	}
	return fmt.Sprintf("Имя: %v\nТелефон: %v\nАдрес: %v\nКомментарий: %v",
		contact["name"], contact["phone"], contact["address"], contact["comment"])
}

// asInt64 coerces the loosely typed ids the web app sends (numbers or
// numeric strings).
func asInt64(v any) (int64, bool) {
	switch value := v.(type) {
	case float64:
		return int64(value), true
	case string:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}

// asQty coerces a cart quantity. Absent or non-numeric defaults to 1;
// zero or negative drops the entry.
func asQty(v any) (qty int, drop bool) {
	switch value := v.(type) {
	case nil:
		return 1, false
	case float64:
		if value <= 0 {
			return 0, true
		}
		return int(value), false
	case string:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 1, false
		}
		if f <= 0 {
			return 0, true
		}
		return int(f), false
	default:
		return 1, false
	}
}

func normalizeOptionID(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
