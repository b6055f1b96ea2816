// Package bot drives the long-polling update loop: customer checkouts come
// in as web_app_data payloads, admin commands and status buttons manage the
// orders. Updates are processed one at a time in arrival order; a failed
// iteration is logged and the loop continues after a short backoff.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/equinox-market/shopbot/internal/adapter/client/telegram"
	"github.com/equinox-market/shopbot/internal/adapter/config"
	"github.com/equinox-market/shopbot/internal/core/domain"
	"github.com/equinox-market/shopbot/internal/core/port"
	"github.com/equinox-market/shopbot/internal/core/service"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

const (
	pollBackoff  = 5 * time.Second
	listLimit    = 10
	newListLimit = 20
)

var statusEmoji = map[domain.OrderStatus]string{
	domain.OrderStatusNew:        "🆕",
	domain.OrderStatusProcessing: "⏳",
	domain.OrderStatusCompleted:  "✅",
	domain.OrderStatusCancelled:  "❌",
}

var statusMessages = map[domain.OrderStatus]string{
	domain.OrderStatusProcessing: "Заказ #%d принят в обработку",
	domain.OrderStatusCompleted:  "Заказ #%d выполнен!",
	domain.OrderStatusCancelled:  "Заказ #%d отменён. Свяжитесь с поддержкой, если нужна помощь.",
}

type Handler struct {
	client      *telegram.Client
	service     port.Service
	logger      *zap.Logger
	adminChatID int64
	webAppURL   string
	currency    string
}

func NewHandler(client *telegram.Client, service port.Service,
	tgConf *config.Telegram, currency string, logger *zap.Logger) (*Handler, error) {
	return &Handler{
		client:      client,
		service:     service,
		logger:      logger,
		adminChatID: tgConf.AdminChatID,
		webAppURL:   tgConf.WebAppURL,
		currency:    currency,
	}, nil
}

// Run polls updates until the context is cancelled. Poll failures back off
// and retry, they never stop the loop.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("bot started")

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := h.client.Updates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			h.logger.Error("poll updates", zap.Error(err))
			time.Sleep(pollBackoff)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			h.handleUpdate(ctx, &update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update *telegram.Update) {
	switch {
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	}
}

// isAdmin: the sender identity or the conversation identity matches the
// configured admin id. No secret involved.
func (h *Handler) isAdmin(userID, chatID int64) bool {
	return userID == h.adminChatID || chatID == h.adminChatID
}

func (h *Handler) handleMessage(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	userID := chatID
	if msg.From != nil {
		userID = msg.From.ID
	}

	if msg.WebAppData != nil {
		h.handleCheckout(ctx, msg)
		return
	}

	if msg.Text == "" {
		return
	}

	switch {
	case msg.Text == "/start":
		h.handleStart(userID, chatID)
	case msg.Text == "/myid":
		h.client.Send(chatID, fmt.Sprintf(
			"Твой ID:\nUser ID: %d\nChat ID: %d\n\nТекущий Admin ID: %d", userID, chatID, h.adminChatID), nil)
	case h.isAdmin(userID, chatID):
		h.handleAdminCommand(ctx, chatID, msg.Text)
	}
}

func (h *Handler) handleStart(userID, chatID int64) {
	webAppButton := map[string]any{"text": "Открыть Shop", "web_app": map[string]any{"url": h.webAppURL}}

	if h.isAdmin(userID, chatID) {
		keyboard := map[string]any{
			"keyboard": []any{
				[]any{webAppButton},
				[]any{map[string]any{"text": "Список заказов"}, map[string]any{"text": "Новые заказы"}},
				[]any{map[string]any{"text": "Статистика"}},
			},
			"resize_keyboard": true,
		}
		h.client.Send(chatID, "Админ-панель. Выберите действие:", &port.SendOptions{ReplyMarkup: keyboard})
		return
	}

	keyboard := map[string]any{
		"keyboard":        []any{[]any{webAppButton}},
		"resize_keyboard": true,
	}
	h.client.Send(chatID, "Привет! Открой магазин по кнопке ниже.", &port.SendOptions{ReplyMarkup: keyboard})
}

func (h *Handler) handleCheckout(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID

	var payload domain.CheckoutPayload
	if err := json.Unmarshal([]byte(msg.WebAppData.Data), &payload); err != nil {
		h.logger.Warn("bad web app payload", zap.Int64("chat", chatID), zap.Error(err))
		h.client.Send(chatID, "Ошибка данных WebApp", nil)
		return
	}

	checkout := domain.Checkout{
		ChatID:  chatID,
		Payload: payload,
	}
	if msg.From != nil {
		checkout.UserID = msg.From.ID
		checkout.UserName = strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
		checkout.Username = msg.From.Username
	}

	_, err := h.service.ProcessCheckout(ctx, &checkout)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmptyCart) || errors.Is(err, domain.ErrProductNotFound):
		h.client.Send(chatID, "Корзина пуста или товар не найден", nil)
	case errors.Is(err, domain.ErrBadRequest):
		h.client.Send(chatID, "Ошибка данных WebApp", nil)
	default:
		h.logger.Error("process checkout", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func (h *Handler) handleAdminCommand(ctx context.Context, chatID int64, text string) {
	switch {
	case text == "Список заказов" || strings.HasPrefix(text, "/orders"):
		h.sendOrderList(ctx, chatID)
	case text == "Новые заказы":
		h.sendNewOrders(ctx, chatID)
	case text == "Статистика":
		h.sendStats(ctx, chatID)
	case strings.HasPrefix(text, "/order "):
		h.sendOrderDetail(ctx, chatID, text)
	default:
		h.client.Send(chatID, "Команды: Список заказов, Новые заказы, Статистика, /order <id>", nil)
	}
}

func (h *Handler) sendOrderList(ctx context.Context, chatID int64) {
	orders, err := h.service.Orders(ctx, nil, listLimit)
	if err != nil {
		h.logger.Error("list orders", zap.Error(err))
		return
	}
	if len(orders) == 0 {
		h.client.Send(chatID, "Заказы не найдены", nil)
		return
	}

	var b strings.Builder
	b.WriteString("<b>Последние заказы:</b>\n\n")
	for _, o := range orders {
		emoji := statusEmoji[o.Status]
		if emoji == "" {
			emoji = "ℹ️"
		}
		fmt.Fprintf(&b, "%s <b>#%d</b> - %s %s (%s)\n", emoji, o.ID, o.TotalPrice, h.currency, o.Status)
		fmt.Fprintf(&b, "   Имя: %s\n", o.UserName)
		fmt.Fprintf(&b, "   Время: %s\n\n", o.CreatedAt.Format(time.DateTime))
	}

	keyboard := map[string]any{
		"inline_keyboard": []any{
			[]any{map[string]any{"text": "Новые", "callback_data": "orders_new"}},
			[]any{map[string]any{"text": "В обработке", "callback_data": "orders_processing"}},
			[]any{map[string]any{"text": "Завершённые", "callback_data": "orders_completed"}},
		},
	}
	h.client.Send(chatID, b.String(), &port.SendOptions{ParseMode: "HTML", ReplyMarkup: keyboard})
}

func (h *Handler) sendNewOrders(ctx context.Context, chatID int64) {
	status := domain.OrderStatusNew
	orders, err := h.service.Orders(ctx, &status, newListLimit)
	if err != nil {
		h.logger.Error("list new orders", zap.Error(err))
		return
	}
	if len(orders) == 0 {
		h.client.Send(chatID, "Новых заказов нет", nil)
		return
	}

	for _, o := range orders {
		var items []string
		for _, item := range o.Items {
			items = append(items, fmt.Sprintf("- %s x%d", item.Name, item.Qty))
		}
		text := fmt.Sprintf("🆕 <b>Заказ #%d</b>\n\n%s\nИтого: <b>%s %s</b>\n\nИмя: %v\nТелефон: %v\nАдрес: %v\n",
			o.ID, strings.Join(items, "\n"), o.TotalPrice, h.currency,
			o.Contact["name"], o.Contact["phone"], o.Contact["address"])

		h.client.Send(chatID, text, &port.SendOptions{ParseMode: "HTML", ReplyMarkup: statusKeyboard(o.ID)})
	}
}

func (h *Handler) sendStats(ctx context.Context, chatID int64) {
	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.logger.Error("store stats", zap.Error(err))
		return
	}
	h.client.Send(chatID, fmt.Sprintf(
		"Статистика\n\nВсего заказов: %d\nНовые: %d\nВыручка: %s %s",
		stats.TotalOrders, stats.NewOrders, stats.Revenue, h.currency), nil)
}

func (h *Handler) sendOrderDetail(ctx context.Context, chatID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		h.client.Send(chatID, "Используй: /order <id>", nil)
		return
	}
	orderID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.client.Send(chatID, "Используй: /order <id>", nil)
		return
	}

	order, err := h.service.Order(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			h.client.Send(chatID, "Заказ не найден", nil)
		} else {
			h.logger.Error("read order", zap.Int64("order", orderID), zap.Error(err))
		}
		return
	}

	var items []string
	for _, item := range order.Items {
		lineTotal, err := item.Price.Mul(decimal.MustNew(int64(item.Qty), 0))
		if err != nil {
			lineTotal = decimal.Zero
		}
		items = append(items, fmt.Sprintf("- %s x%d = %s %s", item.Name, item.Qty, lineTotal, h.currency))
	}

	msg := fmt.Sprintf("ℹ️ <b>Заказ #%d</b>\n\n%s\n----------------\nИтого: <b>%s %s</b>\n\nКонтакты:\n%s\nСоздан: %s\nСтатус: %s\nОплата: %s",
		order.ID, strings.Join(items, "\n"), order.TotalPrice, h.currency,
		service.FormatContact(order.Contact), order.CreatedAt.Format(time.DateTime),
		order.Status, order.PaymentStatus)

	h.client.Send(chatID, msg, &port.SendOptions{ParseMode: "HTML", ReplyMarkup: statusKeyboard(order.ID)})
}

func (h *Handler) handleCallback(ctx context.Context, query *telegram.CallbackQuery) {
	var chatID, messageID int64
	if query.Message != nil {
		chatID = query.Message.Chat.ID
		messageID = query.Message.MessageID
	}

	if !h.isAdmin(query.From.ID, chatID) {
		h.client.AnswerCallback(query.ID, "Нет прав")
		return
	}

	switch {
	case strings.HasPrefix(query.Data, "status_"):
		h.handleStatusCallback(ctx, query, chatID, messageID)
	case strings.HasPrefix(query.Data, "orders_"):
		h.handleOrdersCallback(ctx, query, chatID, messageID)
	}
}

func (h *Handler) handleStatusCallback(ctx context.Context, query *telegram.CallbackQuery, chatID, messageID int64) {
	parts := strings.Split(query.Data, "_")
	if len(parts) != 3 {
		h.client.AnswerCallback(query.ID, "Не удалось обновить статус")
		return
	}
	orderID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.client.AnswerCallback(query.ID, "Не удалось обновить статус")
		return
	}
	newStatus := domain.OrderStatus(parts[2])

	changed, err := h.service.UpdateOrderStatus(ctx, orderID, newStatus)
	if err != nil || !changed {
		h.client.AnswerCallback(query.ID, "Не удалось обновить статус")
		return
	}

	// tell the customer
	order, err := h.service.Order(ctx, orderID)
	if err == nil {
		template, ok := statusMessages[newStatus]
		if !ok {
			template = "Статус заказа #%d обновлён"
		}
		h.client.Send(order.UserID, fmt.Sprintf(template, orderID), nil)
	}

	h.client.AnswerCallback(query.ID, fmt.Sprintf("Статус обновлён на %s", newStatus))

	emoji := statusEmoji[newStatus]
	if emoji == "" {
		emoji = "ℹ️"
	}
	h.client.EditMessageText(chatID, messageID,
		fmt.Sprintf("%s Статус заказа #%d теперь: %s", emoji, orderID, newStatus), "HTML")
}

func (h *Handler) handleOrdersCallback(ctx context.Context, query *telegram.CallbackQuery, chatID, messageID int64) {
	filter := strings.TrimPrefix(query.Data, "orders_")
	var status *domain.OrderStatus
	if filter != "all" {
		s := domain.OrderStatus(filter)
		status = &s
	}

	orders, err := h.service.Orders(ctx, status, listLimit)
	if err != nil || len(orders) == 0 {
		h.client.AnswerCallback(query.ID, "Заказы не найдены")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Заказы (%s):</b>\n\n", filter)
	for i, o := range orders {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "#%d - %s %s\n", o.ID, o.TotalPrice, h.currency)
	}

	h.client.EditMessageText(chatID, messageID, b.String(), "HTML")
	h.client.AnswerCallback(query.ID, "")
}

func statusKeyboard(orderID int64) map[string]any {
	return map[string]any{
		"inline_keyboard": []any{
			[]any{
				map[string]any{"text": "В обработке", "callback_data": fmt.Sprintf("status_%d_processing", orderID)},
				map[string]any{"text": "Завершён", "callback_data": fmt.Sprintf("status_%d_completed", orderID)},
			},
			[]any{
				map[string]any{"text": "Отменить", "callback_data": fmt.Sprintf("status_%d_cancelled", orderID)},
			},
		},
	}
}
