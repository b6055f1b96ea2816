package port

// SendOptions carries optional message formatting. ReplyMarkup is an opaque
// keyboard structure serialized as-is into the transport request.
type SendOptions struct {
	ParseMode   string
	ReplyMarkup any
}

// Notifier delivers a text message to a chat. Best effort: implementations
// log delivery failures and swallow them, a lost notification must never
// roll back committed state.
type Notifier interface {
	Send(chatID int64, text string, opts *SendOptions)
}
