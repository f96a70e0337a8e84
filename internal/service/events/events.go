package events

import (
	"FloatTranslator/internal/service/visibility"
	"context"
)

// EventServer внешний источник событий видимости по HTTP с обратной лентой переходов.
type EventServer interface {
	// Start начинает слушать в отдельной горутине и сразу возвращается.
	// Отмена ctx останавливает сервер.
	Start(ctx context.Context) error

	// Stop graceful shutdown; повторный вызов ничего не делает.
	Stop(ctx context.Context) error

	// Addr фактический адрес слушателя (после Start с портом 0 — выбранный порт).
	Addr() string

	// Publish рассылает переход подписчикам, не блокируясь.
	Publish(t visibility.Transition)
}
