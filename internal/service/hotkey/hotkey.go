package hotkey

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrAlreadyRunning в процессе уже работает другой Source: регистрация хоткея эксклюзивна.
var ErrAlreadyRunning = errors.New("hotkey: listener already running in this process")

// хоткей регистрируется на процесс, поэтому слушатель может быть только один
var active atomic.Bool

// listener платформенная часть. run регистрирует комбинацию, крутит цикл сообщений
// системного потока до отмены ctx и снимает регистрацию ровно один раз.
// Ошибка возвращается только если регистрация не удалась.
type listener interface {
	run(ctx context.Context, combo Combo, fire func(), registered func()) error
}

// Source глобальный хоткей, работающий в собственном потоке ОС.
type Source struct {
	combo  Combo
	logger *zap.SugaredLogger

	newListener func() (listener, error)
}

func New(spec string, logger *zap.SugaredLogger) (*Source, error) {
	combo, err := ParseCombo(spec)
	if err != nil {
		return nil, err
	}
	return &Source{combo: combo, logger: logger, newListener: newPlatformListener}, nil
}

func (s *Source) Combo() Combo { return s.combo }

// Run блокируется до отмены ctx. notify вызывается из потока слушателя на каждое нажатие,
// поэтому должен только передавать событие дальше (например, Coordinator.Post).
// Недоступность хоткея не ошибка: пишем предупреждение и выходим.
func (s *Source) Run(ctx context.Context, notify func()) error {
	if !active.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer active.Store(false)

	l, err := s.newListener()
	if err != nil {
		s.logger.Warnw("Global hotkey unavailable", "hotkey", s.combo.String(), "error", err)
		return nil
	}

	registered := func() {
		s.logger.Infow("Global hotkey registered", "hotkey", s.combo.String())
	}
	if err := l.run(ctx, s.combo, notify, registered); err != nil {
		s.logger.Warnw("Global hotkey registration failed, continuing without it", "hotkey", s.combo.String(), "error", err)
		return nil
	}
	s.logger.Infow("Global hotkey listener stopped", "hotkey", s.combo.String())
	return nil
}
