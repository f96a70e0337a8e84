package translator

import (
	"FloatTranslator/internal/adapter/clipboard"
	"FloatTranslator/internal/adapter/history"
	"FloatTranslator/internal/app/worker"
	"FloatTranslator/internal/service/text"
	"FloatTranslator/internal/service/translate"
	"FloatTranslator/internal/service/translate/baidu"
	"FloatTranslator/internal/service/visibility"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// View главное окно: поле ввода, поле результата и показ ошибки.
// Все методы вызываются из горутины координатора.
type View interface {
	Input() string
	SetInput(text string)
	Output() string
	SetOutput(text string)
	ShowError(title, msg string)
}

// UI очередь событий и задач координатора видимости.
type UI interface {
	Post(ev visibility.Event) bool
	Dispatch(fn func()) bool
	OnTransition(fn func(visibility.Transition))
	OnExit(fn func())
}

// Sounder короткие звуки по итогам перевода.
type Sounder interface {
	PlayDone(ctx context.Context) error
	PlayError(ctx context.Context) error
}

// App поведение главного окна переводчика. Методы, кроме Exit и Wait, должны
// вызываться в горутине координатора (через UI.Dispatch).
type App struct {
	ctx    context.Context
	ui     UI
	view   View
	clip   clipboard.Store
	worker *worker.Worker
	sound  Sounder
	hist   *history.History
	logger *zap.SugaredLogger

	dir     translate.Direction
	pending string
}

type Options struct {
	Direction   translate.Direction
	Sound       Sounder // nil — без звука
	HistorySize int     // 0 — значение по умолчанию, <0 — без ограничения
}

const defaultHistorySize = 50

func New(ctx context.Context, ui UI, view View, clip clipboard.Store, tr translate.Translator, opts Options, logger *zap.SugaredLogger) *App {
	dir := opts.Direction
	if dir.Name == "" {
		dir = translate.DefaultDirection()
	}
	size := opts.HistorySize
	if size == 0 {
		size = defaultHistorySize
	}
	a := &App{
		ctx:    ctx,
		ui:     ui,
		view:   view,
		clip:   clip,
		worker: worker.New(tr, ui, logger),
		sound:  opts.Sound,
		hist:   history.New(size),
		logger: logger,
		dir:    dir,
	}

	// Результат для скрытого окна никому не нужен
	ui.OnTransition(func(t visibility.Transition) {
		if t.From == visibility.StateMainShown && t.To != visibility.StateMainShown {
			a.cancelPending("main hidden")
		}
	})
	ui.OnExit(func() { a.cancelPending("exit") })
	return a
}

func (a *App) Direction() translate.Direction { return a.dir }

func (a *App) SetDirection(d translate.Direction) {
	a.dir = d
	a.logger.Infow("Direction changed", "direction", d.String())
}

// Pending ID перевода в полёте или пустая строка.
func (a *App) Pending() string { return a.pending }

// TranslateCurrent переводит текст из поля ввода. Пустой после нормализации текст — no-op.
func (a *App) TranslateCurrent() {
	q := text.Normalize(a.view.Input())
	if q == "" {
		return
	}
	req := worker.Request{Text: q, Direction: a.dir}
	a.pending = a.worker.Submit(a.ctx, req, a.deliver)
}

// TranslateText кладёт текст в поле ввода и переводит его.
func (a *App) TranslateText(raw string) {
	a.view.SetInput(raw)
	a.TranslateCurrent()
}

// TranslateClipboard переводит нормализованный текст из буфера обмена.
func (a *App) TranslateClipboard() {
	raw, err := a.clip.ReadText()
	if err != nil {
		a.logger.Warnw("Clipboard read failed", "error", err)
		a.view.ShowError("Буфер обмена", err.Error())
		return
	}
	q := text.Normalize(raw)
	if q == "" {
		return
	}
	a.view.SetInput(q)
	a.TranslateCurrent()
}

// CopyResult копирует результат в буфер обмена; пустой результат не копируется.
func (a *App) CopyResult() {
	out := a.view.Output()
	if out == "" {
		return
	}
	if err := a.clip.WriteText(out); err != nil {
		a.logger.Warnw("Clipboard write failed", "error", err)
		a.view.ShowError("Буфер обмена", err.Error())
	}
}

// History успешные переводы сессии, от старых к новым.
func (a *App) History() []history.Entry { return a.hist.Entries() }

// Exit запрашивает завершение; безопасно из любой горутины.
func (a *App) Exit() bool { return a.ui.Post(visibility.EventExit) }

// Wait ждёт завершения фоновых переводов.
func (a *App) Wait() { a.worker.Wait() }

func (a *App) deliver(res worker.Result) {
	if res.ID == a.pending {
		a.pending = ""
	}
	if res.Err != nil {
		a.view.ShowError("Ошибка перевода", ErrorMessage(res.Err))
		a.playAsync(false)
		return
	}
	a.view.SetOutput(res.Text)
	a.hist.Append(history.Entry{
		ID:        res.ID,
		Direction: res.Request.Direction.String(),
		Source:    res.Request.Text,
		Result:    res.Text,
		At:        time.Now(),
	})
	a.playAsync(true)
}

func (a *App) cancelPending(reason string) {
	if a.pending == "" {
		return
	}
	a.logger.Infow("Canceling translation", "id", a.pending, "reason", reason)
	a.pending = ""
	a.worker.Cancel()
}

func (a *App) playAsync(ok bool) {
	if a.sound == nil {
		return
	}
	go func() {
		if ok {
			_ = a.sound.PlayDone(a.ctx)
		} else {
			_ = a.sound.PlayError(a.ctx)
		}
	}()
}

// ErrorMessage текст ошибки перевода для пользователя.
func ErrorMessage(err error) string {
	var pe *baidu.ProviderError
	if errors.As(err, &pe) {
		return fmt.Sprintf("Сервис перевода вернул ошибку %s: %s", pe.Code, pe.Description())
	}
	var te *baidu.TransportError
	if errors.As(err, &te) {
		switch {
		case te.Timeout():
			return "Сервис перевода не ответил вовремя"
		case te.StatusCode != 0 && te.Err == nil:
			return fmt.Sprintf("Сервис перевода недоступен (HTTP %d)", te.StatusCode)
		default:
			return fmt.Sprintf("Сетевая ошибка: %v", te.Err)
		}
	}
	return err.Error()
}
