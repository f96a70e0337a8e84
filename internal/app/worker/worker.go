package worker

import (
	"FloatTranslator/internal/service/translate"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrPreempted предыдущий перевод вытеснен новым запросом.
	ErrPreempted = errors.New("translation preempted by a newer request")
	// ErrCanceled перевод отменён (окно скрыто или приложение завершается).
	ErrCanceled = errors.New("translation canceled")
)

// Dispatcher очередь UI-горутины, куда доставляются результаты (visibility.Coordinator).
type Dispatcher interface {
	Dispatch(fn func()) bool
}

// Request уже нормализованный текст и направление.
type Request struct {
	Text      string
	Direction translate.Direction
}

// Result итог одного перевода.
type Result struct {
	ID      string
	Request Request
	Text    string
	Err     error
	Took    time.Duration
}

// Worker выполняет переводы вне UI-горутины. Одновременно в полёте не больше одного запроса:
// новый вытесняет предыдущий, а устаревшие результаты до UI не доходят.
type Worker struct {
	tr     translate.Translator
	ui     Dispatcher
	logger *zap.SugaredLogger

	mu         sync.Mutex
	cancelPrev context.CancelCauseFunc
	gen        int64 // Счётчик текущего запроса

	wg sync.WaitGroup
}

func New(tr translate.Translator, ui Dispatcher, logger *zap.SugaredLogger) *Worker {
	return &Worker{tr: tr, ui: ui, logger: logger}
}

// Submit запускает перевод и возвращает его ID. deliver вызывается в UI-горутине,
// только если запрос всё ещё актуален.
func (w *Worker) Submit(ctx context.Context, req Request, deliver func(Result)) string {
	id := uuid.NewString()
	reqCtx, cancel := context.WithCancelCause(ctx)

	w.mu.Lock()
	if w.cancelPrev != nil {
		w.logger.Infow("Preempting previous translation")
		w.cancelPrev(ErrPreempted)
	}
	w.gen++
	localGen := w.gen
	w.cancelPrev = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			cancel(nil)
			w.mu.Lock()
			if w.gen == localGen {
				w.cancelPrev = nil
			}
			w.mu.Unlock()
		}()

		started := time.Now()
		w.logger.Infow("Translation start", "id", id, "direction", req.Direction.String(), "chars", len([]rune(req.Text)))
		out, err := w.tr.Translate(reqCtx, req.Text, req.Direction.From, req.Direction.To)
		res := Result{ID: id, Request: req, Text: out, Err: err, Took: time.Since(started)}

		if cause := context.Cause(reqCtx); cause != nil && err != nil {
			w.logger.Infow("Translation dropped", "id", id, "cause", cause)
			return
		}
		if err != nil {
			w.logger.Warnw("Translation failed", "id", id, "error", err, "took", res.Took.String())
		} else {
			w.logger.Infow("Translation done", "id", id, "took", res.Took.String())
		}

		if !w.current(localGen) {
			return
		}
		// Повторная проверка уже в UI-горутине: между Dispatch и исполнением запрос мог устареть
		if !w.ui.Dispatch(func() {
			if w.current(localGen) {
				deliver(res)
			}
		}) {
			w.logger.Warnw("Translation result not delivered: UI queue unavailable", "id", id)
		}
	}()
	return id
}

// Cancel отменяет перевод в полёте; его результат будет отброшен.
func (w *Worker) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	if w.cancelPrev != nil {
		w.cancelPrev(ErrCanceled)
		w.cancelPrev = nil
	}
}

// Wait ждёт завершения всех запущенных горутин.
func (w *Worker) Wait() { w.wg.Wait() }

func (w *Worker) current(gen int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gen == gen
}
