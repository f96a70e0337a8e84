package visibility

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Options параметры координатора.
type Options struct {
	StartMinimized bool // начальное состояние BallShown вместо MainShown
	QueueSize      int  // ёмкость очереди событий и задач
}

// элемент очереди: либо событие, либо задача для исполнения в горутине координатора
type item struct {
	ev Event
	fn func()
}

// Coordinator единственный владелец состояния видимости. Все события и задачи
// проходят через одну очередь и применяются по одному в горутине Run.
type Coordinator struct {
	main   Surface
	ball   Surface
	logger *zap.SugaredLogger

	state   atomic.Int32
	queue   chan item
	exitReq chan struct{} // выход, не поместившийся в переполненную очередь

	// завершение
	done     chan struct{}
	doneOnce sync.Once

	mu        sync.Mutex
	exitHooks []func()
	observers []func(Transition)
}

// New создаёт координатор с двумя поверхностями, которые живут всё время работы процесса.
func New(main, ball Surface, opts Options, logger *zap.SugaredLogger) *Coordinator {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	c := &Coordinator{
		main:    main,
		ball:    ball,
		logger:  logger,
		queue:   make(chan item, opts.QueueSize),
		exitReq: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	initial := StateMainShown
	if opts.StartMinimized {
		initial = StateBallShown
	}
	c.state.Store(int32(initial))
	return c
}

// State текущее состояние; безопасно вызывать из любой горутины.
func (c *Coordinator) State() State { return State(c.state.Load()) }

// Done закрывается после перехода в терминальное состояние.
func (c *Coordinator) Done() <-chan struct{} { return c.done }

// OnExit регистрирует действие, выполняемое один раз при выходе (остановка хоткея, воркеров и т.п.).
func (c *Coordinator) OnExit(fn func()) {
	c.mu.Lock()
	c.exitHooks = append(c.exitHooks, fn)
	c.mu.Unlock()
}

// OnTransition регистрирует наблюдателя смены состояния. Вызывается в горутине координатора,
// поэтому не должен блокироваться.
func (c *Coordinator) OnTransition(fn func(Transition)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Post ставит событие в очередь, не блокируясь. false — координатор уже завершён или очередь переполнена.
// Выход при переполненной очереди не теряется: он выполнится после уже стоящих в очереди элементов.
func (c *Coordinator) Post(ev Event) bool {
	if ev == EventExit {
		return c.requestExit()
	}
	return c.enqueue(item{ev: ev})
}

func (c *Coordinator) requestExit() bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.queue <- item{ev: EventExit}:
		return true
	default:
	}
	select {
	case c.exitReq <- struct{}{}:
		c.logger.Warnw("Visibility queue full, exit deferred until queue drains")
	default:
		// выход уже запрошен
	}
	return true
}

// Dispatch выполняет fn в горутине координатора (например, показ результата перевода).
func (c *Coordinator) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	return c.enqueue(item{fn: fn})
}

func (c *Coordinator) enqueue(it item) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.queue <- it:
		return true
	case <-c.done:
		return false
	default:
		// в случае переполнения — дроп, чтобы не блокировать отправителя (поток хоткея)
		c.logger.Warnw("Visibility queue full, dropping", "event", it.ev.String(), "task", it.fn != nil)
		return false
	}
}

// Run основной цикл: приводит поверхности к начальному состоянию и обрабатывает очередь
// до события выхода или отмены ctx (отмена тоже приводит к выходу).
func (c *Coordinator) Run(ctx context.Context) error {
	if c.State() == StateExited {
		return nil
	}
	c.sync()
	c.logger.Infow("Visibility coordinator started", "state", c.State().String())

	for {
		select {
		case <-ctx.Done():
			c.handle(EventExit)
			return context.Cause(ctx)
		case <-c.exitReq:
			// Сначала то, что пришло раньше выхода
			for n := len(c.queue); n > 0 && c.State() != StateExited; n-- {
				c.apply(<-c.queue)
			}
			c.handle(EventExit)
		case it := <-c.queue:
			c.apply(it)
		}
		if c.State() == StateExited {
			return nil
		}
	}
}

func (c *Coordinator) apply(it item) {
	if it.fn != nil {
		it.fn()
		return
	}
	c.handle(it.ev)
}

// sync показывает поверхность текущего состояния и прячет другую.
func (c *Coordinator) sync() {
	switch c.State() {
	case StateMainShown:
		present(c.main, c.ball, false)
	case StateBallShown:
		present(c.ball, c.main, false)
	}
}

// handle применяет одно событие. Недопустимые для состояния события — no-op.
func (c *Coordinator) handle(ev Event) {
	from := c.State()
	to, focus, ok := next(from, ev)
	if !ok {
		c.logger.Debugw("Event ignored", "event", ev.String(), "state", from.String())
		return
	}

	switch to {
	case StateMainShown:
		present(c.main, c.ball, focus)
		c.state.Store(int32(to))
	case StateBallShown:
		present(c.ball, c.main, focus)
		c.state.Store(int32(to))
	case StateExited:
		c.state.Store(int32(to))
		c.shutdown()
	}

	if from == to {
		return
	}
	c.logger.Infow("Visibility changed", "event", ev.String(), "from", from.String(), "to", to.String())
	tr := Transition{From: from, To: to, Event: ev, At: time.Now()}
	c.mu.Lock()
	observers := append([]func(Transition){}, c.observers...)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(tr)
	}
}

// shutdown прячет всё, выполняет exit-хуки и закрывает done. Выполняется один раз.
func (c *Coordinator) shutdown() {
	c.doneOnce.Do(func() {
		if c.main.IsVisible() {
			c.main.Hide()
		}
		if c.ball.IsVisible() {
			c.ball.Hide()
		}
		c.mu.Lock()
		hooks := append([]func(){}, c.exitHooks...)
		c.mu.Unlock()
		for _, fn := range hooks {
			fn()
		}
		close(c.done)
	})
}

// present прячет hide и показывает show; вызовы делаются только если видимость отличается.
func present(show, hide Surface, focus bool) {
	if hide.IsVisible() {
		hide.Hide()
	}
	if !show.IsVisible() {
		show.Show()
	}
	if focus {
		show.RaiseAndFocus()
	}
}
