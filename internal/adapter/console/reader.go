package console

import (
	"FloatTranslator/internal/adapter/history"
	"FloatTranslator/internal/service/translate"
	"FloatTranslator/internal/service/visibility"
	"bufio"
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
)

// UI очередь координатора видимости.
type UI interface {
	Post(ev visibility.Event) bool
	Dispatch(fn func()) bool
}

// Actions кнопки главного окна. Вызываются только через UI.Dispatch.
type Actions interface {
	TranslateText(raw string)
	TranslateClipboard()
	CopyResult()
	Direction() translate.Direction
	SetDirection(d translate.Direction)
	History() []history.Entry
	Exit() bool
}

// Reader читает команды построчно: замена кнопок, меню трея и сочетания клавиш.
type Reader struct {
	ui      UI
	actions Actions
	p       *Printer
	logger  *zap.SugaredLogger
}

func NewReader(ui UI, actions Actions, p *Printer, logger *zap.SugaredLogger) *Reader {
	return &Reader{ui: ui, actions: actions, p: p, logger: logger}
}

const helpText = `commands:
  toggle | ctrl+alt+a   show/hide main window
  click                 click the ball
  main | ball           tray: show main window / ball
  close                 close main window (minimize to ball)
  tr <text>             translate text
  clip                  translate clipboard
  copy                  copy result to clipboard
  dir [n|name]          list or choose direction
  history               recent translations
  exit | quit           exit
`

// Run обрабатывает строки из in до отмены ctx, конца ввода или команды выхода.
// Конец ввода означает выход из приложения.
func (r *Reader) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				var err error
				select {
				case err = <-scanErr:
				default:
				}
				r.logger.Infow("Console input closed, exiting")
				r.actions.Exit()
				return err
			}
			if !r.Handle(line) {
				return nil
			}
		}
	}
}

// Handle выполняет одну команду. false — команда выхода.
func (r *Reader) Handle(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case "":
	case "help", "?":
		r.p.Printf("%s", helpText)
	case "toggle", "ctrl+alt+a":
		r.post(visibility.EventToggle)
	case "click":
		r.post(visibility.EventBallClicked)
	case "main":
		r.post(visibility.EventShowMain)
	case "ball":
		r.post(visibility.EventShowBall)
	case "close":
		r.post(visibility.EventCloseMain)
	case "exit", "quit":
		if !r.actions.Exit() {
			r.logger.Warnw("Exit not accepted: coordinator already stopped")
		}
		return false
	case "tr":
		r.dispatch(func() { r.actions.TranslateText(arg) })
	case "clip":
		r.dispatch(r.actions.TranslateClipboard)
	case "copy":
		r.dispatch(r.actions.CopyResult)
	case "dir":
		r.direction(arg)
	case "history":
		r.dispatch(r.printHistory)
	default:
		r.p.Printf("unknown command %q, type help\n", cmd)
	}
	return true
}

func (r *Reader) direction(arg string) {
	if arg == "" {
		r.dispatch(func() {
			cur := r.actions.Direction()
			for i, d := range translate.Directions {
				mark := " "
				if d == cur {
					mark = "*"
				}
				r.p.Printf("%s %d. %s (%s)\n", mark, i+1, d.String(), d.Name)
			}
		})
		return
	}
	d, err := translate.ParseDirection(arg)
	if err != nil {
		r.p.Printf("%v\n", err)
		return
	}
	r.dispatch(func() {
		r.actions.SetDirection(d)
		r.p.Printf("direction: %s\n", d.String())
	})
}

func (r *Reader) printHistory() {
	entries := r.actions.History()
	if len(entries) == 0 {
		r.p.Printf("history is empty\n")
		return
	}
	for _, e := range entries {
		r.p.Printf("%s [%s] %s\n%s\n", e.At.Format("15:04:05"), e.Direction, indent(e.Source), indent(e.Result))
	}
}

func (r *Reader) post(ev visibility.Event) {
	if !r.ui.Post(ev) {
		r.logger.Warnw("Event not accepted", "event", ev.String())
	}
}

func (r *Reader) dispatch(fn func()) {
	if !r.ui.Dispatch(fn) {
		r.logger.Warnw("Action not accepted: UI loop unavailable")
	}
}
