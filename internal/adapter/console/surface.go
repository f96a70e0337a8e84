package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Printer общий вывод поверхностей и читателя команд.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer { return &Printer{out: out} }

func (p *Printer) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

// surface видимость одного окна, отражаемая в консоли.
type surface struct {
	name   string
	p      *Printer
	logger *zap.SugaredLogger

	mu      sync.Mutex
	visible bool
}

func (s *surface) Show() {
	s.setVisible(true)
	s.p.Printf("[%s] shown\n", s.name)
}

func (s *surface) Hide() {
	s.setVisible(false)
	s.p.Printf("[%s] hidden\n", s.name)
}

func (s *surface) IsVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

func (s *surface) RaiseAndFocus() {
	s.p.Printf("[%s] raised\n", s.name)
	s.logger.Debugw("Surface focused", "surface", s.name)
}

func (s *surface) setVisible(v bool) {
	s.mu.Lock()
	s.visible = v
	s.mu.Unlock()
	s.logger.Debugw("Surface visibility", "surface", s.name, "visible", v)
}

// Ball плавающий шарик.
type Ball struct{ surface }

func NewBall(p *Printer, logger *zap.SugaredLogger) *Ball {
	return &Ball{surface{name: "ball", p: p, logger: logger}}
}

// MainWindow главное окно: поле ввода, результат и сообщения об ошибках.
type MainWindow struct {
	surface

	input  string
	output string
}

func NewMainWindow(p *Printer, logger *zap.SugaredLogger) *MainWindow {
	return &MainWindow{surface: surface{name: "main", p: p, logger: logger}}
}

func (w *MainWindow) Input() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

func (w *MainWindow) SetInput(text string) {
	w.mu.Lock()
	w.input = text
	w.mu.Unlock()
}

func (w *MainWindow) Output() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.output
}

func (w *MainWindow) SetOutput(text string) {
	w.mu.Lock()
	w.output = text
	w.mu.Unlock()
	w.p.Printf("[main] result:\n%s\n", indent(text))
}

func (w *MainWindow) ShowError(title, msg string) {
	w.logger.Warnw("Error shown to user", "title", title, "message", msg)
	w.p.Printf("[main] %s: %s\n", title, msg)
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
