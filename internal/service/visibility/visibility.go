package visibility

import (
	"fmt"
	"strings"
	"time"
)

// Surface поверхность слоя представления (главное окно или плавающий шарик).
// Методы вызываются только из горутины координатора.
type Surface interface {
	Show()
	Hide()
	IsVisible() bool
	RaiseAndFocus()
}

// State что сейчас показано пользователю.
type State int32

const (
	StateMainShown State = iota + 1
	StateBallShown
	StateExited // терминальное, выхода из него нет
)

func (s State) String() string {
	switch s {
	case StateMainShown:
		return "main_shown"
	case StateBallShown:
		return "ball_shown"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Event логическое событие от хоткея, трея, шарика или окна.
type Event int

const (
	EventToggle      Event = iota + 1 // хоткей или шорткат
	EventBallClicked                  // клик по шарику
	EventShowMain                     // трей: показать главное окно
	EventShowBall                     // трей: показать шарик
	EventCloseMain                    // закрытие окна без выхода (сворачивание в шарик)
	EventExit                         // выход из меню, кнопкой или настоящим закрытием
)

var eventNames = map[Event]string{
	EventToggle:      "toggle",
	EventBallClicked: "ball_clicked",
	EventShowMain:    "show_main",
	EventShowBall:    "show_ball",
	EventCloseMain:   "close_main",
	EventExit:        "exit",
}

func (e Event) String() string {
	if n, ok := eventNames[e]; ok {
		return n
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// ParseEvent разбирает имя события (toggle, show_main, ...). Регистр и дефисы не важны.
func ParseEvent(s string) (Event, error) {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for e, n := range eventNames {
		if n == v {
			return e, nil
		}
	}
	return 0, fmt.Errorf("visibility: неизвестное событие %q", s)
}

// Transition применённый переход, отдаётся наблюдателям.
type Transition struct {
	From  State
	To    State
	Event Event
	At    time.Time
}

// next таблица переходов. ok=false — событие в этом состоянии ничего не делает.
func next(from State, ev Event) (to State, focus bool, ok bool) {
	if from == StateExited {
		return from, false, false
	}
	switch ev {
	case EventToggle:
		if from == StateMainShown {
			return StateBallShown, false, true
		}
		return StateMainShown, false, true
	case EventBallClicked:
		if from == StateBallShown {
			return StateMainShown, true, true
		}
	case EventShowMain:
		return StateMainShown, true, true
	case EventShowBall:
		return StateBallShown, true, true
	case EventCloseMain:
		if from == StateMainShown {
			return StateBallShown, false, true
		}
	case EventExit:
		return StateExited, false, true
	}
	return from, false, false
}
