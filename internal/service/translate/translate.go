package translate

import (
	"context"
	"fmt"
	"strings"
)

// Translator абстракция машинного перевода. Пустой query — пустой результат без обращения к сети.
type Translator interface {
	Translate(ctx context.Context, query string, from, to Lang) (string, error)
}

// Lang код языка в терминах провайдера.
type Lang string

const (
	LangAuto Lang = "auto"
	LangEN   Lang = "en"
	LangZH   Lang = "zh"
)

// Direction пара исходный→целевой язык, выбираемая пользователем.
type Direction struct {
	Name string // ключ для конфига/команд, напр. auto-zh
	From Lang
	To   Lang
}

func (d Direction) String() string { return string(d.From) + "→" + string(d.To) }

// Directions поддерживаемые направления; первое — направление по умолчанию.
var Directions = []Direction{
	{Name: "auto-zh", From: LangAuto, To: LangZH},
	{Name: "auto-en", From: LangAuto, To: LangEN},
	{Name: "en-zh", From: LangEN, To: LangZH},
	{Name: "zh-en", From: LangZH, To: LangEN},
}

// DefaultDirection auto→zh.
func DefaultDirection() Direction { return Directions[0] }

// ParseDirection принимает имя (auto-zh), запись со стрелкой (auto→zh) или порядковый номер с 1.
func ParseDirection(s string) (Direction, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer("→", "-", "->", "-", "_", "-").Replace(v)
	for i, d := range Directions {
		if v == d.Name || v == fmt.Sprint(i+1) {
			return d, nil
		}
	}
	return Direction{}, fmt.Errorf("translate: неизвестное направление %q", s)
}
