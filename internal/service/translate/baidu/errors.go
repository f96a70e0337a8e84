package baidu

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TransportError сетевая ошибка, таймаут, не-2xx статус или нечитаемый ответ.
// Повторов клиент не делает — решение за вызывающим.
type TransportError struct {
	StatusCode int    // 0, если до ответа не дошло
	Body       string // начало тела ответа для не-2xx
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("baidu: transport error: status=%d: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("baidu: transport error: %v", e.Err)
	default:
		return fmt.Sprintf("baidu: transport error: status=%d, body=%s", e.StatusCode, e.Body)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout сообщает, что запрос не уложился в отведённое время.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// ProviderError корректный ответ API с полем error_code (в том числе при HTTP 200).
type ProviderError struct {
	Code    string
	Msg     string // error_msg из ответа, если был
	Payload string // сырое тело ответа для диагностики
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("baidu: error_code=%s (%s): %s", e.Code, e.Description(), e.Payload)
}

// Description человекочитаемое описание кода ошибки.
func (e *ProviderError) Description() string {
	if d, ok := codeDescriptions[e.Code]; ok {
		return d
	}
	if e.Msg != "" {
		return e.Msg
	}
	return "неизвестная ошибка"
}

// Коды из документации Baidu Translate (api.fanyi.baidu.com/doc/21).
var codeDescriptions = map[string]string{
	"52001": "таймаут запроса, повторите попытку",
	"52002": "системная ошибка, повторите попытку",
	"52003": "неавторизованный пользователь: проверьте appid и статус сервиса",
	"54000": "не хватает обязательного параметра",
	"54001": "неверная подпись: проверьте appid и ключ",
	"54003": "превышена частота запросов",
	"54004": "недостаточно средств на счёте",
	"54005": "слишком частые запросы с длинным текстом",
	"58000": "IP клиента не в белом списке",
	"58001": "целевой язык не поддерживается",
	"58002": "сервис отключён",
	"90107": "аутентификация не пройдена или не вступила в силу",
}
