package hotkey

import (
	"fmt"
	"sync"
)

// ERROR_CLASS_ALREADY_EXISTS
const errorClassAlreadyExists = 1410

// classRegistration проверяет результат RegisterClassEx. Класс уже зарегистрирован
// прошлым запуском в этом же процессе — не ошибка.
func classRegistration(atom uint16, lastErr uint32) error {
	if atom != 0 || lastErr == errorClassAlreadyExists {
		return nil
	}
	return fmt.Errorf("hotkey: RegisterClassEx failed: error %d", lastErr)
}

// handlers действия текущего запуска слушателя.
type handlers struct {
	fire    func()
	onClose func()
}

// handlerSlot оконная процедура регистрируется один раз на процесс и берёт
// обработчики отсюда, поэтому повторный запуск не вызывает замыкания прошлого.
type handlerSlot struct {
	mu sync.Mutex
	h  handlers
}

func (s *handlerSlot) set(h handlers) {
	s.mu.Lock()
	s.h = h
	s.mu.Unlock()
}

func (s *handlerSlot) clear() { s.set(handlers{}) }

func (s *handlerSlot) get() handlers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h
}

func (s *handlerSlot) fire() {
	if f := s.get().fire; f != nil {
		f()
	}
}

func (s *handlerSlot) close() {
	if f := s.get().onClose; f != nil {
		f()
	}
}
