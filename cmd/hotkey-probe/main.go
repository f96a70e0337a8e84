package main

import (
	"FloatTranslator/internal/service/hotkey"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Проверка глобального хоткея без ключей Baidu: печатает каждое нажатие.
func main() {
	spec := flag.String("hotkey", "Ctrl+Alt+A", "комбинация для проверки, напр. Ctrl+Shift+F1")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	src, err := hotkey.New(*spec, sugar)
	if err != nil {
		fmt.Printf("Некорректная комбинация: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("Жду нажатий %s, Ctrl+C для выхода\n", src.Combo())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	presses := make(chan time.Time, 16)
	go func() {
		n := 0
		for at := range presses {
			n++
			fmt.Printf("[HOTKEY %s] #%d\n", at.Format("15:04:05.000"), n)
		}
	}()

	// Неблокирующая передача, поток сообщений ОС не ждёт консоль
	err = src.Run(ctx, func() {
		select {
		case presses <- time.Now():
		default:
		}
	})
	close(presses)
	if err != nil {
		fmt.Printf("Сервис завершился с ошибкой: %v\n", err)
	}
}
