package main

import (
	"FloatTranslator/internal/adapter/clipboard"
	"FloatTranslator/internal/adapter/console"
	"FloatTranslator/internal/app/translator"
	"FloatTranslator/internal/config"
	"FloatTranslator/internal/service/events"
	"FloatTranslator/internal/service/events/control"
	"FloatTranslator/internal/service/hotkey"
	"FloatTranslator/internal/service/notify"
	"FloatTranslator/internal/service/translate"
	"FloatTranslator/internal/service/translate/baidu"
	"FloatTranslator/internal/service/visibility"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	cfg, cfgErr := config.NewConfig(os.Args[1:])
	if errors.Is(cfgErr, flag.ErrHelp) {
		return
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	// Без ключей Baidu переводчик бесполезен: это единственная фатальная ошибка старта
	if cfgErr != nil {
		var ce *config.Error
		if errors.As(cfgErr, &ce) {
			sugar.Errorw("Invalid configuration", "field", ce.Field, "error", cfgErr)
		} else {
			sugar.Errorw("Invalid configuration", "error", cfgErr)
		}
		_ = logger.Sync()
		os.Exit(2)
	}

	dir, err := translate.ParseDirection(cfg.DefaultDirection)
	if err != nil {
		sugar.Warnw("Unknown default direction, using auto-zh", "direction", cfg.DefaultDirection, "error", err)
		dir = translate.DefaultDirection()
	}

	client, err := baidu.New(baidu.Config{
		AppID:    cfg.Baidu.AppID,
		AppKey:   cfg.Baidu.AppKey,
		Endpoint: cfg.Baidu.Endpoint,
		Path:     cfg.Baidu.Path,
		Timeout:  cfg.Baidu.Timeout,
	}, sugar)
	if err != nil {
		sugar.Errorw("Failed to create translation client", "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printer := console.NewPrinter(os.Stdout)
	mainWin := console.NewMainWindow(printer, sugar)
	ball := console.NewBall(printer, sugar)
	coord := visibility.New(mainWin, ball, visibility.Options{
		StartMinimized: cfg.StartMinimized,
		QueueSize:      cfg.EventQueueSize,
	}, sugar)

	// Всё вспомогательное живёт до выхода из координатора
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	coord.OnExit(cancel)

	sys := clipboard.NewSystem()
	var clip clipboard.Store = sys
	if !sys.Available() {
		sugar.Warnw("System clipboard unavailable, using in-memory clipboard")
		clip = &clipboard.Memory{}
	}

	opts := translator.Options{Direction: dir, HistorySize: cfg.HistorySize}
	if s := notify.New(sugar, cfg.NotificationSoundPath, cfg.ErrorSoundPath); s.Enabled() {
		opts.Sound = s
	}
	app := translator.New(runCtx, coord, mainWin, clip, client, opts, sugar)

	var wg sync.WaitGroup
	if cfg.HotkeyEnabled {
		src, err := hotkey.New(cfg.Hotkey, sugar)
		if err != nil {
			sugar.Warnw("Invalid hotkey, continuing without it", "hotkey", cfg.Hotkey, "error", err)
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				// Поток хоткея только передаёт событие в очередь
				if err := src.Run(runCtx, func() { coord.Post(visibility.EventToggle) }); err != nil {
					sugar.Warnw("Hotkey source stopped", "error", err)
				}
			}()
		}
	}

	if cfg.ControlServer.Enabled {
		var srv events.EventServer = control.New(cfg.ControlServer, coord, sugar)
		coord.OnTransition(srv.Publish)
		if err := srv.Start(runCtx); err != nil {
			sugar.Warnw("Control server failed to start", "addr", cfg.ControlServer.BindAddr, "error", err)
		}
	}

	reader := console.NewReader(coord, app, printer, sugar)
	go func() {
		if err := reader.Run(runCtx, os.Stdin); err != nil {
			sugar.Warnw("Console input error", "error", err)
		}
	}()

	sugar.Infow(
		"Starting app",
		"DebugMode", cfg.DebugMode,
		"direction", dir.String(),
		"hotkey", cfg.Hotkey,
		"startMinimized", cfg.StartMinimized,
	)
	printer.Printf("FloatTranslator: %s, type help for commands\n", dir.String())

	if err := coord.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		sugar.Warnw("Coordinator stopped", "error", err)
	}
	app.Wait()
	wg.Wait()
	sugar.Infow("App stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg != nil && cfg.LogJSON && !cfg.DebugMode {
		return zap.NewProduction()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return l, nil
}
