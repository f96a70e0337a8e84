package main

import (
	"FloatTranslator/internal/adapter/clipboard"
	"FloatTranslator/internal/app/translator"
	"FloatTranslator/internal/config"
	"FloatTranslator/internal/service/text"
	"FloatTranslator/internal/service/translate"
	"FloatTranslator/internal/service/translate/baidu"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

// Разовый перевод: текст из аргументов, "-" из stdin, без аргументов из буфера обмена.
// Результат печатается и кладётся в буфер обмена.
func main() {
	cfg, err := config.NewConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	dir, err := translate.ParseDirection(cfg.DefaultDirection)
	if err != nil {
		sugar.Errorw("Unknown direction", "direction", cfg.DefaultDirection, "error", err)
		os.Exit(2)
	}

	clip := clipboard.NewSystem()
	raw, err := readInput(cfg.Args, clip)
	if err != nil {
		sugar.Errorw("Failed to read input", "error", err)
		os.Exit(1)
	}
	q := text.Normalize(raw)
	if q == "" {
		sugar.Infow("Nothing to translate")
		return
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
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := client.Translate(ctx, q, dir.From, dir.To)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка перевода: %s\n", translator.ErrorMessage(err))
		sugar.Debugw("Translate failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(out)

	if clip.Available() && out != "" {
		if err := clip.WriteText(out); err != nil {
			sugar.Warnw("Failed to copy result", "error", err)
		}
	}
}

func readInput(args []string, clip clipboard.Store) (string, error) {
	switch {
	case len(args) == 1 && args[0] == "-":
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		return clip.ReadText()
	}
}
