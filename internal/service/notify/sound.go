package notify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// speaker у beep один на процесс: повторный Init посреди проигрывания обрывает
// предыдущий звук без колбэка завершения, поэтому звуки идут строго по одному
var playMu sync.Mutex

// Sound короткие звуки после перевода: успех и ошибка. Пустой путь отключает звук.
type Sound struct {
	logger    *zap.SugaredLogger
	pathDone  string
	pathError string
	ply       Player
}

// New создаёт нотификатор. Относительные пути сначала ищутся рядом с бинарём,
// затем от текущей рабочей директории.
func New(logger *zap.SugaredLogger, pathDone, pathError string) *Sound {
	return &Sound{
		logger:    logger,
		pathDone:  resolve(pathDone),
		pathError: resolve(pathError),
		ply:       newBeepPlayer(0),
	}
}

func resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if exe, err := os.Executable(); err == nil {
		cand := filepath.Join(filepath.Dir(exe), path)
		if _, statErr := os.Stat(cand); statErr == nil {
			return cand
		}
	}
	return filepath.FromSlash(path)
}

// Enabled хотя бы один звук настроен.
func (n *Sound) Enabled() bool { return n.pathDone != "" || n.pathError != "" }

// PlayDone звук успешного перевода.
func (n *Sound) PlayDone(ctx context.Context) error { return n.play(ctx, n.pathDone) }

// PlayError звук ошибки перевода.
func (n *Sound) PlayError(ctx context.Context) error { return n.play(ctx, n.pathError) }

func (n *Sound) play(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := context.Cause(ctx); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		n.logger.Warnw("Не удалось открыть звуковой файл уведомления", "path", path, "error", err)
		return err
	}
	defer f.Close()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		ext = "mp3"
	}
	playMu.Lock()
	err = n.ply.Play(ext, f)
	playMu.Unlock()
	if err != nil {
		n.logger.Warnw("Не удалось воспроизвести звуковое уведомление", "path", path, "error", err)
		return err
	}
	return nil
}
