package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode bool `env:"DEBUG_MODE"` // Режим дебага
	LogJSON   bool `env:"LOG_JSON"`   // JSON-логи (production-энкодер zap) вместо консольных

	Baidu BaiduConfig // Доступ к Baidu Translate API

	DefaultDirection string `env:"DEFAULT_DIRECTION"` // Направление перевода по умолчанию: auto-zh|auto-en|en-zh|zh-en

	// Глобальный хоткей и окна
	Hotkey         string `env:"HOTKEY"`           // Комбинация переключения окна/шарика, напр. Ctrl+Alt+A
	HotkeyEnabled  bool   `env:"HOTKEY_ENABLED"`   // Регистрировать ли глобальный хоткей
	StartMinimized bool   `env:"START_MINIMIZED"`  // Стартовать со свёрнутым в шарик окном
	EventQueueSize int    `env:"EVENT_QUEUE_SIZE"` // Ёмкость очереди событий координатора

	// ControlServer — локальный приёмник событий от внешнего слоя представления
	ControlServer ControlServerConfig

	// Звуки уведомлений; пустой путь — без звука
	NotificationSoundPath string `env:"NOTIFICATION_SOUND_PATH"`
	ErrorSoundPath        string `env:"ERROR_SOUND_PATH"`

	HistorySize int `env:"HISTORY_SIZE"` // Сколько последних переводов держать в памяти

	// Позиционные аргументы после флагов (текст для cmd/translate)
	Args []string
}

// BaiduConfig параметры клиента Baidu Translate.
type BaiduConfig struct {
	AppID    string        `env:"BAIDU_APP_ID"`  // Берём из .env/ENV, в коде не храним
	AppKey   string        `env:"BAIDU_APP_KEY"` // Секретный ключ приложения
	Endpoint string        `env:"BAIDU_ENDPOINT"`
	Path     string        `env:"BAIDU_PATH"`
	Timeout  time.Duration `env:"BAIDU_TIMEOUT"` // Таймаут одного запроса
}

// ControlServerConfig конфигурация локального сервера управления.
type ControlServerConfig struct {
	Enabled   bool   `env:"CONTROL_SERVER_ENABLED"`    // Главный флаг включения/выключения
	BindAddr  string `env:"CONTROL_SERVER_BIND_ADDR"`  // Адрес слушателя, напр. 127.0.0.1:3917
	AuthToken string `env:"CONTROL_SERVER_AUTH_TOKEN"` // Токен авторизации (опционально)
}

// Error ошибка конфигурации, фатальная при старте.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode: false,
		Baidu: BaiduConfig{
			Endpoint: "http://api.fanyi.baidu.com",
			Path:     "/api/trans/vip/translate",
			Timeout:  10 * time.Second,
		},
		DefaultDirection: "auto-zh",
		Hotkey:           "Ctrl+Alt+A",
		HotkeyEnabled:    true,
		StartMinimized:   false,
		EventQueueSize:   64,
		HistorySize:      50,
		ControlServer: ControlServerConfig{
			Enabled:  false,
			BindAddr: "127.0.0.1:3917",
		},
	}
}

// NewConfig загружает конфигурацию приложения из .env, окружения и аргументов командной строки.
// Отсутствие ключей Baidu — ошибка *Error.
func NewConfig(args []string) (*Config, error) {
	_ = godotenv.Load()

	// Стартуем с дефолтов, затем перекрываем .env/окружением и флагами
	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	fs := flag.NewFlagSet("translator", flag.ContinueOnError)
	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "писать логи в JSON")
	fs.StringVar(&cfg.Baidu.AppID, "baidu-app-id", cfg.Baidu.AppID, "APP ID Baidu Translate (перекрывает ENV)")
	fs.StringVar(&cfg.Baidu.AppKey, "baidu-app-key", cfg.Baidu.AppKey, "секретный ключ Baidu Translate (перекрывает ENV)")
	fs.StringVar(&cfg.Baidu.Endpoint, "baidu-endpoint", cfg.Baidu.Endpoint, "адрес API, напр. http://api.fanyi.baidu.com")
	fs.StringVar(&cfg.Baidu.Path, "baidu-path", cfg.Baidu.Path, "путь метода перевода")
	fs.DurationVar(&cfg.Baidu.Timeout, "baidu-timeout", cfg.Baidu.Timeout, "таймаут одного запроса, напр. 10s")
	fs.StringVar(&cfg.DefaultDirection, "direction", cfg.DefaultDirection, "направление перевода: auto-zh|auto-en|en-zh|zh-en")
	fs.StringVar(&cfg.Hotkey, "hotkey", cfg.Hotkey, "глобальный хоткей, напр. Ctrl+Alt+A")
	fs.BoolVar(&cfg.HotkeyEnabled, "hotkey-enabled", cfg.HotkeyEnabled, "регистрировать глобальный хоткей")
	fs.BoolVar(&cfg.StartMinimized, "start-minimized", cfg.StartMinimized, "стартовать свёрнутым в шарик")
	fs.IntVar(&cfg.EventQueueSize, "event-queue-size", cfg.EventQueueSize, "ёмкость очереди событий координатора")
	fs.BoolVar(&cfg.ControlServer.Enabled, "control-server-enabled", cfg.ControlServer.Enabled, "включить локальный сервер управления")
	fs.StringVar(&cfg.ControlServer.BindAddr, "control-server-bind-addr", cfg.ControlServer.BindAddr, "адрес сервера управления (напр. 127.0.0.1:3917)")
	fs.StringVar(&cfg.ControlServer.AuthToken, "control-server-auth-token", cfg.ControlServer.AuthToken, "токен авторизации сервера управления (опционально)")
	fs.StringVar(&cfg.NotificationSoundPath, "notification-sound-path", cfg.NotificationSoundPath, "звук после успешного перевода (mp3 или wav)")
	fs.StringVar(&cfg.ErrorSoundPath, "error-sound-path", cfg.ErrorSoundPath, "звук при ошибке перевода (mp3 или wav)")
	fs.IntVar(&cfg.HistorySize, "history-size", cfg.HistorySize, "сколько последних переводов хранить")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Args = fs.Args()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные поля. Ключи Baidu не имеют дефолтов и должны прийти снаружи.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Baidu.AppID) == "" {
		errs = append(errs, &Error{Field: "BAIDU_APP_ID", Reason: "не задан (укажите в .env/ENV или флагом -baidu-app-id)"})
	}
	if strings.TrimSpace(c.Baidu.AppKey) == "" {
		errs = append(errs, &Error{Field: "BAIDU_APP_KEY", Reason: "не задан (укажите в .env/ENV или флагом -baidu-app-key)"})
	}
	if c.Baidu.Timeout <= 0 {
		errs = append(errs, &Error{Field: "BAIDU_TIMEOUT", Reason: "должен быть положительным"})
	}
	if c.EventQueueSize <= 0 {
		c.EventQueueSize = 64
	}
	return errors.Join(errs...)
}
