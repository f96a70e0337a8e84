package baidu

import (
	"FloatTranslator/internal/service/translate"
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "http://api.fanyi.baidu.com"
	DefaultPath     = "/api/trans/vip/translate"
	DefaultTimeout  = 10 * time.Second

	// salt берётся из [saltMin, saltMax)
	saltMin = 32768
	saltMax = 65536

	maxBody = 1 << 20
)

// Ensure interface compliance
var _ translate.Translator = (*Client)(nil)

// Config параметры доступа к API.
type Config struct {
	AppID    string
	AppKey   string
	Endpoint string
	Path     string
	Timeout  time.Duration
}

// Client реализует перевод через Baidu Translate (общий перевод, подпись MD5).
type Client struct {
	cfg    Config
	url    string
	http   *http.Client
	logger *zap.SugaredLogger
	salt   func() int
}

func New(cfg Config, logger *zap.SugaredLogger) (*Client, error) {
	if strings.TrimSpace(cfg.AppID) == "" || strings.TrimSpace(cfg.AppKey) == "" {
		return nil, errors.New("baidu: empty app id or app key (set BAIDU_APP_ID/BAIDU_APP_KEY in .env/ENV)")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:    cfg,
		url:    strings.TrimRight(cfg.Endpoint, "/") + cfg.Path,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		salt:   func() int { return saltMin + rand.IntN(saltMax-saltMin) },
	}, nil
}

// Sign подпись запроса по схеме провайдера: md5(appid+q+salt+key) в нижнем hex.
// Это не криптографическая гарантия целостности.
func Sign(appID, query string, salt int, appKey string) string {
	sum := md5.Sum([]byte(appID + query + strconv.Itoa(salt) + appKey))
	return hex.EncodeToString(sum[:])
}

type transResponse struct {
	ErrorMsg    string `json:"error_msg"`
	From        string `json:"from"`
	To          string `json:"to"`
	TransResult []struct {
		Src string `json:"src"`
		Dst string `json:"dst"`
	} `json:"trans_result"`
}

// Translate переводит уже нормализованный текст. Абзацы результата склеиваются через "\n".
// Ошибки: *TransportError или *ProviderError.
func (c *Client) Translate(ctx context.Context, query string, from, to translate.Lang) (string, error) {
	if query == "" {
		return "", nil
	}

	salt := c.salt()
	form := url.Values{}
	form.Set("appid", c.cfg.AppID)
	form.Set("q", query)
	form.Set("from", string(from))
	form.Set("to", string(to))
	form.Set("salt", strconv.Itoa(salt))
	form.Set("sign", Sign(c.cfg.AppID, query, salt, c.cfg.AppKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b := bytes.TrimSpace(body)
		if len(b) > 4096 {
			b = b[:4096]
		}
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return "", &TransportError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var tr transResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	// Ошибка может прийти и со статусом 200 — проверяем до разбора результата.
	// Значим сам факт наличия поля, даже error_code: null
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(body, &fields)
	if raw, ok := fields["error_code"]; ok {
		return "", &ProviderError{Code: errorCode(raw), Msg: tr.ErrorMsg, Payload: string(bytes.TrimSpace(body))}
	}

	paragraphs := make([]string, 0, len(tr.TransResult))
	for _, item := range tr.TransResult {
		paragraphs = append(paragraphs, item.Dst)
	}

	if c.logger != nil {
		c.logger.Infow("Baidu translate completed",
			"status", resp.StatusCode,
			"took", time.Since(started).String(),
			"from", tr.From,
			"to", tr.To,
			"paragraphs", len(paragraphs),
		)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// errorCode достаёт error_code как строку: провайдер присылает его то строкой, то числом.
func errorCode(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var str string
	if err := json.Unmarshal(raw, &str); err == nil && str != "" {
		return str
	}
	if len(raw) == 0 || string(raw) == `""` {
		return "unknown"
	}
	return string(raw)
}
