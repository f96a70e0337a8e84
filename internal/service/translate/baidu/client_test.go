package baidu

import (
	"FloatTranslator/internal/service/translate"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, srv *httptest.Server, timeout time.Duration) *Client {
	t.Helper()
	c, err := New(Config{
		AppID:    "2015063000000001",
		AppKey:   "12345678",
		Endpoint: srv.URL,
		Timeout:  timeout,
	}, zap.NewNop().Sugar())
	require.NoError(t, err)
	return c
}

func TestSign(t *testing.T) {
	// Пример из документации провайдера
	got := Sign("2015063000000001", "apple", 1435660288, "12345678")
	assert.Equal(t, "f89f9594663708c1605f3d736d01d2d4", got)
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{AppID: "id"}, nil)
	assert.Error(t, err)
	_, err = New(Config{AppKey: "key"}, nil)
	assert.Error(t, err)
}

func TestTranslateEmptyQuerySkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	got, err := c.Translate(context.Background(), "", translate.LangAuto, translate.LangZH)
	require.NoError(t, err)
	assert.Equal(t, "", got)
	assert.Zero(t, calls.Load())
}

func TestTranslateRequestAndParagraphs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, DefaultPath, r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())

		assert.Equal(t, "2015063000000001", r.PostForm.Get("appid"))
		assert.Equal(t, "Hello\nWorld", r.PostForm.Get("q"))
		assert.Equal(t, "en", r.PostForm.Get("from"))
		assert.Equal(t, "zh", r.PostForm.Get("to"))
		assert.Equal(t, "40000", r.PostForm.Get("salt"))
		assert.Equal(t, Sign("2015063000000001", "Hello\nWorld", 40000, "12345678"), r.PostForm.Get("sign"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"from":"en","to":"zh","trans_result":[{"src":"Hello","dst":"你好"},{"src":"World","dst":"世界"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	c.salt = func() int { return 40000 }

	got, err := c.Translate(context.Background(), "Hello\nWorld", translate.LangEN, translate.LangZH)
	require.NoError(t, err)
	assert.Equal(t, "你好\n世界", got)
}

func TestTranslateMissingDstAndEmptyResult(t *testing.T) {
	cases := []struct{ body, want string }{
		{body: `{"trans_result":[{"src":"a"},{"src":"b","dst":"B"}]}`, want: "\nB"},
		{body: `{"trans_result":[]}`, want: ""},
		{body: `{"from":"en","to":"zh"}`, want: ""},
	}
	for _, tc := range cases {
		body, want := tc.body, tc.want
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		c := newTestClient(t, srv, time.Second)
		got, err := c.Translate(context.Background(), "x", translate.LangAuto, translate.LangZH)
		srv.Close()
		require.NoError(t, err, body)
		assert.Equal(t, want, got, body)
	}
}

func TestTranslateProviderErrorWith200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error_code":"54001","error_msg":"Invalid Sign","trans_result":[{"dst":"ignored"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	_, err := c.Translate(context.Background(), "hello", translate.LangEN, translate.LangZH)
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "54001", perr.Code)
	assert.Equal(t, "Invalid Sign", perr.Msg)
	assert.Contains(t, perr.Payload, "54001")
	assert.Contains(t, perr.Description(), "подпись")
}

func TestTranslateProviderErrorNumericCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error_code":52003,"error_msg":"UNAUTHORIZED USER"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	_, err := c.Translate(context.Background(), "hello", translate.LangEN, translate.LangZH)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "52003", perr.Code)
}

func TestTranslateProviderErrorNullCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error_code":null,"trans_result":[{"src":"hello","dst":"你好"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	out, err := c.Translate(context.Background(), "hello", translate.LangEN, translate.LangZH)
	assert.Empty(t, out)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "null", perr.Code)
	assert.Equal(t, "неизвестная ошибка", perr.Description())
}

func TestTranslateFreshSaltPerRequest(t *testing.T) {
	var mu sync.Mutex
	salts := map[int]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseForm()) {
			return
		}
		salt, err := strconv.Atoi(r.PostForm.Get("salt"))
		if !assert.NoError(t, err) {
			return
		}
		assert.GreaterOrEqual(t, salt, 32768)
		assert.Less(t, salt, 65536)
		q := r.PostForm.Get("q")
		assert.Equal(t, Sign("2015063000000001", q, salt, "12345678"), r.PostForm.Get("sign"))

		mu.Lock()
		salts[salt]++
		mu.Unlock()
		_, _ = w.Write([]byte(`{"trans_result":[{"src":"x","dst":"y"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	const requests = 50
	for i := range requests {
		_, err := c.Translate(context.Background(), "text "+strconv.Itoa(i), translate.LangAuto, translate.LangZH)
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, n := range salts {
		total += n
	}
	assert.Equal(t, requests, total)
	assert.Greater(t, len(salts), 1, "salt must change between requests")
}

func TestTranslateNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	_, err := c.Translate(context.Background(), "hello", translate.LangEN, translate.LangZH)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusBadGateway, terr.StatusCode)
	assert.Equal(t, "upstream unavailable", terr.Body)
	assert.False(t, terr.Timeout())
}

func TestTranslateMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	_, err := c.Translate(context.Background(), "hello", translate.LangEN, translate.LangZH)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusOK, terr.StatusCode)
}

func TestTranslateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := newTestClient(t, srv, 150*time.Millisecond)

	started := time.Now()
	_, err := c.Translate(context.Background(), "hello", translate.LangEN, translate.LangZH)
	elapsed := time.Since(started)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.True(t, terr.Timeout())
	assert.Less(t, elapsed, 2*time.Second)
}

func TestTranslateContextCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := newTestClient(t, srv, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := c.Translate(ctx, "hello", translate.LangEN, translate.LangZH)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
