package abbr

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeUpstream serves body with status and counts incoming requests.
func fakeUpstream(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("formats the first candidate", func(t *testing.T) {
		server, calls := fakeUpstream(t, http.StatusOK, `[{"name":"yyds","trans":["永远的神"]}]`)
		r := NewResolver(server.URL)

		reply, err := r.Resolve(ctx, "yyds")
		require.NoError(t, err)
		assert.Equal(t, "yyds：永远的神", reply)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("joins every meaning and ignores later candidates", func(t *testing.T) {
		server, _ := fakeUpstream(t, http.StatusOK,
			`[{"name":"hhsh","trans":["好好说话","哈哈傻瓜"]},{"name":"other","trans":["x"]}]`)
		r := NewResolver(server.URL)

		reply, err := r.Resolve(ctx, "hhsh")
		require.NoError(t, err)
		assert.Equal(t, "hhsh：好好说话，哈哈傻瓜", reply)
	})

	t.Run("rejects non-ascii input without calling the upstream", func(t *testing.T) {
		server, calls := fakeUpstream(t, http.StatusOK, `[]`)
		r := NewResolver(server.URL)

		res, err := r.Lookup(ctx, "永远")
		require.NoError(t, err)
		assert.Equal(t, MsgInvalidQuery, res.Reply)
		assert.Equal(t, OutcomeInvalid, res.Outcome)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("rejects inner whitespace and punctuation", func(t *testing.T) {
		server, calls := fakeUpstream(t, http.StatusOK, `[]`)
		r := NewResolver(server.URL)

		for _, input := range []string{"yy ds", "yyds!", "a-b", "ｙｙｄｓ"} {
			reply, err := r.Resolve(ctx, input)
			require.NoError(t, err)
			assert.Equal(t, MsgInvalidQuery, reply, input)
		}
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("asks for an argument when input is blank", func(t *testing.T) {
		server, calls := fakeUpstream(t, http.StatusOK, `[]`)
		r := NewResolver(server.URL)

		for _, input := range []string{"", "   ", "\t\n"} {
			res, err := r.Lookup(ctx, input)
			require.NoError(t, err)
			assert.Equal(t, MsgMissingArgument, res.Reply)
			assert.Equal(t, OutcomeMissing, res.Outcome)
		}
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("reports no match for an empty array", func(t *testing.T) {
		server, _ := fakeUpstream(t, http.StatusOK, `[]`)
		r := NewResolver(server.URL)

		res, err := r.Lookup(ctx, "zzz")
		require.NoError(t, err)
		assert.Equal(t, MsgNotFound, res.Reply)
		assert.Equal(t, OutcomeNotFound, res.Outcome)
	})

	t.Run("reports no match when trans is empty or missing", func(t *testing.T) {
		for _, body := range []string{
			`[{"name":"zzz","trans":[]}]`,
			`[{"name":"zzz"}]`,
			`[{"name":"zzz","trans":null,"inputting":["zz"]}]`,
		} {
			server, _ := fakeUpstream(t, http.StatusOK, body)
			reply, err := NewResolver(server.URL).Resolve(ctx, "zzz")
			require.NoError(t, err)
			assert.Equal(t, MsgNotFound, reply, body)
		}
	})

	t.Run("uses an empty name when the candidate has none", func(t *testing.T) {
		server, _ := fakeUpstream(t, http.StatusOK, `[{"trans":["永远的神"]}]`)
		reply, err := NewResolver(server.URL).Resolve(ctx, "yyds")
		require.NoError(t, err)
		assert.Equal(t, "：永远的神", reply)
	})

	t.Run("logs a warning and reports no match for a non-array body", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		server, _ := fakeUpstream(t, http.StatusOK, `{}`)
		r := NewResolver(server.URL, WithLogger(zap.New(core)))

		reply, err := r.Resolve(ctx, "yyds")
		require.NoError(t, err)
		assert.Equal(t, MsgNotFound, reply)

		entries := logs.FilterMessage("unexpected response shape").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "abbr", entries[0].LoggerName)
	})

	t.Run("does not log for validation failures", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		r := NewResolver("http://127.0.0.1:1", WithLogger(zap.New(core)))

		_, err := r.Resolve(ctx, "永远")
		require.NoError(t, err)
		_, err = r.Resolve(ctx, " ")
		require.NoError(t, err)
		assert.Zero(t, logs.Len())
	})

	t.Run("gives the same reply for repeated queries", func(t *testing.T) {
		server, calls := fakeUpstream(t, http.StatusOK, `[{"name":"yyds","trans":["永远的神"]}]`)
		r := NewResolver(server.URL)

		for i := 0; i < 3; i++ {
			reply, err := r.Resolve(ctx, "yyds")
			require.NoError(t, err)
			assert.Equal(t, "yyds：永远的神", reply)
		}
		assert.Equal(t, int32(3), calls.Load())
	})
}

func TestResolver_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("propagates a server error", func(t *testing.T) {
		server, _ := fakeUpstream(t, http.StatusInternalServerError, `oops`)
		_, err := NewResolver(server.URL).Resolve(ctx, "yyds")
		require.Error(t, err)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	})

	t.Run("treats a redirect as a failure", func(t *testing.T) {
		server := httptest.NewServer(http.RedirectHandler("/elsewhere", http.StatusFound))
		defer server.Close()

		_, err := NewResolver(server.URL).Resolve(ctx, "yyds")
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusFound, statusErr.Code)
	})

	t.Run("propagates malformed json", func(t *testing.T) {
		for _, body := range []string{
			`[{"name":`,
			`[]garbage`,
			`[{"name":"yyds","trans":["永远的神"]}]<html>oops`,
		} {
			server, _ := fakeUpstream(t, http.StatusOK, body)
			reply, err := NewResolver(server.URL).Resolve(ctx, "yyds")
			require.Error(t, err, body)
			assert.Contains(t, err.Error(), "decode response", body)
			assert.Empty(t, reply, body)
		}
	})

	t.Run("propagates array elements that are not objects", func(t *testing.T) {
		for _, body := range []string{`["yyds"]`, `[null]`, `[{"name":"yyds","trans":["永远的神"]},null]`} {
			server, _ := fakeUpstream(t, http.StatusOK, body)
			_, err := NewResolver(server.URL).Resolve(ctx, "yyds")
			require.Error(t, err, body)
			assert.Contains(t, err.Error(), "decode candidates", body)
		}
	})

	t.Run("times out a slow upstream", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-release:
			}
		}))
		defer server.Close()
		defer close(release)

		r := NewResolver(server.URL, WithTimeout(50*time.Millisecond))
		start := time.Now()
		_, err := r.Resolve(ctx, "yyds")
		require.Error(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)

		var netErr net.Error
		require.True(t, errors.As(err, &netErr))
		assert.True(t, netErr.Timeout())
	})

	t.Run("propagates connection failures", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := NewResolver(url).Resolve(ctx, "yyds")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "post guess")
	})

	t.Run("requires an endpoint", func(t *testing.T) {
		_, err := NewResolver("").Resolve(ctx, "yyds")
		assert.ErrorIs(t, err, ErrNoEndpoint)
	})

	t.Run("honours caller cancellation", func(t *testing.T) {
		server, _ := fakeUpstream(t, http.StatusOK, `[]`)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewResolver(server.URL).Resolve(cancelled, "yyds")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestResolver_Guess(t *testing.T) {
	t.Run("posts the trimmed text as json", func(t *testing.T) {
		var (
			method      string
			contentType string
			payload     map[string]string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			contentType = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&payload)
			_, _ = io.WriteString(w, `[{"name":"xswl","trans":["笑死我了"]}]`)
		}))
		defer server.Close()

		candidates, err := NewResolver(server.URL).Guess(context.Background(), "  xswl\n")
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, Candidate{Name: "xswl", Trans: []string{"笑死我了"}}, candidates[0])

		assert.Equal(t, http.MethodPost, method)
		assert.Equal(t, "application/json", contentType)
		assert.Equal(t, map[string]string{"text": "xswl"}, payload)
	})

	t.Run("returns nothing for blank text without a request", func(t *testing.T) {
		server, calls := fakeUpstream(t, http.StatusOK, `[]`)
		candidates, err := NewResolver(server.URL).Guess(context.Background(), "  ")
		require.NoError(t, err)
		assert.Empty(t, candidates)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("returns an empty sequence for scalar bodies", func(t *testing.T) {
		for _, body := range []string{`"text"`, `42`, `null`, `{"data":[]}`} {
			server, _ := fakeUpstream(t, http.StatusOK, body)
			candidates, err := NewResolver(server.URL).Guess(context.Background(), "yyds")
			require.NoError(t, err, body)
			assert.Empty(t, candidates, body)
		}
	})
}

func TestNewResolver(t *testing.T) {
	t.Run("uses the default timeout", func(t *testing.T) {
		r := NewResolver("http://example.invalid")
		assert.Equal(t, DefaultTimeout, r.timeout)
	})

	t.Run("ignores non-positive timeouts", func(t *testing.T) {
		r := NewResolver("http://example.invalid", WithTimeout(0))
		assert.Equal(t, DefaultTimeout, r.timeout)
	})

	t.Run("ignores a nil logger", func(t *testing.T) {
		r := NewResolver("http://example.invalid", WithLogger(nil))
		assert.NotNil(t, r.logger)
	})
}

func TestIsAlias(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"abbr", true},
		{"ABBR", true},
		{"缩写", true},
		{"nbnhhsh", true},
		{"NbnHhsh", true},
		{"hhsh", true},
		{"/abbr", false},
		{"abbrx", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAlias(tt.input))
		})
	}
}
