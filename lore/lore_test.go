package lore_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/lore"
	"github.com/nathoo/gacharealm/lore/loremock"
)

var spear = lore.Request{Name: "Commander's Spear", Type: "weapon", Description: "A spear carried by a fallen general."}

func TestDescribe(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		text     string
		err      error
		expected string
	}{
		{"success", "  Forged in the last siege.  ", nil, "Forged in the last siege."},
		{"error", "", errors.Unavailablef("timeout"), lore.Fallback},
		{"empty", "   ", nil, lore.Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			gen := loremock.NewMockGenerator(ctrl)
			gen.EXPECT().Generate(ctx, spear).Return(tt.text, tt.err)

			assert.Equal(t, tt.expected, lore.Describe(ctx, gen, spear))
		})
	}
}

func TestDescribe_NilGenerator(t *testing.T) {
	assert.Equal(t, lore.Fallback, lore.Describe(context.Background(), nil, spear))
}

func TestPrompt(t *testing.T) {
	p := lore.Prompt(spear)
	assert.Contains(t, p, `"Commander's Spear" (weapon)`)
	assert.Contains(t, p, "A spear carried by a fallen general.")
}

func TestCached_HitsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := loremock.NewMockGenerator(ctrl)
	ctx := context.Background()

	gen.EXPECT().Generate(gomock.Any(), spear).Return("Old and sharp.", nil).Times(1)

	cached, err := lore.NewCached(gen, 4)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		text, err := cached.Generate(ctx, spear)
		require.NoError(t, err)
		assert.Equal(t, "Old and sharp.", text)
	}
	assert.Equal(t, 1, cached.Len())
}

func TestCached_DoesNotCacheFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := loremock.NewMockGenerator(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		gen.EXPECT().Generate(gomock.Any(), spear).Return("", errors.Unavailablef("down")),
		gen.EXPECT().Generate(gomock.Any(), spear).Return("Recovered.", nil),
	)

	cached, err := lore.NewCached(gen, 4)
	require.NoError(t, err)

	_, err = cached.Generate(ctx, spear)
	require.Error(t, err)

	text, err := cached.Generate(ctx, spear)
	require.NoError(t, err)
	assert.Equal(t, "Recovered.", text)
}

func TestCached_Evicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := loremock.NewMockGenerator(ctrl)
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req lore.Request) (string, error) {
			return "lore of " + req.Name, nil
		}).Times(3)

	cached, err := lore.NewCached(gen, 2)
	require.NoError(t, err)

	for _, name := range []string{"a", "b", "c"} {
		_, err := cached.Generate(context.Background(), lore.Request{Name: name})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cached.Len())
}

// slowGenerator blocks until released so concurrent calls overlap.
type slowGenerator struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (g *slowGenerator) Generate(ctx context.Context, req lore.Request) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	<-g.release
	return "shared", nil
}

func TestCached_CollapsesConcurrentRequests(t *testing.T) {
	gen := &slowGenerator{release: make(chan struct{})}
	cached, err := lore.NewCached(gen, 4)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cached.Generate(context.Background(), spear)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	gen.mu.Lock()
	defer gen.mu.Unlock()
	assert.Equal(t, 1, gen.calls)
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestHTTPGenerator(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"Carried "},{"text":"through fire."}]}}]}`)
	}))
	defer srv.Close()

	gen, err := lore.NewHTTP(&lore.HTTPConfig{Endpoint: srv.URL + "/", Model: "test-model", APIKey: "k", Timeout: time.Second})
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), spear)
	require.NoError(t, err)
	assert.Equal(t, "Carried through fire.", text)
	assert.Equal(t, "/models/test-model:generateContent", gotPath)
	assert.Equal(t, "k", gotKey)
	assert.Contains(t, gotBody, "contents")
}

func TestHTTPGenerator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errors.Code
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, errors.CodeUnavailable},
		{"garbage", http.StatusOK, `not json`, errors.CodeDataLoss},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, errors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			gen, err := lore.NewHTTP(&lore.HTTPConfig{Endpoint: srv.URL, Model: "m", APIKey: "k"})
			require.NoError(t, err)

			_, err = gen.Generate(context.Background(), spear)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
			assert.Equal(t, lore.Fallback, lore.Describe(context.Background(), gen, spear))
		})
	}
}

func TestNewHTTP_Validate(t *testing.T) {
	_, err := lore.NewHTTP(&lore.HTTPConfig{Endpoint: "http://x", Model: "m"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidArgument, errors.GetCode(err))
}
