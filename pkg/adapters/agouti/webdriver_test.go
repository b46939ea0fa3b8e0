package agouti

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sclevine/agouti"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// webDriverStub answers element lookups of one WebDriver session.
// A lookup matches every key its selector contains.
type webDriverStub struct {
	mu      sync.Mutex
	matches map[string]int
	clicks  int
}

func (s *webDriverStub) setMatches(value string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[value] = n
}

func (s *webDriverStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/elements"):
		var sel struct {
			Using string `json:"using"`
			Value string `json:"value"`
		}
		_ = json.NewDecoder(r.Body).Decode(&sel)

		elements := []map[string]string{}
		for key, n := range s.matches {
			if !strings.Contains(sel.Value, key) {
				continue
			}
			for i := 0; i < n; i++ {
				elements = append(elements, map[string]string{"ELEMENT": fmt.Sprintf("el-%d", len(elements))})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"value": elements})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/click"):
		s.clicks++
		_ = json.NewEncoder(w).Encode(map[string]any{"value": nil})
	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"value": map[string]string{"message": "unknown command"}})
	}
}

func newStubPage(t *testing.T) (*Page, *webDriverStub) {
	t.Helper()
	stub := &webDriverStub{matches: map[string]int{}}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	return New(agouti.JoinPage(srv.URL+"/session/s1"), WithPollInterval(5*time.Millisecond)), stub
}

func TestPage_WebDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("Absent Marker Is Gone", func(t *testing.T) {
		p, _ := newStubPage(t)

		gone, err := p.HasNoCSS(ctx, ".senna-loading", time.Second)
		require.NoError(t, err)
		assert.True(t, gone)
	})

	t.Run("Several Markers Are Present", func(t *testing.T) {
		p, stub := newStubPage(t)
		stub.setMatches(".senna-loading", 2)

		gone, err := p.HasNoCSS(ctx, ".senna-loading", 30*time.Millisecond)
		require.NoError(t, err)
		assert.False(t, gone)
	})

	t.Run("Text Not Yet Rendered Is Waited For", func(t *testing.T) {
		p, stub := newStubPage(t)
		go func() {
			time.Sleep(30 * time.Millisecond)
			stub.setMatches("Systems", 1)
		}()

		found, err := p.HasText(ctx, "Systems", time.Second)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("Missing Text Is False", func(t *testing.T) {
		p, _ := newStubPage(t)

		found, err := p.HasText(ctx, "Systems", 30*time.Millisecond)
		require.NoError(t, err)
		assert.False(t, found)

		gone, err := p.HasNoText(ctx, "Systems", 0)
		require.NoError(t, err)
		assert.True(t, gone)
	})

	t.Run("Click Button", func(t *testing.T) {
		p, stub := newStubPage(t)
		stub.setMatches(`"Create"`, 1)

		require.NoError(t, p.ClickButton(ctx, "Create"))
		assert.Equal(t, 1, stub.clicks)
	})

	t.Run("Ambiguous Click Fails", func(t *testing.T) {
		p, stub := newStubPage(t)
		stub.setMatches(`"Create"`, 2)

		err := p.ClickButton(ctx, "Create")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ambiguous find")
		assert.Zero(t, stub.clicks)
	})

	t.Run("Missing Link", func(t *testing.T) {
		p, _ := newStubPage(t)

		err := p.ClickLink(ctx, "Systems")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "element not found")
	})
}
