package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dshills/riskscore/internal/answer"
	"github.com/dshills/riskscore/internal/server"
	"github.com/dshills/riskscore/internal/watch"
)

// skipUnlessIntegration skips the test unless RISKSCORE_INTEGRATION=1.
func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("RISKSCORE_INTEGRATION") != "1" {
		t.Skip("skipping integration test (set RISKSCORE_INTEGRATION=1 to run)")
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

// startServer runs the HTTP server on a real listener until the test ends.
func startServer(t *testing.T) string {
	t.Helper()
	addr := freeAddr(t)
	srv := server.New(server.Options{
		Version: "integration",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, addr) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("server: %v", err)
		}
	})

	base := "http://" + addr
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(base + "/health")
		if err == nil {
			resp.Body.Close()
			return base
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server did not start on %s", addr)
	return ""
}

func call(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestIntegrationServerSessions(t *testing.T) {
	skipUnlessIntegration(t)
	base := startServer(t)

	af, err := answer.Load(filepath.Join(projectRoot(), "testdata", "answers", "sample.json"))
	if err != nil {
		t.Fatal(err)
	}

	// Concurrent sessions do not share state
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var created server.CreateSessionResponse
			if code := call(t, http.MethodPost, base+"/v1/sessions", server.CreateSessionRequest{Survey: "aia"}, &created); code != http.StatusCreated {
				t.Errorf("create: status %d", code)
				return
			}
			url := fmt.Sprintf("%s/v1/sessions/%s", base, created.ID)

			answers := af.Answers.Clone()
			if i%2 == 1 {
				answers = answer.Set{"impactRights-RS": answer.String("item4-4")}
			}
			var tuple server.TupleResponse
			call(t, http.MethodPut, url+"/answers", server.UpdateAnswersRequest{Answers: answers, Page: 1}, &tuple)

			want := []float64{12, 8, 10, 3}
			if i%2 == 1 {
				want = []float64{4, 0, 4, 1}
			}
			if fmt.Sprint(tuple.Score) != fmt.Sprint(want) {
				t.Errorf("session %d: score %v, want %v", i, tuple.Score, want)
			}
			if code := call(t, http.MethodDelete, url, nil, nil); code != http.StatusNoContent {
				t.Errorf("delete: status %d", code)
			}
		}(i)
	}
	wg.Wait()

	var health server.HealthResponse
	call(t, http.MethodGet, base+"/health", nil, &health)
	if health.Sessions != 0 {
		t.Errorf("expected no sessions left, got %d", health.Sessions)
	}
}

func TestIntegrationWatchRescore(t *testing.T) {
	skipUnlessIntegration(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "answers.yaml")
	if err := os.WriteFile(path, []byte("impactRights-RS: item1-1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	updates := make(chan answer.Set, 16)
	w, err := watch.New(path, func(f *answer.File, err error) {
		if err == nil {
			updates <- f.Answers
		}
	}, watch.Options{Debounce: 50 * time.Millisecond, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	expect := func(want string) {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case got := <-updates:
				if got.Get("impactRights-RS").Str() == want {
					return
				}
			case <-timeout:
				t.Fatalf("timed out waiting for %s", want)
			}
		}
	}
	expect("item1-1")

	// Replace by rename, as editors do
	tmp := filepath.Join(dir, "answers.yaml.tmp")
	if err := os.WriteFile(tmp, []byte("impactRights-RS: item3-3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	expect("item3-3")
}
