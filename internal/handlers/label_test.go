package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zplemu/internal/journal"
	u "zplemu/internal/utils"
)

const sampleZPL = "^xa^fo50,50^fdHello^fs^xz"

type labelaryStub struct {
	srv    *httptest.Server
	calls  atomic.Int32
	status int
}

func newLabelaryStub(t *testing.T, status int) *labelaryStub {
	t.Helper()
	s := &labelaryStub{status: status}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte("%PDF-1.4 stub"))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

type testEnv struct {
	cfg    u.Config
	outDir string
	stub   *labelaryStub
}

func newTestEnv(t *testing.T, status int, override string) testEnv {
	t.Helper()
	root := t.TempDir()
	outDir := filepath.Join(root, "labels")
	require.NoError(t, os.Mkdir(outDir, 0o755))
	if override == "" {
		override = "output_path: " + outDir + "\nfile_template: \"label-%timestamp%\"\n"
	}
	overridePath := filepath.Join(root, "emulator.yaml")
	require.NoError(t, os.WriteFile(overridePath, []byte(override), 0o644))

	stub := newLabelaryStub(t, status)
	cfg := u.DefaultConfig()
	cfg.Render.BaseURL = stub.srv.URL
	cfg.Render.TimeoutSecs = 2
	cfg.Emulator.OverrideFile = overridePath
	return testEnv{cfg: cfg, outDir: outDir, stub: stub}
}

func newPrintApp(svc *LabelService) *fiber.App {
	app := fiber.New()
	app.Post("/print", svc.HandlePrint)
	app.Get("/prints", svc.HandleRecent)
	return app
}

func postZPL(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/print", strings.NewReader(body))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func listOutput(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestHandlePrint_WritesPDFAndJournals(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, "")
	mrs := miniredis.RunT(t)
	rec := journal.NewRedisRecorder(redis.NewClient(&redis.Options{Addr: mrs.Addr()}), "", 10)
	svc := NewLabelService(env.cfg, NewEmulator(env.cfg), rec)

	resp := postZPL(t, newPrintApp(svc), sampleZPL)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), env.stub.calls.Load())

	names := listOutput(t, env.outDir)
	require.Len(t, names, 1)
	assert.True(t, strings.HasPrefix(names[0], "label-"))
	assert.True(t, strings.HasSuffix(names[0], ".pdf"))

	data, err := os.ReadFile(filepath.Join(env.outDir, names[0]))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 stub", string(data))

	entries, err := rec.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(env.outDir, names[0]), entries[0].Path)
	assert.Equal(t, len(sampleZPL), entries[0].PayloadBytes)
}

func TestHandlePrint_FailuresAnswer500(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		override  string
		body      string
		wantCalls int32
	}{
		{name: "empty payload", status: http.StatusOK, body: "", wantCalls: 0},
		{name: "render service error", status: http.StatusBadRequest, body: sampleZPL, wantCalls: 1},
		{name: "malformed override", status: http.StatusOK, override: "output_path: [\n", body: sampleZPL, wantCalls: 0},
		{name: "missing output dir", status: http.StatusOK, override: "output_path: /definitely/missing/dir\n", body: sampleZPL, wantCalls: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, tc.status, tc.override)
			svc := NewLabelService(env.cfg, NewEmulator(env.cfg), nil)

			resp := postZPL(t, newPrintApp(svc), tc.body)
			assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, tc.wantCalls, env.stub.calls.Load())
			assert.Empty(t, listOutput(t, env.outDir))

			body, _ := io.ReadAll(resp.Body)
			assert.NotContains(t, string(body), "status 400")
			assert.NotContains(t, string(body), "emulator.yaml")
		})
	}
}

type failingRecorder struct{ journal.Nop }

func (failingRecorder) Record(context.Context, journal.Entry) error {
	return errors.New("journal down")
}

func (failingRecorder) Recent(context.Context, int) ([]journal.Entry, error) {
	return nil, errors.New("journal down")
}

func TestHandlePrint_JournalFailureDoesNotFailPrint(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, "")
	svc := NewLabelService(env.cfg, NewEmulator(env.cfg), failingRecorder{})

	resp := postZPL(t, newPrintApp(svc), sampleZPL)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, listOutput(t, env.outDir), 1)
}

type stubPrinter struct {
	path string
	err  error
	got  []byte
}

func (p *stubPrinter) Handle(payload []byte) (string, error) {
	p.got = payload
	return p.path, p.err
}

func TestHandlePrint_PassesBodyVerbatim(t *testing.T) {
	p := &stubPrinter{path: "/tmp/label.pdf"}
	svc := NewLabelService(u.DefaultConfig(), p, nil)

	body := "^XA\r\n^FO10,10^FD\x00binary^FS\n^XZ"
	req := httptest.NewRequest(http.MethodPost, "/print", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := newPrintApp(svc).Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, body, string(p.got))
}

func TestHandleRecent(t *testing.T) {
	mrs := miniredis.RunT(t)
	rec := journal.NewRedisRecorder(redis.NewClient(&redis.Options{Addr: mrs.Addr()}), "", 10)
	require.NoError(t, rec.Record(context.Background(), journal.Entry{Path: "/tmp/a.pdf"}))
	require.NoError(t, rec.Record(context.Background(), journal.Entry{Path: "/tmp/b.pdf"}))

	cfg := u.DefaultConfig()
	cfg.Journal.Size = 10
	app := newPrintApp(NewLabelService(cfg, &stubPrinter{}, rec))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/prints?limit=1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Prints []journal.Entry `json:"prints"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Prints, 1)
	assert.Equal(t, "/tmp/b.pdf", out.Prints[0].Path)

	for _, q := range []string{"limit=0", "limit=abc", "limit=11"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/prints?"+q, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
	}

	down := newPrintApp(NewLabelService(cfg, &stubPrinter{}, failingRecorder{}))
	resp, err = down.Test(httptest.NewRequest(http.MethodGet, "/prints", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
