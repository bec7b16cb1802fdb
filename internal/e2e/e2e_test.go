package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sreeramsuresh/steelcore/internal/clock"
	"github.com/sreeramsuresh/steelcore/internal/cloudmetrics"
	"github.com/sreeramsuresh/steelcore/internal/config"
	"github.com/sreeramsuresh/steelcore/internal/draft"
	"github.com/sreeramsuresh/steelcore/internal/margin"
	"github.com/sreeramsuresh/steelcore/internal/migration"
	"github.com/sreeramsuresh/steelcore/internal/observability"
	"github.com/sreeramsuresh/steelcore/internal/ratelimit"
	"github.com/sreeramsuresh/steelcore/internal/server"
	"github.com/sreeramsuresh/steelcore/internal/trn"
	"github.com/sreeramsuresh/steelcore/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	app     *fx.App
	server  *server.Server
	db      *gorm.DB
	baseURL string
	httpSrv *httptest.Server
	dataDir string
}

var env *testEnv

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	setDefaultEnv()

	var err error
	env, err = startEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start test environment:", err)
		os.Exit(1)
	}

	code := m.Run()
	env.shutdown()
	os.Exit(code)
}

func startEnv() (*testEnv, error) {
	dataDir, err := os.MkdirTemp("", "steelcore-e2e")
	if err != nil {
		return nil, err
	}
	_ = os.Setenv("DATABASE_NAME", filepath.Join(dataDir, "steelcore_e2e"))

	var (
		srv    *server.Server
		dbConn *gorm.DB
		cfg    config.Config
		log    *zap.Logger
	)

	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		migration.Module,
		clock.Module,
		cloudmetrics.Module,
		margin.Module,
		trn.Module,
		draft.Module,
		ratelimit.Module,
		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) { s.RegisterRoutes() }),
		fx.Populate(&srv, &dbConn, &cfg, &log),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		_ = os.RemoveAll(dataDir)
		return nil, err
	}

	httpSrv := httptest.NewServer(srv.Engine())

	return &testEnv{
		app:     app,
		server:  srv,
		db:      dbConn,
		baseURL: httpSrv.URL,
		httpSrv: httpSrv,
		dataDir: dataDir,
	}, nil
}

func (e *testEnv) shutdown() {
	if e == nil {
		return
	}
	if e.httpSrv != nil {
		e.httpSrv.Close()
	}
	if e.app != nil {
		_ = e.app.Stop(context.Background())
	}
	if e.dataDir != "" {
		_ = os.RemoveAll(e.dataDir)
	}
}

func setDefaultEnv() {
	setEnvIfEmpty("ENVIRONMENT", "test")
	setEnvIfEmpty("LOG_LEVEL", "error")
	setEnvIfEmpty("OTEL_ENABLED", "false")
	setEnvIfEmpty("DATABASE_TYPE", "sqlite")
	setEnvIfEmpty("DRAFT_STORE", "db")
}

func setEnvIfEmpty(key, value string) {
	if strings.TrimSpace(os.Getenv(key)) != "" {
		return
	}
	_ = os.Setenv(key, value)
}

func TestE2E_HealthCheck(t *testing.T) {
	resp, err := http.Get(env.baseURL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestE2E_ProductCodeFlow(t *testing.T) {
	client := newHTTPClient()

	generateReq := map[string]any{
		"grade":        "304l",
		"form":         "sheet",
		"finish":       "2b",
		"width_mm":     1250,
		"thickness_mm": 2,
		"length_mm":    2500,
	}
	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/v1/ssot/generate", generateReq, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate failed: %d: %s", resp.StatusCode, string(body))
	}
	var generated struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body, &generated); err != nil {
		t.Fatalf("decode generate response: %v", err)
	}
	if generated.Code != "SS-304L-SHEET-2B-1250mm-2mm-2500mm" {
		t.Fatalf("unexpected generated code: %s", generated.Code)
	}

	resp, body = doJSON(t, client, http.MethodPost, env.baseURL+"/v1/ssot/validate", map[string]any{"code": generated.Code}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("validate failed: %d: %s", resp.StatusCode, string(body))
	}
	var validated struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(body, &validated); err != nil {
		t.Fatalf("decode validate response: %v", err)
	}
	if !validated.Valid {
		t.Fatalf("generated code failed validation: %s", string(body))
	}

	resp, body = doJSON(t, client, http.MethodPost, env.baseURL+"/v1/ssot/parse", map[string]any{"code": generated.Code}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("parse failed: %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Valid      bool `json:"valid"`
		Components struct {
			Grade   string `json:"grade"`
			WidthMM int    `json:"width_mm"`
		} `json:"components"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("decode parse response: %v", err)
	}
	if !parsed.Valid || parsed.Components.Grade != "304L" || parsed.Components.WidthMM != 1250 {
		t.Fatalf("unexpected parse result: %s", string(body))
	}

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/v1/ssot/migration-check?code=SS+304+Sheet+2B", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("migration check failed: %d: %s", resp.StatusCode, string(body))
	}
	var migrationCheck struct {
		NeedsMigration bool `json:"needs_migration"`
	}
	if err := json.Unmarshal(body, &migrationCheck); err != nil {
		t.Fatalf("decode migration check: %v", err)
	}
	if !migrationCheck.NeedsMigration {
		t.Fatalf("expected legacy code to need migration")
	}
}

func TestE2E_MarginClassification(t *testing.T) {
	client := newHTTPClient()

	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/v1/margin/classify", map[string]any{
		"margin":  "9.5",
		"channel": "IMPORTED",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("classify failed: %d: %s", resp.StatusCode, string(body))
	}
	var classified struct {
		Status      string `json:"status"`
		Explanation string `json:"explanation"`
	}
	if err := json.Unmarshal(body, &classified); err != nil {
		t.Fatalf("decode classify response: %v", err)
	}
	if classified.Status != "amber" {
		t.Fatalf("expected amber for 9.5%% imported, got %s", classified.Status)
	}
	if classified.Explanation == "" {
		t.Fatalf("expected explanation text")
	}
}

func TestE2E_TRNValidationAndVerify(t *testing.T) {
	client := newHTTPClient()

	resp, body := doJSON(t, client, http.MethodGet, env.baseURL+"/v1/trn/format/AE", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("format lookup failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, client, http.MethodPost, env.baseURL+"/v1/trn/validate", map[string]any{
		"trn":     "100-1234-5678-9012",
		"country": "AE",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("validate failed: %d: %s", resp.StatusCode, string(body))
	}
	var validated struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(body, &validated); err != nil {
		t.Fatalf("decode validate response: %v", err)
	}
	if !validated.Valid {
		t.Fatalf("expected dashed AE TRN to validate: %s", string(body))
	}

	// no registry gateway configured in this environment
	resp, body = doJSON(t, client, http.MethodPost, env.baseURL+"/v1/trn/verify", map[string]any{
		"trn":     "100123456789012",
		"country": "AE",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify failed: %d: %s", resp.StatusCode, string(body))
	}
	var verified struct {
		Verified              *bool  `json:"verified"`
		APIConfigured         bool   `json:"api_configured"`
		ManualVerificationURL string `json:"manual_verification_url"`
	}
	if err := json.Unmarshal(body, &verified); err != nil {
		t.Fatalf("decode verify response: %v", err)
	}
	if verified.Verified != nil || verified.APIConfigured {
		t.Fatalf("expected unavailable verification result: %s", string(body))
	}
	if verified.ManualVerificationURL == "" {
		t.Fatalf("expected manual verification fallback link")
	}
}

func TestE2E_DraftLifecycle(t *testing.T) {
	client := newHTTPClient()

	resp, body := doJSON(t, client, http.MethodPut, env.baseURL+"/v1/drafts/INV-2026-001", map[string]any{
		"data": map[string]any{
			"customer": "Gulf Steel Trading LLC",
			"items":    []map[string]any{{"code": "SS-304-SHEET-2B-1250mm-2.0mm-2500mm", "qty": 4}},
		},
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("draft put failed: %d: %s", resp.StatusCode, string(body))
	}

	if n := countRows(t, env.db, "draft_snapshots", "key = ?", "invoice_draft_inv-2026-001"); n != 1 {
		t.Fatalf("expected one persisted snapshot, got %d", n)
	}

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/v1/drafts/INV-2026-001", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("draft get failed: %d: %s", resp.StatusCode, string(body))
	}
	var snap struct {
		Data      json.RawMessage `json:"data"`
		Timestamp int64           `json:"timestamp"`
		InvoiceID string          `json:"invoiceId"`
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.InvoiceID != "INV-2026-001" || snap.Timestamp == 0 || len(snap.Data) == 0 {
		t.Fatalf("unexpected snapshot shape: %s", string(body))
	}

	resp, body = doJSON(t, client, http.MethodDelete, env.baseURL+"/v1/drafts/INV-2026-001", nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("draft delete failed: %d: %s", resp.StatusCode, string(body))
	}
	if n := countRows(t, env.db, "draft_snapshots", "key = ?", "invoice_draft_inv-2026-001"); n != 0 {
		t.Fatalf("expected snapshot removed, got %d rows", n)
	}

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/v1/drafts/INV-2026-001", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2E_MetricsEndpoint(t *testing.T) {
	client := newHTTPClient()

	// at least one save so the draft counters have been incremented
	resp, body := doJSON(t, client, http.MethodPut, env.baseURL+"/v1/drafts/metrics-probe", map[string]any{
		"data": map[string]any{"customer": "probe"},
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("draft put failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/metrics", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics scrape failed: %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "steelcore_draft_saves_total") {
		t.Fatalf("expected draft save counter in metrics output")
	}
}

func countRows(t *testing.T, dbConn *gorm.DB, table string, where string, args ...any) int64 {
	t.Helper()
	var count int64
	if err := dbConn.Table(table).Where(where, args...).Count(&count).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}

func doJSON(t *testing.T, client *http.Client, method, reqURL string, payload any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode json: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}
