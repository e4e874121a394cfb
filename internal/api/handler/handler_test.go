package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/config"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/dto"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/model"
	"github.com/mElonVisuals/InviteOnlyMLVS-sub000/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock RedemptionService ──

type mockRedemptionService struct {
	redeemResult *model.Session
	redeemErr    error
	gotCode      string
}

func (m *mockRedemptionService) Redeem(_ context.Context, code, _ string) (*model.Session, error) {
	m.gotCode = code
	return m.redeemResult, m.redeemErr
}

// ── Mock InviteService ──

type mockInviteService struct {
	statsResult *dto.CodeStatsResponse
	statsErr    error
}

func (m *mockInviteService) IssueCode(_ context.Context, _, _ string) (*model.InviteCode, error) {
	return nil, nil
}
func (m *mockInviteService) BulkGenerate(_ context.Context, _ int) ([]model.InviteCode, error) {
	return nil, nil
}
func (m *mockInviteService) Stats(_ context.Context) (*dto.CodeStatsResponse, error) {
	return m.statsResult, m.statsErr
}

// ── Mock SessionService ──

type mockSessionService struct {
	listResult []model.Session
	listErr    error
}

func (m *mockSessionService) Issue(_ context.Context, _ *string, _ string, _, _ *string) (*model.Session, error) {
	return nil, nil
}
func (m *mockSessionService) List(_ context.Context) ([]model.Session, error) {
	return m.listResult, m.listErr
}

// ── Mock ReportService ──

type mockReportService struct {
	listResult      []model.Report
	listErr         error
	updateStatusErr error
}

func (m *mockReportService) Create(_ context.Context, _ *dto.CreateReportRequest) (*model.Report, error) {
	return nil, nil
}
func (m *mockReportService) List(_ context.Context) ([]model.Report, error) {
	return m.listResult, m.listErr
}
func (m *mockReportService) UpdateStatus(_ context.Context, _, _ string) error {
	return m.updateStatusErr
}

// ── Mock UserService ──

type mockUserService struct {
	listResult []model.PersistentUser
	listErr    error
}

func (m *mockUserService) List(_ context.Context) ([]model.PersistentUser, error) {
	return m.listResult, m.listErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportAccessData(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock OAuthService ──

type mockOAuthService struct {
	authURL        string
	authURLErr     error
	callbackResult *model.Session
	callbackErr    error
}

func (m *mockOAuthService) AuthURL(_ string) (string, error) {
	return m.authURL, m.authURLErr
}
func (m *mockOAuthService) HandleCallback(_ context.Context, _, _, _ string) (*model.Session, error) {
	return m.callbackResult, m.callbackErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应体失败: %v (body=%s)", err, w.Body.String())
	}
	return resp
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.BaseURL = "https://gate.example.com"
	cfg.Discord.AdminUserIDs = []string{"admin-1"}
	return cfg
}

// ═══════════════════════════════════════════════════════════
// InviteHandler Tests
// ═══════════════════════════════════════════════════════════

func TestValidateInvite_Success(t *testing.T) {
	username := "alice"
	mock := &mockRedemptionService{
		redeemResult: &model.Session{
			ID:              "sess-1",
			AccessTime:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
			DiscordUsername: &username,
		},
	}
	h := NewInviteHandler(mock, &mockInviteService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/validate-invite",
		jsonBody(dto.ValidateInviteRequest{Code: "abcd-efgh-ijkl"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/api/validate-invite", h.ValidateInvite)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body=%s)", w.Code, w.Body.String())
	}
	resp := parseEnvelope(t, w)
	if !resp.Success {
		t.Errorf("expected success=true")
	}
	// 原样透传给业务层，大小写归一由业务层负责
	if mock.gotCode != "abcd-efgh-ijkl" {
		t.Errorf("服务层收到的 code=%q", mock.gotCode)
	}

	var body struct {
		Session dto.SessionResponse `json:"session"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Session.ID != "sess-1" || body.Session.DiscordUsername != "alice" {
		t.Errorf("session 字段不完整: %+v", body.Session)
	}
}

func TestValidateInvite_AlreadyUsed(t *testing.T) {
	mock := &mockRedemptionService{redeemErr: service.ErrCodeAlreadyUsed}
	h := NewInviteHandler(mock, &mockInviteService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/validate-invite",
		jsonBody(dto.ValidateInviteRequest{Code: "ABCD-EFGH-IJKL"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/api/validate-invite", h.ValidateInvite)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseEnvelope(t, w)
	if resp.Success {
		t.Errorf("expected success=false")
	}
	if !strings.Contains(resp.Message, "already been used") {
		t.Errorf("message=%q 应说明邀请码已被使用", resp.Message)
	}
}

func TestValidateInvite_NotFound(t *testing.T) {
	mock := &mockRedemptionService{redeemErr: service.ErrCodeNotFound}
	h := NewInviteHandler(mock, &mockInviteService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/validate-invite",
		jsonBody(dto.ValidateInviteRequest{Code: "ZZZZ-ZZZZ-ZZZZ"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/api/validate-invite", h.ValidateInvite)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestValidateInvite_Malformed(t *testing.T) {
	mock := &mockRedemptionService{redeemErr: service.ErrCodeMalformed}
	h := NewInviteHandler(mock, &mockInviteService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/validate-invite",
		jsonBody(dto.ValidateInviteRequest{Code: "   "}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/api/validate-invite", h.ValidateInvite)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestValidateInvite_BadJSON(t *testing.T) {
	h := NewInviteHandler(&mockRedemptionService{}, &mockInviteService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/validate-invite",
		bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/api/validate-invite", h.ValidateInvite)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestStats(t *testing.T) {
	h := NewInviteHandler(&mockRedemptionService{}, &mockInviteService{
		statsResult: &dto.CodeStatsResponse{Total: 10, Used: 4, Available: 6, UsagePercent: 40},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/stats", nil)

	r := gin.New()
	r.GET("/api/stats", h.Stats)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Stats dto.CodeStatsResponse `json:"stats"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Stats.Total != 10 || body.Stats.Available != 6 {
		t.Errorf("stats 字段不正确: %+v", body.Stats)
	}
}

// ═══════════════════════════════════════════════════════════
// SessionHandler Tests
// ═══════════════════════════════════════════════════════════

func TestListSessions(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{
		listResult: []model.Session{{ID: "sess-1"}, {ID: "sess-2"}},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/sessions", nil)

	r := gin.New()
	r.GET("/api/sessions", h.ListSessions)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Sessions []model.Session `json:"sessions"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(body.Sessions))
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUpdateReportStatus_Success(t *testing.T) {
	h := NewReportHandler(&mockReportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/api/admin/reports/report-1/status",
		jsonBody(dto.UpdateReportStatusRequest{Status: "resolved"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PATCH("/api/admin/reports/:id/status", h.UpdateReportStatus)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestUpdateReportStatus_InvalidStatus(t *testing.T) {
	h := NewReportHandler(&mockReportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/api/admin/reports/report-1/status",
		jsonBody(gin.H{"status": "nonsense"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PATCH("/api/admin/reports/:id/status", h.UpdateReportStatus)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUpdateReportStatus_NotFound(t *testing.T) {
	h := NewReportHandler(&mockReportService{updateStatusErr: service.ErrReportNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/api/admin/reports/missing/status",
		jsonBody(dto.UpdateReportStatusRequest{Status: "resolved"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PATCH("/api/admin/reports/:id/status", h.UpdateReportStatus)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AdminHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAdminCheck(t *testing.T) {
	h := NewAdminHandler(testConfig(), &mockUserService{}, &mockExportService{})

	cases := []struct {
		name  string
		query string
		code  int
		admin bool
	}{
		{"管理员命中", "?discordUserId=admin-1", http.StatusOK, true},
		{"普通用户", "?discordUserId=user-9", http.StatusOK, false},
		{"缺少参数", "", http.StatusBadRequest, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/admin/check"+tc.query, nil)

			r := gin.New()
			r.GET("/api/admin/check", h.Check)
			r.ServeHTTP(w, req)

			if w.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, w.Code)
			}
			if tc.code != http.StatusOK {
				return
			}
			var body struct {
				IsAdmin bool `json:"isAdmin"`
			}
			json.Unmarshal(w.Body.Bytes(), &body)
			if body.IsAdmin != tc.admin {
				t.Errorf("isAdmin=%v，期望 %v", body.IsAdmin, tc.admin)
			}
		})
	}
}

func TestAdminExport(t *testing.T) {
	h := NewAdminHandler(testConfig(), &mockUserService{}, &mockExportService{
		buf:      bytes.NewBufferString("xlsx-bytes"),
		filename: "access-data-20260901.xlsx",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/admin/export", nil)

	r := gin.New()
	r.GET("/api/admin/export", h.Export)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "access-data-20260901.xlsx") {
		t.Errorf("Content-Disposition=%q", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("响应体应为导出内容")
	}
}

// ═══════════════════════════════════════════════════════════
// OAuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestOAuthLogin_Redirects(t *testing.T) {
	h := NewOAuthHandler(testConfig(), &mockOAuthService{
		authURL: "https://discord.com/oauth2/authorize?client_id=x",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/discord/login", nil)

	r := gin.New()
	r.GET("/api/discord/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "https://discord.com/oauth2/authorize") {
		t.Errorf("Location=%q", loc)
	}
}

func TestOAuthCallback_Success(t *testing.T) {
	h := NewOAuthHandler(testConfig(), &mockOAuthService{
		callbackResult: &model.Session{ID: "sess-oauth-1"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/discord/callback?code=abc&state=tok", nil)

	r := gin.New()
	r.GET("/api/discord/callback", h.Callback)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "sessionId=sess-oauth-1") {
		t.Errorf("Location=%q 应携带 sessionId", loc)
	}
}

func TestOAuthCallback_NoPriorAccess(t *testing.T) {
	h := NewOAuthHandler(testConfig(), &mockOAuthService{
		callbackErr: service.ErrNoPriorAccess,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/discord/callback?code=abc&state=tok", nil)

	r := gin.New()
	r.GET("/api/discord/callback", h.Callback)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=no_previous_access") {
		t.Errorf("Location=%q 应携带 no_previous_access", loc)
	}
}

func TestOAuthCallback_MissingCode(t *testing.T) {
	h := NewOAuthHandler(testConfig(), &mockOAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/discord/callback", nil)

	r := gin.New()
	r.GET("/api/discord/callback", h.Callback)
	r.ServeHTTP(w, req)

	if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=missing_code") {
		t.Errorf("Location=%q 应携带 missing_code", loc)
	}
}
