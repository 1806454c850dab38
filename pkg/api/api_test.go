package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"taxifrota/config"
	"taxifrota/pkg/auth"
	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/service"
	"taxifrota/storage"
	"taxifrota/storage/files"
	"taxifrota/storage/memory"
)

type testAPI struct {
	h      *Handler
	router *gin.Engine
	svc    service.IServiceManager
	stg    storage.IStorage
	files  *files.Memory
}

func newTestAPI(t *testing.T, rps float64, burst int) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		ServiceName:     "taxifrota",
		CORSAllowOrigin: "*",
		PublicRateRPS:   rps,
		PublicRateBurst: burst,
	}
	stg := memory.New(logger.NewNop())
	store := files.NewMemory("https://files.test")
	svc := service.New(stg, logger.NewNop(),
		service.WithTokens(auth.NewTokenManager("test-secret", time.Hour, "taxifrota")),
		service.WithFiles(store),
	)
	h := New(cfg, svc, logger.NewNop())
	t.Cleanup(h.Close)
	return &testAPI{h: h, router: h.Router(), svc: svc, stg: stg, files: store}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) token(t *testing.T, role string) string {
	t.Helper()
	email := role + "@frota.com"
	_, err := a.svc.Auth().CreateUser(context.Background(), service.CreateUserInput{
		Email: email, Name: role, Password: "senha-segura", Role: role,
	})
	require.NoError(t, err)

	w := a.do(http.MethodPost, "/api/auth/login", "", service.LoginInput{Email: email, Password: "senha-segura"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session service.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	return session.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func applicationBody() service.ApplicationInput {
	return service.ApplicationInput{
		FirstName:    "João",
		LastName:     "Souza",
		Email:        "joao@example.com",
		Phone:        "(11) 98765-4321",
		CPF:          "529.982.247-25",
		Condutax:     "CTX-123",
		CEP:          "01310100",
		Street:       "Av. Paulista",
		Number:       "1000",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
		Rating:       5,
	}
}

func TestHealthAndPreflight(t *testing.T) {
	a := newTestAPI(t, 100, 100)

	w := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = a.do(http.MethodOptions, "/api/applications", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSubmitApplication(t *testing.T) {
	a := newTestAPI(t, 100, 100)

	w := a.do(http.MethodPost, "/api/applications", "", applicationBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	app := decode[models.Application](t, w)
	assert.Equal(t, models.ApplicationPending, app.Status)

	bad := applicationBody()
	bad.CPF = "111.111.111-11"
	bad.State = "XX"
	w = a.do(http.MethodPost, "/api/applications", "", bad)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[errorResponse](t, w)
	assert.Contains(t, resp.Fields, "cpf")
	assert.Contains(t, resp.Fields, "state")
}

func TestAdminRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t, 100, 100)

	w := a.do(http.MethodGet, "/api/admin/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/api/admin/dashboard", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := a.token(t, models.RoleOperator)
	w = a.do(http.MethodGet, "/api/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode[models.DashboardStats](t, w)
	assert.Zero(t, stats.TotalDrivers)

	w = a.do(http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApplicationStatusEndpoints(t *testing.T) {
	a := newTestAPI(t, 100, 100)
	token := a.token(t, models.RoleAdmin)

	w := a.do(http.MethodPost, "/api/applications", "", applicationBody())
	require.Equal(t, http.StatusCreated, w.Code)
	app := decode[models.Application](t, w)
	path := "/api/admin/applications/" + app.ID

	w = a.do(http.MethodPatch, path+"/status", token, statusRequest{Status: "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPatch, path+"/status", token, statusRequest{Status: "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.ApplicationApproved, decode[models.Application](t, w).Status)

	w = a.do(http.MethodPatch, path+"/status", token, statusRequest{Status: "rejected"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodGet, path+"/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]models.StatusChange](t, w)
	require.Len(t, history, 1)
	assert.Equal(t, "admin@frota.com", history[0].Actor)

	w = a.do(http.MethodGet, path+"/whatsapp?message=Oi", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	link := decode[map[string]string](t, w)["link"]
	assert.True(t, strings.HasPrefix(link, "https://wa.me/5511987654321?text="), link)

	w = a.do(http.MethodGet, "/api/admin/applications/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListFiltersAcceptLegacyStatus(t *testing.T) {
	a := newTestAPI(t, 100, 100)
	token := a.token(t, models.RoleAdmin)

	w := a.do(http.MethodPost, "/api/applications", "", applicationBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(http.MethodGet, "/api/admin/applications?status=Pendente", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[[]models.Application](t, w), 1)

	w = a.do(http.MethodGet, "/api/admin/applications?status=Aguardar", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode[[]models.Application](t, w))

	w = a.do(http.MethodGet, "/api/admin/applications?status=nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/admin/drivers?status=Ativo", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode[[]models.Driver](t, w))
}

func TestCEPLookup(t *testing.T) {
	a := newTestAPI(t, 100, 100)

	w := a.do(http.MethodGet, "/api/cep/123", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/cep/01310100", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDriverUpload(t *testing.T) {
	a := newTestAPI(t, 100, 100)
	token := a.token(t, models.RoleAdmin)

	w := a.do(http.MethodPost, "/api/drivers", "", service.DriverRegistration{
		Name:          "Carlos Nunes",
		Phone:         "11987654321",
		Email:         "carlos@example.com",
		CPF:           "529.982.247-25",
		LicenseNumber: "12345678900",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	driver := decode[models.Driver](t, w)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "cnh.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/drivers/"+driver.ID+"/files/cnh", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[models.Driver](t, rec)
	assert.True(t, strings.HasPrefix(updated.Files[models.FileCNH], "https://files.test/drivers/"))
	assert.Equal(t, 1, a.files.Len())

	w = a.do(http.MethodPost, "/api/admin/drivers/"+driver.ID+"/files/selfie", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicFormsAreRateLimited(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	gin.SetMode(gin.TestMode)
	stg := memory.New(logger.NewNop())
	h := New(&config.Config{PublicRateRPS: 0.01, PublicRateBurst: 2}, service.New(stg, logger.NewNop()), logger.NewNop())
	defer h.Close()
	router := h.Router()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)

	// Catalog reads are not limited.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/vehicles", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterIsPerIP(t *testing.T) {
	rl := NewRateLimiter(0.01, 1)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}
