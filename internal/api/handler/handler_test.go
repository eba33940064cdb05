package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/DanilPOW/MonthProject/internal/dto"
	"github.com/DanilPOW/MonthProject/internal/service"
	"github.com/DanilPOW/MonthProject/pkg/jwt"
	"github.com/DanilPOW/MonthProject/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *dto.TokenResponse
	registerErr    error
	loginResult    *dto.TokenResponse
	loginErr       error
	currentResult  *dto.UserResponse
	currentErr     error
	logoutErr      error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.TokenResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.currentResult, m.currentErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error {
	return m.logoutErr
}

// ── Mock TrackService ──

type mockTrackService struct {
	createResult *dto.TrackResponse
	createErr    error
	listResult   []dto.TrackResponse
	listErr      error
	myResult     []dto.TrackResponse
	myErr        error
	getResult    *dto.TrackResponse
	getErr       error
	enrollResult *dto.EnrollmentResponse
	enrollErr    error
	unenrollErr  error
}

func (m *mockTrackService) Create(_ context.Context, _ *dto.CreateTrackRequest) (*dto.TrackResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockTrackService) List(_ context.Context, _, _ int) ([]dto.TrackResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockTrackService) ListMy(_ context.Context, _ string) ([]dto.TrackResponse, error) {
	return m.myResult, m.myErr
}
func (m *mockTrackService) GetByID(_ context.Context, _ string) (*dto.TrackResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockTrackService) Enroll(_ context.Context, _, _ string) (*dto.EnrollmentResponse, error) {
	return m.enrollResult, m.enrollErr
}
func (m *mockTrackService) Unenroll(_ context.Context, _, _ string) error {
	return m.unenrollErr
}

// ── Mock AssignmentService ──

type mockAssignmentService struct {
	listResult    []dto.AssignmentWithStatus
	listErr       error
	currentResult *dto.AssignmentWithStatus
	currentErr    error
	submitResult  *dto.SubmissionResponse
	submitErr     error
}

func (m *mockAssignmentService) ListWithStatus(_ context.Context, _, _ string) ([]dto.AssignmentWithStatus, error) {
	return m.listResult, m.listErr
}
func (m *mockAssignmentService) Current(_ context.Context, _, _ string) (*dto.AssignmentWithStatus, error) {
	return m.currentResult, m.currentErr
}
func (m *mockAssignmentService) Submit(_ context.Context, _, _ string, _ *dto.SubmitRequest) (*dto.SubmissionResponse, error) {
	return m.submitResult, m.submitErr
}

// ── Mock ReviewService ──

type mockReviewService struct {
	pickResult   *dto.SubmissionResponse
	pickErr      error
	createResult *dto.ReviewResponse
	createErr    error
}

func (m *mockReviewService) PickSubmission(_ context.Context, _, _ string) (*dto.SubmissionResponse, error) {
	return m.pickResult, m.pickErr
}
func (m *mockReviewService) Create(_ context.Context, _, _ string, _ *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	return m.createResult, m.createErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func withAuth(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("username", "tester")
		h(c)
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Register_Success(t *testing.T) {
	mock := &mockAuthService{
		registerResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    1800,
			User:         dto.UserResponse{ID: "user-1", Username: "zhangsan"},
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Email:    "zhangsan@test.com",
		Username: "zhangsan",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	mock := &mockAuthService{registerErr: service.ErrEmailTaken}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Email:    "taken@test.com",
		Username: "zhangsan",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "zhangsan",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TrackHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTrackHandler_Enroll_Success(t *testing.T) {
	mock := &mockTrackService{
		enrollResult: &dto.EnrollmentResponse{ID: "enroll-1", UserID: "test-user-id", TrackID: "track-1"},
	}
	h := NewTrackHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tracks/track-1/enroll", nil)

	r := gin.New()
	r.POST("/tracks/:id/enroll", withAuth(h.Enroll))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestTrackHandler_Enroll_Unauthenticated(t *testing.T) {
	h := NewTrackHandler(&mockTrackService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tracks/track-1/enroll", nil)

	r := gin.New()
	r.POST("/tracks/:id/enroll", h.Enroll) // 无 withAuth
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestTrackHandler_Enroll_Locked(t *testing.T) {
	mock := &mockTrackService{enrollErr: service.ErrTrackLocked}
	h := NewTrackHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/tracks/track-1/enroll", nil)

	r := gin.New()
	r.POST("/tracks/:id/enroll", withAuth(h.Enroll))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12003 {
		t.Errorf("expected error code 12003, got %d", resp.Code)
	}
}

func TestTrackHandler_Get_NotFound(t *testing.T) {
	mock := &mockTrackService{getErr: service.ErrTrackNotFound}
	h := NewTrackHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/tracks/nonexistent", nil)

	r := gin.New()
	r.GET("/tracks/:id", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AssignmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAssignmentHandler_Submit_Success(t *testing.T) {
	mock := &mockAssignmentService{
		submitResult: &dto.SubmissionResponse{ID: "sub-1", AssignmentID: "assign-1"},
	}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/assign-1/submissions", jsonBody(dto.SubmitRequest{
		RepositoryURL: "https://github.com/tester/homework",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assignments/:id/submissions", withAuth(h.Submit))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAssignmentHandler_Submit_Duplicate(t *testing.T) {
	mock := &mockAssignmentService{submitErr: service.ErrDuplicateSubmission}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/assign-1/submissions", jsonBody(dto.SubmitRequest{
		RepositoryURL: "https://github.com/tester/homework",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assignments/:id/submissions", withAuth(h.Submit))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 13003 {
		t.Errorf("expected error code 13003, got %d", resp.Code)
	}
}

func TestAssignmentHandler_Current_AllDone(t *testing.T) {
	mock := &mockAssignmentService{currentErr: service.ErrNoCurrentAssignment}
	h := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/tracks/track-1/assignments/current", nil)

	r := gin.New()
	r.GET("/tracks/:id/assignments/current", withAuth(h.Current))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReviewHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReviewHandler_Pick_NothingToReview(t *testing.T) {
	mock := &mockReviewService{pickErr: service.ErrNothingToReview}
	h := NewReviewHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/assign-1/reviews/pick", nil)

	r := gin.New()
	r.POST("/assignments/:id/reviews/pick", withAuth(h.Pick))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14005 {
		t.Errorf("expected error code 14005, got %d", resp.Code)
	}
}

func TestReviewHandler_Create_SelfReview(t *testing.T) {
	mock := &mockReviewService{createErr: service.ErrSelfReview}
	h := NewReviewHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/submissions/sub-1/reviews", jsonBody(dto.CreateReviewRequest{
		CriteriaScores: map[string]float64{"correctness": 4},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/submissions/:id/reviews", withAuth(h.Create))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14002 {
		t.Errorf("expected error code 14002, got %d", resp.Code)
	}
}

func TestReviewHandler_Pick_QuotaExceeded(t *testing.T) {
	mock := &mockReviewService{pickErr: service.ErrReviewQuotaExceeded}
	h := NewReviewHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/assign-1/reviews/pick", nil)

	r := gin.New()
	r.POST("/assignments/:id/reviews/pick", withAuth(h.Pick))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}
