package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tutorbase/tutorbase/internal/domain"
	domsession "github.com/tutorbase/tutorbase/internal/domain/session"
	domupload "github.com/tutorbase/tutorbase/internal/domain/upload"
	domuser "github.com/tutorbase/tutorbase/internal/domain/user"
	adminuc "github.com/tutorbase/tutorbase/internal/usecase/admin"
	authuc "github.com/tutorbase/tutorbase/internal/usecase/auth"
	credituc "github.com/tutorbase/tutorbase/internal/usecase/credit"
	tutoruc "github.com/tutorbase/tutorbase/internal/usecase/tutor"
	uploaduc "github.com/tutorbase/tutorbase/internal/usecase/upload"
)

// errorCode identifies an error category in API responses.
type errorCode string

const (
	codeBadRequest          errorCode = "bad_request"
	codeValidationFailed    errorCode = "validation_failed"
	codeInvalidCredentials  errorCode = "invalid_credentials"
	codeNotWhitelisted      errorCode = "not_whitelisted"
	codeUserNotFound        errorCode = "user_not_found"
	codeSessionNotFound     errorCode = "session_not_found"
	codeUploadNotFound      errorCode = "upload_not_found"
	codeEmailTaken          errorCode = "email_taken"
	codeInsufficientCredits errorCode = "insufficient_credits"
	codeFileTooLarge        errorCode = "file_too_large"
	codeRateLimited         errorCode = "rate_limited"
	codeProviderError       errorCode = "provider_error"
	codeInternalError       errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Pinger reports backing store connectivity for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP API for the tutoring platform.
type Server struct {
	auth          *authuc.Service
	tutor         *tutoruc.Service
	admin         *adminuc.Service
	uploads       *uploaduc.Service
	credits       *credituc.Gate
	store         Pinger
	logger        *zap.Logger
	maxUploadSize int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	auth *authuc.Service,
	tutor *tutoruc.Service,
	admin *adminuc.Service,
	uploads *uploaduc.Service,
	credits *credituc.Gate,
	store Pinger,
	logger *zap.Logger,
	maxUploadSize int64,
) *Server {
	s := &Server{
		auth:          auth,
		tutor:         tutor,
		admin:         admin,
		uploads:       uploads,
		credits:       credits,
		store:         store,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
	s.errorHandlers = []errorHandler{
		insufficientCreditsHandler,
		sentinelHandler(domain.ErrUserNotFound, http.StatusNotFound, codeUserNotFound),
		sentinelHandler(domain.ErrAccountNotFound, http.StatusNotFound, codeUserNotFound),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, codeSessionNotFound),
		sentinelHandler(domain.ErrUploadNotFound, http.StatusNotFound, codeUploadNotFound),
		sentinelHandler(domain.ErrEmailTaken, http.StatusConflict, codeEmailTaken),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, codeInvalidCredentials),
		sentinelHandler(domain.ErrNotWhitelisted, http.StatusForbidden, codeNotWhitelisted),
		sentinelHandler(domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, codeFileTooLarge),
		sentinelHandler(domain.ErrInvalidUsage, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrLLMProviderError, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Routes builds the API router. The authenticator guards everything except
// the auth endpoints, health and metrics; loginLimit throttles the auth
// endpoints.
func (s *Server) Routes(authn *Authenticator, loginLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.HealthCheck)

		r.Group(func(r chi.Router) {
			r.Use(loginLimit)
			r.Post("/auth/register", s.Register)
			r.Post("/auth/login", s.Login)
			r.Post("/auth/google", s.GoogleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(authn.Authenticate)

			r.Get("/user/status", s.Profile)
			r.Post("/user/profile", s.UpdateProfile)
			r.Get("/credits", s.CreditStatus)

			r.Post("/sessions", s.CreateSession)
			r.Get("/sessions", s.ListSessions)
			r.Post("/sessions/{sessionID}/ask", s.Ask)
			r.Get("/sessions/{sessionID}/messages", s.Transcript)

			r.Post("/uploads", s.CreateUpload)
			r.Get("/uploads", s.ListUploads)
			r.Get("/uploads/{uploadID}/chunks", s.UploadChunks)

			r.Route("/admin", func(r chi.Router) {
				r.Use(authn.RequireAdmin)
				r.Post("/whitelist", s.SetWhitelist)
				r.Post("/whitelist/bulk", s.BulkWhitelist)
				r.Post("/admins", s.MakeAdmin)
				r.Get("/users", s.ListUsers)
				r.Get("/stats", s.AdminStats)
				r.Delete("/users/{userID}", s.DeleteUser)
			})
		})
	})

	return r
}

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Email and password are required")
		return
	}

	sess, err := s.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionToResponse(sess))
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// GoogleLogin handles POST /auth/google.
func (s *Server) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess, err := s.auth.GoogleLogin(r.Context(), req.Sub, req.Email, req.Name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// Profile handles GET /user/status.
func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.Profile(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userToResponse(u))
}

// UpdateProfile handles POST /user/profile.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		AcademicLevel   string `json:"academic_level"`
		SubjectInterest string `json:"subject_interest"`
		LearningGoals   string `json:"learning_goals"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.AcademicLevel == "" || req.SubjectInterest == "" || req.LearningGoals == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "All fields are required")
		return
	}

	u, err := s.auth.UpdateProfile(r.Context(), userID(r), req.Name, domuser.Profile{
		AcademicLevel:   req.AcademicLevel,
		SubjectInterest: req.SubjectInterest,
		LearningGoals:   req.LearningGoals,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userToResponse(u))
}

// CreditStatus handles GET /credits.
func (s *Server) CreditStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.credits.Status(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, creditStatusResponse{
		UsedToday:  st.UsedToday,
		TotalUsed:  st.TotalUsed,
		DailyLimit: st.DailyLimit,
		Remaining:  st.Remaining,
		NextReset:  st.NextReset,
	})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sess, err := s.tutor.NewSession(r.Context(), userID(r), req.Subject)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionItemToResponse(sess))
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.tutor.Sessions(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]sessionItem, len(sessions))
	for i, ss := range sessions {
		items[i] = sessionItemToResponse(ss)
	}

	writeJSON(w, http.StatusOK, map[string]any{"sessions": items})
}

// Ask handles POST /sessions/{sessionID}/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Question is required")
		return
	}

	ans, err := s.tutor.Ask(r.Context(), userID(r), chi.URLParam(r, "sessionID"), req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		Content:        ans.Content,
		TokensUsed:     ans.TokensUsed,
		CreditsCharged: ans.CreditsCharged,
		UsedToday:      ans.UsedToday,
		Remaining:      ans.Remaining,
	})
}

// Transcript handles GET /sessions/{sessionID}/messages.
func (s *Server) Transcript(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.tutor.Transcript(r.Context(), userID(r), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]messageItem, len(msgs))
	for i, m := range msgs {
		items[i] = messageToResponse(m)
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": items})
}

// CreateUpload handles POST /uploads. Expects a multipart form with a
// "file" part.
func (s *Server) CreateUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize+4096) // form framing overhead

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Multipart form with a file part is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, codeFileTooLarge, "File exceeds the upload limit")
		return
	}

	up, err := s.uploads.Store(r.Context(), userID(r), header.Filename, content)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadToResponse(up))
}

// ListUploads handles GET /uploads.
func (s *Server) ListUploads(w http.ResponseWriter, r *http.Request) {
	ups, err := s.uploads.List(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]uploadItem, len(ups))
	for i, u := range ups {
		items[i] = uploadToResponse(u)
	}

	writeJSON(w, http.StatusOK, map[string]any{"uploads": items})
}

// UploadChunks handles GET /uploads/{uploadID}/chunks.
func (s *Server) UploadChunks(w http.ResponseWriter, r *http.Request) {
	chunks, err := s.uploads.Chunks(r.Context(), userID(r), chi.URLParam(r, "uploadID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"chunks": chunks})
}

// SetWhitelist handles POST /admin/whitelist.
func (s *Server) SetWhitelist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email   string `json:"email"`
		Allowed bool   `json:"allowed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Email is required")
		return
	}

	u, err := s.admin.SetWhitelist(r.Context(), req.Email, req.Allowed)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userToResponse(u))
}

// BulkWhitelist handles POST /admin/whitelist/bulk.
func (s *Server) BulkWhitelist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Emails []string `json:"emails"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Emails) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "At least one email is required")
		return
	}

	res, err := s.admin.BulkWhitelist(r.Context(), req.Emails)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"updated": res.Updated,
		"missing": res.Missing,
	})
}

// MakeAdmin handles POST /admin/admins.
func (s *Server) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Email is required")
		return
	}

	u, err := s.admin.SetAdmin(r.Context(), req.Email)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userToResponse(u))
}

// ListUsers handles GET /admin/users.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	filter := adminuc.Filter(r.URL.Query().Get("filter"))

	res, err := s.admin.ListUsers(r.Context(), filter, page, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]userItem, len(res.Users))
	for i, u := range res.Users {
		items[i] = userToResponse(u)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": items,
		"total": res.Total,
		"page":  page,
		"limit": limit,
	})
}

// AdminStats handles GET /admin/stats.
func (s *Server) AdminStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.admin.GetStats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_users":        st.TotalUsers,
		"whitelisted":        st.Whitelisted,
		"admins":             st.Admins,
		"credits_used_today": st.CreditsUsedToday,
		"credits_used_total": st.CreditsUsedTotal,
	})
}

// DeleteUser handles DELETE /admin/users/{userID}.
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.DeleteUser(r.Context(), userID(r), chi.URLParam(r, "userID")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	checks := map[string]string{"redis": "ok"}
	httpStatus := http.StatusOK
	if err := s.store.Ping(ctx); err != nil {
		status = "unhealthy"
		checks["redis"] = "unreachable"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrAccountNotFound,
		domain.ErrInsufficientCredits,
		domain.ErrInvalidUsage,
		domain.ErrUserNotFound,
		domain.ErrEmailTaken,
		domain.ErrInvalidCredentials,
		domain.ErrNotWhitelisted,
		domain.ErrSessionNotFound,
		domain.ErrUploadNotFound,
		domain.ErrFileTooLarge,
		domain.ErrLLMProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// insufficientCreditsHandler handles ErrInsufficientCredits with the
// remaining and required amounts so clients can render the shortfall.
func insufficientCreditsHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		return false
	}
	var ice *domain.InsufficientCreditsError
	if errors.As(err, &ice) {
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"code":      codeInsufficientCredits,
			"message":   msg,
			"remaining": ice.Remaining,
			"required":  ice.Required,
		})
		return true
	}
	writeError(w, http.StatusPaymentRequired, codeInsufficientCredits, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

type userItem struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name,omitempty"`
	AcademicLevel    string    `json:"academic_level,omitempty"`
	SubjectInterest  string    `json:"subject_interest,omitempty"`
	LearningGoals    string    `json:"learning_goals,omitempty"`
	ProfileCompleted bool      `json:"profile_completed"`
	IsWhitelisted    bool      `json:"is_whitelisted"`
	IsAdmin          bool      `json:"is_admin"`
	CreatedAt        time.Time `json:"created_at"`
}

type sessionResponse struct {
	User  userItem `json:"user"`
	Token string   `json:"token"`
}

type creditStatusResponse struct {
	UsedToday  int64 `json:"used_today"`
	TotalUsed  int64 `json:"total_used"`
	DailyLimit int64 `json:"daily_limit"`
	Remaining  int64 `json:"remaining"`
	NextReset  int64 `json:"next_reset"`
}

type sessionItem struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	CreditsUsed int64     `json:"credits_used"`
	CreatedAt   time.Time `json:"created_at"`
}

type answerResponse struct {
	Content        string `json:"content"`
	TokensUsed     int    `json:"tokens_used"`
	CreditsCharged int64  `json:"credits_charged"`
	UsedToday      int64  `json:"used_today"`
	Remaining      int64  `json:"remaining"`
}

type messageItem struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type uploadItem struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func userToResponse(u domuser.User) userItem {
	p := u.Profile()
	return userItem{
		ID:               u.ID(),
		Email:            u.Email(),
		Name:             u.Name(),
		AcademicLevel:    p.AcademicLevel,
		SubjectInterest:  p.SubjectInterest,
		LearningGoals:    p.LearningGoals,
		ProfileCompleted: p.Completed(),
		IsWhitelisted:    u.IsWhitelisted(),
		IsAdmin:          u.IsAdmin(),
		CreatedAt:        u.CreatedAt(),
	}
}

func sessionToResponse(s authuc.Session) sessionResponse {
	return sessionResponse{
		User:  userToResponse(s.User),
		Token: s.Token,
	}
}

func sessionItemToResponse(s domsession.Session) sessionItem {
	return sessionItem{
		ID:          s.ID(),
		Subject:     s.Subject(),
		CreditsUsed: s.CreditsUsed(),
		CreatedAt:   s.CreatedAt(),
	}
}

func messageToResponse(m domsession.Message) messageItem {
	return messageItem{
		Role:      string(m.Role()),
		Content:   m.Content(),
		CreatedAt: m.CreatedAt(),
	}
}

func uploadToResponse(u domupload.Upload) uploadItem {
	return uploadItem{
		ID:         u.ID(),
		Filename:   u.Filename(),
		SizeBytes:  u.SizeBytes(),
		ChunkCount: u.ChunkCount(),
		CreatedAt:  u.CreatedAt(),
	}
}
