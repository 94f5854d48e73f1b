package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sketch0395/focuszone/internal/auth"
	"github.com/sketch0395/focuszone/internal/bootstrap"
	"github.com/sketch0395/focuszone/internal/eventbus"
	"github.com/sketch0395/focuszone/internal/pkg/buildinfo"
	"github.com/sketch0395/focuszone/internal/schema"
)

// apiServer 持有 REST 处理器的依赖
type apiServer struct {
	core    *bootstrap.Core
	hub     *eventbus.Hub
	started time.Time
}

func newAPI(core *bootstrap.Core, hub *eventbus.Hub) *apiServer {
	return &apiServer{core: core, hub: hub, started: time.Now()}
}

// registerJSONRoutes 注册全部 JSON 路由
func (a *apiServer) registerJSONRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/signup", wrapPOST(a.handleSignup))
	mux.HandleFunc("/api/auth/login", wrapPOST(a.handleLogin))
	mux.HandleFunc("/api/auth/delete", wrapDELETE(a.handleDeleteAccount))
	mux.HandleFunc("/api/data", a.handleData)
}

func wrapPOST(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

func wrapDELETE(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

// ---- DTO ----

type userDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

type authResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type dataResponse struct {
	DataType   string          `json:"dataType"`
	Data       json.RawMessage `json:"data"`
	LastSynced int64           `json:"lastSynced"`
}

func toUserDTO(u *schema.User) userDTO {
	return userDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.UnixMilli(),
	}
}

// ---- 健康检查 ----

func (a *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"uptime":  time.Since(a.started).Round(time.Second).String(),
	})
}

// ---- 认证 ----

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (a *apiServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !auth.ValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	existing, err := a.core.Repos.User.GetByEmail(ctx, req.Email)
	if err != nil {
		slog.Error("查询用户失败", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("生成密码哈希失败", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := &schema.User{
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
	}
	if err := a.core.Repos.User.Create(ctx, user); err != nil {
		slog.Error("创建用户失败", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := a.core.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("签发令牌失败", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("新用户注册", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserDTO(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *apiServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx := r.Context()
	user, err := a.core.Repos.User.GetByEmail(ctx, req.Email)
	if err != nil {
		slog.Error("查询用户失败", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	// 未注册与密码错误返回同样的 401，避免探测邮箱
	if user == nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := a.core.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("签发令牌失败", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: toUserDTO(user)})
}

func (a *apiServer) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.authenticate(w, r)
	if !ok {
		return
	}

	if err := a.core.Repos.User.Delete(r.Context(), claims.UserID); err != nil {
		slog.Error("删除用户失败", "user_id", claims.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.hub.Publish(eventbus.Event{
		Type: eventbus.TypeUserDeleted,
		Data: map[string]any{"userId": claims.UserID},
	})

	slog.Info("用户已删除", "user_id", claims.UserID)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// authenticate 解析 Bearer 令牌，失败时直接写 401
func (a *apiServer) authenticate(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return nil, false
	}
	claims, err := a.core.Tokens.Parse(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return nil, false
	}
	return claims, true
}

// ---- 数据同步 ----

func (a *apiServer) handleData(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.authenticate(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.handleGetData(w, r, claims)
	case http.MethodPost:
		a.handlePostData(w, r, claims)
	case http.MethodDelete:
		a.handleDeleteData(w, r, claims)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// GET /api/data?type=pet 返回单类型；不带 type 时返回全部类型的映射
func (a *apiServer) handleGetData(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	ctx := r.Context()
	dataType := r.URL.Query().Get("type")

	if dataType == "" {
		rows, err := a.core.Repos.UserData.GetAll(ctx, claims.UserID)
		if err != nil {
			slog.Error("查询用户数据失败", "user_id", claims.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make(map[string]dataResponse, len(rows))
		for _, row := range rows {
			out[row.DataType] = dataResponse{
				DataType:   row.DataType,
				Data:       json.RawMessage(row.Data),
				LastSynced: row.LastSynced.UnixMilli(),
			}
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	if !schema.ValidDataType(dataType) {
		writeError(w, http.StatusBadRequest, "unknown data type: "+dataType)
		return
	}

	row, err := a.core.Repos.UserData.Get(ctx, claims.UserID, dataType)
	if err != nil {
		slog.Error("查询用户数据失败", "user_id", claims.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if row == nil {
		writeError(w, http.StatusNotFound, "no data for type: "+dataType)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{
		DataType:   row.DataType,
		Data:       json.RawMessage(row.Data),
		LastSynced: row.LastSynced.UnixMilli(),
	})
}

type saveDataRequest struct {
	DataType string          `json:"dataType"`
	Data     json.RawMessage `json:"data"`
}

func (a *apiServer) handlePostData(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req saveDataRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !schema.ValidDataType(req.DataType) {
		writeError(w, http.StatusBadRequest, "unknown data type: "+req.DataType)
		return
	}
	if len(req.Data) == 0 || !json.Valid(req.Data) {
		writeError(w, http.StatusBadRequest, "data must be valid JSON")
		return
	}

	if err := a.core.Repos.UserData.Upsert(r.Context(), claims.UserID, req.DataType, string(req.Data)); err != nil {
		slog.Error("写入用户数据失败", "user_id", claims.UserID, "type", req.DataType, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.hub.Publish(eventbus.Event{
		Type: eventbus.TypeDataSaved,
		Data: map[string]any{"userId": claims.UserID, "dataType": req.DataType},
	})

	writeJSON(w, http.StatusOK, map[string]any{"saved": true, "dataType": req.DataType})
}

func (a *apiServer) handleDeleteData(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	dataType := r.URL.Query().Get("type")
	if !schema.ValidDataType(dataType) {
		writeError(w, http.StatusBadRequest, "unknown data type: "+dataType)
		return
	}

	if err := a.core.Repos.UserData.Delete(r.Context(), claims.UserID, dataType); err != nil {
		slog.Error("删除用户数据失败", "user_id", claims.UserID, "type", dataType, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "dataType": dataType})
}
