package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotFound 云端无该类型数据
	ErrNotFound = errors.New("remote data not found")
	// ErrUnauthorized 令牌缺失、无效或过期
	ErrUnauthorized = errors.New("unauthorized")
)

// Client 云端同步服务的 REST 客户端
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewClient 创建客户端
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken 设置 Bearer 令牌（空字符串表示登出）
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token 返回当前令牌
func (c *Client) Token() string {
	return c.token
}

// Authenticated 是否持有令牌
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// AuthUser 认证响应里的用户信息
type AuthUser struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

// RemoteData 云端返回的单类型数据
type RemoteData struct {
	DataType   string          `json:"dataType"`
	Data       json.RawMessage `json:"data"`
	LastSynced int64           `json:"lastSynced"`
}

// Signup 注册并保存返回的令牌
func (c *Client) Signup(ctx context.Context, email, password, displayName string) (*AuthUser, error) {
	body := map[string]string{"email": email, "password": password, "displayName": displayName}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", body, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp.User, nil
}

// Login 登录并保存返回的令牌
func (c *Client) Login(ctx context.Context, email, password string) (*AuthUser, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp.User, nil
}

// DeleteAccount 删除账号及云端全部数据
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/auth/delete", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// FetchData 拉取单类型数据，云端没有时返回 ErrNotFound
func (c *Client) FetchData(ctx context.Context, dataType string) (*RemoteData, error) {
	var resp RemoteData
	path := "/api/data?type=" + url.QueryEscape(dataType)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchAll 拉取全部类型数据
func (c *Client) FetchAll(ctx context.Context) (map[string]RemoteData, error) {
	resp := make(map[string]RemoteData)
	if err := c.do(ctx, http.MethodGet, "/api/data", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// PushData 上传单类型数据（整行替换）
func (c *Client) PushData(ctx context.Context, dataType string, data json.RawMessage) error {
	body := map[string]any{"dataType": dataType, "data": data}
	return c.do(ctx, http.MethodPost, "/api/data", body, nil)
}

// DeleteData 删除云端单类型数据
func (c *Client) DeleteData(ctx context.Context, dataType string) error {
	path := "/api/data?type=" + url.QueryEscape(dataType)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("编码请求体失败: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("构造请求失败: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("请求云端失败: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return fmt.Errorf("云端返回 %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("云端返回 %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("解码响应失败: %w", err)
		}
	}
	return nil
}
