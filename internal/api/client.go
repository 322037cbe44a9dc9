// Package api is the HTTP client for the tablero backend. It owns the
// session file under ~/.tablero/ and implements the board engine's
// backend contract.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/existflow/tablero/internal/diff"
	"github.com/existflow/tablero/internal/logger"
	"github.com/existflow/tablero/internal/model"
)

// Session holds the persisted login state.
type Session struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
}

// Client talks to the backend with a bearer token.
type Client struct {
	session     *Session
	sessionPath string
	httpClient  *http.Client
}

// NewClient creates a client, loading any persisted session.
func NewClient(serverURL string) (*Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	c := &Client{
		sessionPath: filepath.Join(home, ".tablero", "session.json"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	c.loadSession()

	if serverURL != "" {
		c.session.ServerURL = serverURL
	}
	if c.session.ServerURL == "" {
		c.session.ServerURL = "http://localhost:8080"
	}
	return c, nil
}

func (c *Client) loadSession() {
	c.session = &Session{}
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		return
	}
	json.Unmarshal(data, c.session)
}

func (c *Client) saveSession() error {
	dir := filepath.Dir(c.sessionPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0600)
}

// IsLoggedIn returns true if a session token is present.
func (c *Client) IsLoggedIn() bool {
	return c.session.Token != ""
}

// UserID returns the logged-in user's id.
func (c *Client) UserID() string {
	return c.session.UserID
}

// do runs one request against the API, decoding a JSON response into
// out when non-nil. Non-2xx responses come back as *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	url := c.session.ServerURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("HTTP request failed", logger.F("method", method), logger.F("url", url), logger.F("error", err))
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	logger.Debug("HTTP response",
		logger.F("method", method),
		logger.F("url", url),
		logger.F("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		respBody, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = string(respBody)
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"es_admin"`
}

// Register creates a new account and stores the session.
func (c *Client) Register(ctx context.Context, username, name, email, password string) error {
	var result authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/register", map[string]string{
		"username": username,
		"nombre":   name,
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return err
	}
	c.session.Token = result.Token
	c.session.UserID = result.UserID
	c.session.Username = result.Username
	c.session.IsAdmin = result.IsAdmin
	return c.saveSession()
}

// Login authenticates and stores the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var result authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return err
	}
	c.session.Token = result.Token
	c.session.UserID = result.UserID
	c.session.Username = result.Username
	c.session.IsAdmin = result.IsAdmin
	return c.saveSession()
}

// Logout clears the stored session. The server-side session is
// invalidated on a best-effort basis.
func (c *Client) Logout(ctx context.Context) error {
	if c.session.Token != "" {
		_ = c.do(ctx, http.MethodPost, "/api/v1/logout", nil, nil)
	}
	c.session.Token = ""
	c.session.UserID = ""
	c.session.Username = ""
	c.session.IsAdmin = false
	return c.saveSession()
}

// Me returns the logged-in user's profile.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &u)
	return u, err
}

// Projects lists the projects visible to the user.
func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := c.do(ctx, http.MethodGet, "/api/v1/projects", nil, &projects)
	return projects, err
}

// Project fetches a single project.
func (c *Client) Project(ctx context.Context, projectID string) (model.Project, error) {
	var p model.Project
	err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+projectID, nil, &p)
	return p, err
}

// CreateProject creates a project; the creator becomes its manager.
func (c *Client) CreateProject(ctx context.Context, name, description string) (model.Project, error) {
	var p model.Project
	err := c.do(ctx, http.MethodPost, "/api/v1/projects", map[string]string{
		"nombre":      name,
		"descripcion": description,
	}, &p)
	return p, err
}

// DeleteProject removes a project and everything under it.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/projects/"+projectID, nil, nil)
}

// Board returns a project's tasks pre-grouped by column.
func (c *Client) Board(ctx context.Context, projectID string) (map[string][]model.Task, error) {
	var grouped map[string][]model.Task
	err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+projectID+"/board", nil, &grouped)
	return grouped, err
}

// CreateTask creates a task, returning it in flat form.
func (c *Client) CreateTask(ctx context.Context, req model.TaskCreate) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPost, "/api/v1/tasks", req, &t)
	return t, err
}

// UpdateTask applies a sparse patch and returns the updated flat task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, patch diff.Patch) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+taskID, patch, &t)
	return t, err
}

// ChangeStatus pushes a status token for a task.
func (c *Client) ChangeStatus(ctx context.Context, taskID string, status model.Status) error {
	return c.do(ctx, http.MethodPut, "/api/v1/tasks/"+taskID+"/status", map[string]string{
		"estado": string(status),
	}, nil)
}

// DeleteTask removes a task; the server cascades comments and label
// associations.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+taskID, nil, nil)
}

// AssignToMe assigns the task to the logged-in user.
func (c *Client) AssignToMe(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/tasks/"+taskID+"/assign", nil, nil)
}

// TaskLabels fetches the currently persisted label set for a task.
func (c *Client) TaskLabels(ctx context.Context, taskID string) ([]model.Label, error) {
	var labels []model.Label
	err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+taskID+"/labels", nil, &labels)
	return labels, err
}

// EnsureLabels resolves label names to ids, creating any that have no
// case-insensitive match yet.
func (c *Client) EnsureLabels(ctx context.Context, names []string) ([]string, error) {
	var result struct {
		IDs []string `json:"ids"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/labels/ensure", map[string][]string{
		"nombres": names,
	}, &result)
	return result.IDs, err
}

// ReplaceTaskLabels replaces a task's full label association with the
// given id list; an empty list clears all labels.
func (c *Client) ReplaceTaskLabels(ctx context.Context, taskID string, labelIDs []string) error {
	if labelIDs == nil {
		labelIDs = []string{}
	}
	return c.do(ctx, http.MethodPut, "/api/v1/tasks/"+taskID+"/labels", map[string][]string{
		"etiquetas": labelIDs,
	}, nil)
}

// TaskComments fetches a task's comments.
func (c *Client) TaskComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	var comments []model.Comment
	err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+taskID+"/comments", nil, &comments)
	return comments, err
}

// AddComment posts a comment on a task.
func (c *Client) AddComment(ctx context.Context, taskID, body string) (model.Comment, error) {
	var comment model.Comment
	err := c.do(ctx, http.MethodPost, "/api/v1/tasks/"+taskID+"/comments", map[string]string{
		"texto": body,
	}, &comment)
	return comment, err
}

// TaskAttachments fetches a task's attachment metadata. File content
// is stored and served outside this service.
func (c *Client) TaskAttachments(ctx context.Context, taskID string) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+taskID+"/attachments", nil, &attachments)
	return attachments, err
}

// Members lists a project's members, role-annotated, in join order.
func (c *Client) Members(ctx context.Context, projectID string) ([]model.Member, error) {
	var members []model.Member
	err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+projectID+"/members", nil, &members)
	return members, err
}

// AddMember adds a user to a project.
func (c *Client) AddMember(ctx context.Context, projectID, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/projects/"+projectID+"/members", map[string]string{
		"userId": userID,
	}, nil)
}

// RemoveMember removes a user from a project. Removing the manager
// triggers the server's fallback chain.
func (c *Client) RemoveMember(ctx context.Context, projectID, userID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/projects/"+projectID+"/members/"+userID, nil, nil)
}

// ChangeMemberRole changes a member's role. newManagerID nominates the
// fallback manager when the change demotes the current one; empty
// leaves the choice to the server.
func (c *Client) ChangeMemberRole(ctx context.Context, projectID, userID string, role model.Role, newManagerID string) error {
	body := map[string]string{"rol": string(role)}
	if newManagerID != "" {
		body["nuevoGestor"] = newManagerID
	}
	return c.do(ctx, http.MethodPut, "/api/v1/projects/"+projectID+"/members/"+userID+"/role", body, nil)
}
