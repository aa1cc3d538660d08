package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/DylanRJohnston/simon-says/game/engine"
	"github.com/DylanRJohnston/simon-says/game/service"
	"github.com/DylanRJohnston/simon-says/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Plan Authoring
	AppendActionFunc func(ctx context.Context, sessionID, action string) (*service.PlanResult, error)
	RemoveActionFunc func(ctx context.Context, sessionID string, index int) (*service.PlanResult, error)
	ClearPlanFunc    func(ctx context.Context, sessionID string) (*service.PlanResult, error)
	GetPlanFunc      func(ctx context.Context, sessionID string) (*service.PlanResult, error)

	// Run Control
	StartRunFunc  func(ctx context.Context, sessionID string) (*service.RunResult, error)
	TickRunFunc   func(ctx context.Context, sessionID string) (*service.RunResult, error)
	PauseRunFunc  func(ctx context.Context, sessionID string) (*service.RunResult, error)
	ResumeRunFunc func(ctx context.Context, sessionID string) (*service.RunResult, error)
	StopRunFunc   func(ctx context.Context, sessionID string) (*service.RunResult, error)

	// Run State and Solving
	GetRunStateFunc func(ctx context.Context, sessionID string) (*service.RunResult, error)
	SolveFunc       func(ctx context.Context, sessionID string) (*service.SolveResult, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.LevelConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.LevelConfig) error
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "test-config",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Plan Authoring
func (m *MockGameService) AppendAction(ctx context.Context, sessionID, action string) (*service.PlanResult, error) {
	if m.AppendActionFunc != nil {
		return m.AppendActionFunc(ctx, sessionID, action)
	}
	return &service.PlanResult{SessionID: sessionID, Plan: engine.Plan{engine.Forward}, PlanSize: 1}, nil
}

func (m *MockGameService) RemoveAction(ctx context.Context, sessionID string, index int) (*service.PlanResult, error) {
	if m.RemoveActionFunc != nil {
		return m.RemoveActionFunc(ctx, sessionID, index)
	}
	return &service.PlanResult{SessionID: sessionID}, nil
}

func (m *MockGameService) ClearPlan(ctx context.Context, sessionID string) (*service.PlanResult, error) {
	if m.ClearPlanFunc != nil {
		return m.ClearPlanFunc(ctx, sessionID)
	}
	return &service.PlanResult{SessionID: sessionID}, nil
}

func (m *MockGameService) GetPlan(ctx context.Context, sessionID string) (*service.PlanResult, error) {
	if m.GetPlanFunc != nil {
		return m.GetPlanFunc(ctx, sessionID)
	}
	return &service.PlanResult{SessionID: sessionID}, nil
}

// Run Control
func (m *MockGameService) StartRun(ctx context.Context, sessionID string) (*service.RunResult, error) {
	if m.StartRunFunc != nil {
		return m.StartRunFunc(ctx, sessionID)
	}
	return &service.RunResult{SessionID: sessionID, State: engine.Running}, nil
}

func (m *MockGameService) TickRun(ctx context.Context, sessionID string) (*service.RunResult, error) {
	if m.TickRunFunc != nil {
		return m.TickRunFunc(ctx, sessionID)
	}
	return &service.RunResult{SessionID: sessionID, State: engine.Running}, nil
}

func (m *MockGameService) PauseRun(ctx context.Context, sessionID string) (*service.RunResult, error) {
	if m.PauseRunFunc != nil {
		return m.PauseRunFunc(ctx, sessionID)
	}
	return &service.RunResult{SessionID: sessionID, State: engine.Paused}, nil
}

func (m *MockGameService) ResumeRun(ctx context.Context, sessionID string) (*service.RunResult, error) {
	if m.ResumeRunFunc != nil {
		return m.ResumeRunFunc(ctx, sessionID)
	}
	return &service.RunResult{SessionID: sessionID, State: engine.Running}, nil
}

func (m *MockGameService) StopRun(ctx context.Context, sessionID string) (*service.RunResult, error) {
	if m.StopRunFunc != nil {
		return m.StopRunFunc(ctx, sessionID)
	}
	return &service.RunResult{SessionID: sessionID, State: engine.Stopped}, nil
}

func (m *MockGameService) TickAll(ctx context.Context) []*service.RunResult {
	return nil
}

// Run State
func (m *MockGameService) GetRunState(ctx context.Context, sessionID string) (*service.RunResult, error) {
	if m.GetRunStateFunc != nil {
		return m.GetRunStateFunc(ctx, sessionID)
	}
	return &service.RunResult{SessionID: sessionID, State: engine.Stopped}, nil
}

// Solving
func (m *MockGameService) Solve(ctx context.Context, sessionID string) (*service.SolveResult, error) {
	if m.SolveFunc != nil {
		return m.SolveFunc(ctx, sessionID)
	}
	return &service.SolveResult{SessionID: sessionID}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.LevelConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.LevelConfig{
		Name:        configName,
		Description: "Test config",
	}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.LevelConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Test helpers
func setupTestServer(mockService *MockGameService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default config",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return &service.SessionInfo{
						ID:             "ab12",
						ConfigName:     "First Steps",
						CreatedAt:      time.Now(),
						LastAccessedAt: time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with specific config",
			requestBody: map[string]string{"config_id": "ice-rink"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					if configName != "ice-rink" {
						t.Errorf("Expected config name 'ice-rink', got %s", configName)
					}
					return &service.SessionInfo{
						ID:         "cd34",
						ConfigName: configName,
						CreatedAt:  time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ConfigName != "ice-rink" {
					t.Errorf("Expected config name 'ice-rink', got %s", resp.ConfigName)
				}
			},
		},
		{
			name:        "Handle service error",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "List multiple sessions",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return []*service.SessionInfo{
						{ID: "ab12", ConfigName: "First Steps"},
						{ID: "cd34", ConfigName: "Ice Rink"},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				if resp["count"].(float64) != 2 {
					t.Errorf("Expected count 2, got %v", resp["count"])
				}
				sessions := resp["sessions"].([]interface{})
				if len(sessions) != 2 {
					t.Errorf("Expected 2 sessions, got %d", len(sessions))
				}
			},
		},
		{
			name: "Handle empty session list",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return []*service.SessionInfo{}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				if resp["count"].(float64) != 0 {
					t.Errorf("Expected count 0, got %v", resp["count"])
				}
			},
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return nil, fmt.Errorf("database error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "database error" {
					t.Errorf("Expected error 'database error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/sessions", nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessionsSortAndLimit(t *testing.T) {
	now := time.Now()
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-2 * time.Hour)},
				{ID: "new", CreatedAt: now, LastAccessedAt: now},
				{ID: "mid", CreatedAt: now.Add(-1 * time.Hour), LastAccessedAt: now.Add(-1 * time.Hour)},
			}, nil
		},
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	req := makeRequest("GET", "/api/sessions?sort=created&order=desc&limit=2", nil)

	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	parseResponse(t, w, &resp)

	if resp.Count != 2 {
		t.Fatalf("Expected 2 sessions after limit, got %d", resp.Count)
	}
	if resp.Sessions[0].ID != "new" || resp.Sessions[1].ID != "mid" {
		t.Errorf("Expected [new mid], got [%s %s]", resp.Sessions[0].ID, resp.Sessions[1].ID)
	}
}

func TestGetSession(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:      "Get existing session",
			sessionID: "ab12",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					if sessionID != "ab12" {
						return nil, fmt.Errorf("session not found")
					}
					return &service.SessionInfo{
						ID:         sessionID,
						ConfigName: "First Steps",
						CreatedAt:  time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			},
		},
		{
			name:      "Session not found",
			sessionID: "nonexistent",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("session not found")
				}
			},
			expectedStatus: http.StatusNotFound,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "session not found" {
					t.Errorf("Expected error 'session not found', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/sessions/"+tt.sessionID, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.sessionID})

			server.handleGetSession(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:      "Delete existing session",
			sessionID: "ab12",
			setupMock: func(m *MockGameService) {
				m.DeleteSessionFunc = func(ctx context.Context, sessionID string) error {
					if sessionID != "ab12" {
						return fmt.Errorf("session not found")
					}
					return nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["message"] != "Session ab12 deleted" {
					t.Errorf("Unexpected message: %s", resp["message"])
				}
			},
		},
		{
			name:      "Delete non-existent session",
			sessionID: "nonexistent",
			setupMock: func(m *MockGameService) {
				m.DeleteSessionFunc = func(ctx context.Context, sessionID string) error {
					return fmt.Errorf("session not found")
				}
			},
			expectedStatus: http.StatusNotFound,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "session not found" {
					t.Errorf("Expected error 'session not found', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("DELETE", "/api/sessions/"+tt.sessionID, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.sessionID})

			server.handleDeleteSession(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

// Plan Authoring Tests

func TestAppendAction(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Valid append",
			sessionID:   "ab12",
			requestBody: map[string]interface{}{"action": "forward"},
			setupMock: func(m *MockGameService) {
				m.AppendActionFunc = func(ctx context.Context, sessionID, action string) (*service.PlanResult, error) {
					if action != "forward" {
						t.Errorf("Expected action 'forward', got %s", action)
					}
					return &service.PlanResult{
						SessionID:   sessionID,
						Plan:        engine.Plan{engine.Forward},
						PlanSize:    1,
						ActionLimit: 4,
						Canonical:   engine.Plan{engine.Forward},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.PlanResult
				parseResponse(t, w, &resp)
				if resp.PlanSize != 1 {
					t.Errorf("Expected plan size 1, got %d", resp.PlanSize)
				}
			},
		},
		{
			name:        "Action outside vocabulary",
			sessionID:   "ab12",
			requestBody: map[string]interface{}{"action": "teleport"},
			setupMock: func(m *MockGameService) {
				m.AppendActionFunc = func(ctx context.Context, sessionID, action string) (*service.PlanResult, error) {
					return nil, fmt.Errorf("action %q is not allowed on this level", action)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Plan full",
			sessionID:   "ab12",
			requestBody: map[string]interface{}{"action": "left"},
			setupMock: func(m *MockGameService) {
				m.AppendActionFunc = func(ctx context.Context, sessionID, action string) (*service.PlanResult, error) {
					return nil, fmt.Errorf("plan is full: action limit is 4")
				}
			},
			expectedStatus: http.StatusBadRequest,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "plan is full: action limit is 4" {
					t.Errorf("Unexpected error: %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions/"+tt.sessionID+"/plan", tt.requestBody)
			req = mux.SetURLVars(req, map[string]string{"id": tt.sessionID})

			server.handleAppendAction(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestRemoveAction(t *testing.T) {
	tests := []struct {
		name           string
		index          string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:  "Remove valid index",
			index: "1",
			setupMock: func(m *MockGameService) {
				m.RemoveActionFunc = func(ctx context.Context, sessionID string, index int) (*service.PlanResult, error) {
					if index != 1 {
						t.Errorf("Expected index 1, got %d", index)
					}
					return &service.PlanResult{SessionID: sessionID, PlanSize: 1}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Non-numeric index",
			index:          "abc",
			setupMock:      nil,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("DELETE", "/api/sessions/ab12/plan/"+tt.index, nil)
			req = mux.SetURLVars(req, map[string]string{"id": "ab12", "index": tt.index})

			server.handleRemoveAction(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestClearPlan(t *testing.T) {
	mockService := &MockGameService{
		ClearPlanFunc: func(ctx context.Context, sessionID string) (*service.PlanResult, error) {
			return &service.PlanResult{SessionID: sessionID, Plan: engine.Plan{}, PlanSize: 0}, nil
		},
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	req := makeRequest("DELETE", "/api/sessions/ab12/plan", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "ab12"})

	server.handleClearPlan(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.PlanResult
	parseResponse(t, w, &resp)
	if resp.PlanSize != 0 {
		t.Errorf("Expected empty plan, got size %d", resp.PlanSize)
	}
}

// Run Control Tests

func TestStartRun(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Start fires the first action",
			setupMock: func(m *MockGameService) {
				m.StartRunFunc = func(ctx context.Context, sessionID string) (*service.RunResult, error) {
					return &service.RunResult{
						SessionID: sessionID,
						State:     engine.Running,
						PC:        1,
						StepCount: 1,
						Players: []engine.Player{
							{Position: engine.Position{X: 1, Y: 0}},
						},
						Steps: []service.StepInfo{
							{Player: 0, Action: "forward", To: engine.Position{X: 1, Y: 0}},
						},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.RunResult
				parseResponse(t, w, &resp)
				if resp.State != engine.Running {
					t.Errorf("Expected running state, got %v", resp.State)
				}
				if resp.StepCount != 1 {
					t.Errorf("Expected step count 1, got %d", resp.StepCount)
				}
			},
		},
		{
			name: "Empty plan rejected",
			setupMock: func(m *MockGameService) {
				m.StartRunFunc = func(ctx context.Context, sessionID string) (*service.RunResult, error) {
					return nil, engine.ErrEmptyPlan
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions/ab12/run/start", nil)
			req = mux.SetURLVars(req, map[string]string{"id": "ab12"})

			server.handleStartRun(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestTickRun_FinishedRunCarriesChallenges(t *testing.T) {
	mockService := &MockGameService{
		TickRunFunc: func(ctx context.Context, sessionID string) (*service.RunResult, error) {
			return &service.RunResult{
				SessionID: sessionID,
				State:     engine.Stopped,
				StepCount: 4,
				Finished:  true,
				Challenges: &service.ChallengeRecord{
					Commands: &service.ChallengeResult{Threshold: 2, Achieved: true},
					Steps:    &service.ChallengeResult{Threshold: 3, Achieved: false},
				},
			}, nil
		},
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	req := makeRequest("POST", "/api/sessions/ab12/run/tick", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "ab12"})

	server.handleTickRun(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.RunResult
	parseResponse(t, w, &resp)
	if !resp.Finished {
		t.Error("Expected finished run")
	}
	if resp.Challenges == nil || resp.Challenges.Commands == nil {
		t.Fatal("Expected challenge evaluation on a finished run")
	}
	if !resp.Challenges.Commands.Achieved {
		t.Error("Expected commands challenge achieved")
	}
	if resp.Challenges.Steps.Achieved {
		t.Error("Expected steps challenge missed")
	}
	if resp.Challenges.Waste != nil {
		t.Error("Expected absent waste challenge to stay nil")
	}
}

func TestRunControlStates(t *testing.T) {
	mockService := &MockGameService{}

	server := setupTestServer(mockService)

	cases := []struct {
		path    string
		handler func(http.ResponseWriter, *http.Request)
		want    engine.RunState
	}{
		{"pause", server.handlePauseRun, engine.Paused},
		{"resume", server.handleResumeRun, engine.Running},
		{"stop", server.handleStopRun, engine.Stopped},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions/ab12/run/"+tc.path, nil)
			req = mux.SetURLVars(req, map[string]string{"id": "ab12"})

			tc.handler(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp service.RunResult
			parseResponse(t, w, &resp)
			if resp.State != tc.want {
				t.Errorf("Expected state %v, got %v", tc.want, resp.State)
			}
		})
	}
}

func TestGetRunState(t *testing.T) {
	mockService := &MockGameService{
		GetRunStateFunc: func(ctx context.Context, sessionID string) (*service.RunResult, error) {
			if sessionID != "ab12" {
				return nil, fmt.Errorf("session not found")
			}
			return &service.RunResult{
				SessionID: sessionID,
				State:     engine.Paused,
				PC:        2,
				StepCount: 5,
			}, nil
		},
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	req := makeRequest("GET", "/api/sessions/ab12/state", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "ab12"})

	server.handleGetRunState(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.RunResult
	parseResponse(t, w, &resp)
	if resp.State != engine.Paused || resp.PC != 2 || resp.StepCount != 5 {
		t.Errorf("Unexpected run snapshot: %+v", resp)
	}
}

// Solver Tests

func TestSolve(t *testing.T) {
	mockService := &MockGameService{
		SolveFunc: func(ctx context.Context, sessionID string) (*service.SolveResult, error) {
			return &service.SolveResult{
				SessionID: sessionID,
				Solvable:  true,
				Total:     2,
				Solutions: []engine.Solution{
					{Plan: engine.Plan{engine.Forward}, Size: 1, Steps: 2},
					{Plan: engine.Plan{engine.Forward, engine.Forward}, Size: 2, Steps: 2},
				},
			}, nil
		},
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	req := makeRequest("POST", "/api/sessions/ab12/solve", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "ab12"})

	server.handleSolve(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.SolveResult
	parseResponse(t, w, &resp)
	if !resp.Solvable || resp.Total != 2 {
		t.Errorf("Unexpected solve result: solvable=%t total=%d", resp.Solvable, resp.Total)
	}
}

// Configuration Tests

func TestListConfigsEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "List available configs",
			setupMock: func(m *MockGameService) {
				m.ListConfigsFunc = func(ctx context.Context) ([]*service.ConfigInfo, error) {
					return []*service.ConfigInfo{
						{ConfigID: "first-steps", Name: "First Steps"},
						{ConfigID: "ice-rink", Name: "Ice Rink"},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp []*service.ConfigInfo
				parseResponse(t, w, &resp)
				if len(resp) != 2 {
					t.Errorf("Expected 2 configs, got %d", len(resp))
				}
			},
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.ListConfigsFunc = func(ctx context.Context) ([]*service.ConfigInfo, error) {
					return nil, fmt.Errorf("config error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/configs", nil)

			server.handleListConfigs(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name           string
		configName     string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:       "Get existing config",
			configName: "first-steps",
			setupMock: func(m *MockGameService) {
				m.LoadConfigFunc = func(ctx context.Context, configName string) (*engine.LevelConfig, error) {
					if configName != "first-steps" {
						return nil, fmt.Errorf("config not found")
					}
					return &engine.LevelConfig{
						Name:        "First Steps",
						Layout:      []string{"E..F"},
						ActionLimit: 3,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp engine.LevelConfig
				parseResponse(t, w, &resp)
				if resp.Name != "First Steps" {
					t.Errorf("Expected config name 'First Steps', got %s", resp.Name)
				}
			},
		},
		{
			name:       "Strip .json extension",
			configName: "ice-rink.json",
			setupMock: func(m *MockGameService) {
				m.LoadConfigFunc = func(ctx context.Context, configName string) (*engine.LevelConfig, error) {
					if configName != "ice-rink" {
						t.Errorf("Expected config name 'ice-rink' (without .json), got %s", configName)
					}
					return &engine.LevelConfig{Name: "Ice Rink"}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:       "Config not found",
			configName: "nonexistent",
			setupMock: func(m *MockGameService) {
				m.LoadConfigFunc = func(ctx context.Context, configName string) (*engine.LevelConfig, error) {
					return nil, fmt.Errorf("config not found")
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/configs/"+tt.configName, nil)
			req = mux.SetURLVars(req, map[string]string{"name": tt.configName})

			server.handleGetConfig(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestCreateConfig(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name: "Save valid config",
			requestBody: &engine.LevelConfig{
				Name:        "custom",
				Layout:      []string{"E..F"},
				Actions:     []string{"forward"},
				ActionLimit: 3,
			},
			setupMock: func(m *MockGameService) {
				m.SaveConfigFunc = func(ctx context.Context, configName string, config *engine.LevelConfig) error {
					if configName != "custom" {
						t.Errorf("Expected config name 'custom', got %s", configName)
					}
					return nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing name rejected",
			requestBody:    &engine.LevelConfig{Layout: []string{"E..F"}},
			setupMock:      nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Save failure surfaces as 500",
			requestBody: &engine.LevelConfig{
				Name:   "broken",
				Layout: []string{"E..F"},
			},
			setupMock: func(m *MockGameService) {
				m.SaveConfigFunc = func(ctx context.Context, configName string, config *engine.LevelConfig) error {
					return fmt.Errorf("disk full")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/configs", tt.requestBody)

			server.handleCreateConfig(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestUnifiedSessions(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Get all sessions",
			queryParams: "",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return []*service.SessionInfo{
						{ID: "ab12", ConfigName: "First Steps", RunState: engine.Running},
						{ID: "cd34", ConfigName: "First Steps", RunState: engine.Stopped},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				if resp["config_name"] != "First Steps" {
					t.Errorf("Expected config_name 'First Steps', got %v", resp["config_name"])
				}
				if resp["running"].(float64) != 1 {
					t.Errorf("Expected 1 running session, got %v", resp["running"])
				}
				sessions := resp["sessions"].([]interface{})
				if len(sessions) != 2 {
					t.Errorf("Expected 2 sessions, got %d", len(sessions))
				}
			},
		},
		{
			name:        "Filter by session IDs",
			queryParams: "?sessionIds=ab12,ef56",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					if sessionID == "ab12" || sessionID == "ef56" {
						return &service.SessionInfo{ID: sessionID, ConfigName: "First Steps"}, nil
					}
					return nil, fmt.Errorf("not found")
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				sessions := resp["sessions"].([]interface{})
				if len(sessions) != 2 {
					t.Errorf("Expected 2 sessions, got %d", len(sessions))
				}
			},
		},
		{
			name:        "Filter by config name",
			queryParams: "?configName=Ice%20Rink",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return []*service.SessionInfo{
						{ID: "ab12", ConfigName: "First Steps"},
						{ID: "cd34", ConfigName: "Ice Rink"},
						{ID: "ef56", ConfigName: "Ice Rink"},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				sessions := resp["sessions"].([]interface{})
				if len(sessions) != 2 {
					t.Errorf("Expected 2 Ice Rink sessions, got %d", len(sessions))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/sessions/unified"+tt.queryParams, nil)

			server.handleUnifiedSessions(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:           "Missing session parameter",
			queryParams:    "",
			setupMock:      nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid session",
			queryParams: "?session=invalid",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("session not found")
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Valid session",
			queryParams: "?session=ab12",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return &service.SessionInfo{
						ID:         sessionID,
						ConfigName: "First Steps",
					}, nil
				}
			},
			expectedStatus: http.StatusSwitchingProtocols,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/ws"+tt.queryParams, nil)

			// For WebSocket upgrade test, we need proper headers
			if tt.expectedStatus == http.StatusSwitchingProtocols {
				req.Header.Set("Upgrade", "websocket")
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
				req.Header.Set("Sec-WebSocket-Version", "13")
			}

			server.handleWebSocket(w, req)

			// WebSocket upgrade fails in unit tests due to httptest.ResponseRecorder limitations
			if tt.expectedStatus == http.StatusSwitchingProtocols {
				// httptest.ResponseRecorder does not implement http.Hijacker,
				// so the upgrade itself cannot complete here. A 500 means the
				// handler got as far as attempting it.
				if w.Code == http.StatusInternalServerError {
					return
				}
			}

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}
