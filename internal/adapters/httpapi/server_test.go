package httpapi_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/praetor/internal/adapters/httpapi"
	"github.com/example/praetor/internal/adapters/sqlite"
	"github.com/example/praetor/internal/app"
	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/db"
	"github.com/example/praetor/internal/ports/secondary"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Chat(ctx context.Context, req secondary.ChatRequest) (string, error) {
	return f.reply, f.err
}

func (f *fakeLLM) ListModels(ctx context.Context) ([]string, error) {
	return []string{"gpt-4o", "gpt-5", "gpt-5-thinking"}, nil
}

func (f *fakeLLM) Name() string { return "fake" }

type fakeChecker struct{ code int }

func (f fakeChecker) Check(ctx context.Context, url string) (int, error) { return f.code, nil }

type testEnv struct {
	srv   *httptest.Server
	hub   *httpapi.Hub
	clock *clock.Fake
	llm   *fakeLLM
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	_, err = database.Exec(db.GetSchemaSQL())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	loc, err := clock.LoadZone("")
	require.NoError(t, err)
	clk := clock.NewFake(time.Date(2026, 4, 1, 9, 0, 0, 0, loc))
	llm := &fakeLLM{reply: "Let's start with r/homelab."}
	hub := httpapi.NewHub([]string{"*"})

	agentRepo := sqlite.NewAgentRepository(database)
	missionRepo := sqlite.NewMissionRepository(database)
	eventRepo := sqlite.NewEventRepository(database)
	threadRepo := sqlite.NewThreadRepository(database)
	messageRepo := sqlite.NewMessageRepository(database)
	hotLeadRepo := sqlite.NewHotLeadRepository(database)
	events := sqlite.NewLogWriterAdapter(eventRepo, clk, hub)

	missions := app.NewMissionService(missionRepo, events, clk)
	providers := app.NewProviderService(llm, events, clk, "gpt-test")
	services := httpapi.Services{
		Agents:         app.NewAgentService(agentRepo, missionRepo, hotLeadRepo, events, clk),
		Missions:       missions,
		Events:         app.NewEventService(eventRepo, events, clk, 100),
		MissionControl: app.NewMissionControlService(threadRepo, messageRepo, missions, providers, llm, events, clk, app.ChatSettings{MaxTokens: 500}),
		HotLeads:       app.NewHotLeadService(hotLeadRepo, missionRepo, events, clk),
		Guardrails:     app.NewGuardrailService(sqlite.NewGuardrailRepository(database), events, clk),
		Findings:       app.NewFindingService(sqlite.NewFindingRepository(database), threadRepo, messageRepo, events, clk),
		Forums:         app.NewForumService(sqlite.NewForumRepository(database), fakeChecker{code: 404}, events, clk),
		Providers:      providers,
	}

	srv := httptest.NewServer(httpapi.NewServer(services, hub, clk, httpapi.Options{
		CORSOrigins:          []string{"http://localhost:3000"},
		ScenarioRetryMinutes: 2,
	}).Handler())
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, hub: hub, clock: clk, llm: llm}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var raw json.RawMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		if len(raw) > 0 && raw[0] == '{' {
			require.NoError(t, json.Unmarshal(raw, &out))
		} else {
			out = map[string]any{"items": nil}
			var items []any
			require.NoError(t, json.Unmarshal(raw, &items))
			out["items"] = items
		}
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "2026-04-01T09:00:00.000000-07:00", body["timestamp"])
}

func TestAgents_ErrorAndRecovery(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/agents", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 3)

	resp, body = env.do(t, http.MethodPost, "/api/scenarios/agent_error_retry", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "red", body["status_light"])
	assert.Equal(t, "crawl_timeout", body["error_state"])
	assert.Equal(t, "2026-04-01T09:02:00.000000-07:00", body["next_retry_at"])

	env.clock.Advance(2 * time.Minute)
	_, body = env.do(t, http.MethodGet, "/api/agents/Explorator", nil)
	assert.Equal(t, "green", body["status_light"])
	assert.Nil(t, body["error_state"])

	_, body = env.do(t, http.MethodGet, "/api/events?event_name=agent_retry_scheduled", nil)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "backend/scenario", items[0].(map[string]any)["source"])
}

func TestErrorMapping(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/agents/Centurion/error", map[string]any{"error_code": "x", "retry_minutes": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_agent", body["kind"])

	resp, body = env.do(t, http.MethodPost, "/api/agents/Legatus/error", map[string]any{"error_code": "x", "retry_minutes": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", body["kind"])
	assert.Contains(t, body["fields"], "retry_minutes")

	resp, body = env.do(t, http.MethodGet, "/api/missions/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["kind"])

	resp, body = env.do(t, http.MethodPost, "/api/missions", map[string]any{"title": "Homelab", "objective": "Map forums"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)

	resp, body = env.do(t, http.MethodPost, "/api/missions/"+id+"/state", map[string]any{"state": "paused"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "invalid_transition", body["kind"])
	assert.Equal(t, "draft", body["current"])
	assert.Equal(t, "paused", body["requested"])

	resp, body = env.do(t, http.MethodPost, "/api/missions/"+id+"/state", map[string]any{"state": "draft"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "draft", body["requested"])

	resp, _ = env.do(t, http.MethodPost, "/api/missions/nope/state", map[string]any{"state": "bogus"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodPost, env.srv.URL+"/api/missions", strings.NewReader("{not json"))
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestMissions_Lifecycle(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, http.MethodPost, "/api/missions", map[string]any{"title": "Homelab", "objective": "Map forums"})
	id := body["id"].(string)
	assert.Equal(t, "research_only", body["posture"])

	for _, step := range []struct{ target, want string }{
		{"start", "scanning"},
		{"paused", "paused"},
		{"resume", "scanning"},
		{"complete", "complete"},
	} {
		resp, body := env.do(t, http.MethodPost, "/api/missions/"+id+"/state", map[string]any{"state": step.target})
		require.Equal(t, http.StatusOK, resp.StatusCode, "target %s", step.target)
		assert.Equal(t, step.want, body["state"])
	}

	resp, body := env.do(t, http.MethodPost, "/api/missions/"+id+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "draft", body["state"])
	assert.NotEqual(t, id, body["id"])

	_, body = env.do(t, http.MethodGet, "/api/missions?state=draft", nil)
	assert.Len(t, body["items"], 1)
}

func TestMissionControl_MessageAndUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/mission_control/message", map[string]any{"text": "Where do homelabbers hang out?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reply := body["reply"].(map[string]any)
	assert.Equal(t, "Let's start with r/homelab.", reply["text"])
	threadID := body["thread_id"].(string)

	env.llm.err = errors.New("timeout")
	resp, body = env.do(t, http.MethodPost, "/api/mission_control/message", map[string]any{"thread_id": threadID, "text": "And then?"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "upstream", body["kind"])

	_, body = env.do(t, http.MethodGet, "/api/mission_control/thread/"+threadID, nil)
	messages := body["messages"].([]any)
	assert.Len(t, messages, 3)
	assert.Equal(t, "Unlinked", body["thread"].(map[string]any)["thread_status"])
}

func TestFindings_Export(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, http.MethodPost, "/api/missions", map[string]any{"title": "Homelab", "objective": "Map forums"})
	missionID := body["id"].(string)
	_, body = env.do(t, http.MethodPost, "/api/mission_control/threads", map[string]any{"title": "Backups", "mission_id": missionID})
	threadID := body["thread_id"].(string)
	assert.Equal(t, "Draft", body["thread_status"])

	resp, body := env.do(t, http.MethodPost, "/api/mission_control/snapshot_findings", map[string]any{"thread_id": threadID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	findingID := body["id"].(string)

	raw, err := http.Post(env.srv.URL+"/api/findings/"+findingID+"/export?format=csv", "application/json", nil)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusOK, raw.StatusCode)
	assert.Equal(t, "text/csv", raw.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="finding_`+findingID+`.csv"`, raw.Header.Get("Content-Disposition"))
}

func TestForums_CheckLink(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/forums", map[string]any{
		"platform": "reddit", "name": "r/homelab", "url": "https://reddit.com/r/homelab", "rule_profile": "strict",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body = env.do(t, http.MethodPost, "/api/forums/"+body["id"].(string)+"/check_link", nil)
	assert.Equal(t, "not_found", body["link_status"])
}

func TestProviders(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, http.MethodGet, "/api/providers/models", nil)
	assert.Len(t, body["models"], 3)
	assert.Equal(t, "gpt-test", body["default"])

	_, body = env.do(t, http.MethodGet, "/api/providers/health", nil)
	assert.Equal(t, true, body["ok"])
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req, _ := http.NewRequest(http.MethodOptions, env.srv.URL+"/api/missions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodGet, env.srv.URL+"/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestEventStream(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/events/stream"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.Eventually(t, func() bool { return env.hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	resp, _ := env.do(t, http.MethodPost, "/api/missions", map[string]any{"title": "Homelab", "objective": "Map forums"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var event map[string]any
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "mission_created", event["event_name"])
	assert.Equal(t, "backend/api", event["source"])
}
