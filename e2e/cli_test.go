package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/statesync/internal/api"
	"github.com/mcoot/statesync/internal/cli"
	"github.com/mcoot/statesync/internal/config"
	"github.com/mcoot/statesync/internal/factory"
	"github.com/mcoot/statesync/internal/testutil"
	"github.com/mcoot/statesync/internal/web"
)

// startTestServer runs the full server stack, workers included
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	workers := config.Default().Workers
	workers.PowerInterval = 5 * time.Millisecond
	workers.TimerTickInterval = time.Millisecond

	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{Workers: workers, Logger: logger})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, app.StartWorkers(ctx))

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		AuthService:      app.AuthService,
		PowerService:     app.PowerService,
		ClockService:     app.ClockService,
		TimerService:     app.TimerService,
		BroadcastService: app.BroadcastService,
		GreetService:     app.GreetService,
		Supervisor:       app.Supervisor,
		HubManager:       app.HubManager,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:       logger,
		AuthService:  app.AuthService,
		PowerService: app.PowerService,
		ClockService: app.ClockService,
		TimerService: app.TimerService,
		GreetService: app.GreetService,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		_ = app.Close()
		server.Close()
		cancel()
		app.Supervisor.Wait()
	})
	return server
}

// runCLI executes statectl in-process and returns its stdout
func runCLI(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--server", serverURL, "--output", "json"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func runJSON[T any](t *testing.T, serverURL string, args ...string) T {
	t.Helper()
	out, err := runCLI(t, serverURL, args...)
	require.NoError(t, err, out)

	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestCLIAuth(t *testing.T) {
	server := startTestServer(t)

	assert.False(t, runJSON[cli.Auth](t, server.URL, "auth").LoggedIn)
	assert.True(t, runJSON[cli.Auth](t, server.URL, "login").LoggedIn)
	assert.True(t, runJSON[cli.Auth](t, server.URL, "auth").LoggedIn)
	assert.False(t, runJSON[cli.Auth](t, server.URL, "logout").LoggedIn)
}

func TestCLIPower(t *testing.T) {
	server := startTestServer(t)

	power := runJSON[cli.Power](t, server.URL, "power")
	assert.GreaterOrEqual(t, power.Power, 0)
	assert.LessOrEqual(t, power.Power, 100)

	reset := runJSON[cli.Power](t, server.URL, "power", "reset")
	assert.Equal(t, 0, reset.Power)
}

func TestCLIClockAdvances(t *testing.T) {
	server := startTestServer(t)

	first := runJSON[cli.Clock](t, server.URL, "clock")
	time.Sleep(20 * time.Millisecond)
	second := runJSON[cli.Clock](t, server.URL, "clock")

	assert.Greater(t, second.Display, first.Display)
}

func TestCLITimers(t *testing.T) {
	server := startTestServer(t)

	pushed := runJSON[cli.Timer](t, server.URL, "timer", "push", "5")
	assert.Equal(t, 1, pushed.ID)
	runJSON[cli.Timer](t, server.URL, "timer", "push", "10")

	list := runJSON[cli.TimerList](t, server.URL, "timer", "list")
	require.Len(t, list.Timers, 2)

	second := runJSON[cli.Timer](t, server.URL, "timer", "get", "1")
	assert.Equal(t, 2, second.ID)

	_, err := runCLI(t, server.URL, "timer", "get", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Index not found on timer list.")

	_, err = runCLI(t, server.URL, "timer", "push", "-3")
	assert.Error(t, err)
}

func TestCLIGreet(t *testing.T) {
	server := startTestServer(t)

	greeting := runJSON[cli.Greeting](t, server.URL, "greet", "Grace Hopper")
	assert.Equal(t, "Hello, Grace Hopper! You've been greeted from Go!", greeting.Message)
}

func TestCLIHealth(t *testing.T) {
	server := startTestServer(t)

	health := runJSON[cli.HealthResult](t, server.URL, "health")
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Workers)
}

func TestCLIEvents(t *testing.T) {
	server := startTestServer(t)

	out, err := runCLI(t, server.URL, "events", "cli-session", "--json", "--count", "3")
	require.NoError(t, err)

	var updates int
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var evt cli.SSEEvent
		require.NoError(t, json.Unmarshal([]byte(line), &evt), line)
		if evt.Event == "system_state_update" {
			updates++
			assert.Contains(t, evt.Data, `"power":`)
		}
	}
	assert.Equal(t, 3, updates)

	listener := runJSON[cli.Listener](t, server.URL, "setup", "cli-session")
	assert.Contains(t, listener.Active, "cli-session")

	_, err = runCLI(t, server.URL, "teardown", "cli-session")
	require.NoError(t, err)

	_, err = runCLI(t, server.URL, "teardown", "cli-session")
	assert.Error(t, err)
}
