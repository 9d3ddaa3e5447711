package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"iliad-account/internal/components/chrono"
	"iliad-account/internal/components/state"
	"iliad-account/internal/db"
	"iliad-account/lib/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server   *httptest.Server
	store    *state.MemoryStore
	history  state.SQLiteSink
	clock    *chrono.FixedTime
	registry *prometheus.Registry
}

func newFixture(t testing.TB) fixture {
	sqlDB := testutil.OpenDB(t, db.Schema, "")

	clock := &chrono.FixedTime{Time: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	history := state.NewSQLiteSink(sqlDB, clock)
	store := state.NewMemoryStore()
	registry := prometheus.NewRegistry()

	sink, err := state.NewPrometheusSink("iliad_account", registry)
	require.NoError(t, err)

	handler, err := NewRouter(Options{
		States:   store,
		History:  history,
		Registry: registry,
	})
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	publish := state.Fanout{store, history, sink}
	err = publish.Publish(context.Background(), []state.State{
		{Key: "iliad_account.credit_voice_seconds", Value: 120},
		{Key: "iliad_account.credit_sms_max", Value: nil},
		{Key: "iliad_account.credit_renew", Value: "01/11/2026"},
	})
	require.NoError(t, err)

	return fixture{server: server, store: store, history: history, clock: clock, registry: registry}
}

func get(t testing.TB, url string) (int, []byte) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	status, body := get(t, f.server.URL+"/healthz")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"status": "ok"}`, string(body))
}

func TestListStates(t *testing.T) {
	f := newFixture(t)
	status, body := get(t, f.server.URL+"/states")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[
		{"key": "iliad_account.credit_voice_seconds", "value": 120},
		{"key": "iliad_account.credit_sms_max", "value": null},
		{"key": "iliad_account.credit_renew", "value": "01/11/2026"}
	]`, string(body))
}

func TestListStatesEmpty(t *testing.T) {
	handler, err := NewRouter(Options{
		States:   state.NewMemoryStore(),
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/states", http.NoBody))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `[]`, rr.Body.String())

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/states/x/history", http.NoBody))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetState(t *testing.T) {
	f := newFixture(t)

	status, body := get(t, f.server.URL+"/states/iliad_account.credit_renew")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"key": "iliad_account.credit_renew", "value": "01/11/2026"}`, string(body))

	status, _ = get(t, f.server.URL+"/states/iliad_account.credit_unknown")
	require.Equal(t, http.StatusNotFound, status)
}

func TestGetHistory(t *testing.T) {
	f := newFixture(t)

	f.clock.Time = f.clock.Time.Add(15 * time.Minute)
	err := f.history.Publish(context.Background(), []state.State{
		{Key: "iliad_account.credit_voice_seconds", Value: 180},
	})
	require.NoError(t, err)

	status, body := get(t, f.server.URL+"/states/iliad_account.credit_voice_seconds/history")
	require.Equal(t, http.StatusOK, status)

	var entries []historyEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 2)
	require.EqualValues(t, 180, entries[0].Value)
	require.EqualValues(t, 120, entries[1].Value)
	require.True(t, entries[0].Time.After(entries[1].Time))

	status, body = get(t, f.server.URL+"/states/iliad_account.credit_voice_seconds/history?limit=1")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 1)

	status, _ = get(t, f.server.URL+"/states/iliad_account.credit_voice_seconds/history?limit=zero")
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = get(t, f.server.URL+"/states/iliad_account.credit_unknown/history")
	require.Equal(t, http.StatusNotFound, status)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	get(t, f.server.URL+"/states")

	status, body := get(t, f.server.URL+"/metrics")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), `iliad_account_credit{key="iliad_account.credit_voice_seconds"} 120`)
	require.Contains(t, string(body), `iliad_account_credit_info{key="iliad_account.credit_renew",value="01/11/2026"} 1`)
	require.Contains(t, string(body), `iliad_account_http_requests_total{method="GET",path="/states",status="200"} 1`)
}
