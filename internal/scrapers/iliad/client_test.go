package iliad

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	devenv "iliad-account/dev/env"
	"iliad-account/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func newTestClient(t testing.TB, baseUrl string, timeout time.Duration) (*Client, *telemetry.TestAPI) {
	tel := &telemetry.TestAPI{}
	client, err := NewClient(ClientOptions{
		BaseUrl: baseUrl,
		Timeout: timeout,
	}, tel)
	if err != nil {
		t.Fatal(err)
	}
	return client, tel
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(ClientOptions{}, &telemetry.TestAPI{})
	require.NoError(t, err)
	require.Equal(t, "https://www.iliad.it/account/", client.AccountUrl())
	require.Equal(t, DefaultTimeout, client.timeout)

	_, err = NewClient(ClientOptions{BaseUrl: "www.iliad.it"}, &telemetry.TestAPI{})
	require.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/account/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "user", r.PostForm.Get("login-ident"))
		require.Equal(t, "pass", r.PostForm.Get("login-pwd"))
		// a session cookie must never be sent back on the next login
		_, err := r.Cookie("session")
		require.ErrorIs(t, err, http.ErrNoCookie)

		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		w.Write([]byte(fullPage))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, time.Second)

	for i := 0; i < 2; i++ {
		status, body, err := client.Authenticate(context.Background(), "user", "pass")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, fullPage, string(body))
	}
	require.Equal(t, int32(2), requests.Load())
}

func TestAuthenticateStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("forbidden"))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, time.Second)
	status, body, err := client.Authenticate(context.Background(), "user", "wrong")
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "forbidden", string(body))
}

func TestAuthenticateTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseUrl := server.URL
	server.Close()

	client, tel := newTestClient(t, baseUrl, time.Second)
	status, body, err := client.Authenticate(context.Background(), "user", "pass")
	require.Error(t, err)
	require.Equal(t, 0, status)
	require.Nil(t, body)
	require.NotEmpty(t, tel.Reports("broken", "resty.response"))
}

func TestAuthenticateTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, _ := newTestClient(t, server.URL, 50*time.Millisecond)
	_, _, err := client.Authenticate(context.Background(), "user", "pass")
	require.Error(t, err)
}

func TestAuthenticateLive(t *testing.T) {
	config, err := devenv.GetStateConfig[devenv.IliadTestConfig]("iliad_config.json5")
	if err != nil {
		t.Skip("no live credentials in dev/.state/iliad_config.json5:", err)
	}

	client, tel := newTestClient(t, DefaultBaseUrl, DefaultTimeout)
	status, body, err := client.Authenticate(context.Background(), config.Username, config.Password)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status, tel.Reports("warning", ""))

	var record CreditRecord
	require.NoError(t, Extract(body, &record))
	require.NotNil(t, record.Renew)
}
