package vesync

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/vesyncd/internal/errors"
)

const (
	testToken     = "test-token"
	testAccountID = "test-account"
	testPassword  = "secret"
)

// bypassCall records one bypassV2 request as seen by the fake cloud.
type bypassCall struct {
	CID    string
	Method string
	Data   map[string]any
}

// fakeCloud is an httptest stand-in for the vendor API. Handlers speak the
// same envelope format as the real cloud, including the inner bypassV2
// envelope.
type fakeCloud struct {
	t      *testing.T
	server *httptest.Server

	mu      sync.Mutex
	devices []DeviceConfig
	calls   []bypassCall

	// bypass computes the inner response for a bypassV2 call. Defaults to
	// code 0 with an empty result.
	bypass func(call bypassCall) (int64, any)
	// loginCode forces a non-zero envelope code on login when set.
	loginCode int64
}

func newFakeCloud(t *testing.T) *fakeCloud {
	fc := &fakeCloud{t: t}

	mux := http.NewServeMux()
	mux.HandleFunc(loginPath, fc.handleLogin)
	mux.HandleFunc(deviceListPath, fc.handleDevices)
	mux.HandleFunc(bypassV2Path, fc.handleBypass)
	fc.server = httptest.NewServer(mux)
	t.Cleanup(fc.server.Close)
	return fc
}

func (fc *fakeCloud) writeEnvelope(w http.ResponseWriter, code int64, msg string, result any) {
	raw, err := json.Marshal(result)
	require.NoError(fc.t, err)
	resp := map[string]any{
		"traceId": "trace-1",
		"code":    code,
		"msg":     msg,
		"result":  json.RawMessage(raw),
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(fc.t, json.NewEncoder(w).Encode(resp))
}

func (fc *fakeCloud) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	require.NoError(fc.t, json.NewDecoder(r.Body).Decode(&body))

	if fc.loginCode != 0 {
		fc.writeEnvelope(w, fc.loginCode, "login rejected", nil)
		return
	}
	if body["password"] != hashPassword(testPassword) {
		fc.writeEnvelope(w, -11201000, "password error", nil)
		return
	}
	fc.writeEnvelope(w, 0, "", loginResult{
		Token:       testToken,
		AccountID:   testAccountID,
		CountryCode: "US",
	})
}

func (fc *fakeCloud) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("tk") != testToken || r.Header.Get("accountid") != testAccountID {
		fc.writeEnvelope(w, -11001000, "token expired", nil)
		return
	}
	fc.mu.Lock()
	list := fc.devices
	fc.mu.Unlock()
	fc.writeEnvelope(w, 0, "", deviceListResult{Total: len(list), List: list})
}

func (fc *fakeCloud) handleBypass(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("tk") != testToken {
		fc.writeEnvelope(w, -11001000, "token expired", nil)
		return
	}

	var body struct {
		CID     string        `json:"cid"`
		Payload bypassPayload `json:"payload"`
	}
	require.NoError(fc.t, json.NewDecoder(r.Body).Decode(&body))

	call := bypassCall{CID: body.CID, Method: body.Payload.Method, Data: body.Payload.Data}
	fc.mu.Lock()
	fc.calls = append(fc.calls, call)
	handler := fc.bypass
	fc.mu.Unlock()

	innerCode, innerResult := int64(0), any(map[string]any{})
	if handler != nil {
		innerCode, innerResult = handler(call)
	}
	raw, err := json.Marshal(innerResult)
	require.NoError(fc.t, err)
	fc.writeEnvelope(w, 0, "", map[string]any{
		"code":   innerCode,
		"result": json.RawMessage(raw),
	})
}

func (fc *fakeCloud) lastCall() bypassCall {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	require.NotEmpty(fc.t, fc.calls)
	return fc.calls[len(fc.calls)-1]
}

func (fc *fakeCloud) callMethods() []string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	out := make([]string, len(fc.calls))
	for i, c := range fc.calls {
		out[i] = c.Method
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type discardWriter struct{}

func (*discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// newTestClient returns a client pointed at the fake cloud, already holding
// a valid session.
func newTestClient(t *testing.T, fc *fakeCloud) *Client {
	return NewClient(testLogger(),
		WithBaseURL(fc.server.URL),
		WithCredentials(&Credentials{
			Username:  "user@example.com",
			Password:  testPassword,
			Token:     testToken,
			AccountID: testAccountID,
		}),
	)
}

func TestHashPassword(t *testing.T) {
	assert.Equal(t, "098f6bcd4621d373cade4e832627b4f6", hashPassword("test"))
}

func TestLogin(t *testing.T) {
	fc := newFakeCloud(t)
	client := NewClient(testLogger(), WithBaseURL(fc.server.URL))

	creds, err := client.Login(context.Background(), "user@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, testToken, creds.Token)
	assert.Equal(t, testAccountID, creds.AccountID)
	assert.Equal(t, "US", creds.CountryCode)
	assert.True(t, client.Credentials().Authenticated())
}

func TestLoginBadPassword(t *testing.T) {
	fc := newFakeCloud(t)
	client := NewClient(testLogger(), WithBaseURL(fc.server.URL))

	_, err := client.Login(context.Background(), "user@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.IsAuthentication(err))
	assert.False(t, client.Credentials().Authenticated())
}

func TestLoginMissingInput(t *testing.T) {
	client := NewClient(testLogger())

	_, err := client.Login(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestGetDevices(t *testing.T) {
	fc := newFakeCloud(t)
	fc.devices = []DeviceConfig{
		{DeviceName: "Desk Plug", CID: "cid-1", DeviceType: "ESW15-USA", DeviceStatus: StatusOn, ConnectionStatus: ConnectionOnline},
		{DeviceName: "Bedroom Bulb", CID: "cid-2", DeviceType: "ESL100", DeviceStatus: StatusOff, ConnectionStatus: ConnectionOnline},
	}
	client := newTestClient(t, fc)

	list, err := client.GetDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Desk Plug", list[0].DeviceName)
	assert.Equal(t, "ESL100", list[1].DeviceType)
}

func TestGetDevicesRequiresLogin(t *testing.T) {
	client := NewClient(testLogger())

	_, err := client.GetDevices(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAuthentication(err))
}

func TestExpiredToken(t *testing.T) {
	fc := newFakeCloud(t)
	client := NewClient(testLogger(),
		WithBaseURL(fc.server.URL),
		WithCredentials(&Credentials{Token: "stale", AccountID: testAccountID}),
	)

	_, err := client.GetDevices(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAuthentication(err))
}

func TestLoginAPICodes(t *testing.T) {
	tests := []struct {
		name  string
		code  int64
		check func(error) bool
	}{
		{"rate limited", -11003000, errors.IsRateLimit},
		{"account missing", -11202000, errors.IsAuthentication},
		{"server busy", -11103000, errors.IsServer},
		{"unknown code", -42, errors.IsServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := newFakeCloud(t)
			fc.loginCode = tt.code
			client := NewClient(testLogger(), WithBaseURL(fc.server.URL))

			_, err := client.Login(context.Background(), "user@example.com", testPassword)
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %v", err)
		})
	}
}

func TestBypassV2(t *testing.T) {
	fc := newFakeCloud(t)
	fc.bypass = func(call bypassCall) (int64, any) {
		return 0, map[string]any{"enabled": true}
	}
	client := newTestClient(t, fc)

	var result struct {
		Enabled bool `json:"enabled"`
	}
	err := client.BypassV2(context.Background(), "cid-1", "mod", "getSwitchStatus", nil, &result)
	require.NoError(t, err)
	assert.True(t, result.Enabled)

	call := fc.lastCall()
	assert.Equal(t, "cid-1", call.CID)
	assert.Equal(t, "getSwitchStatus", call.Method)
}

func TestBypassV2DeviceError(t *testing.T) {
	fc := newFakeCloud(t)
	fc.bypass = func(call bypassCall) (int64, any) {
		return 4041004, nil
	}
	client := newTestClient(t, fc)

	err := client.BypassV2(context.Background(), "cid-1", "mod", "setSwitch", map[string]any{"enabled": true}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsDeviceOffline(err))
}

func TestBypassV2RequiresCID(t *testing.T) {
	fc := newFakeCloud(t)
	client := newTestClient(t, fc)

	err := client.BypassV2(context.Background(), "", "mod", "setSwitch", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestServerHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewClient(testLogger(),
		WithBaseURL(server.URL),
		WithCredentials(&Credentials{Token: testToken, AccountID: testAccountID}),
	)

	_, err := client.GetDevices(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsServer(err))
}
