package vesync

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jmylchreest/vesyncd/internal/errors"
)

// Cloud API constants, matching what the vendor app sends.
const (
	DefaultBaseURL = "https://smartapi.vesync.com"
	// The cloud responds with its own timeout after 7s when a device is out
	// of reach; 8s leaves room to receive that message.
	DefaultTimeout = 8 * time.Second

	appVersion = "2.8.6"
	phoneBrand = "SM N9005"
	phoneOS    = "Android"
	userType   = "1"
	userAgent  = "vesyncd/1.0 (+https://github.com/jmylchreest/vesyncd)"

	loginPath      = "/cloud/v1/user/login"
	deviceListPath = "/cloud/v2/deviceManaged/devices"
	bypassV2Path   = "/cloud/v2/deviceManaged/bypassV2"
)

// Client handles HTTP communication with the vendor cloud API. It owns the
// session token after Login and stamps every request with the headers the
// cloud expects.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	timeZone   string
	terminalID string

	creds *Credentials
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the cloud endpoint; tests point this at a local server.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeZone sets the IANA time zone sent with every request.
func WithTimeZone(tz string) ClientOption {
	return func(c *Client) { c.timeZone = tz }
}

// WithCredentials seeds the client with previously stored credentials,
// skipping the need to call Login when the token is still valid.
func WithCredentials(creds *Credentials) ClientOption {
	return func(c *Client) { c.creds = creds }
}

// NewClient creates a cloud API client.
func NewClient(logger *slog.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger,
		timeZone:   "America/New_York",
		// The vendor app identifies each install with a '2'-prefixed ID.
		terminalID: "2" + uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials returns the client's current credentials, nil before login.
func (c *Client) Credentials() *Credentials {
	return c.creds
}

// hashPassword returns the MD5 hex digest the login endpoint expects.
// Weak by modern standards, but it is what the cloud API requires.
func hashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// baseBody returns the request fields common to every authenticated call.
func (c *Client) baseBody() map[string]any {
	body := map[string]any{
		"acceptLanguage": "en",
		"appVersion":     appVersion,
		"phoneBrand":     phoneBrand,
		"phoneOS":        phoneOS,
		"timeZone":       c.timeZone,
		"traceId":        strconv.FormatInt(time.Now().Unix(), 10),
		"terminalId":     c.terminalID,
	}
	if c.creds != nil {
		body["accountID"] = c.creds.AccountID
		body["token"] = c.creds.Token
	}
	return body
}

// post sends a JSON request and decodes the response envelope, translating
// non-zero API codes into sentinel errors. The result payload, if any, is
// decoded into out when out is non-nil.
func (c *Client) post(ctx context.Context, path string, body map[string]any, out any) error {
	url := c.baseURL + path

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.creds != nil && c.creds.Token != "" {
		req.Header.Set("tk", c.creds.Token)
		req.Header.Set("accountid", c.creds.AccountID)
	}
	req.Header.Set("tz", c.timeZone)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("cloud: request failed", "url", url, "error", err)
		return errors.DeviceUnavailablef("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := errors.Serverf("unexpected status code %d from %s", resp.StatusCode, path)
		c.logger.Error("cloud: request failed", "url", url, "status", resp.StatusCode)
		return err
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.logger.Error("cloud: decode failed", "url", url, "error", err)
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if envelope.Code != 0 {
		apiErr := errors.FromCode(envelope.Code)
		if errors.IsCritical(envelope.Code) {
			c.logger.Warn("cloud: critical device error", "url", url, "code", envelope.Code, "msg", envelope.Msg)
		} else {
			c.logger.Debug("cloud: api error", "url", url, "code", envelope.Code, "msg", envelope.Msg)
		}
		return apiErr
	}

	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to decode result payload: %w", err)
		}
	}

	c.logger.Debug("cloud: response", "url", url, "traceId", envelope.TraceID)
	return nil
}

// Login authenticates against the cloud and stores the resulting token and
// account ID on the client. The password is sent as an MD5 digest, per the
// vendor protocol.
func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	if username == "" || password == "" {
		return nil, errors.InvalidInputf("username and password are required")
	}

	body := c.baseBody()
	body["email"] = username
	body["password"] = hashPassword(password)
	body["devToken"] = ""
	body["userType"] = userType
	body["method"] = "login"
	// No token yet; the login call is unauthenticated.
	delete(body, "accountID")
	body["token"] = ""

	var result loginResult
	if err := c.post(ctx, loginPath, body, &result); err != nil {
		return nil, errors.WrapErrorf(err, "login failed for %s", username)
	}
	if result.Token == "" || result.AccountID == "" {
		return nil, errors.Authenticationf("login response missing token or account ID")
	}

	c.creds = &Credentials{
		Username:    username,
		Password:    password,
		AccountID:   result.AccountID,
		Token:       result.Token,
		CountryCode: result.CountryCode,
	}
	c.logger.Info("cloud: logged in", "account", result.AccountID, "country", result.CountryCode)
	return c.creds, nil
}

// GetDevices fetches the account's device list.
func (c *Client) GetDevices(ctx context.Context) ([]DeviceConfig, error) {
	if !c.creds.Authenticated() {
		return nil, errors.Authenticationf("not logged in")
	}

	body := c.baseBody()
	body["method"] = "devices"
	body["pageNo"] = "1"
	body["pageSize"] = "100"

	var result deviceListResult
	if err := c.post(ctx, deviceListPath, body, &result); err != nil {
		return nil, errors.WrapErrorf(err, "device list fetch failed")
	}

	c.logger.Debug("cloud: device list", "total", result.Total, "returned", len(result.List))
	return result.List, nil
}

// BypassV2 sends a device control or query call through the bypassV2
// endpoint. method is the device-level operation (e.g. "setSwitch",
// "getTimer"); data is its argument map. The result payload is decoded into
// out when non-nil.
func (c *Client) BypassV2(ctx context.Context, cid, configModule, method string, data map[string]any, out any) error {
	if !c.creds.Authenticated() {
		return errors.Authenticationf("not logged in")
	}
	if cid == "" {
		return errors.InvalidInputf("device cid is required")
	}
	if data == nil {
		data = map[string]any{}
	}

	body := c.baseBody()
	body["method"] = "bypassV2"
	body["cid"] = cid
	body["configModule"] = configModule
	body["debugMode"] = false
	body["payload"] = bypassPayload{
		Method: method,
		Source: "APP",
		Data:   data,
	}

	// bypassV2 wraps the device reply in an inner {code, result} envelope.
	var inner struct {
		Code   int64           `json:"code"`
		Result json.RawMessage `json:"result"`
	}
	if err := c.post(ctx, bypassV2Path, body, &inner); err != nil {
		return errors.WrapErrorf(err, "bypassV2 %s failed for %s", method, cid)
	}
	if inner.Code != 0 {
		return errors.WrapErrorf(errors.FromCode(inner.Code), "device %s rejected %s", cid, method)
	}
	if out != nil && len(inner.Result) > 0 {
		if err := json.Unmarshal(inner.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}
