package vesync

import "encoding/json"

// responseEnvelope is the outer shape of every cloud API response.
type responseEnvelope struct {
	TraceID string          `json:"traceId"`
	Code    int64           `json:"code"`
	Msg     string          `json:"msg"`
	Result  json.RawMessage `json:"result"`
}

// loginResult is the payload returned by a successful login.
type loginResult struct {
	Token       string `json:"token"`
	AccountID   string `json:"accountID"`
	CountryCode string `json:"countryCode"`
	NickName    string `json:"nickName"`
	AcceptLang  string `json:"acceptLanguage"`
}

// DeviceConfig is one entry of the cloud device list. It carries everything
// needed to instantiate and address a device.
type DeviceConfig struct {
	DeviceName       string `json:"deviceName"`
	CID              string `json:"cid"`
	UUID             string `json:"uuid"`
	MacID            string `json:"macID"`
	DeviceType       string `json:"deviceType"`
	Type             string `json:"type"`
	ConfigModule     string `json:"configModule"`
	DeviceStatus     string `json:"deviceStatus"`
	ConnectionStatus string `json:"connectionStatus"`
	ConnectionType   string `json:"connectionType"`
	CurrentFirmware  string `json:"currentFirmVersion"`
	SubDeviceNo      int    `json:"subDeviceNo"`
	DeviceRegion     string `json:"deviceRegion"`
}

// deviceListResult is the payload of the device list endpoint.
type deviceListResult struct {
	Total int            `json:"total"`
	List  []DeviceConfig `json:"list"`
}

// bypassPayload is the inner payload of a bypassV2 control request.
type bypassPayload struct {
	Method string         `json:"method"`
	Source string         `json:"source"`
	Data   map[string]any `json:"data"`
}

// TimerConfig is the wire shape of a device timer as the cloud reports it.
type TimerConfig struct {
	ID        int    `json:"id"`
	Remaining int64  `json:"remain"`
	Total     int64  `json:"total"`
	Action    string `json:"action"`
	Status    string `json:"status"`
}

// timerListResult is the payload of a getTimer call.
type timerListResult struct {
	Timers []TimerConfig `json:"timers"`
}

// addTimerResult is the payload of an addTimer call.
type addTimerResult struct {
	ID int `json:"id"`
}

// Connection status values reported by the cloud.
const (
	ConnectionOnline  = "online"
	ConnectionOffline = "offline"
)

// Device power status values.
const (
	StatusOn  = "on"
	StatusOff = "off"
)
