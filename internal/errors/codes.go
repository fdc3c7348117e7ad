package errors

import "fmt"

// CodeInfo describes a known cloud API return code.
type CodeInfo struct {
	Name     string // identifier used in the vendor app source
	Message  string // human-readable description
	Category error  // sentinel from errors.go
	// Critical marks device faults (shorts, voltage, motor) that warrant a
	// warning to the user rather than just a debug entry.
	Critical bool
	// Offline indicates the device is known to be disconnected when this
	// code is returned.
	Offline bool
}

// apiCodes maps cloud API return codes to their classification. Codes are
// taken from the vendor app; the server returns them as the "code" field of
// every response envelope.
var apiCodes = map[int64]CodeInfo{
	11:         {Name: "DEVICE_OFFLINE", Message: "device offline", Category: ErrDeviceOffline, Offline: true},
	4041004:    {Name: "DEVICE_OFFLINE", Message: "device offline", Category: ErrDeviceOffline, Offline: true},
	-11300027:  {Name: "AIRPURGE_OFFLINE", Message: "device offline", Category: ErrDeviceOffline, Offline: true},
	-11200000:  {Name: "ACCOUNT_FORMAT_ERROR", Message: "account format error", Category: ErrInvalidInput},
	-11201000:  {Name: "PASSWORD_ERROR", Message: "invalid password", Category: ErrAuthentication},
	-11201022:  {Name: "PASSWORD_ERROR", Message: "invalid password", Category: ErrAuthentication},
	-11202000:  {Name: "ACCOUNT_NOT_EXIST", Message: "account does not exist", Category: ErrAuthentication},
	-11203000:  {Name: "ACCOUNT_EXIST", Message: "account already exists", Category: ErrAuthentication},
	-11001000:  {Name: "TOKEN_EXPIRED", Message: "invalid or expired token", Category: ErrAuthentication},
	-11003000:  {Name: "REQUEST_HIGH", Message: "request rate too high", Category: ErrRateLimit},
	-11005000:  {Name: "RESOURCE_NOT_EXIST", Message: "no device with ID found", Category: ErrNotFound, Offline: true},
	-11307000:  {Name: "UUID_NOT_EXIST", Message: "device UUID not found", Category: ErrNotFound, Offline: true},
	-11305000:  {Name: "CONFIG_MODULE_NOT_EXIST", Message: "config module does not exist", Category: ErrInvalidInput},
	-11100000:  {Name: "DATABASE_FAILED", Message: "database error", Category: ErrServer},
	-11103000:  {Name: "SERVER_BUSY", Message: "server busy", Category: ErrServer},
	-11104000:  {Name: "SERVER_TIMEOUT", Message: "server timeout", Category: ErrServer},
	-11106000:  {Name: "REDIS_ERROR", Message: "redis error", Category: ErrServer},
	77777777:   {Name: "NETWORK_TIMEOUT", Message: "network timeout", Category: ErrServer},
	-999999999: {Name: "UNKNOWN", Message: "unknown error", Category: ErrServer},
	-11500000:  {Name: "TIMER_NOT_EXIST", Message: "timer does not exist", Category: ErrNotFound},
	-11501000:  {Name: "TIMER_CONFLICT", Message: "timer conflict", Category: ErrDeviceUnavailable},
	-11503000:  {Name: "TIMER_MAX", Message: "maximum number of timers reached", Category: ErrInvalidInput},
	11508000:   {Name: "BYPASS_TIMER_NOT_EXIST", Message: "timer does not exist", Category: ErrNotFound},
	11503000:   {Name: "BYPASS_TIMER_MAX", Message: "maximum number of timers reached", Category: ErrInvalidInput},
	11000000:   {Name: "BYPASS_PARAMETER_INVALID", Message: "invalid bypass parameter", Category: ErrInvalidInput},
	11017000:   {Name: "BYPASS_NOT_SUPPORTED", Message: "operation not supported", Category: ErrInvalidInput},
	11007000:   {Name: "BYPASS_E2_SHORT", Message: "short circuit error", Category: ErrDeviceUnavailable, Critical: true},
	11013000:   {Name: "BYPASS_E7_VOLTAGE", Message: "voltage error", Category: ErrDeviceUnavailable, Critical: true},
	11019000:   {Name: "BYPASS_E6_VOLTAGE_LOW", Message: "low voltage error", Category: ErrDeviceUnavailable, Critical: true},
	11802000:   {Name: "BYPASS_AIRPURIFIER_MOTOR_ABNORMAL", Message: "air purifier motor error", Category: ErrDeviceUnavailable, Critical: true},
	11601000:   {Name: "BYPASS_HUMIDIFIER_ERROR_DRY_BURNING", Message: "dry burning error", Category: ErrDeviceUnavailable, Critical: true},
	11604000:   {Name: "BYPASS_HUMIDIFIER_ERROR_WATER", Message: "humidifier water error", Category: ErrDeviceUnavailable, Critical: true},
	11907000:   {Name: "BYPASS_LOW_WATER", Message: "low water error", Category: ErrDeviceUnavailable, Critical: true},
	11029000:   {Name: "BYPASS_WIFI_ERROR", Message: "device wifi error", Category: ErrDeviceUnavailable},
	4031005:    {Name: "NO_PERMISSION_7A", Message: "no 7A outlet permission", Category: ErrAuthentication},
}

// LookupCode returns the classification for a cloud API return code.
// Unknown codes are classified as ErrServer.
func LookupCode(code int64) CodeInfo {
	if info, ok := apiCodes[code]; ok {
		return info
	}
	return CodeInfo{Name: "UNKNOWN", Message: fmt.Sprintf("unrecognized api code %d", code), Category: ErrServer}
}

// FromCode converts a non-zero cloud API return code into a wrapped sentinel
// error. Code 0 means success and returns nil.
func FromCode(code int64) error {
	if code == 0 {
		return nil
	}
	info := LookupCode(code)
	return fmt.Errorf("api code %d (%s): %s: %w", code, info.Name, info.Message, info.Category)
}

// IsCritical reports whether a code indicates a critical device fault.
func IsCritical(code int64) bool {
	return LookupCode(code).Critical
}

// MarksOffline reports whether a code means the device is disconnected.
func MarksOffline(code int64) bool {
	return LookupCode(code).Offline
}
