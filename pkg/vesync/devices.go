package vesync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/vesyncd/internal/errors"
)

// Device is the behavior shared by every appliance kind. Concrete types
// (Outlet, Switch, Bulb, Fan, Humidifier, Purifier) add their own setters on
// top of this surface.
type Device interface {
	CID() string
	UUID() string
	Name() string
	Model() string
	ProductType() ProductType
	Spec() DeviceSpec
	IsOn() bool
	Online() bool

	// TurnOn and TurnOff toggle device power through the cloud.
	TurnOn(ctx context.Context) error
	TurnOff(ctx context.Context) error

	// Update refreshes type-specific details from the cloud.
	Update(ctx context.Context) error

	// Timer returns the locally tracked countdown timer, nil when none is
	// armed. SetTimer arms a new cloud timer, FetchTimer reconciles the
	// local timer against what the cloud reports, ClearTimer removes it.
	// SetTimer and FetchTimer return snapshots taken under the device lock;
	// the shared *Timer never leaves it.
	Timer() *Timer
	SetTimer(ctx context.Context, seconds int64, action string) (*TimerInfo, error)
	FetchTimer(ctx context.Context) (*TimerInfo, error)
	ClearTimer(ctx context.Context) error

	// Display returns a flattened view of the device for transports.
	Display() map[string]any
}

// baseDevice carries identity, connection state and the countdown timer.
// Its mutex is the external lock the Timer contract requires: the Timer
// itself is a plain value object.
type baseDevice struct {
	cid          string
	uuid         string
	name         string
	model        string
	configModule string
	macID        string
	subDeviceNo  int
	firmware     string

	spec   DeviceSpec
	client *Client
	logger *slog.Logger

	mu         sync.RWMutex
	status     string // on / off
	connection string // online / offline
	lastSeen   time.Time
	timer      *Timer
}

func newBaseDevice(cfg DeviceConfig, spec DeviceSpec, client *Client, logger *slog.Logger) baseDevice {
	if logger == nil {
		logger = slog.Default()
	}
	return baseDevice{
		cid:          cfg.CID,
		uuid:         cfg.UUID,
		name:         cfg.DeviceName,
		model:        cfg.DeviceType,
		configModule: cfg.ConfigModule,
		macID:        cfg.MacID,
		subDeviceNo:  cfg.SubDeviceNo,
		firmware:     cfg.CurrentFirmware,
		spec:         spec,
		client:       client,
		logger:       logger,
		status:       cfg.DeviceStatus,
		connection:   cfg.ConnectionStatus,
		lastSeen:     time.Now(),
	}
}

func (d *baseDevice) CID() string              { return d.cid }
func (d *baseDevice) UUID() string             { return d.uuid }
func (d *baseDevice) Name() string             { return d.name }
func (d *baseDevice) Model() string            { return d.model }
func (d *baseDevice) ProductType() ProductType { return d.spec.ProductType }
func (d *baseDevice) Spec() DeviceSpec         { return d.spec }

func (d *baseDevice) IsOn() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status == StatusOn
}

func (d *baseDevice) Online() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connection == ConnectionOnline
}

// refreshFromConfig folds a fresh device-list entry into local state.
func (d *baseDevice) refreshFromConfig(cfg DeviceConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.name = cfg.DeviceName
	d.firmware = cfg.CurrentFirmware
	d.status = cfg.DeviceStatus
	d.connection = cfg.ConnectionStatus
	d.lastSeen = time.Now()
}

// setSwitch toggles power via bypassV2 and records the new status.
func (d *baseDevice) setSwitch(ctx context.Context, on bool) error {
	err := d.client.BypassV2(ctx, d.cid, d.configModule, "setSwitch", map[string]any{
		"enabled": on,
		"id":      0,
	}, nil)
	if err != nil {
		return errors.LogErrorAndReturn(d.logger, err, "device: setSwitch failed",
			"cid", d.cid, "on", on)
	}

	d.mu.Lock()
	if on {
		d.status = StatusOn
	} else {
		d.status = StatusOff
	}
	d.lastSeen = time.Now()
	d.mu.Unlock()

	d.logger.Debug("device: power set", "cid", d.cid, "on", on)
	return nil
}

func (d *baseDevice) TurnOn(ctx context.Context) error  { return d.setSwitch(ctx, true) }
func (d *baseDevice) TurnOff(ctx context.Context) error { return d.setSwitch(ctx, false) }

// Timer returns the locally tracked timer, nil when none is armed.
func (d *baseDevice) Timer() *Timer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.timer
}

// SetTimer arms a countdown on the device. The cloud owns the authoritative
// timer; a local Timer mirrors it so callers can poll remaining time without
// another API round trip. The returned snapshot is taken before the lock is
// released.
func (d *baseDevice) SetTimer(ctx context.Context, seconds int64, action string) (*TimerInfo, error) {
	if seconds <= 0 {
		return nil, errors.InvalidInputf("timer duration %d must be positive", seconds)
	}
	if action == "" {
		action = StatusOff
	}

	var result addTimerResult
	err := d.client.BypassV2(ctx, d.cid, d.configModule, "addTimer", map[string]any{
		"total":  seconds,
		"action": action,
	}, &result)
	if err != nil {
		return nil, errors.LogErrorAndReturn(d.logger, err, "device: addTimer failed",
			"cid", d.cid, "seconds", seconds)
	}

	opts := []TimerOption{}
	if result.ID != 0 {
		opts = append(opts, WithTimerID(result.ID))
	}
	timer := NewTimer(seconds, action, opts...)

	d.mu.Lock()
	d.timer = timer
	info := timer.Info()
	d.mu.Unlock()

	d.logger.Info("device: timer armed", "cid", d.cid, "seconds", seconds, "action", action)
	return &info, nil
}

// FetchTimer queries the cloud for the device's timer and reconciles the
// local Timer with the reported remaining time and status. When the cloud
// has no timer, any local timer is discarded and nil is returned.
func (d *baseDevice) FetchTimer(ctx context.Context) (*TimerInfo, error) {
	var result timerListResult
	err := d.client.BypassV2(ctx, d.cid, d.configModule, "getTimer", map[string]any{}, &result)
	if err != nil {
		return nil, errors.LogErrorAndReturn(d.logger, err, "device: getTimer failed", "cid", d.cid)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(result.Timers) == 0 {
		d.timer = nil
		return nil, nil
	}

	// Devices expose at most one countdown timer.
	cfg := result.Timers[0]
	if d.timer == nil || d.timer.ID != cfg.ID {
		d.timer = NewTimer(cfg.Total, cfg.Action,
			WithTimerID(cfg.ID), WithTimerRemaining(cfg.Remaining))
	}

	remaining := cfg.Remaining
	status := TimerStatus(cfg.Status)
	if status == "" {
		status = TimerActive
	}
	if err := d.timer.Update(&remaining, status); err != nil {
		return nil, errors.LogErrorAndReturn(d.logger, err, "device: timer status rejected",
			"cid", d.cid, "status", cfg.Status)
	}
	info := d.timer.Info()
	return &info, nil
}

// ClearTimer deletes the device timer on the cloud and ends the local one.
func (d *baseDevice) ClearTimer(ctx context.Context) error {
	d.mu.RLock()
	timer := d.timer
	d.mu.RUnlock()
	if timer == nil {
		return errors.NotFoundf("no timer on device %s", d.cid)
	}

	err := d.client.BypassV2(ctx, d.cid, d.configModule, "delTimer", map[string]any{
		"id": timer.ID,
	}, nil)
	if err != nil {
		return errors.LogErrorAndReturn(d.logger, err, "device: delTimer failed", "cid", d.cid)
	}

	// End the captured timer, not d.timer: a concurrent FetchTimer that
	// found no cloud timer may have discarded it in the meantime.
	d.mu.Lock()
	timer.End()
	if d.timer == timer {
		d.timer = nil
	}
	d.mu.Unlock()

	d.logger.Info("device: timer cleared", "cid", d.cid)
	return nil
}

// display returns the fields common to every product type. Concrete types
// extend this map with their own state.
func (d *baseDevice) display() map[string]any {
	// Write lock: reading the timer recomputes its remaining time in place.
	d.mu.Lock()
	defer d.mu.Unlock()

	out := map[string]any{
		"cid":          d.cid,
		"uuid":         d.uuid,
		"name":         d.name,
		"model":        d.model,
		"product_type": string(d.spec.ProductType),
		"status":       d.status,
		"connection":   d.connection,
		"firmware":     d.firmware,
		"last_seen":    d.lastSeen,
	}
	if d.timer != nil {
		out["timer"] = map[string]any{
			"id":        d.timer.ID,
			"duration":  d.timer.Duration,
			"action":    d.timer.Action,
			"remaining": d.timer.TimeRemaining(),
			"status":    string(d.timer.Status()),
		}
	}
	return out
}
