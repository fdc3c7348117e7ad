package vesync

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jmylchreest/vesyncd/internal/errors"
	"github.com/jmylchreest/vesyncd/internal/events"
)

// Manager owns the device registry for one account: it logs in, discovers
// devices, keeps their state fresh and publishes change events on the bus.
type Manager struct {
	client *Client
	logger *slog.Logger
	bus    *events.Bus

	credsPath string

	mu      sync.RWMutex
	devices map[string]Device // keyed by cid
	lastSync time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithEventBus attaches an event bus; device add/remove/state events are
// published to it.
func WithEventBus(bus *events.Bus) ManagerOption {
	return func(m *Manager) { m.bus = bus }
}

// WithCredentialsPath sets the file used to persist the session token across
// restarts.
func WithCredentialsPath(path string) ManagerOption {
	return func(m *Manager) { m.credsPath = path }
}

// NewManager creates a Manager around an API client.
func NewManager(client *Client, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		client:  client,
		logger:  logger,
		devices: make(map[string]Device),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login authenticates with the cloud. When username is empty, stored
// credentials are used instead; a fresh token is persisted when a credentials
// path is configured.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if username == "" && m.credsPath != "" {
		stored, err := LoadCredentials(m.credsPath)
		if err != nil {
			return errors.WrapErrorf(err, "no username given and no stored credentials")
		}
		username, password = stored.Username, stored.Password
	}

	creds, err := m.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if m.credsPath != "" {
		if err := creds.Save(m.credsPath); err != nil {
			m.logger.Warn("manager: failed to persist credentials", "error", err)
		}
	}
	return nil
}

// Authenticated reports whether the underlying client holds a session token.
func (m *Manager) Authenticated() bool {
	return m.client.Credentials().Authenticated()
}

// Update fetches the device list and reconciles the local registry: new
// devices are instantiated from their model spec, known devices are refreshed
// in place, and devices no longer listed are dropped. Models the registry
// does not know are skipped with a warning.
func (m *Manager) Update(ctx context.Context) error {
	configs, err := m.client.GetDevices(ctx)
	if err != nil {
		return errors.LogErrorAndReturn(m.logger, err, "manager: device list update failed")
	}

	m.mu.Lock()
	seen := make(map[string]bool, len(configs))
	var added, removed []Device

	for _, cfg := range configs {
		if cfg.CID == "" {
			continue
		}
		seen[cfg.CID] = true

		if existing, ok := m.devices[cfg.CID]; ok {
			if bd, ok := existing.(interface{ refreshFromConfig(DeviceConfig) }); ok {
				bd.refreshFromConfig(cfg)
			}
			continue
		}

		dev, err := m.buildDevice(cfg)
		if err != nil {
			m.logger.Warn("manager: skipping device",
				"cid", cfg.CID, "model", cfg.DeviceType, "error", err)
			continue
		}
		m.devices[cfg.CID] = dev
		added = append(added, dev)
	}

	for cid, dev := range m.devices {
		if !seen[cid] {
			delete(m.devices, cid)
			removed = append(removed, dev)
		}
	}
	m.lastSync = time.Now()
	m.mu.Unlock()

	for _, dev := range added {
		m.logger.Info("manager: device added",
			"cid", dev.CID(), "name", dev.Name(), "model", dev.Model(), "type", dev.ProductType())
		m.publish(events.DeviceAdded, dev)
	}
	for _, dev := range removed {
		m.logger.Info("manager: device removed", "cid", dev.CID(), "name", dev.Name())
		m.publish(events.DeviceRemoved, dev)
	}
	return nil
}

// UpdateAll runs Update and then refreshes the detailed state of every
// device. Per-device failures are logged and skipped so one offline device
// does not abort the sweep.
func (m *Manager) UpdateAll(ctx context.Context) error {
	if err := m.Update(ctx); err != nil {
		return err
	}
	for _, dev := range m.Devices() {
		if !dev.Online() {
			continue
		}
		if err := dev.Update(ctx); err != nil {
			m.logger.Warn("manager: device refresh failed", "cid", dev.CID(), "error", err)
			continue
		}
		m.publish(events.DeviceStateChanged, dev)
	}
	return nil
}

// buildDevice instantiates the concrete type for a device-list entry.
func (m *Manager) buildDevice(cfg DeviceConfig) (Device, error) {
	spec, ok := LookupDeviceSpec(cfg.DeviceType)
	if !ok {
		return nil, errors.NotFoundf("unsupported model %q", cfg.DeviceType)
	}

	switch spec.ProductType {
	case ProductOutlet:
		return NewOutlet(cfg, spec, m.client, m.logger), nil
	case ProductSwitch:
		return NewSwitch(cfg, spec, m.client, m.logger), nil
	case ProductBulb:
		return NewBulb(cfg, spec, m.client, m.logger), nil
	case ProductFan:
		return NewFan(cfg, spec, m.client, m.logger), nil
	case ProductHumidifier:
		return NewHumidifier(cfg, spec, m.client, m.logger), nil
	case ProductPurifier:
		return NewPurifier(cfg, spec, m.client, m.logger), nil
	default:
		return nil, errors.Internalf("registry has no constructor for %s", spec.ProductType)
	}
}

func (m *Manager) publish(t events.EventType, dev Device) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(events.NewEvent(t, dev.Display()))
}

// GetDevice returns the device with the given cid.
func (m *Manager) GetDevice(cid string) (Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dev, ok := m.devices[cid]
	if !ok {
		return nil, errors.NotFoundf("device %s", cid)
	}
	return dev, nil
}

// Devices returns all known devices sorted by name.
func (m *Manager) Devices() []Device {
	m.mu.RLock()
	out := make([]Device, 0, len(m.devices))
	for _, dev := range m.devices {
		out = append(out, dev)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// DevicesByType returns the devices of one product type, sorted by name.
func (m *Manager) DevicesByType(pt ProductType) []Device {
	all := m.Devices()
	out := all[:0]
	for _, dev := range all {
		if dev.ProductType() == pt {
			out = append(out, dev)
		}
	}
	return out
}

// Outlets returns the known outlets.
func (m *Manager) Outlets() []*Outlet {
	var out []*Outlet
	for _, dev := range m.DevicesByType(ProductOutlet) {
		if o, ok := dev.(*Outlet); ok {
			out = append(out, o)
		}
	}
	return out
}

// Switches returns the known wall switches.
func (m *Manager) Switches() []*Switch {
	var out []*Switch
	for _, dev := range m.DevicesByType(ProductSwitch) {
		if s, ok := dev.(*Switch); ok {
			out = append(out, s)
		}
	}
	return out
}

// Bulbs returns the known bulbs.
func (m *Manager) Bulbs() []*Bulb {
	var out []*Bulb
	for _, dev := range m.DevicesByType(ProductBulb) {
		if b, ok := dev.(*Bulb); ok {
			out = append(out, b)
		}
	}
	return out
}

// Fans returns the known tower fans.
func (m *Manager) Fans() []*Fan {
	var out []*Fan
	for _, dev := range m.DevicesByType(ProductFan) {
		if f, ok := dev.(*Fan); ok {
			out = append(out, f)
		}
	}
	return out
}

// Humidifiers returns the known humidifiers.
func (m *Manager) Humidifiers() []*Humidifier {
	var out []*Humidifier
	for _, dev := range m.DevicesByType(ProductHumidifier) {
		if h, ok := dev.(*Humidifier); ok {
			out = append(out, h)
		}
	}
	return out
}

// Purifiers returns the known air purifiers.
func (m *Manager) Purifiers() []*Purifier {
	var out []*Purifier
	for _, dev := range m.DevicesByType(ProductPurifier) {
		if p, ok := dev.(*Purifier); ok {
			out = append(out, p)
		}
	}
	return out
}

// LastSync returns when the device list was last reconciled.
func (m *Manager) LastSync() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync
}
