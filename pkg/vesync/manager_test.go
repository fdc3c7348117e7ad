package vesync

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/vesyncd/internal/errors"
	"github.com/jmylchreest/vesyncd/internal/events"
)

func TestManagerUpdate(t *testing.T) {
	fc := newFakeCloud(t)
	fc.devices = []DeviceConfig{
		deviceConfig("cid-outlet", "ESW15-USA"),
		deviceConfig("cid-bulb", "ESL100"),
		deviceConfig("cid-unknown", "NOT-A-MODEL"),
	}

	bus := events.NewBus()
	var published []events.Event
	bus.Subscribe(func(e events.Event) { published = append(published, e) })

	mgr := NewManager(newTestClient(t, fc), testLogger(), WithEventBus(bus))
	require.NoError(t, mgr.Update(context.Background()))

	devices := mgr.Devices()
	require.Len(t, devices, 2, "unknown model should be skipped")

	_, err := mgr.GetDevice("cid-outlet")
	require.NoError(t, err)
	_, err = mgr.GetDevice("cid-unknown")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	require.Len(t, published, 2)
	for _, e := range published {
		assert.Equal(t, events.DeviceAdded, e.Type)
	}
	assert.False(t, mgr.LastSync().IsZero())
}

func TestManagerRemovesMissingDevices(t *testing.T) {
	fc := newFakeCloud(t)
	fc.devices = []DeviceConfig{
		deviceConfig("cid-1", "ESW15-USA"),
		deviceConfig("cid-2", "ESL100"),
	}

	bus := events.NewBus()
	var published []events.Event
	bus.Subscribe(func(e events.Event) { published = append(published, e) })

	mgr := NewManager(newTestClient(t, fc), testLogger(), WithEventBus(bus))
	require.NoError(t, mgr.Update(context.Background()))
	require.Len(t, mgr.Devices(), 2)

	fc.mu.Lock()
	fc.devices = fc.devices[:1]
	fc.mu.Unlock()
	published = published[:0]

	require.NoError(t, mgr.Update(context.Background()))
	assert.Len(t, mgr.Devices(), 1)

	_, err := mgr.GetDevice("cid-2")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	require.Len(t, published, 1)
	assert.Equal(t, events.DeviceRemoved, published[0].Type)
}

func TestManagerRefreshesExistingDevices(t *testing.T) {
	fc := newFakeCloud(t)
	cfg := deviceConfig("cid-1", "ESW15-USA")
	fc.devices = []DeviceConfig{cfg}

	mgr := NewManager(newTestClient(t, fc), testLogger())
	require.NoError(t, mgr.Update(context.Background()))

	dev, err := mgr.GetDevice("cid-1")
	require.NoError(t, err)
	assert.False(t, dev.IsOn())

	cfg.DeviceStatus = StatusOn
	cfg.ConnectionStatus = ConnectionOffline
	fc.mu.Lock()
	fc.devices = []DeviceConfig{cfg}
	fc.mu.Unlock()

	require.NoError(t, mgr.Update(context.Background()))
	refreshed, err := mgr.GetDevice("cid-1")
	require.NoError(t, err)
	assert.Same(t, dev, refreshed, "existing device should be refreshed in place")
	assert.True(t, refreshed.IsOn())
	assert.False(t, refreshed.Online())
}

func TestManagerTypedAccessors(t *testing.T) {
	fc := newFakeCloud(t)
	fc.devices = []DeviceConfig{
		deviceConfig("cid-1", "ESW15-USA"),
		deviceConfig("cid-2", "ESWD16"),
		deviceConfig("cid-3", "XYD0001"),
		deviceConfig("cid-4", "LTF-F422S-WUS"),
		deviceConfig("cid-5", "Classic300S"),
		deviceConfig("cid-6", "Core300S"),
	}

	mgr := NewManager(newTestClient(t, fc), testLogger())
	require.NoError(t, mgr.Update(context.Background()))

	assert.Len(t, mgr.Outlets(), 1)
	assert.Len(t, mgr.Switches(), 1)
	assert.Len(t, mgr.Bulbs(), 1)
	assert.Len(t, mgr.Fans(), 1)
	assert.Len(t, mgr.Humidifiers(), 1)
	assert.Len(t, mgr.Purifiers(), 1)
}

func TestManagerUpdateAllPublishesStateEvents(t *testing.T) {
	fc := newFakeCloud(t)
	online := deviceConfig("cid-1", "ESW15-USA")
	offline := deviceConfig("cid-2", "ESW15-USA")
	offline.ConnectionStatus = ConnectionOffline
	fc.devices = []DeviceConfig{online, offline}

	bus := events.NewBus()
	var stateEvents int
	bus.Subscribe(func(e events.Event) {
		if e.Type == events.DeviceStateChanged {
			stateEvents++
		}
	})

	mgr := NewManager(newTestClient(t, fc), testLogger(), WithEventBus(bus))
	require.NoError(t, mgr.UpdateAll(context.Background()))

	assert.Equal(t, 1, stateEvents, "offline devices are not polled")
	assert.Contains(t, fc.callMethods(), "getOutletStatus")
}

func TestManagerLoginPersistsCredentials(t *testing.T) {
	fc := newFakeCloud(t)
	credsPath := filepath.Join(t.TempDir(), "credentials.json")

	client := NewClient(testLogger(), WithBaseURL(fc.server.URL))
	mgr := NewManager(client, testLogger(), WithCredentialsPath(credsPath))

	require.NoError(t, mgr.Login(context.Background(), "user@example.com", testPassword))
	require.True(t, mgr.Authenticated())

	saved, err := LoadCredentials(credsPath)
	require.NoError(t, err)
	assert.Equal(t, testToken, saved.Token)

	// A fresh manager logs in from the stored file when no username is given.
	client2 := NewClient(testLogger(), WithBaseURL(fc.server.URL))
	mgr2 := NewManager(client2, testLogger(), WithCredentialsPath(credsPath))
	require.NoError(t, mgr2.Login(context.Background(), "", ""))
	assert.True(t, mgr2.Authenticated())
}

func TestManagerLoginNoStoredCredentials(t *testing.T) {
	fc := newFakeCloud(t)
	client := NewClient(testLogger(), WithBaseURL(fc.server.URL))
	mgr := NewManager(client, testLogger(),
		WithCredentialsPath(filepath.Join(t.TempDir(), "missing.json")))

	err := mgr.Login(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
