package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceListParseable(t *testing.T) {
	mock := newMockClient()

	out, err := runCommand(t, mock, "device", "list", "-o", "parseable")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `cid="cid-outlet"`)
	assert.Contains(t, lines[0], `status="on"`)
	assert.Contains(t, lines[0], "voltage=121.5")
	assert.Contains(t, lines[1], `cid="cid-bulb"`)
	assert.Contains(t, lines[1], "brightness=40")
}

func TestDeviceListYAML(t *testing.T) {
	mock := newMockClient()

	out, err := runCommand(t, mock, "device", "list", "-o", "yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "cid: cid-outlet")
	assert.Contains(t, out, "name: Desk Plug")
}

func TestDeviceGetProperty(t *testing.T) {
	mock := newMockClient()

	out, err := runCommand(t, mock, "device", "get", "cid-bulb", "brightness", "-o", "parseable")
	require.NoError(t, err)
	assert.Equal(t, "brightness=40", strings.TrimSpace(out))
}

func TestDeviceGetUnknownProperty(t *testing.T) {
	mock := newMockClient()

	_, err := runCommand(t, mock, "device", "get", "cid-bulb", "wattage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid property")
}

func TestDeviceGetUnknownDevice(t *testing.T) {
	mock := newMockClient()

	_, err := runCommand(t, mock, "device", "get", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource not found")
}

func TestDeviceSet(t *testing.T) {
	mock := newMockClient()

	_, err := runCommand(t, mock, "device", "set", "cid-bulb", "brightness", "75")
	require.NoError(t, err)

	require.Len(t, mock.setCalls, 1)
	assert.Equal(t, "cid-bulb", mock.setCalls[0]["cid"])
	assert.Equal(t, 75, mock.setCalls[0]["brightness"])
}

func TestDeviceSetRejectsUnknownProperty(t *testing.T) {
	mock := newMockClient()

	_, err := runCommand(t, mock, "device", "set", "cid-bulb", "wattage", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid property")
	assert.Empty(t, mock.setCalls)
}

func TestDeviceOnOff(t *testing.T) {
	mock := newMockClient()

	_, err := runCommand(t, mock, "device", "on", "cid-outlet")
	require.NoError(t, err)
	_, err = runCommand(t, mock, "device", "off", "cid-outlet")
	require.NoError(t, err)

	require.Len(t, mock.setCalls, 2)
	assert.Equal(t, true, mock.setCalls[0]["on"])
	assert.Equal(t, false, mock.setCalls[1]["on"])
}

func TestSyncCommand(t *testing.T) {
	mock := newMockClient()

	_, err := runCommand(t, mock, "sync")
	require.NoError(t, err)
	assert.True(t, mock.synced)
}
