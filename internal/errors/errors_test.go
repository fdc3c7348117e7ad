package errors

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
	}{
		{"not found", NotFoundf("device %s", "abc"), IsNotFound},
		{"invalid input", InvalidInputf("bad status %q", "nope"), IsInvalidInput},
		{"device unavailable", DeviceUnavailablef("no response"), IsDeviceUnavailable},
		{"authentication", Authenticationf("login rejected"), IsAuthentication},
		{"rate limit", RateLimitf("slow down"), IsRateLimit},
		{"device offline", DeviceOfflinef("cid %s", "xyz"), IsDeviceOffline},
		{"server", Serverf("cloud busy"), IsServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, tt.checker(tt.err))
			// A sentinel check must not match a different category.
			assert.False(t, tt.checker(Internalf("something else")))
		})
	}
}

func TestWrapErrorf(t *testing.T) {
	assert.NoError(t, WrapErrorf(nil, "context"))

	wrapped := WrapErrorf(ErrDeviceOffline, "updating device %s", "cid1")
	assert.True(t, IsDeviceOffline(wrapped))
	assert.Contains(t, wrapped.Error(), "updating device cid1")
}

func TestLogErrorAndReturn(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.NoError(t, LogErrorAndReturn(logger, nil, "nothing happened"))

	err := NotFoundf("device missing")
	assert.Equal(t, err, LogErrorAndReturn(logger, err, "lookup failed", "cid", "abc"))
}

func TestFromCode(t *testing.T) {
	assert.NoError(t, FromCode(0))

	tests := []struct {
		code    int64
		checker func(error) bool
	}{
		{-11201000, IsAuthentication},
		{-11001000, IsAuthentication},
		{-11003000, IsRateLimit},
		{4041004, IsDeviceOffline},
		{-11005000, IsNotFound},
		{-11104000, IsServer},
		{11000000, IsInvalidInput},
		{424242, IsServer}, // unknown codes fall back to server error
	}
	for _, tt := range tests {
		err := FromCode(tt.code)
		require.Error(t, err, "code %d", tt.code)
		assert.True(t, tt.checker(err), "code %d classified wrong: %v", tt.code, err)
	}
}

func TestCodeFlags(t *testing.T) {
	assert.True(t, IsCritical(11007000))
	assert.False(t, IsCritical(-11003000))
	assert.True(t, MarksOffline(4041004))
	assert.False(t, MarksOffline(-11104000))

	info := LookupCode(-11500000)
	assert.Equal(t, "TIMER_NOT_EXIST", info.Name)
}
