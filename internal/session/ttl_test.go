package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTTLConfig(t *testing.T) {
	tests := []struct {
		seconds int
		wantErr bool
	}{
		{seconds: 60},
		{seconds: 3600},
		{seconds: 604800},
		{seconds: 59, wantErr: true},
		{seconds: 604801, wantErr: true},
		{seconds: 0, wantErr: true},
	}
	for _, tt := range tests {
		cfg, err := NewTTLConfig(tt.seconds)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrInvalidTTL)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, time.Duration(tt.seconds)*time.Second, cfg.Duration)
	}
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "90", want: 90},
		{in: "90s", want: 90},
		{in: "15m", want: 900},
		{in: "2h", want: 7200},
		{in: "10s", wantErr: true},
		{in: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg, err := ParseTTL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Seconds)
		})
	}
}

func TestParseTTLSeconds(t *testing.T) {
	secs, err := ParseTTLSeconds("10s")
	require.NoError(t, err)
	assert.Equal(t, 10, secs)

	secs, err = ParseTTLSeconds(" 1h ")
	require.NoError(t, err)
	assert.Equal(t, 3600, secs)

	_, err = ParseTTLSeconds("soon")
	require.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{12 * time.Minute, "12m"},
		{3 * time.Hour, "3h"},
		{3*time.Hour + 5*time.Minute, "3h 5m"},
		{48 * time.Hour, "2d"},
		{52 * time.Hour, "2d 4h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}
