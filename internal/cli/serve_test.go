package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/emissionmission/internal/session"
)

func TestServe_RejectsSessionTTL(t *testing.T) {
	tests := []struct {
		name    string
		ttl     string
		wantErr error
		wantMsg string
	}{
		{name: "below minimum", ttl: "10s", wantErr: session.ErrInvalidTTL},
		{name: "above maximum", ttl: "720h", wantErr: session.ErrInvalidTTL},
		{name: "not a duration", ttl: "soon", wantMsg: "invalid TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, err := executeCmd(t, "serve", "--addr", "127.0.0.1:0", "--session-ttl", tt.ttl)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "session ttl")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
