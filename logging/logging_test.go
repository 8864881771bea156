package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/milk9111/brawler/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Logging
		enabled zapcore.Level
		muted   zapcore.Level
		wantErr bool
	}{
		{name: "console_info", cfg: config.Logging{Level: "info", Format: "console"}, enabled: zapcore.InfoLevel, muted: zapcore.DebugLevel},
		{name: "json_warn", cfg: config.Logging{Level: "warn", Format: "json"}, enabled: zapcore.WarnLevel, muted: zapcore.InfoLevel},
		{name: "bad_level", cfg: config.Logging{Level: "loud", Format: "json"}, wantErr: true},
		{name: "bad_format", cfg: config.Logging{Level: "info", Format: "xml"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.muted))
		})
	}
}
