package logger_test

import (
	"testing"

	"groupcart/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{name: "production defaults to info", mode: "prod", wantDebug: false, wantInfo: true},
		{name: "development defaults to debug", mode: "dev", wantDebug: true, wantInfo: true},
		{name: "explicit debug in production", mode: "production", level: "debug", wantDebug: true, wantInfo: true},
		{name: "explicit warn in development", mode: "dev", level: "warn", wantDebug: false, wantInfo: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.New(tt.mode, tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDebug, log.Enabled("debug"))
			assert.Equal(t, tt.wantInfo, log.Enabled("info"))
		})
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := logger.New("prod", "loud")
	assert.Error(t, err)
}
