package logger_test

import (
	"testing"

	"storage-init/core/logger"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  logger.Config
	}{
		{"ProductionJSON", logger.Config{Level: "info", Format: "json"}},
		{"DevelopmentConsole", logger.Config{Level: "debug", Format: "console"}},
		{"DefaultsToJSON", logger.Config{Level: "warn"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(&tt.cfg)
			assert.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}
