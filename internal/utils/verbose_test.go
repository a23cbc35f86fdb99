package utils

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetVerbosity(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(previous)
	})

	tests := []struct {
		verbose int
		want    zerolog.Level
	}{
		{0, zerolog.Disabled},
		{1, zerolog.PanicLevel},
		{2, zerolog.FatalLevel},
		{3, zerolog.ErrorLevel},
		{4, zerolog.WarnLevel},
		{5, zerolog.InfoLevel},
		{6, zerolog.DebugLevel},
		{7, zerolog.TraceLevel},
		{42, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		SetVerbosity(tt.verbose)

		if got := zerolog.GlobalLevel(); got != tt.want {
			t.Errorf("SetVerbosity(%v) set %v, want %v", tt.verbose, got, tt.want)
		}
	}
}
