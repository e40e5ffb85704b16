package redisclient

import (
	"testing"
	"time"
)

func TestPickDuration(t *testing.T) {
	tests := []struct {
		v, fallback, want time.Duration
	}{
		{0, 5 * time.Second, 5 * time.Second},
		{-time.Second, 3 * time.Second, 3 * time.Second},
		{2 * time.Second, 3 * time.Second, 2 * time.Second},
	}
	for _, tt := range tests {
		if got := pickDuration(tt.v, tt.fallback); got != tt.want {
			t.Errorf("pickDuration(%s, %s) = %s, want %s", tt.v, tt.fallback, got, tt.want)
		}
	}
}
