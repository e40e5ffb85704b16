package registry

import "testing"

func TestServiceKey(t *testing.T) {
	if got, want := ServiceKey("hls-service", "node-1"), "/services/hls-service/node-1"; got != want {
		t.Errorf("ServiceKey() = %q, want %q", got, want)
	}
}
