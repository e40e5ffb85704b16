package observability

import (
	"os"
	"strings"

	"github.com/grafana/pyroscope-go"

	"hls-service/pkg/logger"
)

// StartProfiling starts continuous profiling when PYROSCOPE_SERVER_ADDRESS is
// set. The returned stop function is safe to call when profiling is off.
func StartProfiling(appName string, log *logger.Logger) (stop func()) {
	addr := strings.TrimSpace(os.Getenv("PYROSCOPE_SERVER_ADDRESS"))
	if addr == "" {
		return func() {}
	}

	tags := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}
	if env := os.Getenv("CONFIG_ENV"); env != "" {
		tags["env"] = env
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   appName,
		ServerAddress:     addr,
		BasicAuthUser:     os.Getenv("PYROSCOPE_BASIC_AUTH_USER"),
		BasicAuthPassword: os.Getenv("PYROSCOPE_BASIC_AUTH_PASSWORD"),
		Tags:              tags,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		log.Warnf("Pyroscope profiling disabled server=%s: %v", addr, err)
		return func() {}
	}
	log.Infof("Pyroscope profiling started app=%s server=%s", appName, addr)
	return func() {
		if err := profiler.Stop(); err != nil {
			log.Warnf("Pyroscope stop failed: %v", err)
		}
	}
}
