package vo

import (
	"fmt"
	"strconv"
	"strings"
)

// Rendition one rung of the bitrate ladder. Its index in the ladder is the
// stream index in the HLS package.
type Rendition struct {
	Height  int    `json:"height"`
	Bitrate string `json:"bitrate"`
	MaxRate string `json:"maxrate"`
	BufSize string `json:"bufsize"`
}

// Validate checks the height and that all rates parse.
func (r Rendition) Validate() error {
	if r.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", r.Height)
	}
	for name, v := range map[string]string{"bitrate": r.Bitrate, "maxrate": r.MaxRate, "bufsize": r.BufSize} {
		if _, err := ParseBitrate(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Name is the conventional label, e.g. "360p".
func (r Rendition) Name() string {
	return strconv.Itoa(r.Height) + "p"
}

// BandwidthBps is Bitrate in bits per second, 0 when unparseable.
func (r Rendition) BandwidthBps() int {
	bps, _ := ParseBitrate(r.Bitrate)
	return bps
}

// Ladder is an ordered rendition list.
type Ladder []Rendition

// Validate rejects an empty ladder, invalid rungs and duplicate heights.
func (l Ladder) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("at least one rendition is required")
	}
	seen := make(map[int]struct{}, len(l))
	for i, r := range l {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rendition[%d]: %w", i, err)
		}
		if _, dup := seen[r.Height]; dup {
			return fmt.Errorf("rendition[%d]: duplicate height %d", i, r.Height)
		}
		seen[r.Height] = struct{}{}
	}
	return nil
}

// ParseBitrate converts "2000k"/"2M"/"2000kbps"/"2mbps"/"500000" to bps.
func ParseBitrate(bitrate string) (int, error) {
	s := strings.TrimSpace(strings.ToLower(bitrate))
	if s == "" {
		return 0, fmt.Errorf("empty bitrate")
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(s, "kbps"):
		factor = 1000
		s = strings.TrimSuffix(s, "kbps")
	case strings.HasSuffix(s, "mbps"):
		factor = 1000 * 1000
		s = strings.TrimSuffix(s, "mbps")
	case strings.HasSuffix(s, "k"):
		factor = 1000
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		factor = 1000 * 1000
		s = strings.TrimSuffix(s, "m")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid bitrate: %s", bitrate)
	}
	return int(v * factor), nil
}
