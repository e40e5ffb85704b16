package executor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Variant one #EXT-X-STREAM-INF entry of a master playlist.
type Variant struct {
	URI        string
	Bandwidth  int
	Resolution string
}

// ParseMaster reads the variant streams of a master playlist in order.
func ParseMaster(r io.Reader) ([]Variant, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1024*1024)

	var (
		variants []Variant
		pending  *Variant
		first    = true
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if first {
			if line != "#EXTM3U" {
				return nil, fmt.Errorf("missing #EXTM3U header")
			}
			first = false
			continue
		}
		switch {
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF:"):
			v := parseStreamInf(strings.TrimPrefix(line, "#EXT-X-STREAM-INF:"))
			pending = &v
		case strings.HasPrefix(line, "#"):
			// other tags and comments
		case pending != nil:
			pending.URI = line
			variants = append(variants, *pending)
			pending = nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if first {
		return nil, fmt.Errorf("empty playlist")
	}
	if pending != nil {
		return nil, fmt.Errorf("#EXT-X-STREAM-INF without URI")
	}
	return variants, nil
}

func parseStreamInf(attrs string) Variant {
	var v Variant
	for _, kv := range splitAttributes(attrs) {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "BANDWIDTH":
			v.Bandwidth, _ = strconv.Atoi(strings.TrimSpace(val))
		case "RESOLUTION":
			v.Resolution = strings.TrimSpace(val)
		}
	}
	return v
}

// splitAttributes splits on commas outside quoted strings (CODECS="a,b").
func splitAttributes(s string) []string {
	var (
		out    []string
		quoted bool
		start  int
	)
	for i, r := range s {
		switch r {
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}
