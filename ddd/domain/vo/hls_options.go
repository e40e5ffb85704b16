package vo

import "time"

// HLSOptions packaging and encoder settings applied to every rendition.
type HLSOptions struct {
	SegmentDuration int    // seconds per segment
	ListSize        int    // 0 keeps every segment in the media playlists
	MasterName      string // master playlist file name
	VideoCodec      string
	VideoPreset     string
	AudioCodec      string
	AudioBitrate    string
	AudioSampleRate int
	Threads         int           // 0 lets the encoder decide
	Timeout         time.Duration // 0 means unbounded
}

// DefaultMasterName is used when MasterName is empty.
const DefaultMasterName = "master.m3u8"

// Master returns MasterName or the default.
func (o HLSOptions) Master() string {
	if o.MasterName == "" {
		return DefaultMasterName
	}
	return o.MasterName
}
