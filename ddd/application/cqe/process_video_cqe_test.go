package cqe

import (
	"encoding/json"
	"errors"
	"testing"

	"hls-service/pkg/errno"
)

func TestPostIDDecoding(t *testing.T) {
	tests := []struct {
		body string
		want int64
	}{
		{`{"video_url":"http://x/a.mp4","post_id":42}`, 42},
		{`{"video_url":"http://x/a.mp4","post_id":"42"}`, 42},
		{`{"video_url":"http://x/a.mp4","post_id":42.9}`, 42},
		{`{"video_url":"http://x/a.mp4","post_id":"abc"}`, 0},
		{`{"video_url":"http://x/a.mp4","post_id":null}`, 0},
		{`{"video_url":"http://x/a.mp4"}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req ProcessVideoReq
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got := req.PostID.Int64(); got != tt.want {
				t.Errorf("PostID = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	req := &ProcessVideoReq{VideoURL: "   "}
	if err := req.Validate(); !errors.Is(err, errno.ErrMissingParam) {
		t.Errorf("Validate() = %v, want ErrMissingParam", err)
	}
	req = &ProcessVideoReq{VideoURL: " http://x/a.mp4 "}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if req.VideoURL != "http://x/a.mp4" {
		t.Errorf("VideoURL = %q, want trimmed", req.VideoURL)
	}
}
