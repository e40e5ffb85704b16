package cqe

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"hls-service/pkg/errno"
)

// ProcessVideoReq body of a conversion request
type ProcessVideoReq struct {
	VideoURL string `json:"video_url"`
	PostID   PostID `json:"post_id"`
}

func (req *ProcessVideoReq) Validate() error {
	req.VideoURL = strings.TrimSpace(req.VideoURL)
	if req.VideoURL == "" {
		return errno.ErrMissingParam
	}
	return nil
}

// PostID accepts a JSON number or a numeric string. Anything else, and an
// absent field, decodes to 0.
type PostID int64

func (p *PostID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	s := strings.Trim(string(data), `"`)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*p = PostID(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*p = PostID(int64(f))
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*p = PostID(int64(f))
		return nil
	}
	*p = 0
	return nil
}

func (p PostID) Int64() int64 { return int64(p) }
