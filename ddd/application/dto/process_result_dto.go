package dto

import "hls-service/ddd/domain/vo"

// ProcessResultDTO response of a conversion request
type ProcessResultDTO struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	HLSURL  *string `json:"hls_url"`
	VideoID string  `json:"video_id"`
}

func NewProcessResultDTO(r vo.ProcessResult) *ProcessResultDTO {
	return &ProcessResultDTO{
		Status:  r.Status,
		Message: r.Message,
		HLSURL:  r.HLSURL,
		VideoID: r.VideoID,
	}
}

// OK reports a success result.
func (d *ProcessResultDTO) OK() bool {
	return d.Status == vo.ResultSuccess
}

// CleanupResultDTO response of a retention sweep
type CleanupResultDTO struct {
	Status  string `json:"status"`
	Removed int    `json:"removed"`
}
