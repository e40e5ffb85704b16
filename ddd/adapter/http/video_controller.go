package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hls-service/ddd/application/app"
	"hls-service/ddd/application/cqe"
	"hls-service/ddd/application/dto"
	"hls-service/pkg/errno"
	"hls-service/pkg/restapi"
)

type VideoController struct {
	videoApp app.VideoApp
}

func NewVideoController(videoApp app.VideoApp) *VideoController {
	return &VideoController{videoApp: videoApp}
}

// ProcessVideo converts the posted video and answers once the job is final:
// 200 with the result on success, 500 with the result on failure.
func (vc *VideoController) ProcessVideo(c *gin.Context) {
	var req cqe.ProcessVideoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		restapi.Failed(c, errno.ErrInvalidJSON.Wrap(err))
		return
	}
	if err := req.Validate(); err != nil {
		restapi.Failed(c, err)
		return
	}

	result := vc.videoApp.ProcessVideo(c.Request.Context(), &req)
	if !result.OK() {
		restapi.Result(c, http.StatusInternalServerError, result)
		return
	}
	restapi.Success(c, result)
}

// Cleanup runs the retention sweep now.
func (vc *VideoController) Cleanup(c *gin.Context) {
	removed, err := vc.videoApp.CleanupOldVideos(c.Request.Context())
	if err != nil {
		restapi.Failed(c, errno.ErrIOFailure.Wrap(err))
		return
	}
	restapi.Success(c, dto.CleanupResultDTO{Status: "success", Removed: removed})
}
