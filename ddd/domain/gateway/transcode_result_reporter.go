package gateway

import (
	"context"

	"hls-service/ddd/domain/entity"
	"hls-service/ddd/domain/vo"
)

// TranscodeResultReporter notifies downstream services about job outcomes.
type TranscodeResultReporter interface {
	Report(ctx context.Context, job *entity.Job, result vo.ProcessResult) error
}
