package vo

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// SuccessMessage is reported with every successful result.
const SuccessMessage = "Video processed successfully"

// ProcessResult outcome of one pipeline run. HLSURL is nil on failure.
type ProcessResult struct {
	Status  string
	Message string
	HLSURL  *string
	VideoID string
}

// Succeeded builds a success result.
func Succeeded(videoID, hlsURL string) ProcessResult {
	return ProcessResult{Status: ResultSuccess, Message: SuccessMessage, HLSURL: &hlsURL, VideoID: videoID}
}

// Failed builds an error result.
func Failed(videoID, message string) ProcessResult {
	return ProcessResult{Status: ResultError, Message: message, VideoID: videoID}
}

// OK reports whether the run succeeded.
func (r ProcessResult) OK() bool {
	return r.Status == ResultSuccess
}
