package entity

import (
	"fmt"
	"time"

	"hls-service/ddd/domain/vo"
)

// Job one pipeline run. It lives only for the duration of the request.
type Job struct {
	videoID   string
	videoURL  string
	postID    int64
	phase     vo.Phase
	createdAt time.Time
	updatedAt time.Time
	errorMsg  string
}

func NewJob(videoID, videoURL string, postID int64, now time.Time) *Job {
	return &Job{
		videoID:   videoID,
		videoURL:  videoURL,
		postID:    postID,
		phase:     vo.PhaseCreated,
		createdAt: now,
		updatedAt: now,
	}
}

func (j *Job) VideoID() string      { return j.videoID }
func (j *Job) VideoURL() string     { return j.videoURL }
func (j *Job) PostID() int64        { return j.postID }
func (j *Job) Phase() vo.Phase      { return j.phase }
func (j *Job) CreatedAt() time.Time { return j.createdAt }
func (j *Job) UpdatedAt() time.Time { return j.updatedAt }
func (j *Job) Error() string        { return j.errorMsg }

// Advance moves the job to target if the phase graph allows it.
func (j *Job) Advance(target vo.Phase) error {
	if !j.phase.CanTransitionTo(target) {
		return fmt.Errorf("job %s: illegal transition %s -> %s", j.videoID, j.phase, target)
	}
	j.phase = target
	j.updatedAt = time.Now()
	return nil
}

// Fail records msg and moves the job to Failed. A job that already ended keeps
// its phase.
func (j *Job) Fail(msg string) {
	j.errorMsg = msg
	if j.phase.CanTransitionTo(vo.PhaseFailed) {
		j.phase = vo.PhaseFailed
	}
	j.updatedAt = time.Now()
}
