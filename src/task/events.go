package task

import "time"

type TaskEvent struct {
	JobID     string        `json:"job_id"`
	Type      TaskEventType `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
}

type TaskEventType string

const (
	Started            TaskEventType = "started"
	Failed             TaskEventType = "failed"
	NotFound           TaskEventType = "not-found"
	Completed          TaskEventType = "completed"
	Stopped            TaskEventType = "stopped"
	StageOne           TaskEventType = "stage-one"
	Discovered         TaskEventType = "discovered"
	StageTwo           TaskEventType = "stage-two"
	StageTwoComplete   TaskEventType = "stage-two-complete"
	StageThree         TaskEventType = "stage-three"
	StageThreeComplete TaskEventType = "stage-three-complete"
	Uploaded           TaskEventType = "uploaded"
)
