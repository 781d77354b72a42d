package task

import (
	"context"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/seventv/IconProcessor/src/global"
	"github.com/seventv/IconProcessor/src/job"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

func Listen(ctx global.Context, maxProcs int) {
	msgCh, err := ctx.Instances().Rmq.Subscribe(ctx.Config().Rmq.JobQueueName)
	if err != nil {
		logrus.Fatal("failed to listen to jobs: ", err)
	}

	workers := make(chan *taskWorker, maxProcs)
	for i := 0; i < maxProcs; i++ {
		workers <- &taskWorker{
			cb: workers,
		}
	}

	for msg := range msgCh {
		worker := <-workers
		go worker.process(ctx, msg)
	}
}

type taskWorker struct {
	cb chan *taskWorker
}

type RmqResult struct {
	JobID    string     `json:"job_id"`
	Success  bool       `json:"success"`
	NotFound bool       `json:"not_found"`
	Icon     *job.Icon  `json:"icon,omitempty"`
	Files    []job.File `json:"files"`
	Error    string     `json:"error"`
}

func (w *taskWorker) process(ctx global.Context, msg amqp.Delivery) {
	ctx.AddTask(1)
	defer func() {
		ctx.DoneTask()
		w.cb <- w
	}()

	j := job.Job{}

	err := json.Unmarshal(msg.Body, &j)
	if err != nil {
		logrus.Warn("bad job message: ", err)
		if err := msg.Reject(false); err != nil {
			logrus.Warn("failed to reject: ", err)
		}
		return
	}

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Trace(spew.Sdump(j))
	}

	lCtx, cancel := context.WithTimeout(ctx, time.Second*time.Duration(ctx.Config().MaxTaskDuration))
	defer cancel()

	result := Run(lCtx, ctx, j, func(event TaskEvent) {
		data, _ := json.Marshal(event)
		if err := ctx.Instances().Rmq.Publish(ctx.Config().Rmq.UpdateQueueName, "application/json", amqp.Transient, data); err != nil {
			logrus.Warn("failed to send update: ", err)
		}
	})

	if result.Success {
		if err := msg.Ack(false); err != nil {
			logrus.Warn("failed to ack: ", err)
		}
	} else {
		if err := msg.Reject(false); err != nil {
			logrus.Warn("failed to reject: ", err)
		}
		logrus.Errorf("task failed %s: %s", j.ID, result.Error)
	}

	resp, _ := json.Marshal(result)
	if err := ctx.Instances().Rmq.Publish(ctx.Config().Rmq.ResultQueueName, "application/json", amqp.Persistent, resp); err != nil {
		logrus.Error("failed to publish result: ", err)
	}

	logrus.Info("finished task: ", j.ID)
}

// Run executes j to completion, handing every event to onEvent, and
// returns the result message for it. A page without icon is a success with
// NotFound set.
func Run(ctx context.Context, gCtx global.Context, j job.Job, onEvent func(TaskEvent)) RmqResult {
	task := New(ctx, j)
	task.Start(gCtx)

	logrus.Info("starting new task: ", j.ID)

	for event := range task.Events() {
		if onEvent != nil {
			onEvent(event)
		}
	}
	<-task.Done()

	result := RmqResult{
		JobID:    j.ID,
		Success:  task.Failed() == nil,
		NotFound: task.NotFound(),
		Icon:     task.Icon(),
		Files:    task.Files(),
	}
	if err := task.Failed(); err != nil {
		result.Error = err.Error()
	}

	return result
}
