package task

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	jsoniter "github.com/json-iterator/go"
	"github.com/seventv/IconProcessor/src/aws"
	"github.com/seventv/IconProcessor/src/containers"
	"github.com/seventv/IconProcessor/src/containers/png"
	"github.com/seventv/IconProcessor/src/global"
	"github.com/seventv/IconProcessor/src/image"
	"github.com/seventv/IconProcessor/src/job"
	"github.com/seventv/IconProcessor/src/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrUnknownJobConsumer  = fmt.Errorf("unknown job consumer")
	ErrConsumerUnavailable = fmt.Errorf("job consumer not configured on this worker")
	ErrBadSize             = fmt.Errorf("bad output size")
)

type Task struct {
	id uuid.UUID

	job job.Job

	mtx       sync.Mutex
	started   bool
	stopped   bool
	completed bool
	closed    bool
	notFound  bool
	failed    error

	icon  *job.Icon
	files []job.File

	events chan TaskEvent

	ctx    context.Context
	cancel context.CancelFunc
}

// output is a rendered file waiting to be handed to the consumer.
type output struct {
	name        string
	contentType string
	data        []byte
	size        image.Size
	timeTaken   time.Duration
}

func New(ctx context.Context, j job.Job) *Task {
	ctx, cancel := context.WithCancel(ctx)
	id, _ := uuid.NewRandom()
	j.ApplyDefaults()
	return &Task{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		job:    j,
		events: make(chan TaskEvent, 20),
	}
}

func (t *Task) ID() uuid.UUID {
	return t.id
}

func (t *Task) Start(ctx global.Context) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.started || t.stopped || t.completed {
		return
	}

	t.started = true

	go t.start(ctx)
}

func (t *Task) emit(typ TaskEventType) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.closed {
		return
	}

	t.events <- TaskEvent{
		JobID:     t.job.ID,
		Type:      typ,
		Timestamp: time.Now(),
	}
}

func (t *Task) start(ctx global.Context) {
	t.emit(Started)

	err := t.run(ctx)

	t.mtx.Lock()
	t.completed = true
	t.failed = err
	t.mtx.Unlock()

	switch {
	case err != nil:
		t.emit(Failed)
	case t.NotFound():
		t.emit(NotFound)
	default:
		t.emit(Completed)
	}

	t.mtx.Lock()
	t.closed = true
	close(t.events)
	t.mtx.Unlock()

	t.cancel()
}

func (t *Task) run(ctx global.Context) error {
	log := logrus.WithField("job_id", t.job.ID).WithField("url", t.job.URL)

	t.emit(StageOne)

	candidate, ok, err := ctx.Instances().Finder.Discover(t.ctx, t.job.URL)
	if err != nil {
		return err
	}
	if !ok {
		log.Info("no icon found")
		t.mtx.Lock()
		t.notFound = true
		t.mtx.Unlock()
		return nil
	}

	t.emit(Discovered)
	log.Infof("icon %s (%dx%d)", candidate.URL, candidate.Size.Width, candidate.Size.Height)

	t.emit(StageTwo)

	imgType, data, err := download(t.ctx, ctx, candidate.URL)
	if err != nil {
		return err
	}

	size, err := containers.Dimensions(imgType, bytes.NewReader(data))
	if err != nil {
		size = candidate.Size
	}

	t.mtx.Lock()
	t.icon = &job.Icon{
		URL:    candidate.URL,
		Type:   imgType,
		Width:  size.Width,
		Height: size.Height,
	}
	t.mtx.Unlock()

	t.emit(StageTwoComplete)

	if t.ctx.Err() != nil {
		return t.ctx.Err()
	}

	t.emit(StageThree)

	outputs, err := render(t.ctx, t.job, imgType, data, size)
	if err != nil {
		return err
	}

	t.emit(StageThreeComplete)

	if err := t.consume(ctx, outputs); err != nil {
		return err
	}

	files := make([]job.File, len(outputs))
	for i, o := range outputs {
		sum := blake2b.Sum256(o.data)
		files[i] = job.File{
			Name:        o.name,
			Size:        len(o.data),
			ContentType: o.contentType,
			Width:       o.size.Width,
			Height:      o.size.Height,
			Hash:        hex.EncodeToString(sum[:]),
			TimeTaken:   o.timeTaken,
		}
	}

	t.mtx.Lock()
	t.files = files
	t.mtx.Unlock()

	t.emit(Uploaded)

	return nil
}

// download fetches the icon and refuses payloads the sniffer does not
// recognize.
func download(ctx context.Context, gCtx global.Context, url string) (image.ImageType, []byte, error) {
	resp, err := gCtx.Instances().Transport.Fetch(ctx, url)
	if err != nil {
		return image.Undefined, nil, err
	}
	defer resp.Body.Close()

	imgType, prefix, err := containers.ToTypeStream(resp.Body)
	if err != nil {
		return image.Undefined, nil, err
	}
	if imgType == image.Undefined {
		return image.Undefined, nil, fmt.Errorf("%w: %s", containers.ErrUnknownFormat, url)
	}

	rest, err := io.ReadAll(resp.Body)
	if err != nil {
		return image.Undefined, nil, err
	}

	return imgType, append(prefix, rest...), nil
}

func render(ctx context.Context, j job.Job, imgType image.ImageType, data []byte, size image.Size) ([]output, error) {
	start := time.Now()
	outputs := []output{}

	if j.Settings&job.EnableOutputOriginal != 0 {
		outputs = append(outputs, output{
			name:        fmt.Sprintf("original.%s", imgType.Ext()),
			contentType: imgType.ContentType(),
			data:        data,
			size:        size,
			timeTaken:   time.Since(start),
		})
	}

	if j.Settings&job.EnableOutputPNG == 0 || !imgType.Raster() {
		return outputs, nil
	}

	src, err := containers.Decode(imgType, bytes.NewReader(data))
	if errors.Is(err, containers.ErrNotRaster) {
		logrus.WithField("job_id", j.ID).Warnf("cannot rasterize %s, skipping png output", imgType)
		return outputs, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(j.Sizes))
	for name := range j.Sizes {
		names = append(names, name)
	}
	sort.Strings(names)

	rendered := make([]output, len(names))
	errCh := make(chan error, len(names))

	for i, name := range names {
		go func(i int, name string, size job.ImageSize) {
			if ctx.Err() != nil {
				errCh <- ctx.Err()
				return
			}
			if size.Width <= 0 || size.Height <= 0 {
				errCh <- fmt.Errorf("%w: %s %dx%d", ErrBadSize, name, size.Width, size.Height)
				return
			}

			buf := bytes.Buffer{}
			err := png.Encode(&buf, png.Edit(src, size.Width, size.Height))
			if err == nil {
				rendered[i] = output{
					name:        fmt.Sprintf("%s.png", name),
					contentType: image.PNG.ContentType(),
					data:        buf.Bytes(),
					size:        image.Size{Width: size.Width, Height: size.Height},
					timeTaken:   time.Since(start),
				}
			}
			errCh <- err
		}(i, name, j.Sizes[name])
	}

	for range names {
		err = multierror.Append(err, <-errCh).ErrorOrNil()
	}
	if err != nil {
		return nil, err
	}

	return append(outputs, rendered...), nil
}

func (t *Task) consume(ctx global.Context, outputs []output) error {
	switch t.job.ResultConsumer {
	case job.AwsConsumer:
		if ctx.Instances().AwsS3 == nil {
			return fmt.Errorf("%w: %s", ErrConsumerUnavailable, t.job.ResultConsumer)
		}

		details := job.ResultConsumerDetailsAws{}
		if err := json.Unmarshal(t.job.ResultConsumerDetails, &details); err != nil {
			return err
		}

		errCh := make(chan error)
		wg := sync.WaitGroup{}
		wg.Add(len(outputs))
		for _, o := range outputs {
			go func(o output) {
				defer wg.Done()
				errCh <- ctx.Instances().AwsS3.UploadFile(
					t.ctx,
					details.Bucket,
					path.Join(details.KeyFolder, o.name),
					bytes.NewReader(o.data),
					utils.StringPointer(o.contentType),
					aws.AclPublicRead,
					aws.DefaultCacheControl,
				)
			}(o)
		}
		go func() {
			wg.Wait()
			close(errCh)
		}()

		var err error
		for e := range errCh {
			err = multierror.Append(err, e).ErrorOrNil()
		}
		return err
	case job.LocalConsumer:
		details := job.ResultConsumerDetailsLocal{}
		if err := json.Unmarshal(t.job.ResultConsumerDetails, &details); err != nil {
			return err
		}

		if err := os.MkdirAll(details.PathFolder, 0700); err != nil {
			return err
		}

		for _, o := range outputs {
			if err := os.WriteFile(path.Join(details.PathFolder, o.name), o.data, 0600); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrUnknownJobConsumer
	}
}

func (t *Task) Stop() {
	t.mtx.Lock()
	t.stopped = true
	t.mtx.Unlock()

	t.emit(Stopped)
	t.cancel()
}

func (t *Task) Done() <-chan struct{} {
	return t.ctx.Done()
}

func (t *Task) Events() <-chan TaskEvent {
	return t.events
}

func (t *Task) Completed() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.completed
}

func (t *Task) Failed() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.failed
}

func (t *Task) NotFound() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.notFound
}

func (t *Task) Started() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.started
}

func (t *Task) Stopped() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.stopped
}

// Icon is the discovered icon, nil until stage two finished.
func (t *Task) Icon() *job.Icon {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.icon
}

func (t *Task) Files() []job.File {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.files
}

func (t *Task) Job() job.Job {
	return t.job
}
