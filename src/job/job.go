package job

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/seventv/IconProcessor/src/image"
)

type Job struct {
	ID string `json:"id"`

	// URL is the page whose icon is wanted.
	URL      string               `json:"url"`
	Sizes    map[string]ImageSize `json:"sizes"`
	Settings uint64               `json:"settings"`

	ResultConsumer        ResultConsumer      `json:"result_consumer"`
	ResultConsumerDetails jsoniter.RawMessage `json:"result_consumer_details"`
}

const (
	EnableOutputOriginal uint64 = 1 << iota
	EnableOutputPNG
	AllSettings uint64 = (1 << iota) - 1
)

// DefaultSizes are the square PNG renditions produced when a job names none.
var DefaultSizes = map[string]ImageSize{
	"1x": {Width: 32, Height: 32},
	"2x": {Width: 64, Height: 64},
	"3x": {Width: 128, Height: 128},
	"4x": {Width: 256, Height: 256},
}

// ApplyDefaults fills the zero fields of j.
func (j *Job) ApplyDefaults() {
	if j.Settings == 0 {
		j.Settings = AllSettings
	}

	if len(j.Sizes) == 0 {
		j.Sizes = make(map[string]ImageSize, len(DefaultSizes))
		for k, v := range DefaultSizes {
			j.Sizes[k] = v
		}
	}
}

type File struct {
	Name        string        `json:"name"`
	Size        int           `json:"size"`
	ContentType string        `json:"content_type"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Hash        string        `json:"hash"`
	TimeTaken   time.Duration `json:"time_taken"`
}

type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Icon describes the icon picked for the page.
type Icon struct {
	URL    string          `json:"url"`
	Type   image.ImageType `json:"type"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
}

type ResultConsumerDetailsAws struct {
	Bucket    string `json:"bucket"`
	KeyFolder string `json:"key_folder"`
}

type ResultConsumerDetailsLocal struct {
	PathFolder string `json:"path_folder"`
}

type ResultConsumer string

const (
	AwsConsumer   ResultConsumer = "aws"
	LocalConsumer ResultConsumer = "local"
)
