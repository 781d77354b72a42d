package global

import (
	"context"
	"io"

	"github.com/seventv/IconProcessor/src/favicon"
	"github.com/seventv/IconProcessor/src/transport"
	"github.com/streadway/amqp"
)

type Instances struct {
	AwsS3     AwsS3
	Rmq       Rmq
	Transport transport.Transport
	Finder    Finder
}

type AwsS3 interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType, acl, cacheControl *string) error
}

type Rmq interface {
	Subscribe(name string) (<-chan amqp.Delivery, error)
	Publish(queue string, contentType string, deliveryMode uint8, msg []byte) error
	Shutdown()
}

type Finder interface {
	Discover(ctx context.Context, pageURL string) (favicon.Candidate, bool, error)
}
