package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strconv"
	"syscall"
	"time"

	"github.com/bugsnag/panicwrap"

	"github.com/seventv/IconProcessor/src/aws"
	"github.com/seventv/IconProcessor/src/configure"
	"github.com/seventv/IconProcessor/src/favicon"
	"github.com/seventv/IconProcessor/src/global"
	"github.com/seventv/IconProcessor/src/rmq"
	"github.com/seventv/IconProcessor/src/task"
	"github.com/seventv/IconProcessor/src/transport"
	"github.com/sirupsen/logrus"
)

var (
	Version = "development"
	Unix    = ""
	Time    = "unknown"
	User    = "unknown"
)

func init() {
	debug.SetGCPercent(2000)
	if i, err := strconv.Atoi(Unix); err == nil {
		Time = time.Unix(int64(i), 0).Format(time.RFC3339)
	}
}

func main() {
	config := configure.New()

	exitStatus, err := panicwrap.BasicWrap(func(s string) {
		logrus.Error(s)
	})
	if err != nil {
		logrus.Error("failed to setup panic handler: ", err)
		os.Exit(2)
	}

	if exitStatus >= 0 {
		os.Exit(exitStatus)
	}

	tr := transport.NewHTTP(transport.Options{
		Timeout:     time.Duration(config.Http.Timeout) * time.Second,
		UserAgent:   config.Http.UserAgent,
		MaxBodySize: config.Http.MaxBodySize,
	})
	finder := favicon.NewFinder(tr, favicon.Options{
		WellKnownPaths:   config.Favicon.WellKnownPaths,
		ProbeConcurrency: config.Favicon.ProbeConcurrency,
		SVGSize:          config.Favicon.SvgSize,
	})

	if config.Url != "" {
		os.Exit(findOne(finder, config))
	}

	if !config.NoHeader {
		logrus.Info("7TV Icon Processor")
		logrus.Infof("Version: %s", Version)
		logrus.Infof("build.Time: %s", Time)
		logrus.Infof("build.User: %s", User)
	}

	maxProcs := runtime.GOMAXPROCS(0)
	logrus.Debug("MaxProcs: ", maxProcs)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	c, cancel := context.WithCancel(context.Background())

	ctx := global.New(c, config)

	ctx.Instances().Transport = tr
	ctx.Instances().Finder = finder
	ctx.Instances().Rmq = rmq.New(ctx, maxProcs)
	if ctx.Config().Aws.Region != "" {
		ctx.Instances().AwsS3 = aws.NewS3(ctx)
	}

	go task.Listen(ctx, maxProcs)

	logrus.Info("running")

	done := make(chan struct{})
	go func() {
		<-sig
		cancel()
		go func() {
			select {
			case <-time.After(time.Minute):
			case <-sig:
			}
			logrus.Fatal("force shutdown")
		}()

		logrus.Info("shutting down")

		ctx.Instances().Rmq.Shutdown()

		ctx.Wait()

		close(done)
	}()

	<-done

	logrus.Info("shutdown")
	os.Exit(0)
}

// findOne runs a single discovery for the --url flag.
func findOne(finder *favicon.Finder, config *configure.Config) int {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*time.Duration(config.MaxTaskDuration))
	defer cancel()

	icon, ok, err := finder.Discover(ctx, config.Url)
	if err != nil {
		logrus.Error("discovery failed: ", err)
		return 1
	}

	if !ok {
		fmt.Println("no icon found")
		return 0
	}

	fmt.Printf("%s %dx%d %s\n", icon.URL, icon.Size.Width, icon.Size.Height, icon.Type)
	return 0
}
