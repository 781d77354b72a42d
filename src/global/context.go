package global

import (
	"context"
	"sync"

	"github.com/seventv/IconProcessor/src/configure"
)

// Context is the process wide context handed to every worker. It carries
// the configuration, the shared instances and tracks running tasks so
// shutdown can wait for them.
type Context interface {
	context.Context
	Instances() *Instances
	Config() *configure.Config
	AddTask(n int)
	DoneTask()
	Wait()
}

type globalContext struct {
	context.Context
	insts *Instances
	cfg   *configure.Config
	wg    *sync.WaitGroup
}

func New(ctx context.Context, config *configure.Config) Context {
	return &globalContext{
		Context: ctx,
		insts:   &Instances{},
		cfg:     config,
		wg:      &sync.WaitGroup{},
	}
}

func (g *globalContext) Instances() *Instances {
	return g.insts
}

func (g *globalContext) Config() *configure.Config {
	return g.cfg
}

func (g *globalContext) AddTask(n int) {
	g.wg.Add(n)
}

func (g *globalContext) DoneTask() {
	g.wg.Done()
}

// Wait blocks until every task added with AddTask is done.
func (g *globalContext) Wait() {
	g.wg.Wait()
}
