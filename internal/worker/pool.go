package worker

import (
	"container/list"
	"errors"
	"fmt"
	"log"
	"sync"

	"terrain-streamer/internal/profiling"
)

// Executor runs tasks on one execution unit. Each unit owns its executor,
// so executors never share mutable state with each other.
type Executor[Req, Res any] interface {
	Execute(req Req) (Res, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc[Req, Res any] func(Req) (Res, error)

func (f ExecutorFunc[Req, Res]) Execute(req Req) (Res, error) { return f(req) }

// Stats is a point-in-time view of the pool.
type Stats struct {
	Units  int
	Idle   int
	Busy   int
	Queued int
}

type options struct {
	logger  *log.Logger
	onFault func(*ExecutionFault)
}

// Option configures a Pool.
type Option func(*options)

// WithLogger sets the logger used for pool diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFaultHandler receives faults of tasks that were canceled before they
// finished. It is called on its own goroutine.
func WithFaultHandler(fn func(*ExecutionFault)) Option {
	return func(o *options) { o.onFault = fn }
}

// task is a submitted request and its bookkeeping.
type task[Req, Res any] struct {
	req    Req
	token  *Token
	future *Future[Res]

	elem   *list.Element // non-nil while queued
	unhook func()
}

type unit[Req, Res any] struct {
	id   int
	exec Executor[Req, Res]
	in   chan *task[Req, Res]
}

// Pool runs tasks on a fixed number of execution units. Tasks that find no
// idle unit wait in a FIFO queue.
type Pool[Req, Res any] struct {
	mu     sync.Mutex
	units  []*unit[Req, Res]
	idle   []*unit[Req, Res]
	busy   int
	queue  *list.List
	closed bool

	opts options
	wg   sync.WaitGroup
}

// New starts n execution units, each with an executor from factory.
func New[Req, Res any](n int, factory func(unit int) Executor[Req, Res], opts ...Option) (*Pool[Req, Res], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidSize, n)
	}
	p := &Pool[Req, Res]{
		units: make([]*unit[Req, Res], n),
		idle:  make([]*unit[Req, Res], 0, n),
		queue: list.New(),
	}
	for _, opt := range opts {
		opt(&p.opts)
	}
	if p.opts.logger == nil {
		p.opts.logger = log.Default()
	}
	if p.opts.onFault == nil {
		logger := p.opts.logger
		p.opts.onFault = func(f *ExecutionFault) {
			logger.Printf("worker: unit %d fault after cancel: %v", f.Unit, f.Err)
		}
	}

	for i := range n {
		u := &unit[Req, Res]{
			id:   i,
			exec: factory(i),
			in:   make(chan *task[Req, Res], 1),
		}
		p.units[i] = u
		p.idle = append(p.idle, u)
		p.wg.Add(1)
		go p.run(u)
	}
	return p, nil
}

// Submit schedules req. The future resolves with ErrCanceled if the pool is
// shut down or token dies before the result is delivered.
func (p *Pool[Req, Res]) Submit(req Req, token *Token) *Future[Res] {
	f := newFuture[Res]()
	var zero Res

	p.mu.Lock()
	if p.closed || !token.Alive() {
		p.mu.Unlock()
		f.resolve(zero, ErrCanceled)
		return f
	}

	t := &task[Req, Res]{req: req, token: token, future: f}
	if u := p.popIdle(); u != nil {
		p.dispatch(u, t)
		p.mu.Unlock()
		return f
	}

	t.elem = p.queue.PushBack(t)
	unhook, ok := token.onCancel(func() { p.dropQueued(t) })
	if !ok {
		p.queue.Remove(t.elem)
		t.elem = nil
		p.mu.Unlock()
		f.resolve(zero, ErrCanceled)
		return f
	}
	t.unhook = unhook
	p.mu.Unlock()
	return f
}

// Shutdown stops accepting work and cancels every queued task. Running
// tasks finish on their own, but their results are discarded.
func (p *Pool[Req, Res]) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	queued := make([]*task[Req, Res], 0, p.queue.Len())
	for e := p.queue.Front(); e != nil; e = e.Next() {
		t := e.Value.(*task[Req, Res])
		t.elem = nil
		queued = append(queued, t)
	}
	p.queue.Init()
	p.idle = nil
	p.busy = 0
	for _, u := range p.units {
		close(u.in)
	}
	p.mu.Unlock()

	var zero Res
	for _, t := range queued {
		if t.unhook != nil {
			t.unhook()
		}
		t.future.resolve(zero, ErrCanceled)
	}
}

// Wait blocks until every unit has exited. Only meaningful after Shutdown.
func (p *Pool[Req, Res]) Wait() {
	p.wg.Wait()
}

// Stats reports the current unit and queue occupancy.
func (p *Pool[Req, Res]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Units:  len(p.units),
		Idle:   len(p.idle),
		Busy:   p.busy,
		Queued: p.queue.Len(),
	}
}

func (p *Pool[Req, Res]) run(u *unit[Req, Res]) {
	defer p.wg.Done()
	for t := range u.in {
		res, err := p.execute(u, t.req)
		p.complete(u, t, res, err)
	}
}

func (p *Pool[Req, Res]) execute(u *unit[Req, Res], req Req) (res Res, err error) {
	defer profiling.Track("worker.execute")()
	defer func() {
		if r := recover(); r != nil {
			err = &ExecutionFault{Unit: u.id, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	res, err = u.exec.Execute(req)
	if err != nil {
		err = &ExecutionFault{Unit: u.id, Err: err}
	}
	return res, err
}

// complete returns u to the idle set and advances the queue before the
// finished task's caller hears about its result.
func (p *Pool[Req, Res]) complete(u *unit[Req, Res], t *task[Req, Res], res Res, err error) {
	p.mu.Lock()
	closed := p.closed
	if !closed {
		p.busy--
		p.idle = append(p.idle, u)
		p.drain()
	}
	p.mu.Unlock()

	if closed || !t.token.Alive() {
		var fault *ExecutionFault
		if errors.As(err, &fault) {
			go p.opts.onFault(fault)
		}
		var zero Res
		t.future.resolve(zero, ErrCanceled)
		return
	}
	t.future.resolve(res, err)
}

// drain dispatches queued tasks onto idle units. Must hold p.mu.
func (p *Pool[Req, Res]) drain() {
	var zero Res
	for len(p.idle) > 0 && p.queue.Len() > 0 {
		t := p.queue.Remove(p.queue.Front()).(*task[Req, Res])
		t.elem = nil
		if !t.token.Alive() {
			if t.unhook != nil {
				t.unhook()
				t.unhook = nil
			}
			t.future.resolve(zero, ErrCanceled)
			continue
		}
		p.dispatch(p.popIdle(), t)
	}
}

// dispatch hands t to u. Must hold p.mu.
func (p *Pool[Req, Res]) dispatch(u *unit[Req, Res], t *task[Req, Res]) {
	if t.unhook != nil {
		t.unhook()
		t.unhook = nil
	}
	p.busy++
	u.in <- t
}

// dropQueued removes a still-queued task whose token died.
func (p *Pool[Req, Res]) dropQueued(t *task[Req, Res]) {
	p.mu.Lock()
	if t.elem == nil {
		p.mu.Unlock()
		return
	}
	p.queue.Remove(t.elem)
	t.elem = nil
	p.mu.Unlock()

	var zero Res
	t.future.resolve(zero, ErrCanceled)
}

// popIdle takes the longest-idle unit, or nil. Must hold p.mu.
func (p *Pool[Req, Res]) popIdle() *unit[Req, Res] {
	if len(p.idle) == 0 {
		return nil
	}
	u := p.idle[0]
	p.idle = p.idle[1:]
	return u
}
