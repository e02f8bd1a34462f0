package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/martinsuchenak/advisorctl/internal/log"
)

// DefaultInterval is the refresh period used by views unless configured otherwise
const DefaultInterval = 30 * time.Second

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var ErrPollerStopped = errors.New("poller stopped")

// RefreshFunc reloads the data behind one view
type RefreshFunc func(ctx context.Context) error

// Poller runs independent periodic refreshes. Each mounted view gets its own schedule;
// nothing is shared between subscriptions.
type Poller struct {
	mu      sync.Mutex
	cron    *cron.Cron
	subs    map[string]*Subscription
	running bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Subscription is one mounted refresh schedule
type Subscription struct {
	ID       string
	Name     string
	Interval time.Duration

	poller  *Poller
	entryID cron.EntryID
	refresh func()

	mu      sync.Mutex
	mounted bool
	status  string
	lastRun time.Time
	lastErr error
	runs    int
}

// NewPoller creates a stopped poller
func NewPoller() *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		cron:   cron.New(cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{}))),
		subs:   make(map[string]*Subscription),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins firing schedules
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running || p.stopped {
		return
	}

	p.running = true
	p.cron.Start()
	log.Debug("Refresh poller started")
}

// Stop removes every schedule, cancels the context passed to refreshes and waits for
// running refreshes to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.running = false
	subs := make([]*Subscription, 0, len(p.subs))
	for _, s := range p.subs {
		subs = append(subs, s)
	}
	p.mu.Unlock()

	for _, s := range subs {
		s.Unmount()
	}

	<-p.cron.Stop().Done()
	p.cancel()
	p.wg.Wait()
	log.Debug("Refresh poller stopped")
}

// Mount schedules fn every interval until the subscription is unmounted. The first run
// happens after one interval; call Refresh for an immediate load.
func (p *Poller) Mount(name string, interval time.Duration, fn RefreshFunc) (*Subscription, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil, ErrPollerStopped
	}

	sub := &Subscription{
		ID:       uuid.NewString(),
		Name:     name,
		Interval: interval,
		poller:   p,
		mounted:  true,
		status:   StatusPending,
	}

	sub.refresh = func() { p.run(sub, fn) }
	sub.entryID = p.cron.Schedule(cron.Every(interval), cron.FuncJob(sub.refresh))
	p.subs[sub.ID] = sub

	log.Debug("View mounted", "subscription_id", sub.ID, "name", name, "interval", interval)
	return sub, nil
}

// Subscriptions returns the number of mounted schedules
func (p *Poller) Subscriptions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// run executes one refresh unless the subscription is unmounted or already refreshing
func (p *Poller) run(sub *Subscription, fn RefreshFunc) {
	sub.mu.Lock()
	if !sub.mounted || sub.status == StatusRunning {
		sub.mu.Unlock()
		return
	}
	sub.status = StatusRunning
	sub.lastRun = time.Now()
	sub.mu.Unlock()

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		sub.mu.Lock()
		sub.status = StatusPending
		sub.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()
	defer p.wg.Done()

	err := fn(p.ctx)

	sub.mu.Lock()
	defer sub.mu.Unlock()

	sub.runs++
	sub.lastErr = err
	if err != nil {
		sub.status = StatusFailed
		log.Warn("Refresh failed", "subscription_id", sub.ID, "name", sub.Name, "error", err)
	} else {
		sub.status = StatusCompleted
		log.Trace("Refresh completed", "subscription_id", sub.ID, "name", sub.Name)
	}
}

func (p *Poller) remove(sub *Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cron.Remove(sub.entryID)
	delete(p.subs, sub.ID)
}
