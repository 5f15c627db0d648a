package client

import (
	"context"
	"log"
	"time"

	"github.com/thanakrit55/streetmarket-backend/internal/order"
)

// BadgeAPI is what the poller needs from the client.
type BadgeAPI interface {
	OrderStats() (map[order.Status]int, error)
	UnreadMessages() (int, error)
}

// Badges is one snapshot of the counters the header shows.
type Badges struct {
	OrderStats map[order.Status]int
	Unread     int
}

// Poller refreshes the order-status counters and the unread message badge at
// a fixed interval. Failures are logged and the previous snapshot is kept;
// the next tick tries again.
type Poller struct {
	api      BadgeAPI
	interval time.Duration
	logger   *log.Logger
	updates  chan Badges
}

func NewPoller(api BadgeAPI, interval time.Duration, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		api:      api,
		interval: interval,
		logger:   logger,
		updates:  make(chan Badges, 1),
	}
}

// Updates delivers each successful refresh. The channel holds one pending
// snapshot; a slow reader only ever sees the newest.
func (p *Poller) Updates() <-chan Badges {
	return p.updates
}

// Start polls until ctx is canceled. It fetches once immediately so screens
// do not wait a full interval for their first counters.
func (p *Poller) Start(ctx context.Context) {
	p.poll()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	stats, err := p.api.OrderStats()
	if err != nil {
		p.logger.Printf("order stats poll failed: %v", err)
		return
	}
	unread, err := p.api.UnreadMessages()
	if err != nil {
		p.logger.Printf("unread poll failed: %v", err)
		return
	}
	b := Badges{OrderStats: stats, Unread: unread}
	select {
	case p.updates <- b:
	default:
		// drop the stale pending snapshot, then queue the fresh one
		select {
		case <-p.updates:
		default:
		}
		p.updates <- b
	}
}
