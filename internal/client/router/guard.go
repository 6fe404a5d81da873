package router

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/campus/internal/client/session"
	"github.com/dmitrijs2005/campus/internal/logging"
)

type SessionSource interface {
	State() session.State
	Subscribe(fn session.Listener) (unsubscribe func())
}

type Navigator interface {
	Current() string
	Redirect(path string)
	Subscribe(fn func(path string)) (unsubscribe func())
}

// Guard redirects the navigator whenever the current route is not allowed
// for the session phase.
type Guard struct {
	sess  SessionSource
	nav   Navigator
	table Table
	log   logging.Logger

	mu     sync.Mutex
	unsubs []func()
}

func NewGuard(sess SessionSource, nav Navigator, table Table, log logging.Logger) *Guard {
	return &Guard{
		sess:  sess,
		nav:   nav,
		table: table,
		log:   log.With("component", "guard"),
	}
}

// Start subscribes to both sources and evaluates the current route once.
func (g *Guard) Start() {
	g.mu.Lock()
	if g.unsubs != nil {
		g.mu.Unlock()
		return
	}
	g.unsubs = []func(){
		g.sess.Subscribe(func(st session.State) { g.evaluate(st.Phase) }),
		g.nav.Subscribe(func(string) { g.evaluate(g.sess.State().Phase) }),
	}
	g.mu.Unlock()

	g.evaluate(g.sess.State().Phase)
}

func (g *Guard) Stop() {
	g.mu.Lock()
	unsubs := g.unsubs
	g.unsubs = nil
	g.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

func (g *Guard) evaluate(phase session.Phase) {
	from := g.nav.Current()
	target, ok := Decide(phase, from, g.table)
	if !ok || target == from {
		return
	}
	g.log.Debug(context.Background(), "redirect", "from", from, "to", target, "phase", phase.String())
	g.nav.Redirect(target)
}
