package cmdloop

import (
	"context"
	"fmt"

	"github.com/vuds/bootloader/boot"
	"github.com/vuds/bootloader/link"
	"github.com/vuds/bootloader/session"
)

// Resetter is the out-of-scope on-chip reset controller. The reset-link
// watcher calls it directly; it never touches session or command-loop
// state.
type Resetter interface {
	Reset()
}

// CommandLoop implements the top-level 'U'/'B' arbitration loop.
type CommandLoop struct {
	hostLink   link.HostLink
	debugLink  link.DebugLink
	resetLink  link.ResetLink
	newSession func() *session.Session
	dispatcher *boot.Dispatcher
	resetter   Resetter
	cfg        Config
}

// New creates a CommandLoop. newSession is called once per accepted 'U'
// command to produce a fresh, single-use Session bound to hostLink.
func New(hostLink link.HostLink, debugLink link.DebugLink, resetLink link.ResetLink, newSession func() *session.Session, dispatcher *boot.Dispatcher, resetter Resetter, opts ...Option) *CommandLoop {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &CommandLoop{
		hostLink:   hostLink,
		debugLink:  debugLink,
		resetLink:  resetLink,
		newSession: newSession,
		dispatcher: dispatcher,
		resetter:   resetter,
		cfg:        cfg,
	}
}

// Run emits the greeting, starts the reset-link watcher, and loops reading
// command bytes from the host link until ctx is cancelled, a boot succeeds
// (boot.Dispatcher.Boot does not return on real hardware), or the host link
// errors out.
func (c *CommandLoop) Run(ctx context.Context) error {
	fmt.Fprintln(c.debugLink, c.cfg.Greeting)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.watchResetLink(watchCtx)

	var cmd [1]byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := c.hostLink.Read(cmd[:]); err != nil {
			return fmt.Errorf("cmdloop: read command: %w", err)
		}

		switch cmd[0] {
		case 'U':
			if _, err := c.hostLink.Write(cmd[:]); err != nil {
				return fmt.Errorf("cmdloop: echo 'U': %w", err)
			}
			sess := c.newSession()
			if err := sess.Run(ctx); err != nil {
				c.cfg.Logger.Error("update session ended", "err", err)
				continue
			}
			c.cfg.Logger.Info("update session complete")

		case 'B':
			if _, err := c.hostLink.Write(cmd[:]); err != nil {
				return fmt.Errorf("cmdloop: echo 'B': %w", err)
			}
			if err := c.dispatcher.Boot(); err != nil {
				c.cfg.Logger.Error("boot failed", "err", err)
				continue
			}
			// A real Launcher never returns on success; test doubles do, so
			// Run ends the loop cleanly here.
			return nil

		default:
			// any other command byte is ignored.
		}
	}
}

// watchResetLink blocks reading single bytes from the reset link until it
// sees link.ResetByte (triggering Resetter.Reset and returning) or ctx is
// cancelled. It is the closest Go analog of a single hardware interrupt
// source: it mutates nothing but the Resetter.
func (c *CommandLoop) watchResetLink(ctx context.Context) {
	var b [1]byte
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := c.resetLink.Read(b[:])
		if err != nil {
			return
		}
		if n > 0 && b[0] == link.ResetByte {
			c.resetter.Reset()
			return
		}
	}
}
