package session

import (
	"context"
	"fmt"
	"io"

	"github.com/vuds/bootloader/flash"
	"github.com/vuds/bootloader/metadata"
	"github.com/vuds/bootloader/protocol"
)

// Session drives one firmware update from the first START frame through the
// END frame. A Session is single-use: create a new one for every 'U' command
// the command loop accepts.
type Session struct {
	link     io.ReadWriter
	key      []byte
	base     uint32
	flashP   *flash.Programmer
	meta     *metadata.Store
	resetter Resetter
	cfg      Config

	errCount int
	state    State
}

// New creates a Session that authenticates frames with key, reads/writes
// frames and replies over link, programs firmware starting at firmwareBase
// through flashP, consults meta for rollback checks and installs the new
// record, and calls resetter.Reset when the error budget is exceeded.
func New(link io.ReadWriter, key []byte, firmwareBase uint32, flashP *flash.Programmer, meta *metadata.Store, resetter Resetter, opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Session{
		link:     link,
		key:      key,
		base:     firmwareBase,
		flashP:   flashP,
		meta:     meta,
		resetter: resetter,
		cfg:      cfg,
		state:    ExpectStart,
	}
}

// State reports the session's current state, mostly useful for tests and
// diagnostics; Run owns all transitions.
func (s *Session) State() State { return s.state }

// Run drives the session to completion. It returns nil on a successful END
// frame (state Done), or an *AbortError wrapping the triggering cause if the
// error budget was exceeded (state Abort; the device has already been asked
// to reset by the time Run returns).
func (s *Session) Run(ctx context.Context) error {
	header, err := s.runStart(ctx)
	if err != nil {
		s.state = Abort
		return err
	}

	if err := s.runData(ctx, header); err != nil {
		s.state = Abort
		return err
	}

	if err := s.runEnd(ctx); err != nil {
		s.state = Abort
		return err
	}

	s.state = Done
	return nil
}

// onFrameError accounts a failed attempt at position against the shared
// error budget. If the budget is exceeded it emits StatusEnd, resets the
// device, and returns a non-nil *AbortError the caller must propagate
// immediately. Otherwise it emits StatusError and returns nil so the caller
// retries.
func (s *Session) onFrameError(position string, cause error) *AbortError {
	s.errCount++
	s.cfg.Logger.Error("frame rejected", "position", position, "cause", cause, "errCount", s.errCount)

	if s.errCount > s.cfg.ErrorThreshold {
		_ = protocol.WriteReply(s.link, protocol.StatusEnd)
		s.resetter.Reset()
		return &AbortError{Position: position, Cause: cause}
	}
	_ = protocol.WriteReply(s.link, protocol.StatusError)
	return nil
}

func (s *Session) recordSuccess() {
	s.errCount = 0
}

func (s *Session) runStart(ctx context.Context) (protocol.StartHeader, error) {
	s.state = ExpectStart
	for {
		if err := ctx.Err(); err != nil {
			return protocol.StartHeader{}, fmt.Errorf("session: cancelled: %w", err)
		}

		frame, err := protocol.ReadFrame(s.link, s.key, protocol.StartFrame)
		if err != nil {
			if ab := s.onFrameError("start", err); ab != nil {
				return protocol.StartHeader{}, ab
			}
			continue
		}

		header := protocol.ParseStartHeader(frame.Plaintext)

		oldVersion, err := s.meta.GetInstalledVersion()
		if err != nil {
			if ab := s.onFrameError("start", err); ab != nil {
				return protocol.StartHeader{}, ab
			}
			continue
		}

		if header.Version == 0 {
			header.Version = oldVersion
		} else if header.Version < oldVersion {
			rollback := &RollbackError{Offered: header.Version, Installed: oldVersion}
			if ab := s.onFrameError("start", rollback); ab != nil {
				return protocol.StartHeader{}, ab
			}
			continue
		}

		if err := s.meta.Write(header.Version, header.FirmwareSize); err != nil {
			if ab := s.onFrameError("start", err); ab != nil {
				return protocol.StartHeader{}, ab
			}
			continue
		}

		if err := protocol.WriteReply(s.link, protocol.StatusOK); err != nil {
			return protocol.StartHeader{}, fmt.Errorf("session: write reply: %w", err)
		}
		s.recordSuccess()
		s.cfg.Logger.Info("start accepted", "version", header.Version, "firmware_size", header.FirmwareSize)
		return header, nil
	}
}

func (s *Session) runData(ctx context.Context, header protocol.StartHeader) error {
	s.state = ExpectData
	total := int(header.FirmwareSize) + int(header.ReleaseMessageSize)
	writeAddr := s.base

	for i := 0; i < total; i += protocol.PlaintextSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("session: cancelled: %w", err)
		}

		n := protocol.PlaintextSize
		if remaining := total - i; remaining < n {
			n = remaining
		}

		payload, err := s.receivePage(ctx, i)
		if err != nil {
			return err
		}

		if err := s.programPage(ctx, i, writeAddr, payload[:n]); err != nil {
			return err
		}

		writeAddr += flash.PageSize
		s.recordSuccess()
		if err := protocol.WriteReply(s.link, protocol.StatusOK); err != nil {
			return fmt.Errorf("session: write reply: %w", err)
		}

		if s.cfg.ProgressCallback != nil {
			s.cfg.ProgressCallback(Progress{State: ExpectData, BytesWritten: i + n, TotalBytes: total})
		}
	}

	return nil
}

// receivePage is the DATA phase's first bounded-retry scope: keep reading
// DATA frames at logical position i until one passes authentication. It does
// not touch flash; programPage is a separate scope sharing the same error
// counter.
func (s *Session) receivePage(ctx context.Context, i int) ([protocol.PlaintextSize]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return [protocol.PlaintextSize]byte{}, fmt.Errorf("session: cancelled: %w", err)
		}

		frame, err := protocol.ReadFrame(s.link, s.key, protocol.DataFrame)
		if err != nil {
			if ab := s.onFrameError(fmt.Sprintf("data@%d/receive", i), err); ab != nil {
				return [protocol.PlaintextSize]byte{}, ab
			}
			continue
		}
		return frame.Plaintext, nil
	}
}

// programPage is the DATA phase's second bounded-retry scope: program the
// already-authenticated payload and verify by read-back, retrying the
// program/verify step (not the network frame) on failure.
func (s *Session) programPage(ctx context.Context, i int, writeAddr uint32, payload []byte) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("session: cancelled: %w", err)
		}

		if err := s.flashP.Program(writeAddr, payload); err != nil {
			if ab := s.onFrameError(fmt.Sprintf("data@%d/program", i), err); ab != nil {
				return ab
			}
			continue
		}
		if err := s.flashP.Verify(writeAddr, payload); err != nil {
			if ab := s.onFrameError(fmt.Sprintf("data@%d/verify", i), err); ab != nil {
				return ab
			}
			continue
		}
		return nil
	}
}

func (s *Session) runEnd(ctx context.Context) error {
	s.state = ExpectEnd
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("session: cancelled: %w", err)
		}

		_, err := protocol.ReadFrame(s.link, s.key, protocol.EndFrame)
		if err != nil {
			if ab := s.onFrameError("end", err); ab != nil {
				return ab
			}
			continue
		}

		if err := protocol.WriteReply(s.link, protocol.StatusOK); err != nil {
			return fmt.Errorf("session: write reply: %w", err)
		}
		s.recordSuccess()
		s.cfg.Logger.Info("update complete")
		return nil
	}
}
