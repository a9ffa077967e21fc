// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ManuGH/demorec/internal/dispatch"
	xglog "github.com/ManuGH/demorec/internal/log"
)

// Dispatcher is the part of dispatch.Dispatcher the bridge drives.
type Dispatcher interface {
	Command(ctx context.Context, name string, args []string) (dispatch.Reply, error)
	Event(ctx context.Context, ev dispatch.Event) error
}

// Bridge reads the host's line stream and routes every line.
type Bridge struct {
	In       io.Reader
	Host     *Host
	Dispatch Dispatcher
	Printer  *Printer
	Logger   zerolog.Logger
}

// Serve handles lines until the input ends or ctx is cancelled. Lines are
// handled in order; each waits for the previous one to finish.
func (b *Bridge) Serve(ctx context.Context) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(b.In)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("console read: %w", err)
					}
				default:
				}
				b.Logger.Info().Str(xglog.FieldEvent, "console.eof").Msg("console input closed")
				return nil
			}
			b.handle(ctx, raw)
		}
	}
}

func (b *Bridge) handle(ctx context.Context, raw string) {
	line, err := ParseLine(raw)
	if err != nil {
		b.Logger.Warn().Err(err).Str(xglog.FieldEvent, "console.parse_failed").Str("line", raw).Msg("ignoring console line")
		return
	}

	switch line.Kind {
	case LineEmpty:
	case LineStatus:
		b.Host.ApplyStatus(line.Status)
	case LineEvent:
		if err := b.Dispatch.Event(ctx, line.Event); err != nil && isStopped(err) {
			b.Logger.Debug().Err(err).Msg("event dropped during shutdown")
		}
	case LineCommand:
		reply, err := b.Dispatch.Command(ctx, line.Command, line.Args)
		if err != nil && isStopped(err) {
			return
		}
		b.Printer.Print(reply)
	}
}

func isStopped(err error) bool {
	return errors.Is(err, dispatch.ErrStopped) || errors.Is(err, context.Canceled)
}
