package dnsfilter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"
)

// ListenAndServe serves h on addr over both UDP and TCP until ctx is
// cancelled or either server fails.
func ListenAndServe(ctx context.Context, addr string, h dns.Handler) error {
	pc, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on udp %s: %w", addr, err)
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		pc.Close()
		return fmt.Errorf("failed to listen on tcp %s: %w", addr, err)
	}

	return Serve(ctx, pc, l, h)
}

// Serve runs h on the given packet conn and listener. Both are closed
// when Serve returns.
func Serve(ctx context.Context, pc net.PacketConn, l net.Listener, h dns.Handler) error {
	servers := []*dns.Server{
		{PacketConn: pc, Handler: h},
		{Listener: l, Handler: h},
	}

	g, ctx := errgroup.WithContext(ctx)

	started := make([]chan struct{}, len(servers))
	stopped := make([]chan struct{}, len(servers))
	for i, srv := range servers {
		started[i] = make(chan struct{})
		stopped[i] = make(chan struct{})
		srv.NotifyStartedFunc = func() { close(started[i]) }

		g.Go(func() error {
			defer close(stopped[i])
			return srv.ActivateAndServe()
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		for i, srv := range servers {
			// shutting down a server that never started is an error
			select {
			case <-started[i]:
			case <-stopped[i]:
				continue
			}
			if err := srv.ShutdownContext(context.WithoutCancel(ctx)); err != nil {
				slog.Debug("DNS server shutdown", "err", err)
			}
		}
		return ctx.Err()
	})

	slog.Info("DNS filter listening", "udp", pc.LocalAddr().String(), "tcp", l.Addr().String())

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
