// Package dnsfilter answers DNS queries for names matched by a
// domaintrie.Trie with NXDOMAIN and forwards the rest upstream.
package dnsfilter

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"

	"github.com/gilliginsisland/domainlookup/pkg/dnsname"
	"github.com/gilliginsisland/domainlookup/pkg/domaintrie"
)

const DefaultTimeout = 5 * time.Second

var _ dns.Handler = (*Handler)(nil)

// Handler must not be used while its Trie is still being built.
type Handler struct {
	Trie *domaintrie.Trie
	// Upstream is the resolver address for unmatched names.
	// Without one, unmatched names are REFUSED.
	Upstream string
	Client   *dns.Client
	Logger   *slog.Logger

	total   atomic.Int64
	blocked atomic.Int64
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *Handler) client() *dns.Client {
	if h.Client != nil {
		return h.Client
	}
	return &dns.Client{Net: "udp", Timeout: DefaultTimeout}
}

// Stats returns the number of queries handled and blocked so far.
func (h *Handler) Stats() (total, blocked int64) {
	return h.total.Load(), h.blocked.Load()
}

func (h *Handler) ServeDNS(w dns.ResponseWriter, r *dns.Msg) {
	h.total.Add(1)

	if len(r.Question) == 0 {
		m := new(dns.Msg)
		m.SetRcode(r, dns.RcodeFormatError)
		h.write(w, m)
		return
	}

	q := r.Question[0]
	name := dnsname.Canonical(q.Name)

	if match, ok := h.Trie.Lookup(name); ok {
		h.blocked.Add(1)
		h.logger().Info("Blocked query", "name", name, "type", dns.TypeToString[q.Qtype], "match", match)

		m := new(dns.Msg)
		m.SetRcode(r, dns.RcodeNameError)
		h.write(w, m)
		return
	}

	if h.Upstream == "" {
		h.logger().Debug("Refused query", "name", name)
		m := new(dns.Msg)
		m.SetRcode(r, dns.RcodeRefused)
		h.write(w, m)
		return
	}

	h.forward(w, r)
}

func (h *Handler) forward(w dns.ResponseWriter, r *dns.Msg) {
	c := h.client()
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout+time.Second)
	defer cancel()

	resp, rtt, err := c.ExchangeContext(ctx, r, h.Upstream)
	if err != nil {
		h.logger().Warn("Forward failed", "upstream", h.Upstream, "err", err)
		dns.HandleFailed(w, r)
		return
	}

	h.logger().Debug("Forwarded query", "name", r.Question[0].Name, "upstream", h.Upstream, "rtt", rtt)
	resp.Id = r.Id
	h.write(w, resp)
}

func (h *Handler) write(w dns.ResponseWriter, m *dns.Msg) {
	if err := w.WriteMsg(m); err != nil {
		h.logger().Debug("Failed to write response", "remote", w.RemoteAddr(), "err", err)
	}
}
