package dnsfilter

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilliginsisland/domainlookup/pkg/domaintrie"
)

// recorder captures the message written by a handler.
type recorder struct {
	dns.ResponseWriter
	msg *dns.Msg
}

func (r *recorder) WriteMsg(m *dns.Msg) error {
	r.msg = m
	return nil
}

func (r *recorder) RemoteAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 53000}
}

func newTrie(t *testing.T, patterns ...string) *domaintrie.Trie {
	t.Helper()
	tree := domaintrie.New()
	for _, p := range patterns {
		require.NoError(t, tree.Insert(p))
	}
	return tree
}

func query(name string, qtype uint16) *dns.Msg {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	return m
}

// startServer serves h on loopback and returns the address clients can
// reach over both UDP and TCP.
func startServer(t *testing.T, h dns.Handler) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	// the TCP listener must share the UDP port
	l, err := net.Listen("tcp", pc.LocalAddr().String())
	if err != nil {
		pc.Close()
		t.Skipf("tcp port %s unavailable: %v", pc.LocalAddr(), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, pc, l, h) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down")
		}
	})

	return pc.LocalAddr().String()
}

func exchange(t *testing.T, network, addr string, m *dns.Msg) *dns.Msg {
	t.Helper()
	c := &dns.Client{Net: network, Timeout: 2 * time.Second}

	var (
		resp *dns.Msg
		err  error
	)
	// the server goroutines may not be accepting yet
	require.Eventually(t, func() bool {
		resp, _, err = c.Exchange(m, addr)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
	return resp
}

func TestHandlerBlocks(t *testing.T) {
	h := &Handler{Trie: newTrie(t, ".doubleclick.net", "tracker.example.com")}

	tests := []struct {
		name  string
		rcode int
	}{
		{"ad.doubleclick.net.", dns.RcodeNameError},
		{"AD.DoubleClick.NET.", dns.RcodeNameError},
		{"tracker.example.com.", dns.RcodeNameError},
		{"doubleclick.net.", dns.RcodeRefused},
		{"www.example.com.", dns.RcodeRefused},
		{".", dns.RcodeRefused},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := query(tc.name, dns.TypeA)
			w := &recorder{}
			h.ServeDNS(w, req)

			require.NotNil(t, w.msg)
			assert.Equal(t, tc.rcode, w.msg.Rcode, dns.RcodeToString[w.msg.Rcode])
			assert.Equal(t, req.Id, w.msg.Id)
			assert.True(t, w.msg.Response)
			assert.Empty(t, w.msg.Answer)
		})
	}

	total, blocked := h.Stats()
	assert.EqualValues(t, len(tests), total)
	assert.EqualValues(t, 3, blocked)
}

func TestHandlerNoQuestion(t *testing.T) {
	h := &Handler{Trie: domaintrie.New()}

	req := new(dns.Msg)
	req.Id = dns.Id()
	w := &recorder{}
	h.ServeDNS(w, req)

	require.NotNil(t, w.msg)
	assert.Equal(t, dns.RcodeFormatError, w.msg.Rcode)
}

func TestHandlerForwards(t *testing.T) {
	upstream := startServer(t, dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		rr, err := dns.NewRR(r.Question[0].Name + " 60 IN A 192.0.2.1")
		if err == nil {
			m.Answer = append(m.Answer, rr)
		}
		w.WriteMsg(m)
	}))

	h := &Handler{
		Trie:     newTrie(t, ".blocked.test"),
		Upstream: upstream,
	}

	req := query("www.allowed.test", dns.TypeA)
	w := &recorder{}
	h.ServeDNS(w, req)

	require.NotNil(t, w.msg)
	assert.Equal(t, dns.RcodeSuccess, w.msg.Rcode)
	assert.Equal(t, req.Id, w.msg.Id)
	require.Len(t, w.msg.Answer, 1)
	assert.Equal(t, "192.0.2.1", w.msg.Answer[0].(*dns.A).A.String())

	w = &recorder{}
	h.ServeDNS(w, query("ads.blocked.test", dns.TypeA))
	require.NotNil(t, w.msg)
	assert.Equal(t, dns.RcodeNameError, w.msg.Rcode)
}

func TestHandlerUpstreamFailure(t *testing.T) {
	// nothing listens on a freshly closed port
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := pc.LocalAddr().String()
	pc.Close()

	h := &Handler{
		Trie:     domaintrie.New(),
		Upstream: addr,
		Client:   &dns.Client{Net: "udp", Timeout: 200 * time.Millisecond},
	}

	w := &recorder{}
	h.ServeDNS(w, query("example.com", dns.TypeA))

	require.NotNil(t, w.msg)
	assert.Equal(t, dns.RcodeServerFailure, w.msg.Rcode)
}

func TestServe(t *testing.T) {
	h := &Handler{Trie: newTrie(t, ".twitter.com", "exact.example.com")}
	addr := startServer(t, h)

	for _, network := range []string{"udp", "tcp"} {
		t.Run(network, func(t *testing.T) {
			resp := exchange(t, network, addr, query("api.twitter.com", dns.TypeAAAA))
			assert.Equal(t, dns.RcodeNameError, resp.Rcode)

			resp = exchange(t, network, addr, query("exact.example.com", dns.TypeA))
			assert.Equal(t, dns.RcodeNameError, resp.Rcode)

			resp = exchange(t, network, addr, query("twitter.com", dns.TypeA))
			assert.Equal(t, dns.RcodeRefused, resp.Rcode)
		})
	}
}

func TestListenAndServeBadAddr(t *testing.T) {
	err := ListenAndServe(context.Background(), "not an address", &Handler{Trie: domaintrie.New()})
	assert.Error(t, err)
}
