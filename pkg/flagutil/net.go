package flagutil

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/jessevdk/go-flags"
)

// DNSPort is assumed when an address is given without a port.
const DNSPort = "53"

// HostPort is a resolver or listening address in host:port form.
// A bare host or IP gets DNSPort.
type HostPort string

var _ flags.Unmarshaler = (*HostPort)(nil)

func (hp *HostPort) UnmarshalText(text []byte) error {
	addr, err := parseHostPort(string(text))
	if err != nil {
		return err
	}
	*hp = HostPort(addr)
	return nil
}

func (hp *HostPort) UnmarshalFlag(value string) error {
	return hp.UnmarshalText([]byte(value))
}

func (hp HostPort) String() string {
	return string(hp)
}

func parseHostPort(s string) (string, error) {
	// a bare IPv6 address is full of colons but has no port
	if ip := net.ParseIP(s); ip != nil {
		return net.JoinHostPort(s, DNSPort), nil
	}

	host, port, err := net.SplitHostPort(s)
	var addrErr *net.AddrError
	if errors.As(err, &addrErr) && addrErr.Err == "missing port in address" {
		host, port, err = s, DNSPort, nil
	}
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", s, err)
	}

	if n, err := strconv.ParseUint(port, 10, 16); err != nil || n == 0 {
		return "", fmt.Errorf("invalid port %q in address %q", port, s)
	}
	return net.JoinHostPort(host, port), nil
}
