package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/xy-planning-network/checkpoint"
)

// UnknownClientIP identifies a client whose address cannot be determined.
const UnknownClientIP = "0.0.0.0"

// ForwardingHeaders are read, in order, for the address of a client behind proxies.
var ForwardingHeaders = []string{"X-Forwarded-For", "X-Real-Ip"}

// nonPublic are the ranges a proxy, not a client, sends from,
// beyond those netip.Addr.IsPrivate and IsLoopback report.
var nonPublic = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
}

// InjectClientIP determines the address of the client making a request
// and stores it in the request context under checkpoint.IpAddrKey.
func InjectClientIP() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.Clone(context.WithValue(r.Context(), checkpoint.IpAddrKey, ClientIP(r)))
			h.ServeHTTP(w, r)
		})
	}
}

// ClientIPFromContext retrieves the address InjectClientIP stored in ctx.
func ClientIPFromContext(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(checkpoint.IpAddrKey).(string)
	return ip, ok && ip != ""
}

// ClientIP determines the address of the client making r.
//
// Addresses in ForwardingHeaders are read right to left,
// so the first public one is the client the nearest proxy saw.
// Without a public forwarded address, the public remote address of r is used.
// Otherwise, ClientIP is UnknownClientIP.
func ClientIP(r *http.Request) string {
	for _, h := range ForwardingHeaders {
		addrs := strings.Split(r.Header.Get(h), ",")
		for i := len(addrs) - 1; i >= 0; i-- {
			if addr, ok := publicAddr(strings.TrimSpace(addrs[i])); ok {
				return addr.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if addr, ok := publicAddr(host); ok {
		return addr.String()
	}

	return UnknownClientIP
}

func publicAddr(s string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}

	addr = addr.Unmap()
	if !addr.IsGlobalUnicast() || addr.IsPrivate() {
		return netip.Addr{}, false
	}

	for _, p := range nonPublic {
		if p.Contains(addr) {
			return netip.Addr{}, false
		}
	}

	return addr, true
}
