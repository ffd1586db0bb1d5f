package netutil

import (
	"net/http"
	"net/netip"
	"strings"
	"unicode/utf8"
)

// MaxDeviceInfoLength bounds the device descriptor stored with a refresh token.
const MaxDeviceInfoLength = 255

// NormalizeIP accepts a bare IP or an address with a port ("192.0.2.4:1234",
// "[2001:db8::1]:443") and returns the canonical IP without zone.
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if addrPort, err := netip.ParseAddrPort(raw); err == nil {
		return addrPort.Addr().WithZone("").String(), true
	}
	if addr, err := netip.ParseAddr(raw); err == nil {
		return addr.WithZone("").String(), true
	}
	if strings.HasPrefix(raw, "[") && strings.Contains(raw, "]") {
		if addr, err := netip.ParseAddr(raw[1:strings.LastIndex(raw, "]")]); err == nil {
			return addr.WithZone("").String(), true
		}
	}
	return raw, false
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the peer.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip, ok := NormalizeIP(strings.Split(xff, ",")[0]); ok {
			return ip
		}
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		if ip, ok := NormalizeIP(xr); ok {
			return ip
		}
	}
	if ip, ok := NormalizeIP(r.RemoteAddr); ok {
		return ip
	}
	return r.RemoteAddr
}

// DeviceInfo derives the descriptor persisted with a session from the user agent,
// truncated on a rune boundary.
func DeviceInfo(userAgent string) string {
	ua := strings.TrimSpace(userAgent)
	if utf8.RuneCountInString(ua) <= MaxDeviceInfoLength {
		return ua
	}
	var b strings.Builder
	b.Grow(len(ua))
	count := 0
	for _, r := range ua {
		b.WriteRune(r)
		count++
		if count >= MaxDeviceInfoLength {
			break
		}
	}
	return b.String()
}
