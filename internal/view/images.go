package view

import (
	"net/url"
	"strings"
)

// DefaultLogo is shown when a tenant has no usable icon
const DefaultLogo = "/images/logo.png"

// ImagePolicy is the allow-list for remote tenant images
type ImagePolicy struct {
	hosts map[string]struct{}
}

// NewImagePolicy allows HTTPS images served from exactly the given hosts
func NewImagePolicy(hosts ...string) *ImagePolicy {
	p := &ImagePolicy{hosts: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			p.hosts[h] = struct{}{}
		}
	}
	return p
}

// DefaultImagePolicy allows ucarecdn.com
func DefaultImagePolicy() *ImagePolicy {
	return NewImagePolicy("ucarecdn.com")
}

// Allowed reports whether raw may be used as an image source.
// Site-relative paths are always allowed.
func (p *ImagePolicy) Allowed(raw string) bool {
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.User != nil {
		return false
	}
	_, ok := p.hosts[strings.ToLower(u.Hostname())]
	return ok
}

// Src returns raw when allowed and the default logo otherwise
func (p *ImagePolicy) Src(raw string) string {
	if raw == "" || !p.Allowed(raw) {
		return DefaultLogo
	}
	return raw
}
