package render

import "net/url"

// Link is a resolved tile header link.
type Link struct {
	Href   string `json:"href"`
	Target string `json:"target,omitempty"`
}

// ResolveHeaderLink decides how a tile header link opens. Absolute URLs
// on origin are shortened to their path and open in place, other absolute
// URLs open in a new tab and anything else is used as is.
func ResolveHeaderLink(href, origin string) Link {
	u, err := url.Parse(href)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Link{Href: href}
	}
	if o, err := url.Parse(origin); err == nil && o.Scheme == u.Scheme && o.Host == u.Host {
		path := u.EscapedPath()
		if path == "" {
			path = "/"
		}
		return Link{Href: path}
	}
	return Link{Href: href, Target: "_blank"}
}
