// Package session runs one interactive layout session: it owns the live
// template, tracks the active breakpoint from container width reports and
// turns grid events (drag, drop, move, resize, tile menu actions) into
// template commits announced to the host.
package session
