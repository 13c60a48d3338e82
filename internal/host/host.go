// Package host is the boundary between players and whatever displays them.
// A host reports its viewport and scroll geometry, publishes input on a Bus
// and runs callbacks before its next display refresh.
package host

import (
	"github.com/ivlev/scrollreel/internal/schedule"
	"github.com/ivlev/scrollreel/internal/scroll"
	"github.com/ivlev/scrollreel/internal/surface"
)

type Host interface {
	Viewport() surface.Viewport
	// Document is the host's primary scroll container.
	Document() scroll.Container
	// Container resolves a named scroll container, or nil when none exists.
	Container(name string) scroll.Container
	Events() *Bus

	schedule.FrameRequester
}
