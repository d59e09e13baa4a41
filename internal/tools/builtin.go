package tools

import (
	"github.com/soochol/toolbox/internal/notify"
	"github.com/soochol/toolbox/internal/search"
)

// Deps are the backends the built-in tools call out to.
type Deps struct {
	Sandbox  Submitter
	Relay    notify.Relay
	Search   search.Searcher
	Fallback search.Searcher
	Channels Channels
}

// NewNotifyExternalTool returns the status reporter bound to channels.Sync.
func NewNotifyExternalTool(relay notify.Sender, channels Channels) *NotifyExternalTool {
	return &NotifyExternalTool{Relay: relay, Channels: channels}
}

// RegisterBuiltins registers every built-in tool on r.
func RegisterBuiltins(r *Registry, d Deps) {
	r.Register(&DoMathTool{})
	r.Register(&GetWeatherTool{})
	r.Register(&StopLoopTool{})
	r.Register(&ExecuteCodeTool{Sandbox: d.Sandbox})
	r.Register(&SearchTool{Searcher: d.Search})
	r.Register(&SearchFallbackTool{Searcher: d.Fallback})
	r.Register(NewReadMessagesTool(d.Relay, d.Channels))
	r.Register(&PostMessageTool{Relay: d.Relay})
	r.Register(NewNotifyExternalTool(d.Relay, d.Channels))
	r.Register(NewPrivateMessageTool(d.Relay, d.Channels))
	r.Register(NewNotifyUserTool(d.Relay, d.Channels))
	r.Register(NewFlagUserTool(d.Relay, d.Channels))
}
