package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/soochol/toolbox/internal/notify"
)

const (
	defaultReadLimit = 10
	maxReadLimit     = 100
	postPreviewLen   = 50
)

// Channels names the relay channels the messaging tools write to.
type Channels struct {
	Commands    string
	Sync        string
	TasksPrefix string
	Emergencies string
	Private     string
	User        string
	Flag        string
}

// DefaultChannels returns the stock channel names.
func DefaultChannels() Channels {
	return Channels{
		Commands:    "agent_commands",
		Sync:        "agent_sync",
		TasksPrefix: "agent_",
		Emergencies: "agent_emergencies",
		Private:     "my_private_thoughts",
		User:        "user_notifications",
		Flag:        "llm_flag_user",
	}
}

type readMessagesArgs struct {
	Channel string `json:"channel"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Number of recent messages to retrieve (default: 10, max: 100)" default:"10"`
}

// ReadMessagesTool returns the most recent messages of a relay channel.
type ReadMessagesTool struct {
	Relay notify.Relay

	schema *argSchema
}

func NewReadMessagesTool(relay notify.Relay, channels Channels) *ReadMessagesTool {
	desc := fmt.Sprintf("The ntfy channel name (e.g., '%s', '%s', '%s{agent_id}_tasks', '%s')",
		channels.Commands, channels.Sync, channels.TasksPrefix, channels.Emergencies)
	return &ReadMessagesTool{
		Relay:  relay,
		schema: mustArgSchema[readMessagesArgs](withDescription("channel", desc)),
	}
}

func (r *ReadMessagesTool) Name() string { return "read_ntfy_messages" }

func (r *ReadMessagesTool) Description() string {
	return "Read recent messages from an ntfy.sh coordination channel. Use this to check for " +
		"external commands, task delegations, or status updates from other agents. " +
		"Automatically parses JSON-formatted messages."
}

func (r *ReadMessagesTool) InputSchema() map[string]any { return r.schema.Map() }

func (r *ReadMessagesTool) Execute(ctx context.Context, input any) (any, error) {
	args, err := decodeArgs[readMessagesArgs](r.schema, input)
	if err != nil {
		return nil, err
	}
	limit := args.Limit
	if limit <= 0 {
		limit = defaultReadLimit
	}
	limit = min(limit, maxReadLimit)

	slog.Info("reading ntfy messages", "channel", args.Channel, "limit", limit)
	messages, err := r.Relay.Poll(ctx, args.Channel)
	if err != nil {
		var se *notify.StatusError
		switch {
		case errors.As(err, &se) && se.Code == http.StatusNotFound:
			return fmt.Sprintf("Channel '%s' not found or has no messages.", args.Channel), nil
		case errors.As(err, &se):
			return fmt.Sprintf("HTTP error %d reading from '%s'.", se.Code, args.Channel), nil
		case isTimeout(err):
			return fmt.Sprintf("Timeout reading from ntfy channel '%s'. Check your connection.", args.Channel), nil
		default:
			slog.Error("ntfy read failed", "channel", args.Channel, "err", err)
			return fmt.Sprintf("Connection error reading from ntfy channel '%s'.", args.Channel), nil
		}
	}
	if len(messages) == 0 {
		return fmt.Sprintf("No messages found in channel: %s", args.Channel), nil
	}

	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	slog.Info("ntfy messages retrieved", "channel", args.Channel, "count", len(messages))
	return formatMessages(args.Channel, messages), nil
}

func formatMessages(channel string, messages []notify.Message) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Messages from '%s' (latest %d):\n\n", channel, len(messages))
	for i, m := range messages {
		fmt.Fprintf(&sb, "%d. [Time: %s]\n", i+1, m.Timestamp().Format(time.RFC3339))
		if m.Title != "" {
			fmt.Fprintf(&sb, "   Title: %s\n", m.Title)
		}
		if m.Message != "" {
			fmt.Fprintf(&sb, "   Message: %s\n", m.Message)
			var pretty bytes.Buffer
			if json.Valid([]byte(m.Message)) && json.Indent(&pretty, []byte(m.Message), "", "  ") == nil {
				fmt.Fprintf(&sb, "   Parsed JSON: %s\n", pretty.String())
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

type postMessageArgs struct {
	Channel string `json:"channel" jsonschema:"The ntfy channel name (e.g., 'agent_sync', 'agent_commands_result')"`
	Message string `json:"message" jsonschema:"The message content (can be plain text or JSON string)"`
	Title   string `json:"title,omitempty" jsonschema:"Optional title for the message (appears in notifications)"`
}

var postMessageSchema = mustArgSchema[postMessageArgs]()

// PostMessageTool publishes a message to a relay channel.
type PostMessageTool struct {
	Relay notify.Sender
}

func (p *PostMessageTool) Name() string { return "post_ntfy_message" }

func (p *PostMessageTool) Description() string {
	return "Post a message to an ntfy.sh coordination channel. Use this to send results, " +
		"status updates, or delegate tasks to other agents. Supports plain text or JSON."
}

func (p *PostMessageTool) InputSchema() map[string]any { return postMessageSchema.Map() }

func (p *PostMessageTool) Execute(ctx context.Context, input any) (any, error) {
	args, err := decodeArgs[postMessageArgs](postMessageSchema, input)
	if err != nil {
		return nil, err
	}
	return postMessage(ctx, p.Relay, args.Channel, args.Title, args.Message), nil
}

// postMessage publishes and renders the outcome as a result string.
func postMessage(ctx context.Context, relay notify.Sender, channel, title, message string) string {
	slog.Info("posting ntfy message", "channel", channel)
	if err := relay.Send(ctx, channel, title, message); err != nil {
		var se *notify.StatusError
		switch {
		case errors.As(err, &se):
			return fmt.Sprintf("HTTP error %d posting to '%s'.", se.Code, channel)
		case isTimeout(err):
			return fmt.Sprintf("Timeout posting to ntfy channel '%s'.", channel)
		default:
			slog.Error("ntfy post failed", "channel", channel, "err", err)
			return fmt.Sprintf("Connection error posting to ntfy channel '%s'.", channel)
		}
	}
	slog.Info("ntfy message posted", "channel", channel)

	if r := []rune(message); len(r) > postPreviewLen {
		return fmt.Sprintf("Posted to '%s': %s...", channel, string(r[:postPreviewLen]))
	}
	return fmt.Sprintf("Posted to '%s': %s", channel, message)
}

type notifyExternalArgs struct {
	AgentID string `json:"agent_id" jsonschema:"Your unique agent identifier (e.g., 'agent_123')"`
	Status  string `json:"status" jsonschema:"Current status (e.g., 'executing', 'idle', 'error', 'complete')"`
	Message string `json:"message" jsonschema:"Detailed status message"`
	Error   bool   `json:"error,omitempty" jsonschema:"Whether this is an error notification (default: false)" default:"false"`
}

var notifyExternalSchema = mustArgSchema[notifyExternalArgs]()

// StatusNotification is the JSON payload posted to the sync channel.
type StatusNotification struct {
	AgentID   string `json:"agent_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	IsError   bool   `json:"is_error"`
}

// NotifyExternalTool reports agent status on the sync channel.
type NotifyExternalTool struct {
	Relay    notify.Sender
	Channels Channels

	now func() time.Time
}

func (n *NotifyExternalTool) Name() string { return "notify_external_system" }

func (n *NotifyExternalTool) Description() string {
	return "Notify the external system and other agents about your status. " +
		"Use this to report task completion, errors, or status changes."
}

func (n *NotifyExternalTool) InputSchema() map[string]any { return notifyExternalSchema.Map() }

func (n *NotifyExternalTool) Execute(ctx context.Context, input any) (any, error) {
	args, err := decodeArgs[notifyExternalArgs](notifyExternalSchema, input)
	if err != nil {
		return nil, err
	}
	return n.Notify(ctx, args.AgentID, args.Status, args.Message, args.Error), nil
}

// Notify posts a StatusNotification and returns the post outcome string.
func (n *NotifyExternalTool) Notify(ctx context.Context, agentID, status, message string, isError bool) string {
	now := time.Now
	if n.now != nil {
		now = n.now
	}
	payload, _ := json.Marshal(StatusNotification{
		AgentID:   agentID,
		Status:    status,
		Message:   message,
		Timestamp: now().UTC().Format("2006-01-02T15:04:05.000000"),
		IsError:   isError,
	})

	title := fmt.Sprintf("Agent %s - %s", agentID, strings.ToUpper(status))
	if isError {
		title += " [ERROR]"
	}
	return postMessage(ctx, n.Relay, n.Channels.Sync, title, string(payload))
}

type messageArgs struct {
	Message string `json:"message"`
}

var messageSchema = mustArgSchema[messageArgs]()

// ChannelMessageTool posts its single message argument to a fixed channel
// under a fixed title.
type ChannelMessageTool struct {
	Relay notify.Sender

	name        string
	description string
	channel     string
	title       string
	ack         string
}

func (c *ChannelMessageTool) Name() string                { return c.name }
func (c *ChannelMessageTool) Description() string         { return c.description }
func (c *ChannelMessageTool) InputSchema() map[string]any { return messageSchema.Map() }

func (c *ChannelMessageTool) Execute(ctx context.Context, input any) (any, error) {
	args, err := decodeArgs[messageArgs](messageSchema, input)
	if err != nil {
		return nil, err
	}
	if err := c.Relay.Send(ctx, c.channel, c.title, args.Message); err != nil {
		slog.Error("ntfy post failed", "tool", c.name, "channel", c.channel, "err", err)
		return fmt.Sprintf("Failed to post to '%s': %v", c.channel, err), nil
	}
	return c.ack, nil
}

func NewPrivateMessageTool(relay notify.Sender, channels Channels) *ChannelMessageTool {
	return &ChannelMessageTool{
		Relay:       relay,
		name:        "send_private_message",
		description: "Call this to send any private thoughts you have and wouldn't want the user to see.",
		channel:     channels.Private,
		title:       "Inner Scratch Pad",
		ack:         "Sent PM",
	}
}

func NewNotifyUserTool(relay notify.Sender, channels Channels) *ChannelMessageTool {
	return &ChannelMessageTool{
		Relay: relay,
		name:  "notify_user",
		description: "MUST be run before ending the task with stop_loop. Call this when you want to notify the user " +
			"about when you have completed a task. Your message should contain the name of the task, " +
			"what your answer was, and a summary of the steps taken.",
		channel: channels.User,
		title:   "User Notifications",
		ack:     "Sent Notification",
	}
}

func NewFlagUserTool(relay notify.Sender, channels Channels) *ChannelMessageTool {
	return &ChannelMessageTool{
		Relay:       relay,
		name:        "flag_user",
		description: "Call this to send a report of any harmful, offensive, or inappropriate behavior by a user. Specify what that was.",
		channel:     channels.Flag,
		title:       "Inner Scratch Pad",
		ack:         "Flagged user",
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
