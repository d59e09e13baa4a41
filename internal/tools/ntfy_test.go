package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soochol/toolbox/internal/notify"
)

func TestReadMessages(t *testing.T) {
	relay := &fakeRelay{messages: []notify.Message{
		{Time: 1700000000, Message: "old"},
		{Time: 1700000060, Title: "Task", Message: `{"task":"build"}`},
		{Time: 1700000120, Message: "newest"},
	}}
	tool := NewReadMessagesTool(relay, DefaultChannels())

	got, err := tool.Execute(context.Background(), map[string]any{"channel": "agent_commands", "limit": 2})
	require.NoError(t, err)
	assert.Equal(t, "agent_commands", relay.polled)

	out := got.(string)
	assert.True(t, strings.HasPrefix(out, "Messages from 'agent_commands' (latest 2):\n\n"))
	assert.NotContains(t, out, "old")
	assert.Contains(t, out, "1. [Time: 2023-11-14T22:14:20Z]\n   Title: Task\n")
	assert.Contains(t, out, "   Parsed JSON: {\n  \"task\": \"build\"\n}\n")
	assert.Contains(t, out, "2. [Time: 2023-11-14T22:15:20Z]\n   Message: newest\n")
}

func TestReadMessages_Empty(t *testing.T) {
	tool := NewReadMessagesTool(&fakeRelay{}, DefaultChannels())
	got, err := tool.Execute(context.Background(), map[string]any{"channel": "c"})
	require.NoError(t, err)
	assert.Equal(t, "No messages found in channel: c", got)
}

func TestReadMessages_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&notify.StatusError{Op: "ntfy poll", Code: 404}, "Channel 'c' not found or has no messages."},
		{&notify.StatusError{Op: "ntfy poll", Code: 500}, "HTTP error 500 reading from 'c'."},
		{context.DeadlineExceeded, "Timeout reading from ntfy channel 'c'. Check your connection."},
		{errors.New("refused"), "Connection error reading from ntfy channel 'c'."},
	}
	for _, tt := range tests {
		tool := NewReadMessagesTool(&fakeRelay{pollErr: tt.err}, DefaultChannels())
		got, err := tool.Execute(context.Background(), map[string]any{"channel": "c"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestReadMessages_ChannelDescription(t *testing.T) {
	ch := DefaultChannels()
	ch.Commands = "cmds"
	tool := NewReadMessagesTool(&fakeRelay{}, ch)
	props := tool.InputSchema()["properties"].(map[string]any)
	assert.Contains(t, props["channel"].(map[string]any)["description"], "'cmds'")
}

func TestPostMessage(t *testing.T) {
	relay := &fakeRelay{}
	tool := &PostMessageTool{Relay: relay}

	got, err := tool.Execute(context.Background(), map[string]any{"channel": "agent_sync", "message": "done", "title": "T"})
	require.NoError(t, err)
	assert.Equal(t, "Posted to 'agent_sync': done", got)
	assert.Equal(t, []sentMessage{{"agent_sync", "T", "done"}}, relay.sent)

	long := strings.Repeat("a", 50) + "tail"
	got, err = tool.Execute(context.Background(), map[string]any{"channel": "c", "message": long})
	require.NoError(t, err)
	assert.Equal(t, "Posted to 'c': "+strings.Repeat("a", 50)+"...", got)

	exact := strings.Repeat("b", 50)
	got, _ = tool.Execute(context.Background(), map[string]any{"channel": "c", "message": exact})
	assert.Equal(t, "Posted to 'c': "+exact, got)
}

func TestPostMessage_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&notify.StatusError{Code: 429}, "HTTP error 429 posting to 'c'."},
		{context.DeadlineExceeded, "Timeout posting to ntfy channel 'c'."},
		{errors.New("refused"), "Connection error posting to ntfy channel 'c'."},
	}
	for _, tt := range tests {
		tool := &PostMessageTool{Relay: &fakeRelay{sendErr: tt.err}}
		got, err := tool.Execute(context.Background(), map[string]any{"channel": "c", "message": "m"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNotifyExternal(t *testing.T) {
	relay := &fakeRelay{}
	tool := NewNotifyExternalTool(relay, DefaultChannels())
	tool.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	got, err := tool.Execute(context.Background(), map[string]any{
		"agent_id": "agent_7", "status": "error", "message": "disk full", "error": true,
	})
	require.NoError(t, err)
	require.Len(t, relay.sent, 1)

	sent := relay.sent[0]
	assert.Equal(t, "agent_sync", sent.Channel)
	assert.Equal(t, "Agent agent_7 - ERROR [ERROR]", sent.Title)
	assert.True(t, strings.HasPrefix(got.(string), "Posted to 'agent_sync': "))

	var payload StatusNotification
	require.NoError(t, json.Unmarshal([]byte(sent.Message), &payload))
	assert.Equal(t, StatusNotification{
		AgentID:   "agent_7",
		Status:    "error",
		Message:   "disk full",
		Timestamp: "2024-05-01T12:30:00.000000",
		IsError:   true,
	}, payload)
}

func TestNotifyExternal_NoErrorSuffix(t *testing.T) {
	relay := &fakeRelay{}
	tool := NewNotifyExternalTool(relay, DefaultChannels())
	_, err := tool.Execute(context.Background(), map[string]any{"agent_id": "a1", "status": "idle", "message": "m"})
	require.NoError(t, err)
	assert.Equal(t, "Agent a1 - IDLE", relay.sent[0].Title)
}

func TestChannelMessageTools(t *testing.T) {
	ch := DefaultChannels()
	tests := []struct {
		tool    func(notify.Sender) *ChannelMessageTool
		channel string
		title   string
		ack     string
	}{
		{func(r notify.Sender) *ChannelMessageTool { return NewPrivateMessageTool(r, ch) }, "my_private_thoughts", "Inner Scratch Pad", "Sent PM"},
		{func(r notify.Sender) *ChannelMessageTool { return NewNotifyUserTool(r, ch) }, "user_notifications", "User Notifications", "Sent Notification"},
		{func(r notify.Sender) *ChannelMessageTool { return NewFlagUserTool(r, ch) }, "llm_flag_user", "Inner Scratch Pad", "Flagged user"},
	}
	for _, tt := range tests {
		relay := &fakeRelay{}
		tool := tt.tool(relay)
		t.Run(tool.Name(), func(t *testing.T) {
			got, err := tool.Execute(context.Background(), map[string]any{"message": "hello"})
			require.NoError(t, err)
			assert.Equal(t, tt.ack, got)
			assert.Equal(t, []sentMessage{{tt.channel, tt.title, "hello"}}, relay.sent)
		})
	}
}

func TestChannelMessageTool_SendError(t *testing.T) {
	tool := NewNotifyUserTool(&fakeRelay{sendErr: errors.New("refused")}, DefaultChannels())
	got, err := tool.Execute(context.Background(), map[string]any{"message": "x"})
	require.NoError(t, err)
	assert.Equal(t, "Failed to post to 'user_notifications': refused", got)
}
