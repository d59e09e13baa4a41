package tools

import (
	"context"

	"github.com/soochol/toolbox/internal/notify"
	"github.com/soochol/toolbox/internal/sandbox"
	"github.com/soochol/toolbox/internal/search"
)

type sentMessage struct {
	Channel, Title, Message string
}

type fakeRelay struct {
	sent     []sentMessage
	sendErr  error
	messages []notify.Message
	pollErr  error
	polled   string
}

func (f *fakeRelay) Send(_ context.Context, channel, title, message string) error {
	f.sent = append(f.sent, sentMessage{channel, title, message})
	return f.sendErr
}

func (f *fakeRelay) Poll(_ context.Context, channel string) ([]notify.Message, error) {
	f.polled = channel
	return f.messages, f.pollErr
}

type fakeSearcher struct {
	results []search.Result
	err     error
	query   string
	n       int
}

func (f *fakeSearcher) Search(_ context.Context, q string, n int) ([]search.Result, error) {
	f.query, f.n = q, n
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > n {
		return f.results[:n], nil
	}
	return f.results, nil
}

type fakeSubmitter struct {
	completion string
	opts       sandbox.Options
	result     *sandbox.Result
	err        error
}

func (f *fakeSubmitter) Submit(_ context.Context, completion string, opts sandbox.Options) (*sandbox.Result, error) {
	f.completion, f.opts = completion, opts
	return f.result, f.err
}
