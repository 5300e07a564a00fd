package llm

import (
	"context"
	"sync"
)

// NewLazy returns a Client that defers building the underlying client until
// the first Chat call. Commands that never dispatch a query therefore never
// pay the construction cost or its failure modes, such as a missing
// credential. A build error is returned from every Chat call; the build is
// not retried.
func NewLazy(build func() (Client, error)) Client {
	return &lazyClient{build: build}
}

type lazyClient struct {
	once   sync.Once
	build  func() (Client, error)
	client Client
	err    error
}

func (l *lazyClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	l.once.Do(func() {
		l.client, l.err = l.build()
	})
	if l.err != nil {
		return ChatResponse{}, l.err
	}
	return l.client.Chat(ctx, req)
}
