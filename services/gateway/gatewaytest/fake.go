// Package gatewaytest provides a scripted Generator for tests that must not
// reach the network.
package gatewaytest

import (
	"context"
	"fmt"
	"sync"

	"rubricgen/services/prompt"
)

type Reply struct {
	Text string
	Err  error
}

// Generator returns scripted replies keyed by request name and records every
// request it receives. A request with no scripted reply fails.
type Generator struct {
	mu       sync.Mutex
	replies  map[string][]Reply
	requests []prompt.Request

	// Block, when set, is waited on before replying, so tests can hold a
	// call in flight. A cancelled ctx releases it with ctx.Err().
	Block chan struct{}
	// Started, when set, receives the request name as each call begins.
	Started chan string
}

func New() *Generator {
	return &Generator{replies: map[string][]Reply{}}
}

func (g *Generator) Reply(name, text string) *Generator {
	return g.push(name, Reply{Text: text})
}

func (g *Generator) Fail(name string, err error) *Generator {
	return g.push(name, Reply{Err: err})
}

func (g *Generator) push(name string, r Reply) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.replies[name] = append(g.replies[name], r)
	return g
}

func (g *Generator) Requests() []prompt.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]prompt.Request(nil), g.requests...)
}

func (g *Generator) Generate(ctx context.Context, req prompt.Request) (string, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	queue := g.replies[req.Name]
	var reply *Reply
	if len(queue) > 0 {
		reply = &queue[0]
		g.replies[req.Name] = queue[1:]
	}
	block, started := g.Block, g.Started
	g.mu.Unlock()

	if started != nil {
		started <- req.Name
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if reply == nil {
		return "", fmt.Errorf("no scripted reply for %s", req.Name)
	}
	return reply.Text, reply.Err
}
