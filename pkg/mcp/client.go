// Package mcp wraps the official MCP Go SDK behind the small surface the
// bridge needs: connect to the Notion-integration service, mirror its tool
// list, and invoke tools on behalf of the agent loop.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ToolDescriptor is the provider-neutral view of one remote MCP tool.
type ToolDescriptor struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema of the input arguments
}

// ToolCallResult is the flattened outcome of one remote tool invocation.
type ToolCallResult struct {
	Text    string
	IsError bool
}

// Client manages a single session against the MCP server. It connects once
// and is safe for concurrent use afterwards; a failed connection leaves the
// client in a degraded state that the health endpoint reports.
//
// A stdio subprocess lives for the client's lifetime, not the Connect
// call's: it is bound to procCtx and torn down only by Close. The context
// passed to Connect bounds the handshake and tool listing only.
type Client struct {
	impl *mcpsdk.Client
	spec string
	env  []string

	procCtx    context.Context
	procCancel context.CancelFunc

	mu      sync.RWMutex
	session *mcpsdk.ClientSession
	tools   []ToolDescriptor
}

// New creates a client for the given transport spec. env entries
// ("KEY=value") are appended to a stdio subprocess's environment; they are
// ignored for HTTP transports.
func New(spec string, env []string) *Client {
	impl := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "notionbridge", Version: "1.0.0"}, nil)
	procCtx, procCancel := context.WithCancel(context.Background())
	return &Client{impl: impl, spec: spec, env: env, procCtx: procCtx, procCancel: procCancel}
}

// Connect establishes the session and caches the remote tool list. ctx
// bounds only the handshake and listing round-trips; cancelling it after
// Connect returns does not affect the running session.
func (c *Client) Connect(ctx context.Context) error {
	transport, err := c.buildTransport()
	if err != nil {
		return fmt.Errorf("build transport: %w", err)
	}

	session, err := c.impl.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("connect to MCP server: %w", err)
	}

	var tools []ToolDescriptor
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			session.Close()
			return fmt.Errorf("list MCP tools: %w", err)
		}
		tools = append(tools, toDescriptor(tool))
	}

	c.mu.Lock()
	c.session = session
	c.tools = tools
	c.mu.Unlock()
	return nil
}

// Connected reports whether a live session exists.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil
}

// Tools returns the tool list cached at connect time.
func (c *Client) Tools() []ToolDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ToolDescriptor, len(c.tools))
	copy(out, c.tools)
	return out
}

// ToolCount returns the number of remote tools, 0 when disconnected.
func (c *Client) ToolCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return 0
	}
	return len(c.tools)
}

// CallTool invokes a remote tool and flattens the result.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*ToolCallResult, error) {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()

	if session == nil {
		return nil, fmt.Errorf("MCP server not connected")
	}

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, content := range result.Content {
		if tc, ok := content.(*mcpsdk.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return &ToolCallResult{Text: sb.String(), IsError: result.IsError}, nil
}

// Close shuts down the session and the stdio subprocess, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.procCancel()
	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	c.tools = nil
	return err
}

func (c *Client) buildTransport() (mcpsdk.Transport, error) {
	spec := strings.TrimSpace(c.spec)
	if spec == "" {
		return nil, fmt.Errorf("MCP server path is empty")
	}

	if strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://") {
		return &mcpsdk.StreamableClientTransport{Endpoint: spec}, nil
	}

	argv := stdioCommand(spec)
	// #nosec G204 -- the command comes from operator config, not request input
	cmd := exec.CommandContext(c.procCtx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), c.env...)
	return &mcpsdk.CommandTransport{Command: cmd}, nil
}

// stdioCommand splits a stdio transport spec into argv. A bare Python script
// path is run through the interpreter, matching how the tool server ships.
func stdioCommand(spec string) []string {
	parts := strings.Fields(spec)
	if len(parts) == 1 && strings.HasSuffix(parts[0], ".py") {
		return []string{"python3", parts[0]}
	}
	return parts
}

func toDescriptor(tool *mcpsdk.Tool) ToolDescriptor {
	if tool == nil {
		return ToolDescriptor{}
	}
	d := ToolDescriptor{Name: tool.Name, Description: tool.Description}
	if tool.InputSchema != nil {
		raw, err := json.Marshal(tool.InputSchema)
		if err == nil {
			var schema map[string]any
			if json.Unmarshal(raw, &schema) == nil {
				d.Schema = schema
			}
		}
	}
	return d
}
