// Package agent implements the core reasoning loop: it alternates between
// asking the language model for the next step and executing any tools the
// model requests, until a final answer arrives or the round cap is hit.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"

	"notionbridge/pkg/api"
	"notionbridge/pkg/config"
	"notionbridge/pkg/llm"
	"notionbridge/pkg/tools"
	"notionbridge/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// loopState makes the loop's phases explicit; the transition rules live in
// Run and the terminal condition is a visible, testable invariant.
type loopState int

const (
	stateAwaitingModel loopState = iota
	stateExecutingTool
	stateDone
)

// Engine manages the agent loop for one process. It is stateless across
// requests: every Run builds a fresh conversation and no session memory
// survives the call.
// It implements api.AgentEngine.
type Engine struct {
	client   llm.LLMClient
	registry api.ToolRegistry
	executor *tools.Executor
	cfg      *config.Config
}

// New initializes an Engine over the given model client and tool registry.
func New(client llm.LLMClient, registry api.ToolRegistry, executor *tools.Executor, cfg *config.Config) *Engine {
	return &Engine{
		client:   client,
		registry: registry,
		executor: executor,
		cfg:      cfg,
	}
}

// Run executes one full agent loop and returns the final reply text.
// Model transport failures propagate as errors; tool failures are folded
// into the conversation as failed tool turns so the model can adapt.
// When the round cap is reached the degraded reply is returned together
// with ErrLoopExceeded.
func (e *Engine) Run(ctx context.Context, message string, user api.UserContext, notify api.Notifier) (string, error) {
	if notify == nil {
		notify = api.NopNotifier{}
	}

	conversation := []llm.Message{
		llm.NewSystemMessage(buildSystemPrompt(user)),
		llm.NewUserMessage(message),
	}
	specs := e.registry.Specs()

	state := stateAwaitingModel
	rounds := 0
	var reply llm.Message

	for state != stateDone {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("request cancelled: %w", err)
		}

		switch state {
		case stateAwaitingModel:
			if rounds >= e.cfg.MaxRounds {
				slog.Warn("Agent loop exceeded round cap", "max_rounds", e.cfg.MaxRounds)
				return degradedReply, ErrLoopExceeded
			}
			rounds++
			notify.Signal("thinking")

			msg, err := e.askModel(ctx, conversation, specs)
			if err != nil {
				return "", fmt.Errorf("model request failed: %w", err)
			}
			reply = msg

			if msg.HasToolCalls() {
				conversation = append(conversation, msg)
				state = stateExecutingTool
				break
			}
			state = stateDone

		case stateExecutingTool:
			results := e.executeToolCalls(ctx, reply.ToolCalls, user, notify)
			conversation = append(conversation, results...)
			state = stateAwaitingModel
		}
	}

	slog.Info("Agent loop finished", "rounds", rounds, "turns", len(conversation))
	return reply.Content, nil
}

// askModel performs one bounded model round.
func (e *Engine) askModel(ctx context.Context, conversation []llm.Message, specs []llm.ToolSpec) (llm.Message, error) {
	timeout := time.Duration(e.cfg.LLMTimeoutMs) * time.Millisecond
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return e.client.Chat(runCtx, conversation, specs)
}

// executeToolCalls resolves every call the model requested in one round.
// Calls are independent within a round, so they run concurrently; results
// are reassembled in the order the model requested them. Every ToolCall is
// paired with exactly one tool turn, even when a tool panics.
func (e *Engine) executeToolCalls(ctx context.Context, calls []llm.ToolCall, user api.UserContext, notify api.Notifier) []llm.Message {
	results := make([]llm.Message, len(calls))

	g, groupCtx := errgroup.WithContext(ctx)
	for i, tc := range calls {
		g.Go(func() error {
			notify.Signal("tool:" + tc.Name)
			results[i] = e.resolveToolCall(groupCtx, tc, user)
			notify.Signal("tool_done:" + tc.Name)
			return nil
		})
	}
	// Tool failures never abort the group; they become failed tool turns.
	_ = g.Wait()

	return results
}

// resolveToolCall guarantees a tool message comes back for tc no matter how
// execution fails.
func (e *Engine) resolveToolCall(ctx context.Context, tc llm.ToolCall, user api.UserContext) (msg llm.Message) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tool execution panicked", "tool", tc.Name, "error", r)
			msg = llm.NewToolMessage(tc.ID, tc.Name, "Error: internal processing panic")
		}
		msg.ID = utils.GenerateID()
	}()

	var args map[string]any
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			slog.Error("Failed to parse tool args", "tool", tc.Name, "error", err)
			return llm.NewToolMessage(tc.ID, tc.Name, fmt.Sprintf("Error: failed to parse tool arguments: %v", err))
		}
	}

	result, err := e.executor.Execute(ctx, tc.Name, args, user)
	if err != nil {
		// UnknownTool / InvalidArguments: tell the model what went wrong so
		// it can correct itself on the next round.
		return llm.NewToolMessage(tc.ID, tc.Name, "Error: "+err.Error())
	}

	text := result.Text()
	if result.IsError {
		text = "Error: " + text
	}
	return llm.NewToolMessage(tc.ID, tc.Name, text)
}
