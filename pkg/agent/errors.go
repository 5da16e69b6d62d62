package agent

import "errors"

// ErrLoopExceeded is returned when the agent loop hits its round cap while
// the model is still requesting tools. The caller receives it together with
// the degraded fallback reply.
var ErrLoopExceeded = errors.New("agent loop exceeded maximum rounds")
