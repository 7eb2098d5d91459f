// Package limiter bounds concurrent CPU-heavy work such as ffmpeg transcodes.
package limiter

import (
	"context"

	"golang.org/x/sync/semaphore"

	"readalong-editor/internal/config"
)

// cpu is shared by every transcode in the process. A load that is replaced
// while still waiting gives up its place through its context.
var cpu = semaphore.NewWeighted(config.MaxConcurrentTranscodes)

// AcquireCPUSlot blocks until a slot is free or ctx is done.
// Call ReleaseCPUSlot when the operation completes (use defer).
func AcquireCPUSlot(ctx context.Context) error {
	return cpu.Acquire(ctx, 1)
}

// ReleaseCPUSlot releases a slot taken by AcquireCPUSlot.
func ReleaseCPUSlot() {
	cpu.Release(1)
}
