// Package resource implements admission control for scatter reads.
//
// The Controller manages three resource types:
//
//   - Memory: Limit the output buffer bytes of in-flight reads (non-blocking, fail-fast)
//   - Concurrency: Limit the number of reads in flight (blocking)
//   - IO: Rate-limit read bandwidth (token bucket)
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(size); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides retry/backoff
//	}
//	defer rc.ReleaseMemory(size)
//
// # Read Slots
//
//	if err := rc.AcquireRead(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseRead()
//
// # IO Rate Limiting
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 100 * 1024 * 1024, // 100MB/s
//	})
//
//	if err := rc.AcquireIO(ctx, size); err != nil {
//	    return err
//	}
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
