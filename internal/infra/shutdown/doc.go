// Package shutdown runs cleanup hooks when the process is asked to stop.
//
// The watch command registers its final flush here so that SIGINT or
// SIGTERM performs exactly one unconditional save before exit:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return editor.Close(ctx) })
//	err := h.Wait(ctx)
package shutdown
