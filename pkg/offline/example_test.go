package offline_test

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ahoin001/Soma-sub005/pkg/offline"
)

// ExampleNew demonstrates how to embed the offline sync client in an
// application.
func ExampleNew() {
	cfg := offline.Config{
		DBPath:   "/path/to/pending.db",
		ProbeURL: "https://api.soma.fit/v1/ping",
	}

	client, err := offline.New(cfg)
	if err != nil {
		fmt.Printf("failed to create client: %v\n", err)
		return
	}

	// Bind an idempotent handler per mutation kind before starting.
	client.RegisterHandler(offline.KindLogWeight, func(ctx context.Context, payload json.RawMessage) error {
		// POST the payload to the backend here.
		return nil
	})

	ctx := context.Background()
	if err := client.Start(ctx); err != nil {
		fmt.Printf("failed to start: %v\n", err)
		return
	}
	defer client.Stop()

	// Writes go through Execute: immediate when online, queued otherwise.
	payload := json.RawMessage(`{"kg": 79.4}`)
	result, err := client.Execute(ctx, offline.KindLogWeight, payload, func(ctx context.Context) error {
		// Attempt the remote call; wrap network failures with
		// offline.Transient so they convert into a queued write.
		return nil
	})
	if err != nil {
		fmt.Printf("write rejected: %v\n", err)
		return
	}
	if result.Queued {
		fmt.Println("saved locally, will sync when online")
	}
}

// Example_observer shows how to surface sync results to users.
func Example_observer() {
	handler := &toastObserver{}

	cfg := offline.Config{
		DBPath:   "/path/to/pending.db",
		ProbeURL: "https://api.soma.fit/v1/ping",
	}
	client, err := offline.New(cfg, offline.WithObserver(handler))
	if err != nil {
		fmt.Printf("failed to create client: %v\n", err)
		return
	}
	_ = client // Register handlers, Start, ...
}

// toastObserver turns sync results into user-facing notifications.
type toastObserver struct {
	offline.BaseObserver // Embed for no-op defaults
}

func (o *toastObserver) OnRunComplete(result offline.RunResult) {
	fmt.Println(result.Summary()) // e.g. "3 updates saved, 1 will retry"
}

func (o *toastObserver) OnPendingCount(count int) {
	fmt.Printf("pending badge: %d\n", count)
}
