package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ahoin001/Soma-sub005/internal/adapters/sqlite"
	"github.com/ahoin001/Soma-sub005/internal/cliconfig"
	"github.com/ahoin001/Soma-sub005/internal/domain"
	"github.com/ahoin001/Soma-sub005/internal/ports"
)

// syncHandler returns a handler that posts the queued payload to the sync
// service. Transport failures and server-side errors wrap as transient so
// the record stays queued for another attempt; client-side rejections are
// permanent and count against the retry ceiling.
func syncHandler(httpClient *http.Client, serviceURL, authKey string, kind domain.Kind) ports.Handler {
	endpoint := serviceURL + "/v1/sync/" + string(kind)

	return func(ctx context.Context, payload json.RawMessage) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build sync request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if authKey != "" {
			req.Header.Set("Authorization", "Bearer "+authKey)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return domain.Transientf("post %s: %w", kind, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return domain.Transientf("post %s: server returned %s", kind, resp.Status)
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("post %s: rejected with %s: %s", kind, resp.Status, bytes.TrimSpace(body))
		}
	}
}

// openStore opens the on-device queue for read-mostly inspection commands.
func openStore(cfg *cliconfig.Config) (*sqlite.Store, func(), error) {
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return sqlite.NewStore(db), func() { db.Close() }, nil
}

// statusCmd reports how many mutations are waiting to sync.
func statusCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the number of queued mutations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			switch n {
			case 0:
				fmt.Println("queue empty, everything is synced")
			case 1:
				fmt.Println("1 mutation waiting to sync")
			default:
				fmt.Printf("%d mutations waiting to sync\n", n)
			}
			return nil
		},
	}
}

// listCmd dumps the queued mutations in replay order.
func listCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List queued mutations in replay order",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			records, err := store.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("queue empty")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tAGE\tRETRIES\tLAST ERROR")
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					rec.ID, rec.Kind, formatAge(rec.CreatedAt), rec.RetryCount, rec.LastError)
			}
			return w.Flush()
		},
	}
}

// processCmd drains the queue once without starting the agent loop.
func processCmd(cfg *cliconfig.Config, logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Drain the queue once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient(cfg, logger)
			if err != nil {
				return err
			}

			result, err := client.Process(cmd.Context())
			if err != nil {
				return fmt.Errorf("drain queue: %w", err)
			}
			fmt.Println(result.Summary())
			return nil
		},
	}
}

// purgeCmd drops mutations that exhausted their retries. Skipped records
// stay in the queue so the user can inspect what failed; purge is the
// explicit way to let them go.
func purgeCmd(cfg *cliconfig.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove mutations that exhausted their retries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			records, err := store.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			purged := 0
			for _, rec := range records {
				if rec.RetryCount < cfg.MaxRetries {
					continue
				}
				if err := store.Remove(cmd.Context(), rec.ID); err != nil {
					return err
				}
				purged++
			}
			switch purged {
			case 0:
				fmt.Println("nothing to purge")
			case 1:
				fmt.Println("purged 1 mutation")
			default:
				fmt.Printf("purged %d mutations\n", purged)
			}
			return nil
		},
	}
}

func formatAge(createdAt time.Time) string {
	return time.Since(createdAt).Round(time.Second).String()
}
