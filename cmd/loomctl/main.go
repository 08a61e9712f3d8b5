package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/loom-social/loom/internal/api"
	"github.com/loom-social/loom/internal/profile"
	"github.com/loom-social/loom/internal/resolver"
	"github.com/loom-social/loom/internal/tui/client"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	c := client.New(profile.SocketPath(profileName))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[0] {
	case "status":
		cmdStatus(ctx, c, *jsonFlag)
	case "sync":
		cmdSync(ctx, c, *jsonFlag)
	case "items":
		if len(args) >= 2 && args[1] == "search" {
			if len(args) < 3 {
				fmt.Fprintln(os.Stderr, "usage: loomctl items search <query>")
				os.Exit(1)
			}
			cmdItemsSearch(ctx, c, args[2], *jsonFlag)
		} else {
			cmdItemsList(ctx, c, *jsonFlag)
		}
	case "participants":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: loomctl participants <query> [filter]")
			os.Exit(1)
		}
		filter := resolver.FilterAll
		if len(args) >= 3 {
			filter = resolver.Filter(args[2])
		}
		cmdParticipants(ctx, c, args[1], filter, *jsonFlag)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: loomctl [--profile <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  status                      Show daemon status")
	fmt.Fprintln(os.Stderr, "  sync                        Run a reconciliation pass")
	fmt.Fprintln(os.Stderr, "  items                       List wardrobe items")
	fmt.Fprintln(os.Stderr, "  items search <query>        Search the local item index")
	fmt.Fprintln(os.Stderr, "  participants <query> [f]    Search conversation participants")
}

func cmdStatus(ctx context.Context, c *client.Client, jsonOut bool) {
	resp, err := c.Status(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(resp)
		return
	}
	fmt.Printf("Profile: %s\n", resp.Profile)
	fmt.Printf("State:   %s\n", resp.State)
	fmt.Printf("Online:  %v\n", resp.Online)
	fmt.Printf("Pending: %d\n", resp.Pending)
	if resp.LastSyncAt != "" {
		fmt.Printf("Synced:  %s\n", resp.LastSyncAt)
	}
}

func cmdSync(ctx context.Context, c *client.Client, jsonOut bool) {
	resp, err := c.Sync(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(resp)
		return
	}
	fmt.Printf("Synced: %d, Failed: %d\n", resp.Synced, resp.Failed)
	for _, e := range resp.Errors {
		fmt.Printf("  %s: %s\n", e.ItemID, e.Message)
	}
	if resp.Failed > 0 {
		os.Exit(1)
	}
}

func cmdItemsList(ctx context.Context, c *client.Client, jsonOut bool) {
	items, err := c.ListItems(ctx)
	if err != nil {
		fatal(err)
	}
	printItems(items, jsonOut)
}

func cmdItemsSearch(ctx context.Context, c *client.Client, query string, jsonOut bool) {
	items, err := c.SearchItems(ctx, query)
	if err != nil {
		fatal(err)
	}
	printItems(items, jsonOut)
}

func printItems(items []api.Entry, jsonOut bool) {
	if jsonOut {
		outputJSON(items)
		return
	}
	for _, it := range items {
		badge := " "
		if it.NeedsSync {
			badge = "*"
		}
		fmt.Printf("%s %-36s  %-30s  %s\n", badge, it.ID, it.Name, it.Brand)
	}
}

func cmdParticipants(ctx context.Context, c *client.Client, query string, filter resolver.Filter, jsonOut bool) {
	results, err := c.SearchParticipants(ctx, query, filter)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(results)
		return
	}
	for _, p := range results {
		fmt.Printf("%-36s  %-12s  %s\n", p.ID, p.Kind.Label(), p.Name)
	}
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
