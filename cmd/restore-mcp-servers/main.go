// restore-mcp-servers re-registers the team's MCP servers in the local
// AI-assistant config after upgrades drop them. Always backs up the config
// before editing.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gomeria/catalog-tools/mcpcfg"
)

func main() {
	configPath := flag.String("config", "", "Required: path to the assistant config file (e.g. ~/.claude.json)")
	list := flag.Bool("list", false, "Only list currently registered servers")
	force := flag.Bool("force", false, "Overwrite entries that already exist")
	flag.Parse()

	if strings.TrimSpace(*configPath) == "" {
		fmt.Fprintln(os.Stderr, "--config is required")
		os.Exit(1)
	}
	if _, err := os.Stat(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config file not found: %s\n", *configPath)
		os.Exit(1)
	}

	if *list {
		names, err := mcpcfg.Registered(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read config: %v\n", err)
			os.Exit(1)
		}
		sort.Strings(names)
		fmt.Printf("registered servers (%d):\n", len(names))
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		return
	}

	added, backup, err := mcpcfg.Restore(*configPath, mcpcfg.DefaultServers(), *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "restore failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("backup written to %s\n", backup)
	if len(added) == 0 {
		fmt.Println("all servers already registered; nothing to do")
		return
	}
	sort.Strings(added)
	for _, name := range added {
		fmt.Printf("registered: %s\n", name)
	}
}
