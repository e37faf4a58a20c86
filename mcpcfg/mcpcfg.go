// Package mcpcfg edits the local AI-assistant configuration file to
// re-register MCP servers that upgrades occasionally drop. Pure JSON
// read-modify-write: unknown fields in the config are preserved.
package mcpcfg

import (
	"encoding/json"
	"fmt"
	"os"
)

// BackupSuffix is appended to the config path for the pre-edit backup.
const BackupSuffix = ".backup-restore"

// ServerSpec describes how the assistant launches one MCP server.
type ServerSpec struct {
	Type    string            `json:"type"`
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// DefaultServers returns the servers the team expects registered on every
// workstation.
func DefaultServers() map[string]ServerSpec {
	return map[string]ServerSpec{
		"supabase": {
			Type:    "stdio",
			Command: "npx",
			Args:    []string{"-y", "mcp-supabase"},
		},
		"serena": {
			Type:    "stdio",
			Command: "uvx",
			Args: []string{
				"--from", "git+https://github.com/oraios/serena",
				"serena-mcp-server", "--context", "ide-assistant",
			},
		},
		"playwright": {
			Type:    "stdio",
			Command: "npx",
			Args:    []string{"@playwright/mcp@latest"},
		},
	}
}

// Restore adds any missing servers to the config file at path, backing the
// file up first. Existing entries are left untouched unless force is set.
// Returns the names added (or replaced) and the backup path.
func Restore(path string, servers map[string]ServerSpec, force bool) (added []string, backupPath string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not read config: %w", err)
	}

	var config map[string]any
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil, "", fmt.Errorf("config is not valid JSON: %w", err)
	}

	backupPath = path + BackupSuffix
	if err := os.WriteFile(backupPath, raw, 0o600); err != nil {
		return nil, "", fmt.Errorf("could not write backup: %w", err)
	}

	registered, _ := config["mcpServers"].(map[string]any)
	if registered == nil {
		registered = map[string]any{}
	}

	for name, spec := range servers {
		if _, exists := registered[name]; exists && !force {
			continue
		}
		encoded, err := json.Marshal(spec)
		if err != nil {
			return nil, backupPath, err
		}
		var entry map[string]any
		if err := json.Unmarshal(encoded, &entry); err != nil {
			return nil, backupPath, err
		}
		registered[name] = entry
		added = append(added, name)
	}
	config["mcpServers"] = registered

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, backupPath, err
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o600); err != nil {
		return nil, backupPath, fmt.Errorf("could not write config: %w", err)
	}
	return added, backupPath, nil
}

// Registered lists the server names currently present in the config file.
func Registered(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var config struct {
		McpServers map[string]json.RawMessage `json:"mcpServers"`
	}
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(config.McpServers))
	for name := range config.McpServers {
		names = append(names, name)
	}
	return names, nil
}
