package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"grove/internal/domain"
	"grove/internal/logging"
	"grove/internal/services"
	"grove/internal/theme"
)

// StatusCmd shows the agent status per worktree. It replays the event log
// through the reducer against the current worktree set, so it reflects
// exactly what a running controller would show.
type StatusCmd struct{}

// Run executes the status command
func (s *StatusCmd) Run(cli *CLI) error {
	ctx := context.Background()

	worktrees, err := cli.Container.Repositories.AllWorktrees(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate worktrees: %w", err)
	}

	paths := make([]string, 0, len(worktrees))
	for _, wt := range worktrees {
		paths = append(paths, wt.Path)
	}

	statuses, err := replayEventLog(cli.Container.Settings.GetEventLogPath(), paths)
	if err != nil {
		return err
	}

	fmt.Println(theme.TitleStyle.Render("grove"))
	if len(worktrees) == 0 {
		fmt.Println(theme.MutedStyle.Render("no repositories tracked"))
		return nil
	}

	for _, wt := range worktrees {
		icon := theme.StatusIcon("")
		label := "idle"
		if entry, ok := statuses[wt.Path]; ok {
			icon = theme.StatusIcon(entry.Status)
			label = string(entry.Status)
		}
		branch := theme.HighlightStyle.Render(wt.Branch)
		fmt.Printf("%s %s %s %s\n", icon, branch, theme.MutedStyle.Render(label), theme.NormalStyle.Render(wt.Path))
	}

	// Statuses for locations outside any known worktree keep their raw cwd
	for path, entry := range statuses {
		if !containsPath(paths, path) {
			fmt.Printf("%s %s %s\n", theme.StatusIcon(entry.Status), theme.MutedStyle.Render(string(entry.Status)), theme.NormalStyle.Render(path))
		}
	}

	return nil
}

// replayEventLog folds every decodable event line into a status map
func replayEventLog(logPath string, worktrees []string) (map[string]domain.StatusEntry, error) {
	statuses := make(map[string]domain.StatusEntry)

	file, err := os.Open(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return statuses, nil
		}
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event domain.LifecycleEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			logging.Logger.Warn("Skipping undecodable event line", "error", err)
			continue
		}
		if !event.EventType.Valid() {
			continue
		}

		statuses = services.ReduceEvent(statuses, event, worktrees)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}

	return statuses, nil
}

func containsPath(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}
