package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"grove/internal/domain"
)

// WorktreesCmd groups worktree management subcommands
type WorktreesCmd struct {
	List WorktreesListCmd `cmd:"list" help:"List worktrees of tracked repositories"`
	Add  WorktreesAddCmd  `cmd:"add" help:"Create a worktree"`
	Del  WorktreesDelCmd  `cmd:"del" help:"Remove a worktree"`
}

// WorktreesListCmd lists worktrees
type WorktreesListCmd struct {
	Repository string `help:"Limit to one repository (name, ID or path)" optional:""`
	Format     string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the list command
func (w *WorktreesListCmd) Run(cli *CLI) error {
	ctx := context.Background()

	var worktrees []domain.Worktree
	var err error
	if w.Repository != "" {
		repo, resolveErr := resolveRepository(ctx, cli, w.Repository)
		if resolveErr != nil {
			return resolveErr
		}
		worktrees, err = cli.Container.Repositories.ListWorktrees(repo)
	} else {
		worktrees, err = cli.Container.Repositories.AllWorktrees(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list worktrees: %w", err)
	}

	if w.Format == "json" {
		data, err := json.MarshalIndent(worktrees, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BRANCH\tPATH\tHEAD\tMAIN")
	for _, wt := range worktrees {
		main := ""
		if wt.IsMain {
			main = "✓"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", wt.Branch, wt.Path, shortHead(wt.Head), main)
	}
	return tw.Flush()
}

// WorktreesAddCmd creates a worktree
type WorktreesAddCmd struct {
	Repository string `arg:"" help:"Repository name, ID or path"`
	Branch     string `arg:"" help:"Branch to check out in the new worktree"`
	Base       string `help:"Base commit-ish for the new branch" optional:""`
	Existing   bool   `help:"Check out an existing branch instead of creating one"`
}

// Run executes the add command
func (w *WorktreesAddCmd) Run(cli *CLI) error {
	ctx := context.Background()

	repo, err := resolveRepository(ctx, cli, w.Repository)
	if err != nil {
		return err
	}

	worktree, err := cli.Container.Repositories.CreateWorktree(repo, w.Branch, w.Base, !w.Existing)
	if err != nil {
		return fmt.Errorf("failed to create worktree: %w", err)
	}

	fmt.Printf("Created worktree %s at %s\n", worktree.Branch, worktree.Path)
	return nil
}

// WorktreesDelCmd removes a worktree
type WorktreesDelCmd struct {
	Repository string `arg:"" help:"Repository name, ID or path"`
	Path       string `arg:"" help:"Worktree path to remove"`
	Force      bool   `help:"Remove even with uncommitted changes" short:"f"`
}

// Run executes the del command
func (w *WorktreesDelCmd) Run(cli *CLI) error {
	ctx := context.Background()

	repo, err := resolveRepository(ctx, cli, w.Repository)
	if err != nil {
		return err
	}

	if err := cli.Container.Repositories.DeleteWorktree(repo, w.Path, w.Force); err != nil {
		return fmt.Errorf("failed to remove worktree: %w", err)
	}

	fmt.Printf("Removed worktree %s\n", w.Path)
	return nil
}

// shortHead abbreviates a commit hash for table output
func shortHead(head string) string {
	if len(head) > 8 {
		return head[:8]
	}
	return head
}
