package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"grove/internal/domain"
)

// ReposCmd groups repository management subcommands
type ReposCmd struct {
	Add  ReposAddCmd  `cmd:"add" help:"Start tracking a repository"`
	List ReposListCmd `cmd:"list" help:"List tracked repositories"`
	Del  ReposDelCmd  `cmd:"del" help:"Stop tracking a repository (filesystem untouched)"`
}

// ReposAddCmd registers a repository
type ReposAddCmd struct {
	Path string `arg:"" help:"Path to the repository root"`
}

// Run executes the add command
func (r *ReposAddCmd) Run(cli *CLI) error {
	repo, err := cli.Container.Repositories.AddRepository(context.Background(), r.Path)
	if err != nil {
		return fmt.Errorf("failed to add repository: %w", err)
	}

	fmt.Printf("Added %s (%s)\n", repo.Name, repo.Path)
	return nil
}

// ReposListCmd lists tracked repositories
type ReposListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the list command
func (r *ReposListCmd) Run(cli *CLI) error {
	repos, err := cli.Container.Repositories.ListRepositories(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}

	if r.Format == "json" {
		data, err := json.MarshalIndent(repos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID\tPATH")
	for _, repo := range repos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", repo.Name, repo.ID, repo.Path)
	}
	return w.Flush()
}

// ReposDelCmd stops tracking a repository
type ReposDelCmd struct {
	Repository string `arg:"" help:"Repository name, ID or path"`
}

// Run executes the del command
func (r *ReposDelCmd) Run(cli *CLI) error {
	ctx := context.Background()

	repo, err := resolveRepository(ctx, cli, r.Repository)
	if err != nil {
		return err
	}

	if _, err := cli.Container.Repositories.RemoveRepository(ctx, repo.ID); err != nil {
		return fmt.Errorf("failed to remove repository: %w", err)
	}

	fmt.Printf("Removed %s (worktrees left on disk)\n", repo.Name)
	return nil
}

// resolveRepository finds a tracked repository by name, ID or path
func resolveRepository(ctx context.Context, cli *CLI, ref string) (domain.Repository, error) {
	repos, err := cli.Container.Repositories.ListRepositories(ctx)
	if err != nil {
		return domain.Repository{}, fmt.Errorf("failed to list repositories: %w", err)
	}

	for _, repo := range repos {
		if repo.ID == ref || repo.Name == ref || repo.Path == ref {
			return repo, nil
		}
	}
	return domain.Repository{}, fmt.Errorf("no tracked repository matches %q", ref)
}
