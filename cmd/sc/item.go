package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/stagecraft/internal/engine"
	"github.com/zulandar/stagecraft/internal/store"
)

func newItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Work item management commands",
	}

	cmd.AddCommand(newItemCreateCmd())
	cmd.AddCommand(newItemListCmd())
	cmd.AddCommand(newItemShowCmd())
	cmd.AddCommand(newItemTransitionCmd())
	cmd.AddCommand(newItemArtifactCmd())
	cmd.AddCommand(newItemCommentCmd())
	return cmd
}

func newItemCreateCmd() *cobra.Command {
	var (
		configPath  string
		title       string
		description string
		priority    int
		assignee    string
		owner       uint
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new work item",
		Long:  "Creates a work item in the Requirement stage with an auto-generated public ID.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			opts := store.CreateOpts{
				Title:       title,
				Description: description,
				Priority:    priority,
				Assignee:    assignee,
			}
			if owner != 0 {
				opts.OwnerID = &owner
			}
			item, err := store.Create(gormDB, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created work item %s (id %d) in %s\n", item.PublicID, item.ID, item.CurrentStage)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Stagecraft config file")
	cmd.Flags().StringVar(&title, "title", "", "work item title (required)")
	cmd.Flags().StringVar(&description, "description", "", "detailed description")
	cmd.Flags().IntVar(&priority, "priority", 2, "priority (0=critical → 4=backlog)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee display name")
	cmd.Flags().UintVar(&owner, "owner", 0, "owner user ID")
	cmd.MarkFlagRequired("title")
	return cmd
}

func newItemListCmd() *cobra.Command {
	var (
		configPath string
		stageName  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work items",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			items, err := store.List(gormDB, store.ListFilters{Stage: stageName})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPUBLIC\tSTAGE\tPRI\tTITLE")
			for _, item := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", item.ID, item.PublicID, item.CurrentStage, item.Priority, item.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Stagecraft config file")
	cmd.Flags().StringVar(&stageName, "stage", "", "filter by current stage")
	return cmd
}

func newItemShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a work item with its artifacts and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			snap, err := store.Load(gormDB, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (id %d)\n", snap.Record.PublicID, snap.Record.ID)
			fmt.Fprintf(out, "Title:       %s\n", snap.Record.Title)
			fmt.Fprintf(out, "Stage:       %s\n", snap.Record.CurrentStage)
			fmt.Fprintf(out, "Priority:    %d\n", snap.Record.Priority)
			if snap.Record.Assignee != "" {
				fmt.Fprintf(out, "Assignee:    %s\n", snap.Record.Assignee)
			}
			fmt.Fprintf(out, "Transitions: %d (regressions: %d)\n", snap.Record.TransitionCount, snap.Record.RegressionCount)
			if len(snap.Artifacts) > 0 {
				fmt.Fprintln(out, "Artifacts:")
				for _, a := range snap.Artifacts {
					fmt.Fprintf(out, "  [%s] %s %s\n", a.Stage, a.Type, a.Reference)
				}
			}
			if len(snap.History) > 0 {
				fmt.Fprintln(out, "History:")
				for _, h := range snap.History {
					line := fmt.Sprintf("  %s → %s (%s)", h.From, h.To, h.At.Format("2006-01-02 15:04"))
					if h.Reason != nil {
						line += fmt.Sprintf(": %s", *h.Reason)
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Stagecraft config file")
	return cmd
}

func newItemTransitionCmd() *cobra.Command {
	var (
		configPath string
		target     string
		reason     string
		actorID    uint
		actorRole  string
	)

	cmd := &cobra.Command{
		Use:   "transition <id>",
		Short: "Request a stage transition",
		Long:  "Evaluates the move through the governance engine and commits it when allowed. Denials print the engine's reason and exit non-zero.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			actor := engine.Actor{ID: actorID, Role: actorRole}
			decision, err := store.Transition(gormDB, cfg.Policy(), id, target, reason, actor)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !decision.Allowed {
				return fmt.Errorf("transition blocked: %s", decision.Message)
			}
			fmt.Fprintf(out, "%s (transitions: %d, regressions: %d)\n", decision.Message, decision.Meta.TotalTransitions, decision.Meta.RegressionCount)
			if decision.Meta.Warning != "" {
				fmt.Fprintf(out, "Warning: %s\n", decision.Meta.Warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Stagecraft config file")
	cmd.Flags().StringVar(&target, "to", "", "target stage (required)")
	cmd.Flags().StringVar(&reason, "reason", "", "justification (required for regressions)")
	cmd.Flags().UintVar(&actorID, "actor", 0, "acting user ID")
	cmd.Flags().StringVar(&actorRole, "role", "", "acting role")
	cmd.MarkFlagRequired("to")
	return cmd
}

func newItemArtifactCmd() *cobra.Command {
	var (
		configPath   string
		artifactType string
		reference    string
		stageName    string
	)

	cmd := &cobra.Command{
		Use:   "artifact <id>",
		Short: "Record an artifact on a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			decision, artifact, err := store.AddArtifact(gormDB, cfg.Policy(), id, store.AddArtifactOpts{
				Stage:     stageName,
				Type:      artifactType,
				Reference: reference,
			})
			if err != nil {
				return err
			}
			if !decision.Allowed {
				return fmt.Errorf("artifact rejected: %s", decision.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %q for stage %s (artifact %d)\n", artifact.ArtifactType, artifact.Stage, artifact.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Stagecraft config file")
	cmd.Flags().StringVar(&artifactType, "type", "", "artifact type (required)")
	cmd.Flags().StringVar(&reference, "ref", "", "reference (commit hash or URL, per type)")
	cmd.Flags().StringVar(&stageName, "stage", "", "stage to record against (defaults to current)")
	cmd.MarkFlagRequired("type")
	return cmd
}

func newItemCommentCmd() *cobra.Command {
	var (
		configPath string
		author     string
		body       string
	)

	cmd := &cobra.Command{
		Use:   "comment <id>",
		Short: "Add a comment to a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			comment, err := store.AddComment(gormDB, id, author, body)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment %d added\n", comment.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Stagecraft config file")
	cmd.Flags().StringVar(&author, "author", "", "comment author")
	cmd.Flags().StringVar(&body, "body", "", "comment body (required)")
	cmd.MarkFlagRequired("body")
	return cmd
}

func parseID(arg string) (uint, error) {
	var id uint
	if _, err := fmt.Sscanf(arg, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid work item id %q", arg)
	}
	return id, nil
}
