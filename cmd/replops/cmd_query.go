package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/kompox/replops/usecase/workspace"
)

func newCmdTemplates() *cobra.Command {
	c := &cobra.Command{
		Use:   "templates",
		Short: "Template commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	var (
		remote bool
		output string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List configured templates, and remote templates with --remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildWorkspaceUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			out, err := u.ListTemplates(ctx, &workspace.ListTemplatesInput{Remote: remote})
			if err != nil {
				return err
			}
			printAdvisories(cmd.ErrOrStderr(), out.Advisories)
			return writeOutput(cmd.OutOrStdout(), output, out.Templates)
		},
	}
	list.Flags().BoolVar(&remote, "remote", false, "Include the remote provider's templates")
	addOutputFlag(list, &output)
	c.AddCommand(list)
	return c
}

func newCmdRecords() *cobra.Command {
	c := &cobra.Command{
		Use:     "records",
		Aliases: []string{"rec"},
		Short:   "Inspect workspace records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var (
		language   string
		listOutput string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List workspace records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildWorkspaceUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := u.ListRecords(ctx, &workspace.ListRecordsInput{Language: language})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), listOutput, out.Records)
		},
	}
	list.Flags().StringVarP(&language, "language", "l", "", "Only records of this language")
	addOutputFlag(list, &listOutput)

	var getOutput string
	get := &cobra.Command{
		Use:   "get TITLE|SLUG",
		Short: "Show one workspace record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildWorkspaceUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := u.GetRecord(ctx, &workspace.GetRecordInput{Name: args[0]})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), getOutput, out)
		},
	}
	addOutputFlag(get, &getOutput)

	c.AddCommand(list, get)
	return c
}

func newCmdHistory() *cobra.Command {
	c := &cobra.Command{
		Use:   "history",
		Short: "Provisioning history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	var (
		limit  int
		output string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List provisioning events, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := buildRepos(cmd)
			if err != nil {
				return err
			}
			u := &workspace.UseCase{Repos: repos}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := u.ListHistory(ctx, &workspace.ListHistoryInput{Limit: limit})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out.Events)
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the newest N events")
	addOutputFlag(list, &output)
	c.AddCommand(list)
	return c
}

func newCmdAuth() *cobra.Command {
	c := &cobra.Command{
		Use:   "auth",
		Short: "Remote credential commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	var output string
	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind REPLIT_TOKEN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u := &workspace.UseCase{Remote: buildRemoteClient(cmd)}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "auth.whoami", "")
			defer func() { cleanup(err) }()

			user, err := u.WhoAmI(ctx)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, user)
		},
	}
	addOutputFlag(whoami, &output)
	c.AddCommand(whoami)
	return c
}
