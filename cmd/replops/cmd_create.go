package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/utils/ptr"

	"github.com/kompox/replops/domain/model"
	"github.com/kompox/replops/internal/naming"
	"github.com/kompox/replops/internal/terminal"
	"github.com/kompox/replops/internal/wizard"
	"github.com/kompox/replops/usecase/workspace"
)

// provisionTimeout bounds one provisioning call: three remote attempts at
// the client timeout plus local work.
const provisionTimeout = 2 * time.Minute

func newCmdCreate() *cobra.Command {
	var (
		title    string
		language string
		private  bool
		tmpl     string
		teamID   string
		remote   bool
		output   string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a workspace",
		Long: `Provision a workspace: write its record, generate the entry point and,
when requested and a credential is available, create it remotely.

Without --title and with a terminal on stdin, an interactive wizard asks for
each setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildWorkspaceUseCase(cmd)
			if err != nil {
				return err
			}

			var req model.WorkspaceRequest
			if title == "" {
				if !terminal.IsInteractive(os.Stdin) {
					return errors.New("--title is required when stdin is not a terminal")
				}
				res := wizard.Run(cmd.Context(), wizard.Options{
					Config:          u.Config,
					Languages:       workspace.Languages(),
					RemoteAvailable: u.Remote.Enabled(),
					In:              os.Stdin,
					Out:             cmd.ErrOrStderr(),
				})
				if res.Cancelled && cmd.Context().Err() != nil {
					// Interrupted: provision the fallback request without the signal's context.
					cmd.SetContext(context.WithoutCancel(cmd.Context()))
				}
				req = res.Request
			} else {
				req = model.WorkspaceRequest{
					Title:     title,
					Language:  language,
					IsPrivate: u.Config.DefaultPrivacy,
					Template:  tmpl,
					TeamID:    teamID,
				}
				if cmd.Flags().Changed("private") {
					req.IsPrivate = private
				}
				if cmd.Flags().Changed("remote") {
					req.CreateRemote = ptr.To(remote)
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), provisionTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "workspace.create", naming.Slug(req.Title))
			defer func() { cleanup(err) }()

			out, err := u.Create(ctx, &workspace.CreateInput{Request: req})
			if err != nil {
				return err
			}
			printAdvisories(cmd.ErrOrStderr(), out.Advisories)
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Workspace title")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Runtime language (default from configuration)")
	cmd.Flags().BoolVar(&private, "private", false, "Make the workspace private (default from configuration)")
	cmd.Flags().StringVar(&tmpl, "template", "", "Registered template name")
	cmd.Flags().StringVar(&teamID, "team-id", "", "Team id (default from configuration)")
	cmd.Flags().BoolVar(&remote, "remote", false, "Create the workspace remotely too (default from configuration)")
	addOutputFlag(cmd, &output)
	return cmd
}

func newCmdBulk() *cobra.Command {
	var (
		file        string
		concurrency int
		remote      bool
		output      string
	)
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Provision every workspace listed in a JSON or YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return &model.ConfigurationError{Path: file, Msg: "cannot read bulk request file", Err: err}
			}
			entries, err := workspace.ParseBulkFile(file, data)
			if err != nil {
				return err
			}
			u, err := buildWorkspaceUseCase(cmd)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "workspace.bulk", file)
			defer func() { cleanup(err) }()

			in := &workspace.BulkInput{
				Requests:    workspace.RequestsFromEntries(u.Config, entries),
				Concurrency: concurrency,
			}
			if cmd.Flags().Changed("remote") {
				in.DefaultCreateRemote = ptr.To(remote)
			}
			out, err := u.Bulk(ctx, in)
			if err != nil {
				return err
			}
			for _, o := range out.Outcomes {
				if o.Status == model.BulkStatusError {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", o.Title, o.Error)
				}
				printAdvisories(cmd.ErrOrStderr(), o.Advisories)
			}
			if err := writeOutput(cmd.OutOrStdout(), output, out); err != nil {
				return err
			}
			if out.Failed > 0 {
				return fmt.Errorf("%d of %d workspaces failed", out.Failed, len(out.Outcomes))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Bulk request file (JSON or YAML array) (required)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of workspaces provisioned in parallel")
	cmd.Flags().BoolVar(&remote, "remote", false, "Default remote creation for entries without create_remote")
	addOutputFlag(cmd, &output)
	return cmd
}
