package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kompox/replops/adapters/remote/graphql"
	"github.com/kompox/replops/adapters/template"
	"github.com/kompox/replops/config/replopscfg"
	"github.com/kompox/replops/usecase/workspace"
)

// buildConfigStore returns the store of the configuration document.
func buildConfigStore(cmd *cobra.Command) *replopscfg.Store {
	return replopscfg.NewStore(stateOf(cmd).env.ConfigPath)
}

// buildRemoteClient creates the remote client. Without a credential the
// client stays disabled.
func buildRemoteClient(cmd *cobra.Command) *graphql.Client {
	env := stateOf(cmd).env
	opts := []graphql.Option{graphql.WithUserAgent("replops/" + version)}
	if env.RemoteEndpoint != "" {
		opts = append(opts, graphql.WithEndpoint(env.RemoteEndpoint))
	}
	return graphql.New(env.Token, opts...)
}

// buildWorkspaceUseCase loads the configuration and wires stores and ports.
func buildWorkspaceUseCase(cmd *cobra.Command) (*workspace.UseCase, error) {
	st := stateOf(cmd)
	store := buildConfigStore(cmd)
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}
	repos, err := buildRepos(cmd)
	if err != nil {
		return nil, err
	}
	return &workspace.UseCase{
		Repos:       repos,
		Config:      cfg,
		Remote:      buildRemoteClient(cmd),
		Templates:   template.New(),
		WorkDir:     st.env.WorkDir,
		TemplateDir: filepath.Dir(store.Path),
		Retry:       workspace.DefaultRetryPolicy(),
		Metrics:     st.metrics,
	}, nil
}
