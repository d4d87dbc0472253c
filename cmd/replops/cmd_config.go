package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kompox/replops/config/replopscfg"
	"github.com/kompox/replops/domain/model"
	"github.com/kompox/replops/internal/fsutil"
	"github.com/kompox/replops/internal/logging"
)

// newCmdConfig returns the configuration document commands.
func newCmdConfig() *cobra.Command {
	c := &cobra.Command{
		Use:                "config",
		Short:              "Show and edit the configuration document",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.AddCommand(newCmdConfigShow())
	c.AddCommand(newCmdConfigInit())
	c.AddCommand(newCmdConfigValidate())
	c.AddCommand(newCmdConfigSet())
	c.AddCommand(newCmdConfigTemplate())
	return c
}

func newCmdConfigShow() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := buildConfigStore(cmd)
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			exists, err := store.Exists()
			if err != nil {
				return err
			}
			if !exists {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s does not exist; showing defaults\n", store.Path)
			}
			return writeOutput(cmd.OutOrStdout(), output, cfg)
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func newCmdConfigInit() *cobra.Command {
	var (
		force        bool
		language     string
		private      bool
		teamID       string
		createRemote bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a new configuration document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			store := buildConfigStore(cmd)
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "config.init", store.Path)
			defer func() { cleanup(err) }()

			if !force {
				exists, err := store.Exists()
				if err != nil {
					return err
				}
				if exists {
					return fmt.Errorf("%s already exists (use --force to overwrite)", store.Path)
				}
			}
			cfg := replopscfg.Default()
			cfg.DefaultLanguage = language
			cfg.DefaultPrivacy = private
			cfg.TeamID = teamID
			cfg.CreateRemote = createRemote
			replopscfg.Touch(cfg)
			if err := store.Save(cfg); err != nil {
				return err
			}
			logging.FromContext(ctx).Info(ctx, "configuration written", "path", store.Path)
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", store.Path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing document")
	cmd.Flags().StringVar(&language, "language", replopscfg.DefaultLanguage, "Default language")
	cmd.Flags().BoolVar(&private, "private", false, "Make new workspaces private by default")
	cmd.Flags().StringVar(&teamID, "team-id", "", "Default team id")
	cmd.Flags().BoolVar(&createRemote, "create-remote", false, "Create workspaces remotely by default")
	return cmd
}

func newCmdConfigValidate() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate a configuration document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := buildConfigStore(cmd).Path
			if len(args) == 1 {
				path = args[0]
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return &model.ConfigurationError{Path: path, Msg: "cannot read configuration", Err: err}
			}
			doc, err := replopscfg.Decode(path, data)
			if err != nil {
				return err
			}
			cfg := doc.ToModel()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (default_language=%s templates=%d)\n", path, cfg.DefaultLanguage, len(cfg.Templates))
			return nil
		},
	}
}

// configKeys lists the settable scalar keys.
var configKeys = []string{"default_language", "default_privacy", "team_id", "create_remote"}

func newCmdConfigSet() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value (" + strings.Join(configKeys, ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			store := buildConfigStore(cmd)
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "config.set", args[0])
			defer func() { cleanup(err) }()

			cfg, err := store.Load()
			if err != nil {
				return err
			}
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			replopscfg.Touch(cfg)
			if err := store.Save(cfg); err != nil {
				return err
			}
			logging.FromContext(ctx).Info(ctx, "configuration updated", "key", args[0])
			return nil
		},
	}
}

func setConfigValue(cfg *model.Configuration, key, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, &model.ConfigurationError{Field: key, Msg: fmt.Sprintf("invalid boolean %q", value)}
		}
		return b, nil
	}
	var err error
	switch key {
	case "default_language":
		cfg.DefaultLanguage = value
	case "default_privacy":
		cfg.DefaultPrivacy, err = parseBool()
	case "team_id":
		cfg.TeamID = value
	case "create_remote":
		cfg.CreateRemote, err = parseBool()
	default:
		return fmt.Errorf("unknown key %q (want one of %s)", key, strings.Join(configKeys, ", "))
	}
	return err
}

func newCmdConfigTemplate() *cobra.Command {
	c := &cobra.Command{
		Use:   "template",
		Short: "Edit the template registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.AddCommand(newCmdConfigTemplateAdd())
	c.AddCommand(newCmdConfigTemplateRemove())
	return c
}

func newCmdConfigTemplateAdd() *cobra.Command {
	var path, description string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Register or replace a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			name := args[0]
			store := buildConfigStore(cmd)
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "config.template.add", name)
			defer func() { cleanup(err) }()

			cfg, err := store.Load()
			if err != nil {
				return err
			}
			if exists, _ := fsutil.Exists(store.ResolveTemplatePath(path)); !exists {
				logging.FromContext(ctx).Warn(ctx, "template document not found", "path", store.ResolveTemplatePath(path))
			}
			cfg.Templates[name] = &model.TemplateDescriptor{Name: name, Description: description, Path: path}
			replopscfg.Touch(cfg)
			return store.Save(cfg)
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Template document path, relative to the configuration document (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Template description")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func newCmdConfigTemplateRemove() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Unregister a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			name := args[0]
			store := buildConfigStore(cmd)
			_, cleanup := withCmdRunLogger(cmd.Context(), "config.template.remove", name)
			defer func() { cleanup(err) }()

			cfg, err := store.Load()
			if err != nil {
				return err
			}
			if cfg.Template(name) == nil {
				return fmt.Errorf("template %q is not registered", name)
			}
			delete(cfg.Templates, name)
			replopscfg.Touch(cfg)
			return store.Save(cfg)
		},
	}
}
