package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/export"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/tasklist"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func newAddCommand(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Append a task to the end of the list",
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeSession(s)

			items, err := s.manager.Add(cmd.Context(), text)
			if errors.Is(err, tasklist.ErrEmptyInput) && !strict {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "added task %d: %s\n", len(items), views.DisplayText(text))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the task text is blank")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <number>",
		Aliases: []string{"delete", "del"},
		Short:   "Delete the task with the given number",
		Args:    cobra.ExactArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			parsed, err := commands.Parse("delete " + args[0])
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeSession(s)

			if _, err := commands.DeleteNumber(cmd.Context(), s.manager, *parsed.Delete); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted task %d\n", parsed.Delete.Number)
			return nil
		}),
	}
}

func newListCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the task list",
		Args:    cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			if format != "plain" && format != "md" {
				return userErr(fmt.Errorf("unknown list format %q", format))
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeSession(s)

			items, err := s.manager.Items(cmd.Context())
			if err != nil {
				return err
			}
			if format == "md" {
				fmt.Fprintln(a.out, views.RenderMarkdown(views.Markdown(items)))
				return nil
			}
			views.RenderPlain(a.out, items)
			return nil
		}),
	}
	cmd.Flags().StringVar(&format, "format", "plain", "output format: plain or md")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the task list as json, csv, md or pdf",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeSession(s)

			items, err := s.manager.Load(cmd.Context())
			if err != nil {
				return err
			}
			payload, err := export.Export(items, f)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = a.out.Write(payload)
				return err
			}
			if err := os.WriteFile(output, payload, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			a.log.WithField("path", output).Info("export written")
			return nil
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format: json, csv, md or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newResetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the stored list",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(cmd.Context(), a.cfg)
			if err != nil {
				return fmt.Errorf("open %s store: %w", a.cfg.Backend, err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					a.log.WithError(err).Warn("close store")
				}
			}()
			err = store.Delete(cmd.Context(), a.cfg.SlotKey)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("clear slot %q: %w", a.cfg.SlotKey, err)
			}
			fmt.Fprintln(a.out, "task list cleared")
			return nil
		}),
	}
}

func newExecCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command...>",
		Short: `Run a text command such as "add milk" or "delete 2"`,
		Args:  cobra.MinimumNArgs(1),
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			parsed, err := commands.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeSession(s)

			res, err := commands.Execute(parsed, commands.NewHandlers(cmd.Context(), s.manager, exportDir()))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, res.Message)
			if parsed.Type == commands.TypeList {
				views.RenderPlain(a.out, res.Items)
			}
			return nil
		}),
	}
}

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive task list",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		}),
	}
}
