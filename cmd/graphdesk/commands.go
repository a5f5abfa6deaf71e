package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dukex/graphdesk/pkg/log"
	cli "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

var errMissingArgument = errors.New("missing argument")

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check project files against the import rules",
		ArgsUsage: "FILE...",
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := setupLogger(command)

			paths := command.Args().Slice()
			if len(paths) == 0 {
				return fmt.Errorf("%w: at least one project file is required", errMissingArgument)
			}

			out := command.Root().Writer
			failed := 0

			for _, path := range paths {
				f, err := readProjectFile(path)
				if err != nil {
					failed++

					logger.DebugContext(ctx, "project rejected", "path", path, "error", err)
					fmt.Fprintf(out, "%s: invalid: %v\n", path, err)

					continue
				}

				fmt.Fprintf(out, "%s: ok (%d tabs, %d subworkflows)\n",
					path, len(f.Tabs), len(f.SubWorkflowDefinitions))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d project files are invalid", failed, len(paths))
			}

			return nil
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Summarize the tabs, subworkflows and libraries of a project file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format (yaml, json)",
				Value: formatYAML,
			},
		},
		Action: func(_ context.Context, command *cli.Command) error {
			setupLogger(command)

			path := command.Args().First()
			if path == "" {
				return fmt.Errorf("%w: project file is required", errMissingArgument)
			}

			f, err := readProjectFile(path)
			if err != nil {
				return err
			}

			return writeSummary(command.Root().Writer, summarize(f), command.String("format"))
		},
	}
}

func writeSummary(w io.Writer, s summary, format string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}

		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(s)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a project file between JSON and YAML",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Target format (json, yaml); defaults to the other one",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
		},
		Action: func(_ context.Context, command *cli.Command) error {
			setupLogger(command)

			path := command.Args().First()
			if path == "" {
				return fmt.Errorf("%w: project file is required", errMissingArgument)
			}

			f, err := readProjectFile(path)
			if err != nil {
				return err
			}

			format := command.String("format")
			if format == "" {
				format = formatYAML
				if formatOf(path) == formatYAML {
					format = formatJSON
				}
			}

			data, err := encodeProject(f, format)
			if err != nil {
				return err
			}

			if output := command.String("output"); output != "" {
				return os.WriteFile(output, data, 0600)
			}

			_, err = command.Root().Writer.Write(data)

			return err
		},
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Re-propagate every subworkflow interface of stored projects and save them",
		ArgsUsage: "[NAME...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would change without saving",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			e, err := newEnv(ctx, command)
			if err != nil {
				return err
			}
			defer e.close(ctx)

			names := command.Args().Slice()
			if len(names) == 0 {
				infos, err := e.persistence.ListProjects(ctx)
				if err != nil {
					return err
				}

				for _, info := range infos {
					names = append(names, info.Name)
				}
			}

			ctx = log.NewContext(ctx, e.logger)
			out := command.Root().Writer
			dryRun := command.Bool("dry-run")

			for _, name := range names {
				report, err := e.syncProject(ctx, name, dryRun)
				if err != nil {
					return fmt.Errorf("sync %s: %w", name, err)
				}

				fmt.Fprintf(out, "%s: %s\n", name, report)
			}

			return nil
		},
	}
}

// syncProject loads a stored project into an editor, propagates every
// definition and writes the result back when anything changed.
func (e *env) syncProject(ctx context.Context, name string, dryRun bool) (string, error) {
	f, err := e.persistence.LoadProject(ctx, name)
	if err != nil {
		return "", err
	}

	ed := e.newEditor()
	if err := ed.LoadProject(ctx, f); err != nil {
		return "", err
	}

	results := ed.SyncAll(ctx)
	if len(results) == 0 {
		return "up to date", nil
	}

	instances, documents := 0, map[string]bool{}

	for _, r := range results {
		instances += r.Instances
		for _, id := range r.Documents {
			documents[id] = true
		}
	}

	report := fmt.Sprintf("updated %d instances in %d documents", instances, len(documents))

	if dryRun {
		return report + " (dry run)", nil
	}

	for _, id := range ed.Tabs().UnsavedTabs() {
		ed.MarkSaved(id)
	}

	if err := e.persistence.SaveProject(ctx, name, ed.ExportProject(ctx)); err != nil {
		return "", err
	}

	log.FromContext(ctx).InfoContext(ctx, "project synced", "project", name, "instances", instances, "documents", len(documents))

	return report, nil
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Validate a project file and store it in the projects directory",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "Stored project name (defaults to the file name)",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			path := command.Args().First()
			if path == "" {
				return fmt.Errorf("%w: project file is required", errMissingArgument)
			}

			e, err := newEnv(ctx, command)
			if err != nil {
				return err
			}
			defer e.close(ctx)

			f, err := readProjectFile(path)
			if err != nil {
				return err
			}

			name := command.String("name")
			if name == "" {
				name = projectNameFromPath(path)
			}

			if err := e.persistence.SaveProject(ctx, name, f); err != nil {
				return err
			}

			fmt.Fprintf(command.Root().Writer, "stored %s\n", name)

			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List stored projects",
		Action: func(ctx context.Context, command *cli.Command) error {
			e, err := newEnv(ctx, command)
			if err != nil {
				return err
			}
			defer e.close(ctx)

			infos, err := e.persistence.ListProjects(ctx)
			if err != nil {
				return err
			}

			for _, info := range infos {
				fmt.Fprintf(command.Root().Writer, "%s\t%d\t%s\n",
					info.Name, info.Size, info.ModifiedAt.UTC().Format("2006-01-02T15:04:05Z"))
			}

			return nil
		},
	}
}
