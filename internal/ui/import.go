package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <meeting> <file>",
		Short: "Import selections from a JSON export",
		Long: `Import selection records into a meeting. Use "-" to read from stdin.

Each record holds a participant, a date and its ranges; records dated
outside the meeting are rejected and nothing is stored.

Example:
  rendezvous import 3f2a ~/Downloads/team.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.resolveMeeting(ctx, args[0])
			if err != nil {
				return err
			}

			data, source, err := readInput(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}

			count, err := a.svc.Import(ctx, m, data)
			if err != nil {
				return fmt.Errorf("importing %s: %w", source, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d selections from %s\n", count, source)
			return nil
		},
	}
}

func (a *App) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <meeting>",
		Short: "Export every selection of a meeting as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := a.resolveMeeting(ctx, args[0])
			if err != nil {
				return err
			}

			data, err := a.svc.Export(ctx, m)
			if err != nil {
				return fmt.Errorf("exporting: %w", err)
			}

			if output == "" || output == "-" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			path, err := resolvePath(output)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", m.ShortID(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "stdin", nil
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return nil, "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("file does not exist: %s", resolved)
		}
		return nil, "", fmt.Errorf("checking file: %w", err)
	}
	if info.IsDir() {
		return nil, "", fmt.Errorf("path is a directory: %s", resolved)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", resolved, err)
	}
	return data, resolved, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
