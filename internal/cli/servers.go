// ABOUTME: Servers command listing what every configured MCP server exposes
// ABOUTME: Connects, prints tools, resources and prompts, then exits
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/paperchat/internal/config"
	"github.com/harper/paperchat/internal/host"
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List configured MCP servers and their capabilities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		settings, err := loadSettings()
		if err != nil {
			return err
		}
		logger, err := newLogger(settings)
		if err != nil {
			return err
		}

		path, entries, err := loadServers()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config: %s\n\n", path)
		printEntries(out, entries)

		pool, catalog, err := connectServers(ctx, entries, logger)
		if err != nil {
			return err
		}
		defer closePool(pool)

		_, _ = color.New(color.FgGreen).Fprintf(out, "\nConnected to %d server(s)\n", len(entries))
		printNotices(out, catalog)
		printCatalog(out, catalog)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serversCmd)
}

func printEntries(w io.Writer, entries []config.ServerEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SERVER\tCOMMAND")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.String())
	}
	_ = tw.Flush()
}

func printCatalog(w io.Writer, catalog *host.Catalog) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "\nTOOL\tSERVER\tDESCRIPTION")
	for _, t := range catalog.Tools() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name(), t.Server(), t.Description())
	}

	fmt.Fprintln(tw, "\nRESOURCE\tSERVER\tDESCRIPTION")
	for _, r := range catalog.Resources() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.URI, r.Server, r.Description)
	}

	fmt.Fprintln(tw, "\nPROMPT\tSERVER\tARGUMENTS")
	for _, p := range catalog.Prompts() {
		args := ""
		for i, a := range p.Arguments {
			if i > 0 {
				args += ", "
			}
			args += a.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Server, args)
	}

	_ = tw.Flush()
}
