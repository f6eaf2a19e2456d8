// ABOUTME: Research subcommand running the paper search MCP server
// ABOUTME: Serves over stdio with the paper store under the data directory
package cli

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/harper/paperchat/internal/config"
	"github.com/harper/paperchat/internal/research"
)

var (
	storageDir string
	arxivURL   string
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Run the research MCP server",
	Long: `Start the Model Context Protocol server that searches arXiv and stores
paper metadata as JSON, over stdio.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		settings, err := loadSettings()
		if err != nil {
			return err
		}
		// stdout carries the protocol; logs go to stderr only.
		logger, err := newLogger(settings)
		if err != nil {
			return err
		}

		dir := storageDir
		if dir == "" {
			dir = config.PaperDir()
		}

		searcher := research.NewArxivClient()
		if arxivURL != "" {
			searcher.BaseURL = arxivURL
		}

		server := research.NewServer(research.NewStore(dir), searcher, logger)
		return server.Run(ctx)
	},
}

func init() {
	researchCmd.Flags().StringVar(&storageDir, "storage", "", "paper store directory (default: $PAPERCHAT_PAPER_DIR or $XDG_DATA_HOME/paperchat/papers)")
	researchCmd.Flags().StringVar(&arxivURL, "arxiv-url", "", "arXiv query endpoint")
	rootCmd.AddCommand(researchCmd)
}
