// ABOUTME: Chat command running the interactive Gemini session
// ABOUTME: Wires settings, MCP servers, the model and the REPL together
package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/harper/paperchat/internal/chat"
	"github.com/harper/paperchat/internal/config"
	"github.com/harper/paperchat/internal/gemini"
	"github.com/harper/paperchat/internal/logging"
)

var (
	chatModel      string
	chatMaxRounds  int
	chatSequential bool
	chatEnvFile    string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session (default)",
	Long: `Connect to every configured MCP server and chat with Gemini.

Commands:
  @folders               list stored topics
  @<topic>               show papers stored for a topic
  /prompts               list available prompts
  /prompt <name> k=v     run a prompt through the model
  quit                   exit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "Gemini model id (default from settings)")
	chatCmd.Flags().IntVar(&chatMaxRounds, "max-rounds", 0, "maximum model calls per turn (default from settings)")
	chatCmd.Flags().BoolVar(&chatSequential, "sequential", false, "dispatch function calls one at a time")
	chatCmd.Flags().StringVar(&chatEnvFile, "env-file", ".env", "dotenv file to load before reading the API key")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if chatModel != "" {
		settings.Model = chatModel
	}
	if chatMaxRounds > 0 {
		settings.MaxRounds = chatMaxRounds
	}
	if chatSequential {
		settings.ParallelTools = false
	}

	logger, err := newLogger(settings)
	if err != nil {
		return err
	}

	if err := config.LoadEnv(chatEnvFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", chatEnvFile, err)
	}
	apiKey, err := config.APIKey()
	if err != nil {
		return err
	}

	path, entries, err := loadServers()
	if err != nil {
		return err
	}
	logger.Debug("loaded server config", "path", path, "servers", len(entries))

	pool, catalog, err := connectServers(ctx, entries, logger)
	if err != nil {
		return err
	}
	defer closePool(pool)

	out := cmd.OutOrStdout()
	printNotices(out, catalog)

	tools := catalog.Tools()
	specs := make([]gemini.ToolSpec, 0, len(tools))
	for _, t := range tools {
		specs = append(specs, t)
	}

	model, err := gemini.NewClient(ctx, apiKey, specs, gemini.Options{
		Model:           settings.Model,
		MaxOutputTokens: settings.MaxOutputTokens,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	loop := chat.NewLoop(model, catalog, chat.Options{
		MaxRounds: settings.MaxRounds,
		Parallel:  settings.ParallelTools,
		OnCall:    chat.PrintCall(out),
		Logger:    logger,
	})

	var recorder chat.Recorder
	if settings.Transcript {
		recorder = &logging.Transcript{Dir: settings.TranscriptDir, Format: settings.TranscriptFormat}
	}

	repl := chat.NewREPL(chat.REPLConfig{
		In:       cmd.InOrStdin(),
		Out:      out,
		Session:  chat.NewSession(loop),
		Catalog:  catalog,
		Recorder: recorder,
		Logger:   logger,
	})
	repl.Banner()
	return repl.Run(ctx)
}
