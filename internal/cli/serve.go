package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verdict-dev/verdict/internal/config"
	"github.com/verdict-dev/verdict/internal/language"
	"github.com/verdict-dev/verdict/internal/providers"
	"github.com/verdict-dev/verdict/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the review HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default :8000)")
	serveCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (gemini, anthropic, ollama)")
	serveCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
}

func runServe() {
	overrides := buildOverrides()
	if flagAddr != "" {
		overrides["addr"] = flagAddr
	}
	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		if providers.IsAuthError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lang, _ := language.Parse(cfg.DefaultLanguage)
	srv := server.New(server.Config{
		Engine:          engine,
		Logger:          log,
		DefaultLanguage: lang,
		Timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
	})

	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
	}
}
