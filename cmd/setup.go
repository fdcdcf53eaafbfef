package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kaido-cli/kaido/internal/config"
	"github.com/kaido-cli/kaido/internal/llm"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively write ~/.kaido/config.toml",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("kaido setup — press enter to accept the default shown in [brackets].")

	provider := prompt(reader, fmt.Sprintf("LLM provider (anthropic/openai/gemini/ollama/auto) [%s]", cfg.AI.Provider), string(cfg.AI.Provider))
	cfg.AI.Provider = llm.Provider(provider)

	cfg.AI.Model = prompt(reader, fmt.Sprintf("model [%s]", cfg.AI.Model), cfg.AI.Model)

	switch cfg.AI.Provider {
	case llm.ProviderAnthropic, llm.ProviderOpenAI:
		cfg.AI.APIKey = prompt(reader, "API key (leave blank to use the provider's env var)", "")
	case llm.ProviderGemini:
		cfg.AI.GeminiAPIKey = prompt(reader, "Gemini API key (leave blank to use GEMINI_API_KEY/GOOGLE_API_KEY)", "")
	case llm.ProviderOllama:
		cfg.AI.OllamaBaseURL = prompt(reader, "Ollama base URL [http://localhost:11434]", "http://localhost:11434")
	}

	cfg.Audit.DatabasePath = prompt(reader, fmt.Sprintf("audit database path [%s]", cfg.Audit.DatabasePath), cfg.Audit.DatabasePath)

	retentionStr := prompt(reader, fmt.Sprintf("audit retention days [%d]", cfg.Audit.RetentionDays), strconv.Itoa(int(cfg.Audit.RetentionDays)))
	if retention, err := strconv.Atoi(retentionStr); err == nil {
		cfg.Audit.RetentionDays = uint32(retention)
	}

	cfg.Safety.RequireTypedConfirmationInProduction = promptBool(reader, "require typed confirmation for High-risk commands in production", cfg.Safety.RequireTypedConfirmationInProduction)
	cfg.ExplainMode = promptBool(reader, "annotate commands with pedagogical explanations before running them", cfg.ExplainMode)

	if err := config.Save(cfg); err != nil {
		return err
	}

	path, _ := config.Path()
	fmt.Printf("\nwrote %s\n", path)
	return nil
}

func prompt(reader *bufio.Reader, label, def string) string {
	fmt.Printf("%s: ", label)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func promptBool(reader *bufio.Reader, label string, def bool) bool {
	defStr := "y"
	if !def {
		defStr = "n"
	}
	line := prompt(reader, fmt.Sprintf("%s [%s]", label, defStr), defStr)
	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes")
}
