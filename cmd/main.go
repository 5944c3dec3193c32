package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/mgrain/sopchat/pkg/assistant"
	cfgPkg "github.com/mgrain/sopchat/pkg/config"
	"github.com/mgrain/sopchat/server"
	"github.com/schollz/progressbar/v3"
)

type flags struct {
	configPath string
	dbURL      string
	model      string
	apiKey     string
	uploadPath string
	serveAddr  string
}

func main() {
	_ = godotenv.Load()

	f := parseFlags()

	if err := run(f); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() flags {
	var f flags

	flag.StringVar(&f.configPath, "config", "", "Path to config file")
	flag.StringVar(&f.dbURL, "db-url", "", "PostgreSQL connection string")
	flag.StringVar(&f.model, "model", "", "Chat model to use")
	flag.StringVar(&f.apiKey, "api-key", "", "Chat API key (defaults to GROQ_API_KEY)")
	flag.StringVar(&f.uploadPath, "file", "", "Runbook file to index on startup")
	flag.StringVar(&f.serveAddr, "serve", "", "Run the HTTP/WebSocket server on this address instead of the chat loop")
	flag.Parse()

	return f
}

func loadConfig(f flags) (*cfgPkg.Config, error) {
	cfg, err := cfgPkg.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	// Command line flags win over file and environment.
	if f.dbURL != "" {
		cfg.Database.URL = f.dbURL
	}
	if f.model != "" {
		cfg.LLM.Model = f.model
	}
	if f.apiKey != "" {
		cfg.LLM.APIKey = f.apiKey
	}

	return cfg, nil
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("chunks"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(f flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	bot, closeStore, err := assistant.Build(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()

	if f.serveAddr != "" {
		return server.New(bot).ListenAndServe(f.serveAddr)
	}

	if f.uploadPath != "" {
		if err := upload(ctx, bot, f.uploadPath); err != nil {
			return err
		}
	}

	phase, err := bot.Phase(ctx)
	if err != nil {
		return err
	}

	color.Cyan("\nSOP Assistant — ask about your runbook (type 'exit' to quit)")
	if phase == assistant.PhaseBootstrap {
		color.Yellow("No runbook indexed yet. Use /upload <file> to get started.")
	}
	color.White("Commands: /upload <file>, /reset, /examples, /example <n>, /history")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.ToLower(input) == "exit" {
			break
		}

		if strings.HasPrefix(input, "/") {
			handleCommand(ctx, bot, input)
			continue
		}

		ask(ctx, bot, input)
	}

	return nil
}

func handleCommand(ctx context.Context, bot *assistant.Assistant, input string) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/upload":
		if arg == "" {
			color.Red("Usage: /upload <file>")
			return
		}
		if err := upload(ctx, bot, arg); err != nil {
			color.Red("Upload failed: %v", err)
		}

	case "/reset":
		if err := bot.Reset(ctx); err != nil {
			color.Red("Reset failed: %v", err)
			return
		}
		color.Green("✓ Index cleared. Upload a runbook to start over.")

	case "/examples":
		color.Cyan("Example questions:")
		for i, q := range assistant.ExampleQuestions() {
			fmt.Printf("  %d. %s\n", i+1, q)
		}

	case "/example":
		questions := assistant.ExampleQuestions()
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(questions) {
			color.Red("Usage: /example <1-%d>", len(questions))
			return
		}
		// Presets feed the same intake as typed questions.
		color.White("You asked: %s", questions[n-1])
		ask(ctx, bot, questions[n-1])

	case "/history":
		for _, msg := range bot.History() {
			fmt.Printf("[%s] %s\n", msg.Role, msg.Content)
			if msg.Meta != nil {
				color.White("        Source: %s | Latency: %dms", msg.Meta.Source, msg.Meta.LatencyMS)
			}
		}

	default:
		color.Red("Unknown command: %s", cmd)
	}
}

func upload(ctx context.Context, bot *assistant.Assistant, path string) error {
	color.Blue("\nIndexing %s", path)

	var bar *progressbar.ProgressBar
	bot.OnIndexed = func(done, total int) {
		if bar == nil {
			bar = getProgressBar(total, "💾 Indexing runbook...")
		}
		bar.Set(done)
	}
	defer func() { bot.OnIndexed = nil }()

	count, err := bot.Upload(ctx, path)
	if err != nil {
		return err
	}

	color.Green("\n✓ Indexed %d chunks\n", count)
	return nil
}

func ask(ctx context.Context, bot *assistant.Assistant, question string) {
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	spinner := getSpinner("🔍 Searching SOP...")
	answer, err := bot.Ask(ctx, question)
	spinner.Finish()
	fmt.Print("\r")

	if err != nil {
		color.Red("Error: %v", err)
		return
	}

	assistantPrompt("\nAssistant: %s\n", answer.Text)
	color.White("Source: %s | Latency: %dms", answer.SourceID, answer.LatencyMS)
}
