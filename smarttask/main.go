package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/manifoldco/promptui"

	"github.com/id01t/smarttask-ai/internal/app"
	"github.com/id01t/smarttask-ai/internal/config"
	"github.com/id01t/smarttask-ai/internal/export"
	"github.com/id01t/smarttask-ai/internal/extract"
	"github.com/id01t/smarttask-ai/internal/gate"
	"github.com/id01t/smarttask-ai/internal/store"
	pkgLogger "github.com/id01t/smarttask-ai/pkg/logger"
)

// keyPairsFlag implements flag.Value for repeated "Provider=KEY" arguments
type keyPairsFlag []string

func (k *keyPairsFlag) String() string {
	return strings.Join(*k, ",")
}

func (k *keyPairsFlag) Set(value string) error {
	*k = append(*k, value)
	return nil
}

// resolveStringFlag returns the non-empty value, preferring short flag over long flag
func resolveStringFlag(shortVal, longVal string) string {
	if shortVal != "" {
		return shortVal
	}
	return longVal
}

func printUsage() {
	fmt.Println("smarttask - task list and multi-provider AI chat with document import/export")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  smarttask                                  # Interactive chat")
	fmt.Println("  smarttask \"Summarize my week\"              # One-shot prompt (default provider)")
	fmt.Println("  smarttask -p Claude \"Draft an email\"       # One-shot prompt to a provider")
	fmt.Println("  smarttask -set-key \"OpenAI=sk-...\"         # Store an API key")
	fmt.Println("  smarttask -activate SMARTTASK-XXXXXXX      # Activate a Pro license")
	fmt.Println("  smarttask -add-task \"Ship release\" -due \"2026-09-15 17:00\"")
	fmt.Println("  smarttask -tasks                           # List pending tasks")
	fmt.Println("  smarttask -extract notes.pdf               # Print extracted file context")
	fmt.Println()
	fmt.Println("Chat commands:")
	fmt.Println("  /provider                Pick the active provider")
	fmt.Println("  /context <file>          Load file content as prompt context")
	fmt.Println("  /export <path> <format>  Export the transcript (md, docx, pdf)")
	fmt.Println("  /status                  Show license and quota status")
	fmt.Println("  /quit                    Leave the chat")
	fmt.Println()
}

func main() {
	ctx := context.Background()

	var providerFlag = flag.String("p", "", "AI provider (OpenAI, Claude, Gemini, Custom Endpoint)")
	var providerLong = flag.String("provider", "", "AI provider (OpenAI, Claude, Gemini, Custom Endpoint)")
	var settingsPath = flag.String("settings", "", "Path to settings file")
	var activateKey = flag.String("activate", "", "Activate a Pro license key")
	var listProviders = flag.Bool("list-providers", false, "List providers with stored API keys")
	var addTask = flag.String("add-task", "", "Add a task with the given description")
	var dueFlag = flag.String("due", "", "Due date for -add-task (\"2006-01-02 15:04\")")
	var listTasks = flag.Bool("tasks", false, "List pending tasks")
	var deleteTask = flag.Int64("delete-task", 0, "Delete the task with the given ID")
	var extractPath = flag.String("extract", "", "Extract text from a file and print it")
	var showStatus = flag.Bool("status", false, "Show license and quota status")
	var verbose = flag.Bool("v", false, "Enable verbose logging (debug level)")
	var verboseLong = flag.Bool("verbose", false, "Enable verbose logging (debug level)")
	var help = flag.Bool("h", false, "Show this help message")
	var helpLong = flag.Bool("help", false, "Show this help message")

	var keyPairs keyPairsFlag
	flag.Var(&keyPairs, "set-key", "Store an API key as \"Provider=KEY\" (can be used multiple times; empty key deletes)")

	flag.Usage = func() {
		printUsage()
		fmt.Println("Flags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *help || *helpLong {
		flag.Usage()
		return
	}

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}

	if *verbose || *verboseLong {
		pkgLogger.SetGlobalLogLevel(pkgLogger.LogLevelDebug)
	} else {
		pkgLogger.SetGlobalLogLevel(pkgLogger.LogLevel(settings.LogLevel))
	}

	db, err := store.Open(settings.StorePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	quotaGate := gate.New(db)
	registry := app.BuildRegistry(settings)
	orchestrator := app.New(db, quotaGate, registry)
	exporter := export.New()
	exporter.FontPath = settings.Export.FontPath

	switch {
	case *activateKey != "":
		if err := quotaGate.Activate(ctx, *activateKey); err != nil {
			fmt.Fprintf(os.Stderr, "Activation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Pro license activated!")
		return
	case len(keyPairs) > 0:
		if err := saveKeys(ctx, db, keyPairs); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save API keys: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("API keys saved successfully.")
		return
	case *listProviders:
		services, err := db.ConfiguredServices(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list providers: %v\n", err)
			os.Exit(1)
		}
		if len(services) == 0 {
			fmt.Println("No API Keys Set")
			return
		}
		for _, s := range services {
			fmt.Println(s)
		}
		return
	case *addTask != "":
		if err := runAddTask(ctx, db, *addTask, *dueFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add task: %v\n", err)
			os.Exit(1)
		}
		return
	case *listTasks:
		if err := runListTasks(ctx, db); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list tasks: %v\n", err)
			os.Exit(1)
		}
		return
	case *deleteTask != 0:
		if err := db.DeleteTask(ctx, *deleteTask); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete task: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Task deleted.")
		return
	case *extractPath != "":
		content, err := extract.Extract(*extractPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not extract text from the file: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(extract.ContextBlock(*extractPath, content))
		return
	case *showStatus:
		status, err := quotaGate.Status(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read status: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(status)
		return
	}

	activeProvider := resolveStringFlag(*providerFlag, *providerLong)
	if activeProvider == "" {
		activeProvider = settings.DefaultProvider
	}

	// One-shot mode when a prompt is given as an argument
	if prompt := strings.TrimSpace(strings.Join(flag.Args(), " ")); prompt != "" {
		result := orchestrator.Submit(ctx, activeProvider, prompt)
		printResult(result)
		return
	}

	runChat(ctx, orchestrator, quotaGate, exporter, db, activeProvider)
}

// saveKeys parses "Provider=KEY" pairs and stores them with save-all semantics.
func saveKeys(ctx context.Context, db *store.Store, pairs []string) error {
	keys := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, key, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid -set-key value %q, expected \"Provider=KEY\"", pair)
		}
		keys[strings.TrimSpace(name)] = strings.TrimSpace(key)
	}
	return db.SaveAPIKeys(ctx, keys)
}

func runAddTask(ctx context.Context, db *store.Store, description, due string) error {
	var dueTime time.Time
	if due != "" {
		parsed, err := time.ParseInLocation("2006-01-02 15:04", due, time.Local)
		if err != nil {
			return fmt.Errorf("invalid due date %q: %w", due, err)
		}
		dueTime = parsed
	}
	id, err := db.AddTask(ctx, description, dueTime)
	if err != nil {
		return err
	}
	fmt.Printf("Task %d added.\n", id)
	return nil
}

func runListTasks(ctx context.Context, db *store.Store) error {
	tasks, err := db.PendingTasks(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No pending tasks.")
		return nil
	}
	now := time.Now()
	for _, task := range tasks {
		line := fmt.Sprintf("%3d  %s", task.ID, task.Description)
		if !task.DueDate.IsZero() {
			line += fmt.Sprintf(" (Due: %s)", task.DueDate.Format("2006-01-02 15:04"))
		}
		switch task.Reminder(now) {
		case store.ReminderOverdue:
			line += "  [OVERDUE]"
		case store.ReminderDueSoon:
			line += "  [DUE SOON]"
		}
		fmt.Println(line)
	}
	return nil
}

func printResult(result app.Result) {
	switch result.Kind {
	case app.ResultReply:
		fmt.Printf("%s: %s\n", result.Provider, result.Reply)
	case app.ResultQuotaDenied:
		fmt.Println("You have reached your monthly query limit. Please upgrade to Pro.")
	case app.ResultNoKeyConfigured:
		fmt.Printf("API key for %s not found. Store one with -set-key.\n", result.Provider)
	case app.ResultProviderFailure:
		fmt.Printf("Request failed: %s\n", result.Detail)
	case app.ResultEmptyPrompt:
		fmt.Println("Nothing to send: the prompt is empty.")
	}
}

// runChat drives the interactive chat loop.
func runChat(ctx context.Context, orchestrator *app.Orchestrator, quotaGate *gate.Gate, exporter *export.Exporter, db *store.Store, activeProvider string) {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start interactive mode: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	if status, err := quotaGate.Status(ctx); err == nil {
		fmt.Println(status)
	}
	fmt.Printf("Provider: %s (change with /provider, help with /help)\n", activeProvider)

	var pendingContext string
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := handleCommand(ctx, line, orchestrator, quotaGate, exporter, db, &activeProvider, &pendingContext); quit {
				return
			}
			continue
		}

		prompt := line
		if pendingContext != "" {
			prompt = pendingContext + line
			pendingContext = ""
		}

		result := <-orchestrator.SubmitAsync(ctx, activeProvider, prompt)
		printResult(result)
	}
}

// handleCommand executes one slash command; returns true on /quit.
func handleCommand(ctx context.Context, line string, orchestrator *app.Orchestrator, quotaGate *gate.Gate, exporter *export.Exporter, db *store.Store, activeProvider, pendingContext *string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/help":
		printUsage()
	case "/status":
		status, err := quotaGate.Status(ctx)
		if err != nil {
			fmt.Printf("Failed to read status: %v\n", err)
			return false
		}
		fmt.Println(status)
	case "/provider":
		services, err := db.ConfiguredServices(ctx)
		if err != nil || len(services) == 0 {
			fmt.Println("No API Keys Set")
			return false
		}
		prompt := promptui.Select{
			Label: "Select Provider",
			Items: services,
		}
		_, selected, err := prompt.Run()
		if err != nil {
			return false
		}
		*activeProvider = selected
		fmt.Printf("Provider: %s\n", selected)
	case "/context":
		if len(fields) < 2 {
			fmt.Println("Usage: /context <file>")
			return false
		}
		path := strings.Join(fields[1:], " ")
		content, err := extract.Extract(path)
		if err != nil {
			fmt.Printf("Could not extract text from the file: %v\n", err)
			return false
		}
		*pendingContext = extract.ContextBlock(path, content)
		fmt.Printf("Loaded context from %s\n", path)
	case "/export":
		if len(fields) < 3 {
			fmt.Println("Usage: /export <path> <format>  (formats: md, docx, pdf)")
			return false
		}
		format, err := export.ParseFormat(fields[2])
		if err != nil {
			fmt.Println(err)
			return false
		}
		if err := exporter.Export(orchestrator.Transcript(), format, fields[1]); err != nil {
			fmt.Printf("Failed to export chat: %v\n", err)
			return false
		}
		fmt.Printf("Chat exported to %s\n", fields[1])
	default:
		fmt.Printf("Unknown command %s\n", fields[0])
	}
	return false
}
