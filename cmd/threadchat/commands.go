package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ThreadChat/internal/chatbot"
	"ThreadChat/internal/config"
	"ThreadChat/internal/ui/repl"
	"ThreadChat/internal/ui/tui"
)

var (
	assumeYes    bool
	historyLimit int
)

// sendCmd sends a single message and prints the reply
var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Send one message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSend,
}

// resetCmd resets the conversation thread of a user
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the conversation thread of the user",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

// healthCmd checks the chat service
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the chat service is up",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

// historyCmd prints archived messages
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print archived messages of the user",
	Long: `Print messages archived with --history. The archive is read even when
--history is not set for this invocation.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	mode := a.cfg.UI.Mode
	if mode == config.UIAuto {
		mode = config.UILine
		if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
			mode = config.UITUI
		}
	}

	if mode == config.UITUI {
		bridge := tui.NewBridge()
		ctrl := a.controller(bridge, bridge)
		ctrl.Init()
		return tui.Run(ctx, ctrl, bridge, tui.Options{
			UserID:   a.cfg.User.ID,
			Endpoint: ctrl.Endpoint(),
			Theme:    a.cfg.UI.Theme,
			Logger:   a.logger,
		})
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	console := repl.NewConsole(os.Stdout, line)
	ctrl := a.controller(console, console)
	ctrl.Init()
	return repl.New(ctrl, console, line, a.cfg.User.ID, a.logger).Run(ctx)
}

func runSend(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if strings.TrimSpace(a.cfg.User.ID) == "" {
		return errors.New("a user id is required (--user-id or THREADCHAT_USER_ID)")
	}

	console := repl.NewConsole(os.Stdout, answerReader("n"))
	ctrl := a.controller(console, console)
	_, err = ctrl.Send(cmd.Context(), strings.Join(args, " "), a.cfg.User.ID)
	if errors.Is(err, chatbot.ErrEmptyInput) {
		return errors.New("message must not be empty")
	}
	return err
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var reader repl.LineReader = answerReader("y")
	if !assumeYes {
		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)
		reader = line
	}

	console := repl.NewConsole(os.Stdout, reader)
	ctrl := a.controller(console, console)
	err = ctrl.Reset(cmd.Context(), a.cfg.User.ID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, chatbot.ErrResetDeclined):
		fmt.Println("Reset cancelled")
		return nil
	default:
		return err
	}
}

func runHealth(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	health, err := a.client.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("chat service at %s is unreachable: %w", a.client.BaseURL(), err)
	}
	fmt.Printf("%s at %s: %s\n", health.Service, a.client.BaseURL(), health.Status)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	userID := strings.TrimSpace(a.cfg.User.ID)
	if userID == "" {
		return errors.New("a user id is required (--user-id or THREADCHAT_USER_ID)")
	}

	store, err := a.openHistory()
	if err != nil {
		return err
	}

	entries, err := store.Messages(cmd.Context(), userID, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No archived messages for %s\n", userID)
		return nil
	}

	console := repl.NewConsole(os.Stdout, answerReader("n"))
	thread := ""
	for _, e := range entries {
		if e.ThreadID != thread {
			console.SetThread(e.ThreadID)
			thread = e.ThreadID
		}
		console.AppendMessage(e.Message)
	}
	return nil
}

// answerReader answers every prompt with the same line
type answerReader string

func (r answerReader) Prompt(string) (string, error) { return string(r), nil }
func (r answerReader) AppendHistory(string)          {}
