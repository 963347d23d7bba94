package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	agentx "github.com/shopease/churn-analyst/agent"
	configx "github.com/shopease/churn-analyst/pkg/config"
	_ "github.com/shopease/churn-analyst/pkg/logger/autoload"
)

var rootCmd = &cobra.Command{
	Use:   "churn-analyst",
	Short: "churn-analyst - keyword-routed churn analytics over the ShopEase tables",
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single analytics question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Answer questions interactively from stdin",
	RunE:  runREPL,
}

func newAnalyst(cmd *cobra.Command) (*agentx.Analyst, error) {
	cfg, err := configx.New[agentx.Config]("ANALYST")
	if err != nil {
		return nil, err
	}
	return agentx.Load(cmd.Context(), *cfg)
}

func runAsk(cmd *cobra.Command, args []string) error {
	analyst, err := newAnalyst(cmd)
	if err != nil {
		return err
	}

	answer, err := analyst.Ask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}

func runREPL(cmd *cobra.Command, args []string) error {
	analyst, err := newAnalyst(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Ask a question (empty line to exit):")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}

		answer, err := analyst.Ask(cmd.Context(), query)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, answer)
	}
	return scanner.Err()
}

func main() {
	rootCmd.AddCommand(askCmd, replCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
