package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/output"
)

// Prompt function variables allow tests to substitute canned responses.
//
//nolint:gochecknoglobals // swapped out in tests
var (
	promptConfirmFn = promptConfirmation
	promptSeedFn    = promptSeedPhrase
)

// promptConfirmation asks a yes/no question on stderr and reads the answer
// from stdin. Anything other than y/yes declines.
func promptConfirmation(prompt string) bool {
	out(os.Stderr, "%s", prompt)

	var response string
	_, err := fmt.Scanln(&response)
	if err != nil {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// promptSeedPhrase reads a seed phrase as one line from stdin.
func promptSeedPhrase(cmd *cobra.Command) (string, error) {
	outln(cmd.ErrOrStderr(), "Enter your 12-word seed phrase, all words on one line:")

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading seed phrase: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// outputSuccess emits a success message in the active output format.
func outputSuccess(cc *CommandContext, cmd *cobra.Command, message string) error {
	return output.FormatSuccess(cmd.OutOrStdout(), message, cc.Fmt.Format())
}
