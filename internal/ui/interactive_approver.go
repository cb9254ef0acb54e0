package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/petl/pkg/petl"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the relation name
// to confirm replacing its contents.
type InteractiveApprover struct {
	verbose bool

	// input and output are injectable for testing; defaults are stdin/stderr.
	input  io.Reader
	output io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover.
func NewInteractiveApprover(verbose bool) petl.Approver {
	return &InteractiveApprover{
		verbose: verbose,
		input:   os.Stdin,
		output:  os.Stderr,
	}
}

// RequestApproval prompts the user to type the relation name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, relation string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: You are about to REPLACE the contents of '%s'\n", relation)
	fmt.Fprintln(a.output, "This will permanently delete all rows currently in this relation!")
	fmt.Fprintf(a.output, "\nTo confirm, type the relation name '%s' and press Enter: ", relation)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == relation {
			fmt.Fprintln(a.output, "✓ Confirmed. Proceeding with replace...")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match relation name '%s'. Operation cancelled.\n", input, relation)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ petl.Approver = (*InteractiveApprover)(nil)
