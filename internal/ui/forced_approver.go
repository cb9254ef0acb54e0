package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/petl/pkg/petl"
)

// ForcedApprover implements the Approver interface for forced
// (non-interactive) approval. It displays a countdown and automatically
// approves, used when the --force flag is provided.
type ForcedApprover struct {
	verbose bool

	// output and sleepFn are injectable for testing.
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover.
func NewForcedApprover(verbose bool) petl.Approver {
	return &ForcedApprover{
		verbose: verbose,
		output:  os.Stderr,
		sleepFn: time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves after it.
func (a *ForcedApprover) RequestApproval(ctx context.Context, relation string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  DANGER: Replacing contents of '%s' (--force)\n", relation)

	countdownSeconds := int(petl.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rReplacing in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(1 * time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with replace...                              \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ petl.Approver = (*ForcedApprover)(nil)
