package petl

import "context"

// Approver handles confirmation of destructive operations, such as
// replacing a staging table that already holds rows.
type Approver interface {
	// RequestApproval asks for confirmation to overwrite the named relation.
	// Returns true if the operation should proceed.
	RequestApproval(ctx context.Context, relation string) (bool, error)
}
