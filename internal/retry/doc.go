// Package retry implements retry orchestration for transient database
// failures: an exponential backoff strategy with jitter, a PostgreSQL-aware
// error classifier, and an executor that runs operations under a context.
package retry
