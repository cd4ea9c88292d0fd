// Package retry provides utilities for retrying operations with exponential backoff.
package retry
