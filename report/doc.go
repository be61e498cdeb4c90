// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package report renders operator output for the command-line tools:
// the stored distribution, the registration timeline and broadcast results.
package report
