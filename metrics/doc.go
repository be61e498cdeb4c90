// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus counters for the exchange.

	secret_post_pairing_runs_total{result}   stored, unbalanced or failed runs
	secret_post_pairing_attempts             permutations tried per run
	secret_post_messages_total{kind,result}  chat messages sent or failed
	secret_post_letters_total{status}        letters marked sent or delivered

Call Register once at startup. The router serves them on GET /metrics.
*/
package metrics
