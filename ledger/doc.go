// Package ledger implements the append-only hand-history log and its
// persistence.
//
// # Core Components
//
// Log: An append-only record of one hand's events with cryptographic hash
// chaining for tamper detection. The hand state machine appends through the
// poker.EventSink interface; nothing is ever rewritten.
//
// Codec: The binary hand-history format. A saved log carries the hand
// configuration (variant, stacks, blinds, deck seed) and every event, so a
// hand can be reproduced bit-exactly on any machine.
//
// Replayer: Re-simulates a saved hand step by step, verifying at every
// event that the machine reproduces the recorded history.
package ledger
