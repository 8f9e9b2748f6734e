// Package poker implements the rules core of the platform: the card and
// deck model, hand evaluation for high and deuce-to-seven low games, side
// pot construction, and the hand state machine that drives a hand from the
// blinds through betting rounds, draw phases and showdown.
//
// # Determinism
//
// Everything the machine does is a pure function of the variant descriptor,
// the seat configuration, the deck seed and the sequence of applied actions.
// Every observable mutation is appended to an EventSink; replaying those
// events against the same configuration reproduces the hand exactly.
//
// # Money
//
// Chip amounts are uint64 and the machine enforces conservation: the sum of
// stacks after HandEnd equals the sum before the blinds. A detected
// violation aborts the hand with HandEnd{InvariantFailure}.
package poker
