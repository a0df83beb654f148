// Package session implements the update state machine: START → DATA* → END.
// A Session owns nothing about the wire format or flash programming
// directly; it orchestrates protocol.ReadFrame/WriteReply, flash.Programmer
// and metadata.Store calls under a retry/abort policy.
//
// # Error budget
//
// A single counter, shared across the whole session, is incremented on every
// rejected frame or failed flash operation and reset to zero on every
// success. Once it exceeds ErrorThreshold, Run emits StatusEnd, calls the
// injected Resetter, and returns an *AbortError — it never returns to
// ExpectStart.
//
// # Shared retry scopes
//
// The DATA phase splits receive and program/verify into two separate bounded
// retry loops that still share the one error counter: a frame that fails to
// authenticate does not re-use a program-step budget, and vice versa, but
// both count against the same threshold.
package session
