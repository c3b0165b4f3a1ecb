// Package main hosts the impulsetrim CLI.
//
// The Cobra command tree resolves configuration once, opens the requested
// recording and hands it to one of the front ends: the full-screen trim
// view, the readline shell or the headless auto mode. The remaining
// commands inspect the clip ledger, read counters from exported video and
// check the external tools.
package main
