// Package logs reads the impulsetrim log file for the logs command.
//
// Last returns the final lines with bounded memory; Follow polls for lines
// appended after an offset until its context ends. A Filter narrows either
// to one session.
package logs
