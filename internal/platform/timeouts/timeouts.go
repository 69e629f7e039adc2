// Package timeouts defines shared timeout constants used across sqlib.
// Centralizing these values keeps the database layer and the command
// entry points in agreement.
package timeouts

import "time"

// Connect caps the ping performed when a database connection is opened.
const Connect = 5 * time.Second

// Migrate caps how long schema migrations may run during Connect.
const Migrate = 30 * time.Second

// Command is the default overall deadline for a single CLI invocation.
const Command = 30 * time.Second

// TelemetryShutdown caps the flush of pending spans when a command exits.
const TelemetryShutdown = 5 * time.Second
