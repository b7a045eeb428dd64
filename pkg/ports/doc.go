/*
Package ports defines the driven ports (interfaces) of the marking menu engine.

These interfaces decouple the core logic from external implementations, so
the navigation engine can run against a real or a virtual clock and traces
can be kept in memory, on disk or in Redis.

# Key Interfaces

  - Clock: time source and timer factory used for the dwell timers.
  - TraceStore: persists recorded gesture traces for later replay.
*/
package ports
