/*
Package domain contains the core types shared by the marking menu engine and
its adapters.

It is kept free of I/O so the navigation engine, the renderers and the
transport adapters can exchange values without depending on each other.

# Key Entities

  - Sample: one pointer position reported by a position source (down, move or up).
  - Notification: one step of the navigation output stream (open, close,
    active, select, cancel).
  - Config: distance and timing thresholds driving the gesture state machine,
    plus the visual options consumed by renderers.
  - LifecycleHooks: callbacks for observing gestures from the outside.
*/
package domain
