// Package tasks runs background work alongside a now-playing session.
//
// # Play History
//
// [Recorder] watches property changes and records a [models.Play] each time a track starts playing.
// A track counts once per start: pausing and resuming does not record it again, and neither does a
// track loop, since the track id does not change.
//
// # Non-blocking observation
//
// Store observers run synchronously with property writes, so the recorder's observer only buffers.
// Buffering uses select with default to prevent blocking; a full buffer drops the play with a warning.
// [Recorder.Run] drains the buffer into the repository until its context is done.
package tasks
