// Package handler provides the sinks that persist batches of rendered
// log lines.
//
// A Handler carries its own level threshold and formatter; the dispatch
// worker renders records per handler and delivers them through
// WriteBatch. WriteBatch never propagates I/O failure to the caller:
// a failed batch is reported through the package error hook (stderr by
// default) and dropped for that handler only, preserving the guarantee
// that logging never breaks the application. Close is idempotent on
// every handler.
//
// Built-in handlers:
//
//   - ConsoleHandler writes to any io.Writer (default: stdout), joining
//     each batch into a single newline-terminated write behind a mutex.
//   - RotatingFileHandler appends to a file through a sizable buffered
//     writer and rotates into a numbered backup chain (file.1 newest ...
//     file.N oldest) once a pending batch would exceed MaxBytes. One
//     mutex spans decide+rotate+write+flush, so no line is ever split
//     across the pre- and post-rotation file.
//   - LockFreeFileHandler is the low-contention variant: the rotation
//     check reads an atomic size counter without locking, and rotation
//     itself runs on a dedicated worker goroutine so producers never
//     wait on rename I/O. Only the byte-level write still takes a lock,
//     because concurrent unsynchronized writes would interleave partial
//     lines.
//
// All handlers track processed lines, write errors, and rotations via
// atomic Stats counters that can be queried at runtime.
package handler
