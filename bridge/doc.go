// Package bridge adapts voltlog to the logging APIs an application may
// already be written against, so adopting the async pipeline does not
// require touching call sites.
//
// Two adapters are provided:
//
//   - SlogHandler implements log/slog.Handler, letting slog.New route
//     records through a voltlog Logger.
//   - ZapCore implements go.uber.org/zap/zapcore.Core for codebases on
//     zap.
//
// Both convert the source API's structured attributes into Fields and
// forward through the Logger's normal hot path, so level gates, filter
// chains, bound context, and the non-blocking dispatcher all apply.
// Groups and namespaces are flattened into dotted keys.
package bridge
