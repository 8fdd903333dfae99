// Package utils provides small filesystem helpers shared by the registry sinks and the tailer.
//
//   - GetAbsolutePath resolves a path relative to the config directory
//   - EnsureParentDir and OpenAppend prepare log files for file sinks
//   - CloseOrWarn closes a resource and logs instead of failing
package utils
