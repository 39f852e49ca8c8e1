// Package pipeline sequences the build stages of jmindex.
//
// A build runs four stages in a fixed order: resolve the release asset,
// download it, extract the archive, and convert the extracted source into
// the simplified index. Each stage is a Step that receives the accumulated
// BuildReport; the pipeline halts on the first failing step, so no later
// stage ever runs against the output of a failed one. Context cancellation
// is checked between steps.
//
// The update and convert subcommands reuse the same steps in shorter
// pipelines, so stage behavior never diverges between entry points.
package pipeline
