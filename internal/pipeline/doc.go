// Package pipeline runs intake requests through a sequence of steps.
//
// The standard chain is normalize -> soften -> infer -> format, each step a
// thin wrapper around the matching pure function in the intake package. An
// optional journal step stores the finished report. Wrapping the pure
// functions as steps gives every request the same structured logging and
// lets outer layers append steps (such as journaling) without touching the
// transform itself.
//
// The pipeline supports both single requests and batch processing with
// concurrency control using errgroup.
package pipeline
