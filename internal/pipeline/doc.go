// Package pipeline executes the per-archive processing steps in sequence.
//
// Each Takeout archive moves through three steps: extract the zip into the
// working directory, run the metadata processor over the resulting Takeout
// tree, and remove the tree. The pipeline halts on the first failing step,
// and the batch runner halts on the first failing archive; a processing
// failure therefore leaves the extracted tree on disk for inspection
// instead of silently deleting it.
//
// Steps carry their own configuration (extractor, processor, directories)
// and a Name for logging. The batch loop builds a fresh pipeline per
// archive through a factory so no state leaks between iterations.
package pipeline
