// Package timeline implements a time-driven range scheduler. A Timeline owns a
// single scalar clock and a set of named half-open intervals (blocks); as the
// caller advances or seeks the clock, each block's normalized progress is
// recomputed and progress-change callbacks fire synchronously. The package does
// no I/O and owns no wall-clock source — the caller drives time entirely.
package timeline
