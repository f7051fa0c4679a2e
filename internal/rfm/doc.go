// Package rfm implements customer segmentation by Recency, Frequency and
// Monetary value.
//
// Calculate aggregates raw R/F/M values per customer from order history.
// Score converts the raw values into ordinal 1..n scores via rank-based
// quantile binning. Classify maps a score triple to a named segment from an
// ordered catalogue, with an R+F+M sum fallback for score combinations the
// catalogue does not cover. The Segmenter type runs the three stages as one
// pipeline.
//
// Scoring requires at least as many customers as bins; anything less is a
// configuration error that propagates to the caller rather than silently
// producing a corrupted score scale.
package rfm
