// Package augment implements dimensionality augmentation (spec.md §4.3):
// iteratively raising an order-1 piece inventory to a target order by
// finding regular, evenly-spaced repetitions of existing meta-pattern
// origins and folding them into new, higher-order meta-patterns.
package augment
