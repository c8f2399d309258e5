// Package tree derives completion progress and descendant counts from a
// flat snapshot of goal nodes linked by parent references.
//
// All functions are pure: they read the snapshot they are given and
// never retain it. Traversals use an explicit stack, so tree depth is
// bounded by memory rather than goroutine stack size, and a parent
// cycle in the data surfaces as ErrGraphIntegrity instead of a hang.
package tree
