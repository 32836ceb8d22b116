// Package hash provides keyed hashing used to avoid keeping raw secrets in
// memory, such as sandbox session references.
package hash
