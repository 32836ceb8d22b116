package entity

import "strings"

// CodeLength is the number of slots of an OTP code.
const CodeLength = 5

// CodeBuffer is the editable OTP code: a fixed row of slots, each either
// empty or holding exactly one decimal digit, plus the focused slot.
//
// The zero value is not usable; use NewCodeBuffer.
type CodeBuffer struct {
	slots []string
	focus int
}

// NewCodeBuffer returns an empty buffer of n slots. A non-positive n means
// CodeLength.
func NewCodeBuffer(n int) *CodeBuffer {
	if n <= 0 {
		n = CodeLength
	}
	return &CodeBuffer{slots: make([]string, n)}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Len returns the number of slots.
func (b *CodeBuffer) Len() int {
	return len(b.slots)
}

func (b *CodeBuffer) valid(i int) bool {
	return i >= 0 && i < len(b.slots)
}

// Type stores digit r in slot i and moves focus to the next slot.
// Non-digits and out-of-range slots are ignored.
func (b *CodeBuffer) Type(i int, r rune) bool {
	if !b.valid(i) || !isDigit(r) {
		return false
	}

	b.slots[i] = string(r)
	b.focus = min(i+1, len(b.slots)-1)

	return true
}

// Backspace edits around slot i.
//
// A filled slot is cleared in place. On an empty slot with digits to its
// right, the tail closes the gap and focus moves to the first empty slot.
// Otherwise the previous slot is cleared and focused; at slot 0 nothing
// happens.
func (b *CodeBuffer) Backspace(i int) bool {
	if !b.valid(i) {
		return false
	}

	if b.slots[i] != "" {
		b.slots[i] = ""
		b.focus = i
		return true
	}

	if b.hasDigitAfter(i) {
		b.shiftLeft(i)
		b.focus = b.firstEmpty()
		return true
	}

	if i == 0 {
		return false
	}

	b.slots[i-1] = ""
	b.focus = i - 1

	return true
}

// Delete removes slot i by shifting the tail left; focus stays at i.
func (b *CodeBuffer) Delete(i int) bool {
	if !b.valid(i) {
		return false
	}

	b.shiftLeft(i)
	b.focus = i

	return true
}

// Paste replaces the whole buffer with the digits found in s, truncated to
// the buffer length, and returns how many were used.
func (b *CodeBuffer) Paste(s string) int {
	digits := make([]string, 0, len(b.slots))
	for _, r := range s {
		if len(digits) == len(b.slots) {
			break
		}
		if isDigit(r) {
			digits = append(digits, string(r))
		}
	}

	for i := range b.slots {
		if i < len(digits) {
			b.slots[i] = digits[i]
		} else {
			b.slots[i] = ""
		}
	}

	b.focus = min(len(digits), len(b.slots)-1)

	return len(digits)
}

// SetFocus moves focus to slot i, clamped to the buffer.
func (b *CodeBuffer) SetFocus(i int) {
	b.focus = max(0, min(i, len(b.slots)-1))
}

// Focus returns the focused slot.
func (b *CodeBuffer) Focus() int {
	return b.focus
}

// Slots returns a copy of the slots.
func (b *CodeBuffer) Slots() []string {
	out := make([]string, len(b.slots))
	copy(out, b.slots)
	return out
}

// Code returns the digits joined in slot order.
func (b *CodeBuffer) Code() string {
	return strings.Join(b.slots, "")
}

// Complete reports whether every slot holds a digit.
func (b *CodeBuffer) Complete() bool {
	return b.firstEmpty() == -1
}

// Clear empties every slot and focuses the first one.
func (b *CodeBuffer) Clear() {
	for i := range b.slots {
		b.slots[i] = ""
	}
	b.focus = 0
}

func (b *CodeBuffer) hasDigitAfter(i int) bool {
	for _, s := range b.slots[i+1:] {
		if s != "" {
			return true
		}
	}
	return false
}

func (b *CodeBuffer) shiftLeft(i int) {
	copy(b.slots[i:], b.slots[i+1:])
	b.slots[len(b.slots)-1] = ""
}

// firstEmpty returns the index of the first empty slot or -1.
func (b *CodeBuffer) firstEmpty() int {
	for i, s := range b.slots {
		if s == "" {
			return i
		}
	}
	return -1
}
