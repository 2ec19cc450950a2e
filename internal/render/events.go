package render

// Kind tags a render event.
type Kind int

const (
	// KindText is inline text, entity-unescaped with NBSP normalized.
	KindText Kind = iota
	// KindBreak is a block boundary forcing at least Newlines line breaks;
	// consecutive boundaries collapse.
	KindBreak
	// KindHeading carries the accumulated text of a heading element or a
	// style-cue heading (Level 0).
	KindHeading
	// KindListItem is a list-item marker; the item's inline content follows
	// as KindText events.
	KindListItem
	// KindTableRow is one table row; consecutive rows form one table.
	KindTableRow
	// KindImage references a resolved asset or inline data payload.
	KindImage
)

// Event is one semantic unit produced in document order while walking the
// tree. The stream is consumed exactly once by an assembler.
type Event struct {
	Kind Kind

	// Text is the payload for KindText and KindHeading, and the alt label
	// for KindImage.
	Text string
	// Level is the heading level; 0 means a style-cue heading rendered at
	// the fixed marker level.
	Level int
	// Newlines is the minimum line-break count for KindBreak.
	Newlines int
	// Depth is the 0-based list nesting depth for KindListItem.
	Depth int
	// Ordinal is the 1-based position within the nearest ordered list, or 0
	// for unordered items.
	Ordinal int
	// Cells holds the escaped cell texts of a KindTableRow.
	Cells []string
	// Ref is the image reference for KindImage.
	Ref string
}
