package spritepaint

import "fmt"

// DecodeError reports a source sheet that could not be read or decoded.
// The sheet keeps its pending state and is retried on the next tick.
type DecodeError struct {
	Sheet string
	Path  string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("spritepaint: sheet %q: decode %s: %v", e.Sheet, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PaletteMismatchError reports a broken palette invariant: a visible pixel
// whose color was never extracted, or choices that do not line up with the
// palette. The sheet is evicted.
type PaletteMismatchError struct {
	Sheet  string
	X, Y   int
	Color  RGB
	Reason string
}

func (e *PaletteMismatchError) Error() string {
	if e.X < 0 {
		return fmt.Sprintf("spritepaint: sheet %q: palette invariant violated: %s", e.Sheet, e.Reason)
	}
	return fmt.Sprintf("spritepaint: sheet %q: palette invariant violated: %s (%v at %d,%d)",
		e.Sheet, e.Reason, e.Color, e.X, e.Y)
}

// UploadError reports a sub-sprite image the backend refused. The sheet
// keeps its previous handles.
type UploadError struct {
	Sheet  string
	Sprite int
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("spritepaint: sheet %q: upload sprite %d: %v", e.Sheet, e.Sprite, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistError reports a color-mod sheet that could not be written to the
// destination folder.
type PersistError struct {
	Sheet string
	Path  string
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("spritepaint: sheet %q: write %s: %v", e.Sheet, e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
