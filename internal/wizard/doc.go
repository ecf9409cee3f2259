// Package wizard drives multi-step forms.
//
// A Controller walks an ordered list of Steps over a shared Form. Moving
// forward (Advance, or JumpTo a later step) first validates only the fields
// governed by the current step; moving backward never validates. Every change
// of the current step clears the error markers held by the Form so a step is
// always entered with a clean slate.
//
// The Form is owned by the caller. The controller keeps a pointer to it and
// mutates its error set in place; field values are only ever written by the
// caller.
package wizard
