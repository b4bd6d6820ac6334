// Package errors provides structured game errors with a code, a
// player-facing message and an optional cause.
//
// Mutators return these errors and front ends render the message:
//
//	if p.Gold < item.Price {
//	    return p, types.Result{}, errors.Insufficientf("not enough gold for %s", item.Name)
//	}
//
// Wrapping keeps the code of an existing Error:
//
//	if err := store.Save(ctx, data); err != nil {
//	    return errors.Wrap(err, "failed to persist player state")
//	}
//
// Use GetCode, GetMessage, and the Is* helpers to inspect errors.
package errors
