package redirect

import (
	"context"
	"errors"

	"github.com/sundayezeilo/qrdirect/internal/errx"
)

// Admin is the operator-facing side of the configuration record. It shares
// the resolver's Store so both sides observe one source of truth, and adds
// no validation beyond what the store enforces: the resolver defends against
// malformed destinations at read time.
type Admin struct {
	store Store
	codes []string
}

// NewAdmin creates the admin service over the shared store. codes is the
// same closed set the resolver validates against; it is used only to fill
// explicit empty defaults when the record is absent or sparse.
func NewAdmin(store Store, codes []string) *Admin {
	return &Admin{
		store: store,
		codes: codes,
	}
}

// GetMapping returns the current mapping with every known code present.
// An absent record is not an error: it reads as all-empty defaults.
func (a *Admin) GetMapping(ctx context.Context) (Mapping, error) {
	const op = "redirect.admin.GetMapping"

	mapping, err := a.store.Read(ctx)
	if err != nil {
		if errx.KindOf(err) == errx.NotFound {
			mapping = Mapping{}
		} else {
			return nil, errx.E(op, errx.KindOf(err), err)
		}
	}

	out := mapping.Clone()
	for _, code := range a.codes {
		if _, ok := out[code]; !ok {
			out[code] = ""
		}
	}
	return out, nil
}

// SetMapping merges the given keys into the stored record. Keys not present
// are untouched; unknown keys are merged and preserved. Write failures are
// surfaced to the operator, who is the retry loop.
func (a *Admin) SetMapping(ctx context.Context, partial Mapping) error {
	const op = "redirect.admin.SetMapping"

	if len(partial) == 0 {
		return errx.E(op, errx.Invalid, errors.New("no keys to update"))
	}

	if err := a.store.Write(ctx, partial); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}
