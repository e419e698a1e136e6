package reconcile

import "fgasupport/internal/catalog"

// Outcome summarizes what happened to one entry.
type Outcome string

const (
	OutcomeNew       Outcome = "new"
	OutcomeChanged   Outcome = "changed"
	OutcomeRenamed   Outcome = "renamed"
	OutcomeUnchanged Outcome = "unchanged"
)

// Decision is the classification of one fresh entry against its local record.
type Decision struct {
	Outcome       Outcome
	AssetsChanged bool
	NameChanged   bool
	Reason        string
}

// Decide classifies fresh against local. found reports whether a local
// record with the same idx exists.
func Decide(fresh, local catalog.Entry, found bool) Decision {
	if !found {
		return Decision{
			Outcome:       OutcomeNew,
			AssetsChanged: true,
			Reason:        "no local record",
		}
	}

	d := Decision{
		AssetsChanged: len(local.Assets) != len(fresh.Assets),
		NameChanged:   local.SanitizedName() != fresh.SanitizedName(),
	}
	switch {
	case d.AssetsChanged:
		d.Outcome = OutcomeChanged
		d.Reason = "asset count differs"
	case d.NameChanged:
		d.Outcome = OutcomeRenamed
		d.Reason = "display name differs"
	default:
		d.Outcome = OutcomeUnchanged
		d.Reason = "asset count and name match"
	}
	return d
}
