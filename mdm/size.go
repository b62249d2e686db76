package mdm

import (
	"math"

	"github.com/demes-go/resolve/resolveerr"
	"github.com/demes-go/resolve/scalar"
)

// SizeAt evaluates the epoch's size function at t, which must lie within
// (EndTime, StartTime]. The three functions from the resolved model's
// design:
//
//	Constant:    start_size
//	Linear:      start_size + (end_size-start_size)*(start_time-t)/(start_time-end_time)
//	Exponential: start_size * exp(ln(end_size/start_size)*(start_time-t)/(start_time-end_time))
func (e *Epoch) SizeAt(t scalar.Time) (scalar.DemeSize, error) {
	switch e.sizeFunction {
	case Constant:
		return e.startSize, nil
	case Linear:
		frac := (e.startTime.Value() - t.Value()) / (e.startTime.Value() - e.endTime.Value())
		v := e.startSize.Value() + (e.endSize.Value()-e.startSize.Value())*frac
		return scalar.NewDemeSize(v)
	case Exponential:
		frac := (e.startTime.Value() - t.Value()) / (e.startTime.Value() - e.endTime.Value())
		v := e.startSize.Value() * math.Exp(math.Log(e.endSize.Value()/e.startSize.Value())*frac)
		return scalar.NewDemeSize(v)
	default:
		return scalar.DemeSize{}, resolveerr.Newf(resolveerr.SizeError, nil, "epoch: unknown size function %v", e.sizeFunction)
	}
}

// SizeAt evaluates the deme's size at t. t must fall within the deme's
// existence window (EndTime(), StartTime()], open at the end and closed
// at the start; this also resolves the "same instant is both an epoch's
// end_time and the next epoch's start_time" boundary to the later
// (more-recent) epoch, since each epoch's own interval is
// (end_time, start_time] and only the later epoch's interval contains the
// shared point.
func (d *Deme) SizeAt(t scalar.Time) (scalar.DemeSize, error) {
	if !d.Exists(t) {
		return scalar.DemeSize{}, resolveerr.Newf(resolveerr.TimeError, nil,
			"deme %q: time %s outside existence window (%s, %s]", d.name, t, d.EndTime(), d.StartTime())
	}
	for _, e := range d.epochs {
		if t.Value() > e.endTime.Value() && t.Value() <= e.startTime.Value() {
			return e.SizeAt(t)
		}
	}
	// Unreachable: Exists(t) already guarantees some epoch covers t, since
	// stage R5 guarantees consecutive epochs abut exactly.
	return scalar.DemeSize{}, resolveerr.Newf(resolveerr.TimeError, nil, "deme %q: no epoch covers time %s", d.name, t)
}
