// Package clock abstracts the time source so that the ledger and the
// background loops are deterministic in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time {
	return time.Now()
}
