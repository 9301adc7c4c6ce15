package estimate

import (
	"errors"
	"fmt"
	"math"
)

// MaxTotalMinutes bounds the summed job and demolition time Validate accepts.
const MaxTotalMinutes = 1e9

// Validate reports negative, non-finite or oversized times and negative
// quantities. Calculate accepts such input unchanged; callers that take input
// from users should check it first.
func (in InspectionCostInput) Validate() error {
	var errs []error
	var total float64
	for i, area := range in.Areas {
		if err := checkMinutes(area.JobTime); err != nil {
			errs = append(errs, fmt.Errorf("areas[%d].jobTime %w", i, err))
		} else {
			total += area.JobTime
		}
		if area.DemolitionTime != nil {
			if err := checkMinutes(*area.DemolitionTime); err != nil {
				errs = append(errs, fmt.Errorf("areas[%d].demolitionTime %w", i, err))
			} else if area.DemolitionRequired {
				total += *area.DemolitionTime
			}
		}
	}
	if total > MaxTotalMinutes {
		errs = append(errs, fmt.Errorf("total time %g minutes exceeds %g", total, MaxTotalMinutes))
	}
	if in.DehumidifierQty < 0 {
		errs = append(errs, errors.New("dehumidifierQty must be >= 0"))
	}
	if in.AirMoverQty < 0 {
		errs = append(errs, errors.New("airMoverQty must be >= 0"))
	}
	if in.RCDBoxQty < 0 {
		errs = append(errs, errors.New("rcdBoxQty must be >= 0"))
	}
	return errors.Join(errs...)
}

func checkMinutes(v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return errors.New("must be a finite number")
	case v < 0:
		return errors.New("must be >= 0")
	case v > MaxTotalMinutes:
		return fmt.Errorf("must be <= %g", float64(MaxTotalMinutes))
	}
	return nil
}
