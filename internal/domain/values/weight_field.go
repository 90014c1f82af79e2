package values

// WeightField names one of the three numeric columns of a batch row.
type WeightField string

const (
	// WeightTotal is the total mass of the unit.
	WeightTotal WeightField = "total"
	// WeightActive is the mass of active substance in the unit.
	WeightActive WeightField = "active-substance"
	// WeightImpurities is the mass of impurities in the unit.
	WeightImpurities WeightField = "impurities"
)

// WeightFields lists the numeric columns in row order.
func WeightFields() []WeightField {
	return []WeightField{WeightTotal, WeightActive, WeightImpurities}
}

// Column returns the zero-based row column holding this field, or -1.
func (f WeightField) Column() int {
	switch f {
	case WeightTotal:
		return 1
	case WeightActive:
		return 2
	case WeightImpurities:
		return 3
	default:
		return -1
	}
}

func (f WeightField) String() string {
	return string(f)
}
