package render

import "math"

type unit struct {
	scale float64
	label string
}

// lengthUnit picks a display unit so that typical lengths near ref read
// between 1 and 1000.
func lengthUnit(ref float64) unit {
	switch a := math.Abs(ref); {
	case a >= 1:
		return unit{1, "m"}
	case a >= 1e-3:
		return unit{1e3, "mm"}
	case a >= 1e-6:
		return unit{1e6, "µm"}
	default:
		return unit{1e9, "nm"}
	}
}

func frequencyUnit(ref float64) unit {
	switch a := math.Abs(ref); {
	case a >= 1e12:
		return unit{1e-12, "THz"}
	case a >= 1e9:
		return unit{1e-9, "GHz"}
	case a >= 1e6:
		return unit{1e-6, "MHz"}
	case a >= 1e3:
		return unit{1e-3, "kHz"}
	default:
		return unit{1, "Hz"}
	}
}

func timeUnit(ref float64) unit {
	switch a := math.Abs(ref); {
	case a >= 1:
		return unit{1, "s"}
	case a >= 1e-3:
		return unit{1e3, "ms"}
	case a >= 1e-6:
		return unit{1e6, "µs"}
	case a >= 1e-9:
		return unit{1e9, "ns"}
	case a >= 1e-12:
		return unit{1e12, "ps"}
	default:
		return unit{1e15, "fs"}
	}
}
