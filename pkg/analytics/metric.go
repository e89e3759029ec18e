package analytics

import "math"

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// percent returns part/whole*100, or 0 when whole is 0
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// missingFieldCount sums the quality-relevant gaps over all records
func missingFieldCount(records []NormalizedRecord) (component, owner, description int) {
	for _, r := range records {
		if r.IsMissingComponent {
			component++
		}
		if r.IsMissingOwner {
			owner++
		}
		if r.IsMissingDescription {
			description++
		}
	}
	return component, owner, description
}

// requiredFieldCount is the number of quality-relevant fields per record
const requiredFieldCount = 3

// missingRequiredPct is the combined share of missing component, owner and
// description slots over total*3 slots
func missingRequiredPct(records []NormalizedRecord) float64 {
	c, o, d := missingFieldCount(records)
	return percent(c+o+d, len(records)*requiredFieldCount)
}
