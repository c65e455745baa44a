package domain

// Represents a single delivery to be carried by the vehicle.
// RequestID is zero when the request did not come from a repository.
type Request struct {
	RequestID   int
	Destination int
	Weight      int
}

// Sum of request weights.
func TotalWeight(reqs []Request) int {
	total := 0
	for _, r := range reqs {
		total += r.Weight
	}
	return total
}
