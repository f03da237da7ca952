package delay

// Features returns the dimension of observations augmented with a
// window of delaySteps actions
func Features(obsDims, actionDims, delaySteps int) int {
	return obsDims + actionDims*delaySteps
}

// Augment returns obs followed by the flattened contents of h, oldest
// action first. If h has zero capacity, obs itself is returned. Augment
// never modifies obs or h.
func Augment(obs []float32, h *History) []float32 {
	if h.Cap() == 0 {
		return obs
	}

	augmented := make([]float32, len(obs), len(obs)+h.Len())
	copy(augmented, obs)
	return h.AppendTo(augmented)
}
