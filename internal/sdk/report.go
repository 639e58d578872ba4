package sdk

// Report is the full diagnostic picture for one kind.
type Report struct {
	Kind          Kind        `json:"kind"`
	Preferred     string      `json:"preferred,omitempty"`
	Override      string      `json:"override,omitempty"`
	OverrideValid bool        `json:"override_valid"`
	Candidates    []Candidate `json:"candidates"`
}

// Report drives AllAvailablePaths to the end. limit > 0 stops after that
// many candidates.
func (r *Resolver) Report(kind Kind, limit int) (Report, error) {
	rep := Report{Kind: kind, Candidates: []Candidate{}}

	override, err := r.UserOverride(kind)
	if err != nil {
		return rep, err
	}
	rep.Override = override
	if override != "" {
		rep.OverrideValid = r.Validate(kind, override)
	}

	for c, err := range r.AllAvailablePaths(kind) {
		if err != nil {
			return rep, err
		}
		if rep.Preferred == "" {
			rep.Preferred = c.Path
		}
		rep.Candidates = append(rep.Candidates, c)
		if limit > 0 && len(rep.Candidates) >= limit {
			break
		}
	}
	return rep, nil
}
