package agent

// PostureInput carries the live facts the Legatus posture rule reads.
type PostureInput struct {
	// ResearchOnlyActive is true when any posture-holding mission has
	// posture research_only.
	ResearchOnlyActive bool
	// ActiveOutreach is true when at least one hot lead is approved for outreach.
	ActiveOutreach bool
}

// PostureStatus applies the Legatus posture rule.
// research_only anywhere forces yellow; otherwise outreach turns it green.
func PostureStatus(in PostureInput) StatusLight {
	if in.ResearchOnlyActive {
		return StatusYellow
	}
	if in.ActiveOutreach {
		return StatusGreen
	}
	return StatusYellow
}

// RecoveryStatus returns the light an agent takes when its error clears.
func RecoveryStatus(name string, in PostureInput) StatusLight {
	if name == Legatus {
		return PostureStatus(in)
	}
	return StatusGreen
}
