// Package verdict turns one interaction's accepted witness statements into
// reliability estimates: one per participant (how many witnesses called it
// honest) and one per witness (how often it agreed with the participant
// majority), per spec.md §4.6.
package verdict

// Statement is one witness's assertion about one participant's honesty
// during an interaction, stripped of signature and transport detail.
type Statement struct {
	WitnessDID string
	AboutDID   string
	Honest     bool
}

// Verdict is the per-interaction output: a reliability estimate in [0,1]
// for each participant witnesses spoke about, and for each witness that
// spoke.
type Verdict struct {
	ParticipantReliability map[string]float64
	WitnessReliability     map[string]float64
}

// Generate computes a Verdict from statements. participantDIDs lists the
// participants eligible for an estimate (normally the interaction's two
// participants); a participant with no statements about it gets no entry,
// leaving the caller's reputation.Map default to apply.
func Generate(statements []Statement, participantDIDs []string) Verdict {
	byParticipant := make(map[string][]Statement)
	for _, s := range statements {
		byParticipant[s.AboutDID] = append(byParticipant[s.AboutDID], s)
	}

	participantReliability := make(map[string]float64)
	majorityHonest := make(map[string]bool)
	tied := make(map[string]bool)
	for _, pid := range participantDIDs {
		stmts := byParticipant[pid]
		if len(stmts) == 0 {
			continue
		}
		honestCount := 0
		for _, s := range stmts {
			if s.Honest {
				honestCount++
			}
		}
		participantReliability[pid] = float64(honestCount) / float64(len(stmts))
		majorityHonest[pid] = honestCount*2 >= len(stmts)
		tied[pid] = honestCount*2 == len(stmts)
	}

	byWitness := make(map[string][]Statement)
	for _, s := range statements {
		byWitness[s.WitnessDID] = append(byWitness[s.WitnessDID], s)
	}

	// A tied vote counts as agreement for every witness regardless of which
	// way it voted (spec.md §4.6: ties count as agreement).
	witnessReliability := make(map[string]float64)
	for wid, stmts := range byWitness {
		agree, considered := 0, 0
		for _, s := range stmts {
			maj, ok := majorityHonest[s.AboutDID]
			if !ok {
				continue
			}
			considered++
			if tied[s.AboutDID] || s.Honest == maj {
				agree++
			}
		}
		if considered > 0 {
			witnessReliability[wid] = float64(agree) / float64(considered)
		}
	}

	return Verdict{ParticipantReliability: participantReliability, WitnessReliability: witnessReliability}
}
