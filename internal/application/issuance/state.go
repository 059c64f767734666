package issuance

// State is a step of one issuance attempt. Issued and Rejected are terminal.
type State int

const (
	AwaitingCredentials State = iota
	ValidatingPermanent
	MintingToken
	PersistingPrimary
	PersistingSecondary
	Issued
	Rejected
)

func (s State) String() string {
	switch s {
	case AwaitingCredentials:
		return "awaiting_credentials"
	case ValidatingPermanent:
		return "validating_permanent"
	case MintingToken:
		return "minting_token"
	case PersistingPrimary:
		return "persisting_primary"
	case PersistingSecondary:
		return "persisting_secondary"
	case Issued:
		return "issued"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == Issued || s == Rejected
}
