package icap

// IndirectFields are the routing fields of an indirect identifier.
type IndirectFields struct {
	// Asset is always "ETH".
	Asset string
	// Institution is the four character institution code.
	Institution string
	// Client is the nine character client identifier within the institution.
	Client string
}

// Indirect returns the routing fields of an indirect identifier. ok is false
// for direct identifiers, which have no such fields.
func (id Identifier) Indirect() (fields IndirectFields, ok bool) {
	if id.form != FormIndirect {
		return IndirectFields{}, false
	}
	return IndirectFields{
		Asset:       id.value[4:7],
		Institution: id.value[7:11],
		Client:      id.value[11:],
	}, true
}
