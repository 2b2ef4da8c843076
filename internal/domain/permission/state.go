package permission

// State is the usage-access authorization state. It is derived on every
// query; the platform can revoke access at any time.
type State string

// Authorization states.
const (
	Granted State = "granted"
	Denied  State = "denied"
)

// FromBool converts an authorizer answer to a State.
func FromBool(ok bool) State {
	if ok {
		return Granted
	}
	return Denied
}

// IsGranted reports whether access is granted.
func (s State) IsGranted() bool { return s == Granted }
