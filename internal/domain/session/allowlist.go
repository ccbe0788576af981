package session

// Allowlist is the fixed set of addresses permitted to sign in. It is
// immutable after construction.
type Allowlist struct {
	emails []string
	set    map[string]struct{}
}

func NewAllowlist(emails []string) *Allowlist {
	a := &Allowlist{set: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		n := NormalizeEmail(e)
		if n == "" {
			continue
		}
		if _, dup := a.set[n]; dup {
			continue
		}
		a.set[n] = struct{}{}
		a.emails = append(a.emails, n)
	}
	return a
}

// Allows matches email exactly, ignoring case and surrounding space.
func (a *Allowlist) Allows(email string) bool {
	n := NormalizeEmail(email)
	if n == "" {
		return false
	}
	_, ok := a.set[n]
	return ok
}

// Emails returns a copy of the allowlist in configured order.
func (a *Allowlist) Emails() []string {
	out := make([]string, len(a.emails))
	copy(out, a.emails)
	return out
}
