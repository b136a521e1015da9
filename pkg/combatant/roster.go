package combatant

import "fmt"

// Roster is an ordered collection of combatants, unique by
// case-insensitive name. Order is preserved so the UI can render the
// party and opposition the way the user arranged them.
type Roster []Combatant

// Find returns a pointer to the combatant matching name
// (case-insensitive), or nil.
func (r Roster) Find(name string) *Combatant {
	key := FoldKey(name)
	for i := range r {
		if FoldKey(r[i].Name) == key {
			return &r[i]
		}
	}
	return nil
}

// Contains reports whether the roster holds a combatant with the given
// name, ignoring case.
func (r Roster) Contains(name string) bool {
	return r.Find(name) != nil
}

// Add appends a combatant, rejecting duplicate names.
func (r *Roster) Add(c Combatant) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if r.Contains(c.Name) {
		return fmt.Errorf("combatant %q already exists", c.Name)
	}
	*r = append(*r, c)
	return nil
}

// Remove deletes the combatant with the given name. It returns false if
// no combatant matched.
func (r *Roster) Remove(name string) bool {
	key := FoldKey(name)
	for i := range *r {
		if FoldKey((*r)[i].Name) == key {
			*r = append((*r)[:i], (*r)[i+1:]...)
			return true
		}
	}
	return false
}

// Names returns the roster's names in order.
func (r Roster) Names() []string {
	names := make([]string, 0, len(r))
	for i := range r {
		names = append(names, r[i].Name)
	}
	return names
}
