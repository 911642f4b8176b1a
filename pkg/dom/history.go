package dom

import "net/url"

// Location returns a copy of the current location.
func (d *Document) Location() *url.URL {
	u := *d.location
	return &u
}

// PushState navigates to ref (resolved against the current location) and
// records it in history. No popstate event is fired, as in the browser.
func (d *Document) PushState(ref string) error {
	u, err := d.resolve(ref)
	if err != nil {
		return err
	}
	d.location = u
	d.history = append(d.history, u.RequestURI())
	return nil
}

// ReplaceState replaces the current history entry.
func (d *Document) ReplaceState(ref string) error {
	u, err := d.resolve(ref)
	if err != nil {
		return err
	}
	d.location = u
	d.history[len(d.history)-1] = u.RequestURI()
	return nil
}

// Back pops the current history entry and fires popstate. It returns false
// when there is nothing to go back to.
func (d *Document) Back() bool {
	if len(d.history) < 2 {
		return false
	}
	d.history = d.history[:len(d.history)-1]
	u, err := d.resolve(d.history[len(d.history)-1])
	if err != nil {
		d.logger.Warn("history entry is not a valid URL", "error", err)
		return false
	}
	d.location = u
	d.DispatchEvent(d.node, NewEvent(EventPopState, false))
	return true
}

// HistoryLength returns the number of history entries.
func (d *Document) HistoryLength() int { return len(d.history) }

func (d *Document) resolve(ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return d.location.ResolveReference(r), nil
}
