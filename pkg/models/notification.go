package models

import (
	"encoding/json"
	"slices"
)

// Notification is a subscription describing where, how, and on which trigger
// events to alert. Address, PublisherName and Type are all optional; any other
// fields present in the source JSON are carried opaquely in Extra so template
// expressions inside them survive round trips.
type Notification struct {
	Address       string         `json:"address,omitempty"`
	PublisherName string         `json:"publisher_name,omitempty"`
	Type          string         `json:"type,omitempty"`
	When          []string       `json:"when,omitempty"`
	Extra         map[string]any `json:"-"`
}

// reserved keys handled by the typed fields above.
var notificationFields = map[string]bool{
	"address":        true,
	"publisher_name": true,
	"type":           true,
	"when":           true,
}

type notificationAlias Notification

// MarshalJSON flattens Extra alongside the typed fields.
func (n *Notification) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal((*notificationAlias)(n))
	if err != nil {
		return nil, err
	}

	if len(n.Extra) == 0 {
		return raw, nil
	}

	flat := make(map[string]any, len(n.Extra)+len(notificationFields))

	err = json.Unmarshal(raw, &flat)
	if err != nil {
		return nil, err
	}

	for k, v := range n.Extra {
		if !notificationFields[k] {
			flat[k] = v
		}
	}

	return json.Marshal(flat)
}

// UnmarshalJSON captures unrecognized keys into Extra.
func (n *Notification) UnmarshalJSON(data []byte) error {
	err := json.Unmarshal(data, (*notificationAlias)(n))
	if err != nil {
		return err
	}

	var flat map[string]any

	err = json.Unmarshal(data, &flat)
	if err != nil {
		return err
	}

	for k := range flat {
		if notificationFields[k] {
			delete(flat, k)
		}
	}

	if len(flat) > 0 {
		n.Extra = flat
	}

	return nil
}

// HasTrigger reports whether the notification subscribes to the given trigger
// event name.
func (n *Notification) HasTrigger(name string) bool {
	return slices.Contains(n.When, name)
}

// Clone returns a copy that shares no mutable state with the receiver.
func (n *Notification) Clone() *Notification {
	dup := &Notification{
		Address:       n.Address,
		PublisherName: n.PublisherName,
		Type:          n.Type,
	}

	if n.When != nil {
		dup.When = slices.Clone(n.When)
	}

	if n.Extra != nil {
		dup.Extra = make(map[string]any, len(n.Extra))
		for k, v := range n.Extra {
			dup.Extra[k] = v
		}
	}

	return dup
}

// CloneNotifications deep-copies an ordered notification list.
func CloneNotifications(list []*Notification) []*Notification {
	if list == nil {
		return nil
	}

	out := make([]*Notification, len(list))
	for i, n := range list {
		out[i] = n.Clone()
	}

	return out
}
