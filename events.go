package custody

import (
	"github.com/tendermint/tendermint/libs/common"
)

// EventData is the typed payload of an Event. Each payload knows how to
// flatten itself into key value attributes so that indexers can search
// for it without decoding the binary form.
type EventData interface {
	Attributes() []common.KVPair
}

// Event is a single entry of the audit trail produced by a successful
// operation.
//
// The topic tuple of an event is its name followed by the addresses of the
// key participants, in the order defined by the emitting operation.
type Event struct {
	// Name of the operation that produced the event, for example
	// "deposit" or "payment_received".
	Name string
	// Participants are the key addresses of this event.
	Participants []Address
	// Data carries amounts, flags and old/new values.
	Data EventData
}

// NewEvent returns an event with the given name, payload and participants.
func NewEvent(name string, data EventData, participants ...Address) Event {
	return Event{
		Name:         name,
		Participants: participants,
		Data:         data,
	}
}

// Topics returns the topic tuple of this event in its textual form.
func (e Event) Topics() []string {
	topics := make([]string, 0, len(e.Participants)+1)
	topics = append(topics, e.Name)
	for _, p := range e.Participants {
		topics = append(topics, p.String())
	}
	return topics
}

// Tags converts this event into key value pairs used for transaction
// indexing. Tag keys are prefixed with the event name.
func (e Event) Tags() []common.KVPair {
	tags := []common.KVPair{
		{Key: []byte("event"), Value: []byte(e.Name)},
	}
	for _, p := range e.Participants {
		tags = append(tags, common.KVPair{
			Key:   []byte(e.Name + ".participant"),
			Value: []byte(p.String()),
		})
	}
	if e.Data == nil {
		return tags
	}
	for _, attr := range e.Data.Attributes() {
		tags = append(tags, common.KVPair{
			Key:   append([]byte(e.Name+"."), attr.Key...),
			Value: attr.Value,
		})
	}
	return tags
}

// EventTags returns the indexing tags of all given events, in order.
func EventTags(events []Event) []common.KVPair {
	var tags []common.KVPair
	for _, e := range events {
		tags = append(tags, e.Tags()...)
	}
	return tags
}

// Attr is a helper to build a single event attribute.
func Attr(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}
