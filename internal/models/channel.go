package models

import "fmt"

// Channel identifies one messaging medium. The set is closed: every
// dispatcher, sender and template shape is keyed by one of these values,
// and constructors reject anything else.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Channels lists every supported channel, in display order.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS}
}

// Valid reports whether the channel is one of the supported values.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS:
		return true
	default:
		return false
	}
}

func (c Channel) String() string {
	return string(c)
}

// ParseChannel converts a raw string into a Channel or fails.
func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	if !c.Valid() {
		return "", ErrInvalidInput(fmt.Sprintf("invalid channel: %q (must be 'email' or 'sms')", s))
	}
	return c, nil
}
