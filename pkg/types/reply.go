package types

// Reply is an outbound message sent on a reply token. The concrete types are
// TextReply and ChoiceReply.
type Reply interface {
	isReply()
}

type TextReply struct {
	Text string
}

// ChoiceReply is a prompt with buttons. Tapping a button sends its label back
// as a text message.
type ChoiceReply struct {
	AltText string
	Text    string
	Choices []string
}

func (TextReply) isReply()   {}
func (ChoiceReply) isReply() {}
