package pubsub

// PubSubClient publishes and decodes MessagePack-encoded event payloads.
type PubSubClient interface {
	SendMessage(topic string, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
