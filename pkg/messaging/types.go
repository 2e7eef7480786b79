package messaging

type ChangeTopic string

const (
	GlobalPrefix = "global"

	SearchTracked ChangeTopic = "tracking"
)

// RabbitConfig names the broker and the exchange prefix events are published under.
type RabbitConfig struct {
	Url    string
	Prefix string
}

func (c RabbitConfig) PrefixOrDefault() string {
	if c.Prefix == "" {
		return GlobalPrefix
	}
	return c.Prefix
}
