package uplink

import "fmt"

// ValidateCommandMessage validates a CommandMessage.
// Returns an error if the message is invalid.
func ValidateCommandMessage(msg *CommandMessage) error {
	if msg == nil {
		return fmt.Errorf("command message is nil")
	}

	if msg.Type != "command" {
		return fmt.Errorf("invalid type: expected 'command', got '%s'", msg.Type)
	}

	if msg.Seq == 0 {
		return fmt.Errorf("invalid seq: must be greater than 0")
	}

	if msg.Line == "" {
		return fmt.Errorf("invalid line: must not be empty")
	}

	return nil
}
