package driving

import "github.com/custodia-labs/recall/internal/core/domain"

// ChangeFeed fans out transcript changes to interested clients.
type ChangeFeed interface {
	// Subscribe returns a channel of change events and a function that
	// unsubscribes and closes the channel.
	Subscribe() (<-chan domain.ChangeEvent, func())
}
