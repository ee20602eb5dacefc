package evt

import (
	"github.com/asaskevich/EventBus"
)

const (
	// ApplicationStarted fires on start of the application. Parameter: version number, build time
	ApplicationStarted = "application:started"

	// ClientBlocked fires if the low profiling detector marks a client as suspicious. Parameter: client id
	ClientBlocked = "lowprofiling:clientBlocked"

	// ClientRejected fires for every request rejected during the cooldown of a client. Parameter: client id
	ClientRejected = "lowprofiling:clientRejected"

	// ConnectionOpened fires if a worker starts serving a connection. Parameter: client address
	ConnectionOpened = "server:connectionOpened"

	// ConnectionClosed fires if a worker finishes serving a connection. Parameter: client address
	ConnectionClosed = "server:connectionClosed"

	// RecordStoreLoaded fires once the record store is built. Parameter: record count
	RecordStoreLoaded = "zone:recordStoreLoaded"
)

// nolint
var evtBus = EventBus.New()

// Bus returns the global bus instance
func Bus() EventBus.Bus {
	return evtBus
}
