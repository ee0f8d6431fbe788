package match

const (
	// EngineVersion is the current version of the matching engine.
	EngineVersion = "v1.0.0"

	// SnapshotSchemaVersion is the current version of the OrderBook snapshot format.
	// Increment this when the snapshot layout changes in a backward-incompatible way.
	SnapshotSchemaVersion = 1

	// DefaultQueueCapacity is the default buffered capacity of the engine's event queue.
	DefaultQueueCapacity = 4096
)
