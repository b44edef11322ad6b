package processor

import "sync"

const lockShards = 64

// KeyedMutex serialises work per order id over a fixed set of mutexes. Two
// ids may share a shard; that only costs parallelism.
type KeyedMutex struct {
	shards [lockShards]sync.Mutex
}

func (k *KeyedMutex) Lock(id int64) (unlock func()) {
	m := &k.shards[uint64(id)%lockShards]
	m.Lock()
	return m.Unlock
}
