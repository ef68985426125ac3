package redisstore

// Key layout, all under the store prefix:
//
//	{prefix}:task:{id}              Hash, task fields
//	{prefix}:queue:{name}           Sorted Set of ready/delayed task IDs, score = run-at (µs)
//	{prefix}:processing:{name}      Sorted Set of claimed task IDs, score = lock expiry (µs)
//	{prefix}:dead:{id}              Hash, dead letter fields
//	{prefix}:dead_ids               Sorted Set of dead letter IDs, score = failed-at (µs)

const defaultKeyPrefix = "queue"

type keys struct {
	prefix string
}

func (k keys) taskPrefix() string { return k.prefix + ":task:" }

func (k keys) task(id string) string { return k.taskPrefix() + id }

func (k keys) queuePrefix() string { return k.prefix + ":queue:" }

func (k keys) queue(name string) string { return k.queuePrefix() + name }

func (k keys) processingPrefix() string { return k.prefix + ":processing:" }

func (k keys) processing(name string) string { return k.processingPrefix() + name }

func (k keys) deadLetter(id string) string { return k.prefix + ":dead:" + id }

func (k keys) deadLetterIDs() string { return k.prefix + ":dead_ids" }
