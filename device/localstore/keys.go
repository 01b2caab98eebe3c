// Package localstore keeps device-local durable records in Redis: the
// completion marker, the pending order hand-off, order history and the
// per-identity item counts. Keys are prefixed with a device namespace so
// several devices can share one Redis instance.
package localstore

import (
	"fmt"
	"strings"
)

type keys struct {
	ns string
}

func newKeys(namespace string) keys {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = "device"
	}
	return keys{ns: namespace}
}

func (k keys) completion(identity string, restaurantID int) string {
	return fmt.Sprintf("%s:completion:%s:%d", k.ns, identity, restaurantID)
}

func (k keys) pendingOrder() string {
	return k.ns + ":pending_order"
}

func (k keys) history(identity string) string {
	return fmt.Sprintf("%s:history:%s", k.ns, identity)
}

func (k keys) counts(identity string, restaurantID int) string {
	return fmt.Sprintf("%s:counts:%s:%d", k.ns, identity, restaurantID)
}

func (k keys) countsPattern(identity string) string {
	return fmt.Sprintf("%s:counts:%s:*", k.ns, identity)
}
